package reason

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Cache is a persistent store of inferred closures, keyed by a content
// hash of the input graph and reasoner. Reasoning is by far the most
// expensive step of the pipeline; caching lets repeated runs over an
// unchanged ontology skip the subprocess entirely.
type Cache struct {
	db *badger.DB
}

// OpenCache opens (or creates) a cache at the given directory.
func OpenCache(path string) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // quiet; cache misses are not interesting
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open inference cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached document for key. The second return is false
// on a miss.
func (c *Cache) Get(key []byte) ([]byte, bool, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores a document under key.
func (c *Cache) Put(key, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}
