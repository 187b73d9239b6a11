package reason

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kgflow/kgflow/kg"
	"github.com/kgflow/kgflow/kg/turtle"
)

// Options configures a Bridge.
type Options struct {
	// Timeout bounds one reasoner invocation. Zero means no timeout.
	Timeout time.Duration
	// Cache, when non-nil, stores inferred closures keyed by graph
	// content so unchanged ontologies skip the subprocess.
	Cache *Cache
	// Logger for diagnostics; nil falls back to slog.Default().
	Logger *slog.Logger
}

// Bridge runs a reasoner backend over in-memory graphs.
type Bridge struct {
	backend Backend
	store   *turtle.Store
	cache   *Cache
	timeout time.Duration
	logger  *slog.Logger
}

// NewBridge creates a bridge for the given backend.
func NewBridge(backend Backend, opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		backend: backend,
		store:   turtle.NewStore(logger),
		cache:   opts.Cache,
		timeout: opts.Timeout,
		logger:  logger,
	}
}

// Infer computes the deductive closure of g under the named reasoner.
// The result is a new graph containing every input triple plus the
// inferred ones; g itself is never modified and remains valid for
// further use. Temporary files are reclaimed on every exit path.
func (b *Bridge) Infer(ctx context.Context, g *kg.Graph, reasoner string) (*kg.Graph, error) {
	if err := b.backend.Validate(); err != nil {
		return nil, err
	}

	key := b.cacheKey(g, reasoner)
	if b.cache != nil {
		if cached, ok, err := b.cache.Get(key); err == nil && ok {
			if result, err := turtle.Parse(cached); err == nil {
				b.logger.Debug("inference cache hit", "reasoner", reasoner, "triples", result.Len())
				return result, nil
			}
			// An unparseable entry is treated as a miss.
		}
	}

	dir, err := os.MkdirTemp("", "kgflow-reason-")
	if err != nil {
		return nil, &kg.ReasoningError{Reasoner: reasoner, ExitCode: -1, Err: err}
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "input.ttl")
	outputPath := filepath.Join(dir, "inferred.ttl")
	if err := b.store.Write(g, inputPath, turtle.WriteOptions{}); err != nil {
		return nil, err
	}

	runCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := b.backend.Materialize(runCtx, inputPath, outputPath, reasoner); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &kg.TimeoutError{Reasoner: reasoner, Timeout: b.timeout}
		}
		return nil, err
	}
	b.logger.Debug("reasoner finished", "reasoner", reasoner, "elapsed", time.Since(start))

	inferred, err := b.store.Read(outputPath)
	if err != nil {
		var nf *kg.NotFoundError
		if errors.As(err, &nf) {
			return nil, &kg.ReasoningError{
				Reasoner: reasoner,
				Err:      errors.New("reasoner produced no output file"),
			}
		}
		return nil, &kg.ReasoningError{Reasoner: reasoner, Err: err}
	}

	// The union keeps inference monotonic regardless of whether the
	// backend echoes the input axioms back.
	result := g.Union(inferred)

	if b.cache != nil {
		if data, err := turtle.Encode(result, turtle.WriteOptions{}); err == nil {
			if err := b.cache.Put(key, data); err != nil {
				b.logger.Warn("inference cache write failed", "error", err)
			}
		}
	}
	return result, nil
}

// cacheKey hashes the graph content, the reasoner name and the backend
// identity. Triples are hashed in sorted order so insertion order does
// not affect the key.
func (b *Bridge) cacheKey(g *kg.Graph, reasoner string) []byte {
	h := sha256.New()
	h.Write([]byte(b.backend.Name()))
	h.Write([]byte{0})
	h.Write([]byte(reasoner))
	h.Write([]byte{0})
	for _, t := range g.SortedTriples() {
		h.Write([]byte(t.String()))
		h.Write([]byte{'\n'})
	}
	return h.Sum(nil)
}
