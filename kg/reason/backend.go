// Package reason computes the deductive closure of a graph through an
// external OWL reasoner.
//
// The reasoner itself is a capability behind the Backend interface;
// RobotBackend is the subprocess implementation of the ROBOT CLI
// protocol. Bridge owns the surrounding protocol: serializing the graph
// to a scoped temporary file, invoking the backend, parsing the result,
// and reclaiming the temporary files on every exit path.
package reason

import "context"

// Backend materializes the inferred closure of an ontology file.
type Backend interface {
	// Name identifies the backend, e.g. "robot". Used in cache keys
	// and diagnostics.
	Name() string

	// Validate checks the backend's configuration. It is called
	// before any filesystem work so that misconfiguration fails
	// without side effects.
	Validate() error

	// Materialize reads the Turtle ontology at inputPath and writes
	// its closure, computed by the named reasoner, to outputPath.
	Materialize(ctx context.Context, inputPath, outputPath, reasoner string) error
}
