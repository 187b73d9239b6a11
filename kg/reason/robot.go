package reason

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/kgflow/kgflow/kg"
)

// axiomGenerators is the fixed generator set requested from ROBOT.
const axiomGenerators = "SubClass EquivalentClass DisjointClasses ClassAssertion PropertyAssertion"

// RobotBackend invokes the ROBOT command-line tool as a subprocess.
type RobotBackend struct {
	// ExecPath is the path to the robot executable. Typically sourced
	// from the ROBOT environment variable by the caller.
	ExecPath string

	logger *slog.Logger
}

// NewRobotBackend returns a backend for the given executable path. A
// nil logger falls back to slog.Default().
func NewRobotBackend(execPath string, logger *slog.Logger) *RobotBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotBackend{ExecPath: execPath, logger: logger}
}

// Name returns "robot".
func (r *RobotBackend) Name() string { return "robot" }

// Validate fails with *kg.ConfigurationError when no executable path is
// configured.
func (r *RobotBackend) Validate() error {
	if r.ExecPath == "" {
		return &kg.ConfigurationError{Setting: "reasoner executable path (ROBOT)"}
	}
	return nil
}

// robotArgs builds the fixed argument contract of `robot reason`.
func robotArgs(inputPath, outputPath, reasoner string) []string {
	return []string{
		"reason",
		"--input", inputPath,
		"--output", outputPath,
		"--create-new-ontology", "true",
		"--equivalent-classes-allowed", "all",
		"--include-indirect", "true",
		"--axiom-generators", axiomGenerators,
		"--reasoner", reasoner,
	}
}

// Materialize runs the subprocess and checks its exit status. A nonzero
// exit yields *kg.ReasoningError carrying the captured stderr; the exit
// status is never ignored.
func (r *RobotBackend) Materialize(ctx context.Context, inputPath, outputPath, reasoner string) error {
	if err := r.Validate(); err != nil {
		return err
	}

	args := robotArgs(inputPath, outputPath, reasoner)
	r.logger.Debug("invoking reasoner", "exec", r.ExecPath, "reasoner", reasoner)

	cmd := exec.CommandContext(ctx, r.ExecPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// A context expiry kills the process; report the context error
		// so the bridge can map it to a TimeoutError.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &kg.ReasoningError{
			Reasoner: reasoner,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return nil
}
