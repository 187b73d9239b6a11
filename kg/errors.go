package kg

import (
	"fmt"
	"time"
)

// The error taxonomy for the pipeline. Every failure is reported to
// the immediate caller as one of these types; no component downgrades
// a failure to an empty or default value.

// NotFoundError reports a missing input file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ParseError reports syntactically invalid Turtle input.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// QueryError reports malformed or unsupported SPARQL. It carries the
// offending query text.
type QueryError struct {
	Query string
	Msg   string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s\nquery was: %s", e.Msg, e.Query)
}

// ConfigurationError reports missing required configuration, such as
// the reasoner executable path.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Setting)
}

// ReasoningError reports a failed reasoner invocation: a nonzero exit
// status, or output that is missing or unparseable. Stderr carries the
// captured diagnostic output of the subprocess.
type ReasoningError struct {
	Reasoner string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ReasoningError) Error() string {
	msg := fmt.Sprintf("reasoner %q failed (exit %d)", e.Reasoner, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *ReasoningError) Unwrap() error { return e.Err }

// TimeoutError reports that a reasoner invocation exceeded its
// configured budget and was terminated.
type TimeoutError struct {
	Reasoner string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("reasoner %q timed out after %s", e.Reasoner, e.Timeout)
}

// WriteError reports a serialization or I/O failure while writing a
// graph.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
