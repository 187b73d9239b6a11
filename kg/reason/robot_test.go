package reason

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgflow/kgflow/kg"
)

func TestRobotArgContract(t *testing.T) {
	args := robotArgs("/tmp/in.ttl", "/tmp/out.ttl", "hermit")
	assert.Equal(t, []string{
		"reason",
		"--input", "/tmp/in.ttl",
		"--output", "/tmp/out.ttl",
		"--create-new-ontology", "true",
		"--equivalent-classes-allowed", "all",
		"--include-indirect", "true",
		"--axiom-generators", "SubClass EquivalentClass DisjointClasses ClassAssertion PropertyAssertion",
		"--reasoner", "hermit",
	}, args)
}

func TestRobotValidate(t *testing.T) {
	var ce *kg.ConfigurationError
	assert.ErrorAs(t, NewRobotBackend("", nil).Validate(), &ce)
	assert.NoError(t, NewRobotBackend("/usr/local/bin/robot", nil).Validate())
}

// writeStub creates an executable shell script standing in for the
// robot binary.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "robot-stub.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestRobotMaterializeSuccess(t *testing.T) {
	// Arg layout: reason --input $3 --output $5 ...
	stub := writeStub(t, `cp "$3" "$5"`)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.ttl")
	out := filepath.Join(dir, "out.ttl")
	require.NoError(t, os.WriteFile(in, []byte("<http://s> <http://p> <http://o> .\n"), 0o644))

	backend := NewRobotBackend(stub, nil)
	require.NoError(t, backend.Materialize(context.Background(), in, out, "hermit"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<http://s>")
}

func TestRobotMaterializeNonzeroExit(t *testing.T) {
	stub := writeStub(t, `echo "ontology is inconsistent" >&2; exit 3`)

	backend := NewRobotBackend(stub, nil)
	err := backend.Materialize(context.Background(), "in.ttl", "out.ttl", "hermit")

	var re *kg.ReasoningError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 3, re.ExitCode)
	assert.Contains(t, re.Stderr, "ontology is inconsistent")
	assert.Equal(t, "hermit", re.Reasoner)
}

func TestRobotMaterializeMissingOutputSurfacesAsReasoningError(t *testing.T) {
	// Exits clean but never writes the output file; the bridge must
	// refuse to return an empty graph.
	stub := writeStub(t, `exit 0`)

	bridge := NewBridge(NewRobotBackend(stub, nil), Options{})
	_, err := bridge.Infer(context.Background(), inputGraph(), "hermit")

	var re *kg.ReasoningError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Error(), "no output")
}

func TestRobotEndToEndThroughBridge(t *testing.T) {
	stub := writeStub(t, `cp "$3" "$5"`)

	bridge := NewBridge(NewRobotBackend(stub, nil), Options{})
	g := inputGraph()
	result, err := bridge.Infer(context.Background(), g, "hermit")
	require.NoError(t, err)
	assert.True(t, result.ContainsAll(g))
	assert.Equal(t, g.Len(), result.Len())
}
