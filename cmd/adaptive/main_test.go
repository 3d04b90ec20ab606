package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/adaptive/internal/bench"
	"github.com/funvibe/adaptive/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig puts an adaptive.yaml in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adaptive.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color", "--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, writeConfig(t, ""), "list")
	require.NoError(t, err)
	for _, name := range bench.Names() {
		assert.Contains(t, out, name)
	}
}

func TestRunText(t *testing.T) {
	out, err := execute(t, writeConfig(t, ""), "run", "fib")
	require.NoError(t, err)
	assert.Contains(t, out, "fib => 17711")
	assert.Contains(t, out, "call_cache_hit")
	assert.Contains(t, out, "Cached")
}

func TestRunYAML(t *testing.T) {
	out, err := execute(t, writeConfig(t, ""), "run", "lists", "--format", "yaml")
	require.NoError(t, err)

	snap, err := profile.ParseYAML([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "lists", snap.Program)
	assert.Equal(t, "[21, 2.5, 0, 0, 19]", snap.Result)
	assert.Positive(t, snap.Counters["storage_generalized"])
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, writeConfig(t, ""), "run", "shapes", "-f", "json")
	require.NoError(t, err)

	snap, err := profile.ParseJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "136.5", snap.Result)
	assert.Positive(t, snap.Counters["field_generalized"])
}

func TestInliningFromConfig(t *testing.T) {
	cfg := writeConfig(t, "inlining:\n  enabled: true\n  threshold: 2\n")
	out, err := execute(t, cfg, "run", "rebind", "--format", "yaml")
	require.NoError(t, err)

	snap, err := profile.ParseYAML([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.Counters["call_inlined"])
	assert.Positive(t, snap.Counters["call_invalidated"])
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := writeConfig(t, "inlining:\n  enabled: true\n  threshold: 2\n")
	out, err := execute(t, cfg, "run", "rebind", "--inline=false", "--format", "yaml")
	require.NoError(t, err)

	snap, err := profile.ParseYAML([]byte(out))
	require.NoError(t, err)
	assert.Zero(t, snap.Counters["call_inlined"])
}

func TestRunSavesHistory(t *testing.T) {
	cfg := writeConfig(t, "")
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, cfg, "run", "fib", "factorial", "--db", db, "--format", "yaml")
	require.NoError(t, err)
	docs := strings.Split(out, "---\n")
	require.Len(t, docs, 2)
	fact, err := profile.ParseYAML([]byte(docs[1]))
	require.NoError(t, err)

	out, err = execute(t, cfg, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "fib")
	assert.Contains(t, out, "2432902008176640000")

	out, err = execute(t, cfg, "history", "--db", db, "--run", fact.RunID.String(), "-f", "json")
	require.NoError(t, err)
	got, err := profile.ParseJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, fact.RunID, got.RunID)
	assert.Equal(t, "factorial", got.Program)

	out, err = execute(t, cfg, "history", "factorial", "--db", db, "-f", "yaml")
	require.NoError(t, err)
	assert.NotContains(t, out, "program: fib")
}

func TestDatabaseFromConfig(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	cfg := writeConfig(t, "profile:\n  database: "+db+"\n")

	_, err := execute(t, cfg, "run", "numeric")
	require.NoError(t, err)

	out, err := execute(t, cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "[4950.5, 45.5]")
}

func TestRunErrors(t *testing.T) {
	cfg := writeConfig(t, "")

	_, err := execute(t, cfg, "run", "nope")
	assert.ErrorContains(t, err, `unknown program "nope"`)

	_, err = execute(t, cfg, "run", "fib", "--format", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, cfg, "run", "fib", "--repeat", "0")
	assert.ErrorContains(t, err, "--repeat")

	_, err = execute(t, cfg, "history")
	assert.ErrorContains(t, err, "no profile database")

	_, err = execute(t, writeConfig(t, "inlining:\n  threshold: -1\n"), "list")
	assert.ErrorContains(t, err, "inlining.threshold")
}

func TestRepeatReusesTree(t *testing.T) {
	out, err := execute(t, writeConfig(t, ""), "run", "fib", "-n", "3", "-f", "yaml")
	require.NoError(t, err)

	snap, err := profile.ParseYAML([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "17711", snap.Result)
	// the second run rebinds fib and invalidates both recursive sites
	recursive := 0
	for _, s := range snap.Sites {
		if strings.HasPrefix(s.Name, "fib((n") {
			recursive++
			assert.Equal(t, "Megamorphic", s.State)
		}
	}
	assert.Equal(t, 2, recursive)
}

func TestShow(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, cfg, "show", "fib")
	require.NoError(t, err)
	assert.Contains(t, out, "def fib(n):")
	assert.Contains(t, out, "return fib(n - 1) + fib(n - 2)")

	out, err = execute(t, cfg, "show", "fib", "--annotate")
	require.NoError(t, err)
	assert.Contains(t, out, "fib(n<Int> - 1)<Cached>")

	out, err = execute(t, cfg, "show", "shapes", "-a")
	require.NoError(t, err)
	assert.Contains(t, out, "p<Object>.x<Object>")

	_, err = execute(t, cfg, "show", "nope")
	assert.Error(t, err)
}
