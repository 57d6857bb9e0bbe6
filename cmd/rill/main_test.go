package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//----------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(cwd) })
}

// runCLI executes the root command against buffers instead of the real
// process streams.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

//----------------------------------------------------------------------------
// run
//----------------------------------------------------------------------------

func TestRunExecutesProgram(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "main.rill")
	writeFile(t, prog, `
show("hello from rill")
`)

	stdout, stderr, err := runCLI(t, "run", prog)
	require.NoError(t, err)
	assert.Equal(t, "hello from rill\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunRendersRuntimeErrors(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "boom.rill")
	writeFile(t, prog, `
let x = 10 / 0
`)

	_, stderr, err := runCLI(t, "run", prog)
	require.ErrorIs(t, err, errHandled)
	assert.Contains(t, stderr, "DivideByZero")
	assert.Contains(t, stderr, "division by zero")
}

func TestRunRendersParseErrors(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "bad.rill")
	writeFile(t, prog, `
let = 5
`)

	_, stderr, err := runCLI(t, "run", prog)
	require.ErrorIs(t, err, errHandled)
	assert.Contains(t, stderr, "parse error at")
	assert.Contains(t, stderr, "^")
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "run", filepath.Join(t.TempDir(), "absent.rill"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errHandled)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunNoArgumentAndNoConfig(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := runCLI(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rill.yml")
}

func TestRunPipeTraceDefaultsOn(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "pipe.rill")
	writeFile(t, prog, `
fn inc(n) { return n + 1 }
fn double(n) { return n * 2 }
show(5 |> inc |> double)
`)

	stdout, _, err := runCLI(t, "run", prog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "[trace] #0 input -> Int(5) (0s)")
	assert.Contains(t, stdout, "#2 double -> Int(12)")
	assert.Contains(t, stdout, "12\n")
}

func TestRunNoTraceFlag(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "pipe.rill")
	writeFile(t, prog, `
fn inc(n) { return n + 1 }
fn double(n) { return n * 2 }
show(5 |> inc |> double)
`)

	stdout, _, err := runCLI(t, "run", "--no-trace", prog)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "[trace]")
	assert.Equal(t, "12\n", stdout)
}

func TestRunLoopLimitFlag(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "spin.rill")
	writeFile(t, prog, `
while true {
  let x = 1
}
`)

	_, stderr, err := runCLI(t, "run", "--loop-limit", "10", prog)
	require.ErrorIs(t, err, errHandled)
	assert.Contains(t, stderr, "LoopLimit")
	assert.Contains(t, stderr, "exceeded 10 iterations")
}

//----------------------------------------------------------------------------
// rill.yml integration
//----------------------------------------------------------------------------

func TestRunUsesConfigEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rill.yml"), `
entry: main.rill
`)
	writeFile(t, filepath.Join(dir, "main.rill"), `
show("from config")
`)
	chdir(t, dir)

	stdout, _, err := runCLI(t, "run")
	require.NoError(t, err)
	assert.Equal(t, "from config\n", stdout)
}

func TestRunFindsConfigInParent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rill.yml"), `
entry: main.rill
`)
	writeFile(t, filepath.Join(dir, "main.rill"), `
show("found upward")
`)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, sub)

	stdout, _, err := runCLI(t, "run")
	require.NoError(t, err)
	assert.Equal(t, "found upward\n", stdout)
}

func TestRunFlagOverridesConfigTrace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rill.yml"), `
entry: pipe.rill
trace: false
`)
	writeFile(t, filepath.Join(dir, "pipe.rill"), `
fn inc(n) { return n + 1 }
fn double(n) { return n * 2 }
show(5 |> inc |> double)
`)
	chdir(t, dir)

	stdout, _, err := runCLI(t, "run")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "[trace]", "config should suppress tracing")

	stdout, _, err = runCLI(t, "run", "--trace")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[trace]", "--trace should win over config")
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rill.yml"), `
entry: main.txt
workers: -2
`)
	chdir(t, dir)

	_, _, err := runCLI(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must name a .rill file")
	assert.Contains(t, err.Error(), "workers must not be negative")
}

//----------------------------------------------------------------------------
// parse
//----------------------------------------------------------------------------

func TestParseSummarizesProgram(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "two.rill")
	writeFile(t, prog, `
let x = 1
let y = 2
`)

	stdout, _, err := runCLI(t, "parse", prog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 top-level statements")
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "one.rill")
	writeFile(t, prog, `
let answer = 42
`)

	stdout, _, err := runCLI(t, "parse", prog, "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"type": "Program"`)
	assert.Contains(t, stdout, `"type": "LetStatement"`)
	assert.Contains(t, stdout, `"line": 1`)
}

func TestParseRendersErrors(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "bad.rill")
	writeFile(t, prog, `
fn (
`)

	_, stderr, err := runCLI(t, "parse", prog)
	require.ErrorIs(t, err, errHandled)
	assert.Contains(t, stderr, "parse error at")
}

//----------------------------------------------------------------------------
// version
//----------------------------------------------------------------------------

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rill "+version+"\n", stdout)
}
