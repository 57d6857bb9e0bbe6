// Package driver is the host orchestration layer shared by the CLI and the
// end-to-end tests: it loads source files, parses them, installs the
// standard library, runs programs, and renders failures for humans.
package driver

import (
	"errors"
	"fmt"
	"os"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/interpreter"
	"github.com/rill-lang/rill/pkg/parser"
	"github.com/rill-lang/rill/pkg/runtime"
	"github.com/rill-lang/rill/pkg/stdlib"
)

// Session is one configured interpreter with the standard library installed.
// A session's global environment persists across runs, which is what the
// REPL wants; batch commands use one session per file.
type Session struct {
	interp *interpreter.Interpreter
}

// NewSession builds an interpreter with the given options and installs the
// standard library into it.
func NewSession(opts ...interpreter.Option) *Session {
	interp := interpreter.New(opts...)
	stdlib.Install(interp)
	return &Session{interp: interp}
}

// Interpreter exposes the underlying interpreter for callers that need to
// register extra natives or format values.
func (s *Session) Interpreter() *interpreter.Interpreter {
	return s.interp
}

// RunSource parses and runs one source unit against the session's global
// environment. The error, if any, is a *parser.ParseError or a
// *runtime.Error.
func (s *Session) RunSource(filename, source string) (runtime.Value, error) {
	program, err := parser.Parse(filename, source)
	if err != nil {
		return nil, err
	}
	return s.interp.Run(program, nil)
}

// RunFile loads and runs a program file.
func (s *Session) RunFile(path string) (runtime.Value, error) {
	source, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.RunSource(path, source)
}

// LoadFile reads a source file into memory.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}
	return string(data), nil
}

// ParseFile loads and parses a program file without running it.
func ParseFile(path string) (*ast.Program, string, error) {
	source, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	program, err := parser.Parse(path, source)
	if err != nil {
		return nil, source, err
	}
	return program, source, nil
}

// RenderError formats a failure for the terminal: parse errors as caret
// snippets over the given source, runtime errors as kind/position/message,
// anything else verbatim.
func RenderError(err error, source string) string {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Render(source)
	}
	var runtimeErr *runtime.Error
	if errors.As(err, &runtimeErr) {
		return runtimeErr.Error()
	}
	return err.Error()
}
