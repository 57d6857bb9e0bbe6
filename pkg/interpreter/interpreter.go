package interpreter

import (
	"io"
	"log/slog"
	"os"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

// DefaultLoopLimit caps while-loop iterations so a runaway loop surfaces as
// a reported failure instead of a hang.
const DefaultLoopLimit = 1_000_000

// Interpreter walks rill AST nodes and evaluates them against a scope chain.
// It holds no global state: the worker pool, method registry, and module
// registry are all instance-level and injected or filled by the host.
type Interpreter struct {
	global    *runtime.Environment
	stdout    io.Writer
	traceOut  io.Writer
	tracing   bool
	logger    *slog.Logger
	loopLimit int
	pool      *runtime.WorkerPool
	methods   map[runtime.Kind]map[string]runtime.NativeFunctionValue
	modules   map[string]*runtime.MapValue
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout redirects show output (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithTraceWriter redirects pipe and pipeline traces. By default traces
// follow the stdout writer.
func WithTraceWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.traceOut = w }
}

// WithTracing enables or suppresses all trace emission (default enabled).
func WithTracing(on bool) Option {
	return func(i *Interpreter) { i.tracing = on }
}

// WithLogger sets the debug logger (default discards).
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// WithLoopLimit overrides the while-loop iteration ceiling; zero disables it.
func WithLoopLimit(n int) Option {
	return func(i *Interpreter) { i.loopLimit = n }
}

// WithWorkerPool injects the pool spawn submits to (default the process-wide
// shared pool).
func WithWorkerPool(p *runtime.WorkerPool) Option {
	return func(i *Interpreter) { i.pool = p }
}

// New returns an interpreter with an empty global environment. The host is
// expected to populate it with native callables before running programs.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:    runtime.NewEnvironment(nil),
		stdout:    os.Stdout,
		tracing:   true,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		loopLimit: DefaultLoopLimit,
		methods:   make(map[runtime.Kind]map[string]runtime.NativeFunctionValue),
		modules:   make(map[string]*runtime.MapValue),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.pool == nil {
		i.pool = runtime.SharedPool()
	}
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// RegisterMethod adds a builtin method for one value kind. Method natives
// receive the receiver prepended as their first argument.
func (i *Interpreter) RegisterMethod(kind runtime.Kind, method runtime.NativeFunctionValue) {
	bucket, ok := i.methods[kind]
	if !ok {
		bucket = make(map[string]runtime.NativeFunctionValue)
		i.methods[kind] = bucket
	}
	bucket[method.Name] = method
}

// RegisterModule makes a map of natives available to `use name`.
func (i *Interpreter) RegisterModule(name string, exports *runtime.MapValue) {
	i.modules[name] = exports
}

// Run executes a parsed program and returns the value of its last evaluated
// statement. A nil env runs against the interpreter's global environment,
// which persists across calls (the REPL relies on this).
func (i *Interpreter) Run(program *ast.Program, env *runtime.Environment) (runtime.Value, error) {
	if env == nil {
		env = i.global
	}
	var last runtime.Value = runtime.NullValue{}
	for _, stmt := range program.Statements {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			switch err.(type) {
			case returnSignal:
				return nil, runtime.NewError(runtime.ErrRuntime, "return outside function")
			case breakSignal:
				return nil, runtime.NewError(runtime.ErrRuntime, "break outside loop")
			case continueSignal:
				return nil, runtime.NewError(runtime.ErrRuntime, "continue outside loop")
			}
			return nil, err
		}
		last = val
	}
	return last, nil
}

// evaluateStatement dispatches one statement and stamps the node's position
// onto any runtime error bubbling out. Inner nodes stamp first, so the
// position closest to the failure wins.
func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.execStatement(node, env)
	if rerr, ok := err.(*runtime.Error); ok {
		line, col := node.Pos()
		rerr.WithPos(line, col)
	}
	return val, err
}

func (i *Interpreter) execStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case ast.Expression:
		return i.evaluateExpression(n, env)
	case *ast.LetStatement:
		return i.evaluateLet(n, env)
	case *ast.AssignStatement:
		return i.evaluateAssign(n, env)
	case *ast.IfStatement:
		return i.evaluateIf(n, env)
	case *ast.WhileStatement:
		return i.evaluateWhile(n, env)
	case *ast.ForStatement:
		return i.evaluateFor(n, env)
	case *ast.FunctionDecl:
		return i.evaluateFunctionDecl(n, env)
	case *ast.PipelineDecl:
		return i.evaluatePipelineDecl(n, env)
	case *ast.ReturnStatement:
		return i.evaluateReturn(n, env)
	case *ast.BreakStatement:
		return nil, breakSignal{}
	case *ast.ContinueStatement:
		return nil, continueSignal{}
	case *ast.GuardStatement:
		return i.evaluateGuard(n, env)
	case *ast.UseStatement:
		return i.evaluateUse(n, env)
	case *ast.BlockStatement:
		return i.evaluateBlock(n, env)
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "unsupported statement type: %s", node.NodeType())
	}
}

// evaluateBlock runs a statement list in a fresh child scope so declarations
// inside it do not leak. Its value is the last statement's value.
func (i *Interpreter) evaluateBlock(block *ast.BlockStatement, env *runtime.Environment) (runtime.Value, error) {
	return i.runStatements(block.Statements, env.Extend())
}

func (i *Interpreter) runStatements(stmts []ast.Statement, scope *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.NullValue{}
	for _, stmt := range stmts {
		val, err := i.evaluateStatement(stmt, scope)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) traceWriter() io.Writer {
	if i.traceOut != nil {
		return i.traceOut
	}
	return i.stdout
}

func (i *Interpreter) nativeContext(env *runtime.Environment) *runtime.NativeCallContext {
	return &runtime.NativeCallContext{
		Env:    env,
		Out:    i.stdout,
		Invoke: i.CallValue,
		Format: i.Format,
	}
}

// Control-flow signals travel the error channel but are not user-visible
// failures: return unwinds to the nearest call frame, break and continue to
// the nearest enclosing loop. Letting one escape past its boundary is a
// defect surfaced as a RuntimeError.

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }

type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }
