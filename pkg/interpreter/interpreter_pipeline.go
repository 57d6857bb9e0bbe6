package interpreter

import (
	"fmt"
	"time"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

// traceRow is one recorded step of a pipe chain. Rows are buffered during
// evaluation and emitted only once every stage has succeeded.
type traceRow struct {
	label   string
	digest  string
	elapsed time.Duration
}

// evaluatePipe threads a value through the chain left to right. Chains with
// at least three stages emit a timing trace after the final stage succeeds;
// shorter chains and failed chains stay silent.
func (i *Interpreter) evaluatePipe(expr *ast.PipeExpression, env *runtime.Environment) (runtime.Value, error) {
	if len(expr.Stages) == 0 {
		return nil, runtime.NewError(runtime.ErrRuntime, "empty pipe expression")
	}
	current, err := i.evaluateExpression(expr.Stages[0], env)
	if err != nil {
		return nil, err
	}

	shouldTrace := i.tracing && len(expr.Stages) >= 3
	var rows []traceRow
	if shouldTrace {
		rows = make([]traceRow, 0, len(expr.Stages))
		rows = append(rows, traceRow{label: "input", digest: i.Describe(current)})
	}

	for _, stage := range expr.Stages[1:] {
		start := time.Now()
		next, err := i.runStage(stage, current, env)
		if err != nil {
			if rerr, ok := err.(*runtime.Error); ok {
				line, col := stage.Pos()
				rerr.WithPos(line, col)
			}
			return nil, err
		}
		if shouldTrace {
			rows = append(rows, traceRow{label: stageLabel(stage), digest: i.Describe(next), elapsed: time.Since(start)})
		}
		current = next
	}

	if shouldTrace {
		i.emitPipeTrace(rows)
	}
	return current, nil
}

// runStage applies one stage to the current value. A bare name becomes a
// unary call, a call form gains the current value as a leading argument, and
// the leading-dot form dispatches a method on the current value. Anything
// else must itself evaluate to a callable, which receives the current value
// alone.
func (i *Interpreter) runStage(stage ast.Expression, current runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch s := stage.(type) {
	case *ast.Identifier:
		callee, err := env.Get(s.Name)
		if err != nil {
			return nil, err
		}
		return i.callValueIn(callee, []runtime.Value{current}, env)
	case *ast.CallExpression:
		callee, err := i.evaluateExpression(s.Callee, env)
		if err != nil {
			return nil, err
		}
		args, err := i.evaluateArguments(s.Arguments, env)
		if err != nil {
			return nil, err
		}
		withCurrent := make([]runtime.Value, 0, len(args)+1)
		withCurrent = append(withCurrent, current)
		withCurrent = append(withCurrent, args...)
		return i.callValueIn(callee, withCurrent, env)
	case *ast.MethodCall:
		if s.Receiver == nil {
			args, err := i.evaluateArguments(s.Arguments, env)
			if err != nil {
				return nil, err
			}
			return i.invokeMethod(current, s.Method.Name, args, env)
		}
	}
	callee, err := i.evaluateExpression(stage, env)
	if err != nil {
		return nil, err
	}
	return i.callValueIn(callee, []runtime.Value{current}, env)
}

func (i *Interpreter) emitPipeTrace(rows []traceRow) {
	w := i.traceWriter()
	for idx, row := range rows {
		fmt.Fprintf(w, "[trace] #%d %s -> %s (%s)\n", idx, row.label, row.digest, row.elapsed)
	}
	i.logger.Debug("pipe trace emitted", "rows", len(rows))
}

func (i *Interpreter) emitPipelineTrace(name string, result runtime.Value, elapsed time.Duration) {
	fmt.Fprintf(i.traceWriter(), "[trace] pipeline %s -> %s (%s)\n", name, i.Describe(result), elapsed)
	i.logger.Debug("pipeline trace emitted", "pipeline", name)
}

func stageLabel(stage ast.Expression) string {
	switch s := stage.(type) {
	case *ast.Identifier:
		return s.Name
	case *ast.CallExpression:
		if callee, ok := s.Callee.(*ast.Identifier); ok {
			return callee.Name + "(..)"
		}
		return "call"
	case *ast.MethodCall:
		return "." + s.Method.Name
	case *ast.FieldAccess:
		return s.Field.Name
	case *ast.LambdaExpression:
		return "lambda"
	default:
		return "stage"
	}
}
