package interpreter

import (
	"math"
	"strings"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

// evaluateExpression dispatches one expression and stamps the node's
// position onto any runtime error bubbling out.
func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.execExpression(node, env)
	if rerr, ok := err.(*runtime.Error); ok {
		line, col := node.Pos()
		rerr.WithPos(line, col)
	}
	return val, err
}

func (i *Interpreter) execExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StrValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NullLiteral:
		return runtime.NullValue{}, nil
	case *ast.InterpolatedString:
		return i.evaluateInterpolation(n, env)
	case *ast.ListLiteral:
		elements := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return runtime.NewList(elements...), nil
	case *ast.MapLiteral:
		m := runtime.NewMap()
		for _, entry := range n.Entries {
			val, err := i.evaluateExpression(entry.Value, env)
			if err != nil {
				return nil, err
			}
			m.Set(entry.Key, val)
		}
		return m, nil
	case *ast.Identifier:
		return env.Get(n.Name)
	case *ast.UnaryExpression:
		return i.evaluateUnary(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinary(n, env)
	case *ast.CoalesceExpression:
		left, err := i.evaluateExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		if _, isNull := left.(runtime.NullValue); !isNull {
			return left, nil
		}
		return i.evaluateExpression(n.Right, env)
	case *ast.FieldAccess:
		return i.evaluateFieldAccess(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndex(n, env)
	case *ast.CallExpression:
		return i.evaluateCall(n, env)
	case *ast.MethodCall:
		return i.evaluateMethodCall(n, env)
	case *ast.LambdaExpression:
		return &runtime.FunctionValue{Params: n.Params, Expr: n.Body, Closure: env}, nil
	case *ast.PipeExpression:
		return i.evaluatePipe(n, env)
	case *ast.MatchExpression:
		return i.evaluateMatch(n, env)
	case *ast.TryExpression:
		return i.evaluateTry(n, env)
	case *ast.SpawnExpression:
		return i.evaluateSpawn(n, env)
	case *ast.AwaitExpression:
		return i.evaluateAwait(n, env)
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateInterpolation(expr *ast.InterpolatedString, env *runtime.Environment) (runtime.Value, error) {
	var b strings.Builder
	for _, part := range expr.Parts {
		if lit, ok := part.(*ast.StringLiteral); ok {
			b.WriteString(lit.Value)
			continue
		}
		val, err := i.evaluateExpression(part, env)
		if err != nil {
			return nil, err
		}
		b.WriteString(i.Format(val))
	}
	return runtime.StrValue{Val: b.String()}, nil
}

func (i *Interpreter) evaluateUnary(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		switch v := operand.(type) {
		case runtime.IntValue:
			return runtime.IntValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		default:
			return nil, runtime.NewError(runtime.ErrType, "unary '-' expects a number, got %s", operand.Kind())
		}
	case "not":
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinary(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	// and/or must not evaluate the right side when the left decides.
	switch expr.Operator {
	case "and":
		left, err := i.evaluateExpression(expr.Left, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(left) {
			return runtime.BoolValue{Val: false}, nil
		}
		right, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
	case "or":
		left, err := i.evaluateExpression(expr.Left, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(left) {
			return runtime.BoolValue{Val: true}, nil
		}
		right, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
	}

	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator {
	case "+", "-", "*", "/", "%":
		return evaluateArithmetic(expr.Operator, left, right)
	case "==":
		return runtime.BoolValue{Val: runtime.Equals(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equals(left, right)}, nil
	case "<", "<=", ">", ">=":
		return evaluateComparison(expr.Operator, left, right)
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "unsupported binary operator %s", expr.Operator)
	}
}

func evaluateArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	if li, lok := left.(runtime.IntValue); lok {
		if ri, rok := right.(runtime.IntValue); rok {
			return intArithmetic(op, li.Val, ri.Val)
		}
	}
	if lf, lok := asFloat(left); lok {
		if rf, rok := asFloat(right); rok {
			return floatArithmetic(op, lf, rf)
		}
	}
	if op == "+" {
		if ls, ok := left.(runtime.StrValue); ok {
			if rs, ok := right.(runtime.StrValue); ok {
				return runtime.StrValue{Val: ls.Val + rs.Val}, nil
			}
		}
		if ll, ok := left.(*runtime.ListValue); ok {
			if rl, ok := right.(*runtime.ListValue); ok {
				joined := make([]runtime.Value, 0, len(ll.Elements)+len(rl.Elements))
				joined = append(joined, ll.Elements...)
				joined = append(joined, rl.Elements...)
				return runtime.NewList(joined...), nil
			}
		}
	}
	return nil, runtime.NewError(runtime.ErrType, "unsupported operand types for '%s': %s and %s", op, left.Kind(), right.Kind())
}

func intArithmetic(op string, a, b int64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.IntValue{Val: a + b}, nil
	case "-":
		return runtime.IntValue{Val: a - b}, nil
	case "*":
		return runtime.IntValue{Val: a * b}, nil
	case "/":
		if b == 0 {
			return nil, runtime.NewError(runtime.ErrDivideByZero, "division by zero")
		}
		return runtime.IntValue{Val: a / b}, nil
	case "%":
		if b == 0 {
			return nil, runtime.NewError(runtime.ErrDivideByZero, "modulo by zero")
		}
		return runtime.IntValue{Val: a % b}, nil
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "unsupported arithmetic operator %s", op)
	}
}

func floatArithmetic(op string, a, b float64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: a + b}, nil
	case "-":
		return runtime.FloatValue{Val: a - b}, nil
	case "*":
		return runtime.FloatValue{Val: a * b}, nil
	case "/":
		if b == 0 {
			return nil, runtime.NewError(runtime.ErrDivideByZero, "division by zero")
		}
		return runtime.FloatValue{Val: a / b}, nil
	case "%":
		if b == 0 {
			return nil, runtime.NewError(runtime.ErrDivideByZero, "modulo by zero")
		}
		return runtime.FloatValue{Val: math.Mod(a, b)}, nil
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "unsupported arithmetic operator %s", op)
	}
}

func asFloat(v runtime.Value) (float64, bool) {
	switch val := v.(type) {
	case runtime.IntValue:
		return float64(val.Val), true
	case runtime.FloatValue:
		return val.Val, true
	default:
		return 0, false
	}
}

func evaluateComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	if li, lok := left.(runtime.IntValue); lok {
		if ri, rok := right.(runtime.IntValue); rok {
			return runtime.BoolValue{Val: compareOrdered(op, li.Val, ri.Val)}, nil
		}
	}
	if lf, lok := asFloat(left); lok {
		if rf, rok := asFloat(right); rok {
			return runtime.BoolValue{Val: compareOrdered(op, lf, rf)}, nil
		}
	}
	if ls, lok := left.(runtime.StrValue); lok {
		if rs, rok := right.(runtime.StrValue); rok {
			return runtime.BoolValue{Val: compareOrdered(op, ls.Val, rs.Val)}, nil
		}
	}
	return nil, runtime.NewError(runtime.ErrType, "cannot compare %s and %s with '%s'", left.Kind(), right.Kind(), op)
}

func compareOrdered[T int64 | float64 | string](op string, a, b T) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	default:
		return false
	}
}

// evaluateTry runs the body, hands any failure to the rescue block (with its
// text description bound under the rescue name), and always runs ensure on
// the way out. Control signals skip rescue but still trigger ensure.
func (i *Interpreter) evaluateTry(expr *ast.TryExpression, env *runtime.Environment) (runtime.Value, error) {
	result, err := i.evaluateBlock(expr.Body, env)

	if err != nil {
		isSignal := false
		switch err.(type) {
		case returnSignal, breakSignal, continueSignal:
			isSignal = true
		}
		if !isSignal && expr.Rescue != nil {
			rescueEnv := env.Extend()
			if expr.RescueName != nil {
				desc := runtime.AsError(err).Description()
				rescueEnv.Define(expr.RescueName.Name, runtime.StrValue{Val: desc})
			}
			result, err = i.evaluateBlock(expr.Rescue, rescueEnv)
		}
	}

	if expr.Ensure != nil {
		if _, eerr := i.evaluateBlock(expr.Ensure, env); eerr != nil {
			return nil, eerr
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateSpawn closes over the current environment, hands the block to the
// worker pool, and returns the task handle without blocking.
func (i *Interpreter) evaluateSpawn(expr *ast.SpawnExpression, env *runtime.Environment) (runtime.Value, error) {
	task := runtime.NewTask()
	body := expr.Body
	i.logger.Debug("spawn submitted")
	i.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				task.Fail(runtime.NewError(runtime.ErrRuntime, "panic in spawned block: %v", r))
			}
		}()
		val, err := i.evaluateBlock(body, env)
		if err != nil {
			if ret, ok := err.(returnSignal); ok {
				task.Resolve(ret.value)
				return
			}
			switch err.(type) {
			case breakSignal, continueSignal:
				task.Fail(runtime.NewError(runtime.ErrRuntime, "%s outside loop in spawned block", err.Error()))
			default:
				task.Fail(runtime.AsError(err))
			}
			return
		}
		task.Resolve(val)
		i.logger.Debug("spawn complete")
	})
	return task, nil
}

// evaluateAwait blocks the calling thread until the task settles and either
// returns its value or re-raises its failure as the caller's own.
func (i *Interpreter) evaluateAwait(expr *ast.AwaitExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	task, ok := val.(*runtime.TaskValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrType, "await expects a Task, got %s", val.Kind())
	}
	result, terr := task.Await()
	if terr != nil {
		// Copy so concurrent awaiters stamp positions independently.
		failure := *terr
		return nil, &failure
	}
	return result, nil
}
