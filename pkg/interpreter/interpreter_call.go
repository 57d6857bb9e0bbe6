package interpreter

import (
	"time"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

// CallValue invokes any callable value with the given arguments. It is the
// entry point handed to native functions so the standard library can call
// user code (map, filter, reduce) without knowing evaluator internals.
func (i *Interpreter) CallValue(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callValueIn(callee, args, i.global)
}

func (i *Interpreter) callValueIn(callee runtime.Value, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args)
	case runtime.NativeFunctionValue:
		return i.callNative(fn, args, env)
	case *runtime.NativeFunctionValue:
		return i.callNative(*fn, args, env)
	default:
		return nil, runtime.NewError(runtime.ErrNotCallable, "%s is not callable", callee.Kind())
	}
}

func (i *Interpreter) callNative(fn runtime.NativeFunctionValue, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, runtime.NewError(runtime.ErrArity, "'%s' expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
	}
	return fn.Impl(i.nativeContext(env), args)
}

// invokeFunction binds arguments into a child of the definition environment,
// so free names resolve against the closure rather than the call site.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	name := fn.Name
	if name == "" {
		name = "lambda"
	}
	if len(args) > len(fn.Params) {
		return nil, runtime.NewError(runtime.ErrArity, "'%s' expects %d arguments, got %d", name, len(fn.Params), len(args))
	}

	callEnv := fn.Closure.Extend()
	for idx, param := range fn.Params {
		var arg runtime.Value
		switch {
		case idx < len(args):
			arg = args[idx]
		case param.Default != nil:
			val, err := i.evaluateExpression(param.Default, callEnv)
			if err != nil {
				return nil, err
			}
			arg = val
		default:
			required := 0
			for _, p := range fn.Params {
				if p.Default == nil {
					required++
				}
			}
			return nil, runtime.NewError(runtime.ErrArity, "'%s' expects %d arguments, got %d", name, required, len(args))
		}
		if param.TypeName != nil && !runtime.MatchesType(param.TypeName.Name, arg) {
			return nil, runtime.NewError(runtime.ErrType, "parameter '%s' of '%s' expects %s, got %s",
				param.Name.Name, name, param.TypeName.Name, arg.Kind())
		}
		callEnv.Define(param.Name.Name, arg)
	}

	start := time.Now()
	result, err := i.invokeBody(fn, callEnv)
	if err != nil {
		return nil, err
	}
	if fn.Traced && i.tracing {
		i.emitPipelineTrace(name, result, time.Since(start))
	}
	return result, nil
}

func (i *Interpreter) invokeBody(fn *runtime.FunctionValue, callEnv *runtime.Environment) (runtime.Value, error) {
	if fn.Expr != nil {
		return i.evaluateExpression(fn.Expr, callEnv)
	}
	_, err := i.runStatements(fn.Body.Statements, callEnv)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	// A block body without an explicit return yields null, not its last value.
	return runtime.NullValue{}, nil
}

func (i *Interpreter) evaluateCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	return i.callValueIn(callee, args, env)
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, arg := range exprs {
		val, err := i.evaluateExpression(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

func (i *Interpreter) evaluateMethodCall(expr *ast.MethodCall, env *runtime.Environment) (runtime.Value, error) {
	if expr.Receiver == nil {
		return nil, runtime.NewError(runtime.ErrRuntime, "'.%s' is only valid as a pipe stage", expr.Method.Name)
	}
	receiver, err := i.evaluateExpression(expr.Receiver, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	return i.invokeMethod(receiver, expr.Method.Name, args, env)
}

// invokeMethod resolves name against the receiver. Callable fields stored on
// a map win over the kind registry and are called without the receiver; all
// registry methods receive the receiver prepended as their first argument.
func (i *Interpreter) invokeMethod(receiver runtime.Value, name string, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if m, ok := receiver.(*runtime.MapValue); ok {
		if field, found := m.Get(name); found {
			switch field.(type) {
			case *runtime.FunctionValue, runtime.NativeFunctionValue, *runtime.NativeFunctionValue:
				return i.callValueIn(field, args, env)
			}
		}
	}
	if methods, ok := i.methods[receiver.Kind()]; ok {
		if method, found := methods[name]; found {
			// Registry arity counts the receiver slot; report without it.
			if method.Arity >= 1 && len(args) != method.Arity-1 {
				return nil, runtime.NewError(runtime.ErrArity, "'%s' expects %d arguments, got %d", name, method.Arity-1, len(args))
			}
			withReceiver := make([]runtime.Value, 0, len(args)+1)
			withReceiver = append(withReceiver, receiver)
			withReceiver = append(withReceiver, args...)
			return i.callNative(method, withReceiver, env)
		}
	}
	return nil, i.unknownMethod(receiver, name)
}

func (i *Interpreter) unknownMethod(receiver runtime.Value, name string) error {
	candidates := make([]string, 0, 16)
	if m, ok := receiver.(*runtime.MapValue); ok {
		candidates = append(candidates, m.Keys()...)
	}
	for methodName := range i.methods[receiver.Kind()] {
		candidates = append(candidates, methodName)
	}
	if hint, ok := runtime.Closest(name, candidates); ok {
		return runtime.NewError(runtime.ErrProperty, "%s has no method '%s'. Did you mean '%s'?", receiver.Kind(), name, hint)
	}
	return runtime.NewError(runtime.ErrProperty, "%s has no method '%s'", receiver.Kind(), name)
}
