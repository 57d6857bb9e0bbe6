package interpreter

import (
	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

func (i *Interpreter) evaluateLet(stmt *ast.LetStatement, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	if err := i.bindPattern(stmt.Target, value, env); err != nil {
		return nil, err
	}
	return runtime.NullValue{}, nil
}

func (i *Interpreter) evaluateAssign(stmt *ast.AssignStatement, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}

	switch target := stmt.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Name, value); err != nil {
			return nil, err
		}
	case *ast.IndexExpression:
		obj, err := i.evaluateExpression(target.Object, env)
		if err != nil {
			return nil, err
		}
		idx, err := i.evaluateExpression(target.Index, env)
		if err != nil {
			return nil, err
		}
		if err := setIndex(obj, idx, value); err != nil {
			return nil, err
		}
	case *ast.FieldAccess:
		obj, err := i.evaluateExpression(target.Object, env)
		if err != nil {
			return nil, err
		}
		m, ok := obj.(*runtime.MapValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrType, "cannot assign field '%s' on %s", target.Field.Name, obj.Kind())
		}
		m.Set(target.Field.Name, value)
	default:
		return nil, runtime.NewError(runtime.ErrRuntime, "invalid assignment target %s", target.NodeType())
	}
	return value, nil
}

func setIndex(obj, idx, value runtime.Value) error {
	switch v := obj.(type) {
	case *runtime.ListValue:
		iv, ok := idx.(runtime.IntValue)
		if !ok {
			return runtime.NewError(runtime.ErrType, "list index must be Int, got %s", idx.Kind())
		}
		n := int(iv.Val)
		if n < 0 || n >= len(v.Elements) {
			return runtime.NewError(runtime.ErrIndex, "list index %d out of range (len %d)", n, len(v.Elements))
		}
		v.Elements[n] = value
		return nil
	case *runtime.MapValue:
		sv, ok := idx.(runtime.StrValue)
		if !ok {
			return runtime.NewError(runtime.ErrType, "map key must be Str, got %s", idx.Kind())
		}
		v.Set(sv.Val, value)
		return nil
	default:
		return runtime.NewError(runtime.ErrType, "%s does not support index assignment", obj.Kind())
	}
}

// evaluateIf picks exactly one body: the if branch, the first truthy elif
// (nested in Else), or the else branch. Its value is the chosen body's value.
func (i *Interpreter) evaluateIf(stmt *ast.IfStatement, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(stmt.Cond, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evaluateBlock(stmt.Then, env)
	}
	if stmt.Else != nil {
		return i.evaluateStatement(stmt.Else, env)
	}
	return runtime.NullValue{}, nil
}

func (i *Interpreter) evaluateWhile(stmt *ast.WhileStatement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.NullValue{}
	iterations := 0
	for {
		cond, err := i.evaluateExpression(stmt.Cond, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return result, nil
		}
		iterations++
		if i.loopLimit > 0 && iterations > i.loopLimit {
			i.logger.Debug("loop ceiling hit", "limit", i.loopLimit)
			return nil, runtime.NewError(runtime.ErrLoopLimit, "while loop exceeded %d iterations", i.loopLimit)
		}
		val, err := i.evaluateBlock(stmt.Body, env)
		if err != nil {
			switch err.(type) {
			case breakSignal:
				return runtime.NullValue{}, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
		result = val
	}
}

func (i *Interpreter) evaluateFor(stmt *ast.ForStatement, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evaluateExpression(stmt.Iterable, env)
	if err != nil {
		return nil, err
	}

	var elements []runtime.Value
	switch it := iterable.(type) {
	case *runtime.ListValue:
		elements = it.Elements
	case runtime.StrValue:
		runes := []rune(it.Val)
		elements = make([]runtime.Value, len(runes))
		for idx, r := range runes {
			elements[idx] = runtime.StrValue{Val: string(r)}
		}
	case *runtime.MapValue:
		keys := it.Keys()
		elements = make([]runtime.Value, len(keys))
		for idx, k := range keys {
			elements[idx] = runtime.StrValue{Val: k}
		}
	default:
		return nil, runtime.NewError(runtime.ErrType, "for loop cannot iterate over %s", iterable.Kind())
	}

	var result runtime.Value = runtime.NullValue{}
	for _, el := range elements {
		iterEnv := env.Extend()
		iterEnv.Define(stmt.Name.Name, el)
		val, err := i.evaluateBlock(stmt.Body, iterEnv)
		if err != nil {
			switch err.(type) {
			case breakSignal:
				return runtime.NullValue{}, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateFunctionDecl(stmt *ast.FunctionDecl, env *runtime.Environment) (runtime.Value, error) {
	fn := &runtime.FunctionValue{
		Name:    stmt.Name.Name,
		Params:  stmt.Params,
		Body:    stmt.Body,
		Closure: env,
	}
	env.Define(stmt.Name.Name, fn)
	return runtime.NullValue{}, nil
}

func (i *Interpreter) evaluatePipelineDecl(stmt *ast.PipelineDecl, env *runtime.Environment) (runtime.Value, error) {
	fn := &runtime.FunctionValue{
		Name:    stmt.Name.Name,
		Params:  stmt.Params,
		Body:    stmt.Body,
		Closure: env,
		Traced:  true,
	}
	env.Define(stmt.Name.Name, fn)
	return runtime.NullValue{}, nil
}

func (i *Interpreter) evaluateReturn(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.NullValue{}
	if stmt.Value != nil {
		val, err := i.evaluateExpression(stmt.Value, env)
		if err != nil {
			return nil, err
		}
		value = val
	}
	return nil, returnSignal{value: value}
}

func (i *Interpreter) evaluateGuard(stmt *ast.GuardStatement, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.evaluateExpression(stmt.Cond, env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return runtime.NullValue{}, nil
	}
	message := "Guard assertion failed"
	if stmt.Message != nil {
		val, err := i.evaluateExpression(stmt.Message, env)
		if err != nil {
			return nil, err
		}
		message = i.Format(val)
	}
	return nil, runtime.NewError(runtime.ErrGuard, "%s", message)
}

func (i *Interpreter) evaluateUse(stmt *ast.UseStatement, env *runtime.Environment) (runtime.Value, error) {
	name := stmt.Name.Name
	mod, ok := i.modules[name]
	if !ok {
		names := make([]string, 0, len(i.modules))
		for n := range i.modules {
			names = append(names, n)
		}
		msg := "no module named '" + name + "'"
		if closest, ok := runtime.Closest(name, names); ok {
			msg += ". Did you mean '" + closest + "'?"
		}
		return nil, runtime.NewError(runtime.ErrImport, "%s", msg)
	}
	env.Define(name, mod)
	i.logger.Debug("module loaded", "module", name)
	return runtime.NullValue{}, nil
}
