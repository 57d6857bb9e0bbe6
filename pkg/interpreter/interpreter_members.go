package interpreter

import (
	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

func (i *Interpreter) evaluateFieldAccess(expr *ast.FieldAccess, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	name := expr.Field.Name
	m, ok := object.(*runtime.MapValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrProperty, "%s has no field '%s'", object.Kind(), name)
	}
	if val, found := m.Get(name); found {
		return val, nil
	}
	if hint, ok := runtime.Closest(name, m.Keys()); ok {
		return nil, runtime.NewError(runtime.ErrProperty, "Map has no field '%s'. Did you mean '%s'?", name, hint)
	}
	return nil, runtime.NewError(runtime.ErrProperty, "Map has no field '%s'", name)
}

func (i *Interpreter) evaluateIndex(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}

	switch obj := object.(type) {
	case *runtime.ListValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrType, "list index must be Int, got %s", index.Kind())
		}
		if idx.Val < 0 || idx.Val >= int64(len(obj.Elements)) {
			return nil, runtime.NewError(runtime.ErrIndex, "list index %d out of range (len %d)", idx.Val, len(obj.Elements))
		}
		return obj.Elements[idx.Val], nil
	case *runtime.MapValue:
		key, ok := index.(runtime.StrValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrType, "map key must be Str, got %s", index.Kind())
		}
		if val, found := obj.Get(key.Val); found {
			return val, nil
		}
		if hint, ok := runtime.Closest(key.Val, obj.Keys()); ok {
			return nil, runtime.NewError(runtime.ErrIndex, "map has no key '%s'. Did you mean '%s'?", key.Val, hint)
		}
		return nil, runtime.NewError(runtime.ErrIndex, "map has no key '%s'", key.Val)
	case runtime.StrValue:
		idx, ok := index.(runtime.IntValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrType, "string index must be Int, got %s", index.Kind())
		}
		runes := []rune(obj.Val)
		if idx.Val < 0 || idx.Val >= int64(len(runes)) {
			return nil, runtime.NewError(runtime.ErrIndex, "string index %d out of range (len %d)", idx.Val, len(runes))
		}
		return runtime.StrValue{Val: string(runes[idx.Val])}, nil
	default:
		return nil, runtime.NewError(runtime.ErrType, "%s is not indexable", object.Kind())
	}
}
