package interpreter

import (
	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

// evaluateMatch tries each arm in source order. The first arm whose pattern
// matches and whose guard (if any) is truthy in the arm's binding scope wins;
// its body runs in that scope. No matching arm yields null rather than an
// error.
func (i *Interpreter) evaluateMatch(expr *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	subject, err := i.evaluateExpression(expr.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, clause := range expr.Clauses {
		scope := env.Extend()
		matched, err := i.matchPattern(clause.Pattern, subject, scope)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		if clause.Guard != nil {
			guard, err := i.evaluateExpression(clause.Guard, scope)
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(guard) {
				continue
			}
		}
		return i.evaluateStatement(clause.Body, scope)
	}
	return runtime.NullValue{}, nil
}

// matchPattern reports whether value fits pattern, defining any bindings into
// env as it goes. Bindings from a partially matched pattern are harmless: the
// caller hands in a scratch scope it abandons on failure.
func (i *Interpreter) matchPattern(pattern ast.Pattern, value runtime.Value, env *runtime.Environment) (bool, error) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.LiteralPattern:
		lit, err := i.evaluateExpression(p.Value, env)
		if err != nil {
			return false, err
		}
		return runtime.Equals(lit, value), nil
	case *ast.BindingPattern:
		env.Define(p.Name.Name, value)
		return true, nil
	case *ast.ListPattern:
		list, ok := value.(*runtime.ListValue)
		if !ok {
			return false, nil
		}
		if p.Rest == nil {
			if len(list.Elements) != len(p.Elements) {
				return false, nil
			}
		} else if len(list.Elements) < len(p.Elements) {
			return false, nil
		}
		for idx, sub := range p.Elements {
			matched, err := i.matchPattern(sub, list.Elements[idx], env)
			if err != nil || !matched {
				return false, err
			}
		}
		if p.Rest != nil {
			rest := make([]runtime.Value, len(list.Elements)-len(p.Elements))
			copy(rest, list.Elements[len(p.Elements):])
			env.Define(p.Rest.Name, runtime.NewList(rest...))
		}
		return true, nil
	case *ast.MapPattern:
		m, ok := value.(*runtime.MapValue)
		if !ok {
			return false, nil
		}
		for _, key := range p.Keys {
			val, found := m.Get(key.Name)
			if !found {
				return false, nil
			}
			env.Define(key.Name, val)
		}
		return true, nil
	default:
		return false, runtime.NewError(runtime.ErrRuntime, "unsupported pattern type: %s", pattern.NodeType())
	}
}

// bindPattern is the destructuring counterpart of matchPattern: a shape that
// does not fit is an error, not a silent miss.
func (i *Interpreter) bindPattern(pattern ast.Pattern, value runtime.Value, env *runtime.Environment) error {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return nil
	case *ast.BindingPattern:
		env.Define(p.Name.Name, value)
		return nil
	case *ast.ListPattern:
		list, ok := value.(*runtime.ListValue)
		if !ok {
			return runtime.NewError(runtime.ErrType, "cannot destructure %s as a list", value.Kind())
		}
		if p.Rest == nil {
			if len(list.Elements) != len(p.Elements) {
				return runtime.NewError(runtime.ErrType, "list pattern expects %d elements, got %d", len(p.Elements), len(list.Elements))
			}
		} else if len(list.Elements) < len(p.Elements) {
			return runtime.NewError(runtime.ErrType, "list pattern expects at least %d elements, got %d", len(p.Elements), len(list.Elements))
		}
		for idx, sub := range p.Elements {
			if err := i.bindPattern(sub, list.Elements[idx], env); err != nil {
				return err
			}
		}
		if p.Rest != nil {
			rest := make([]runtime.Value, len(list.Elements)-len(p.Elements))
			copy(rest, list.Elements[len(p.Elements):])
			env.Define(p.Rest.Name, runtime.NewList(rest...))
		}
		return nil
	case *ast.MapPattern:
		m, ok := value.(*runtime.MapValue)
		if !ok {
			return runtime.NewError(runtime.ErrType, "cannot destructure %s as a map", value.Kind())
		}
		for _, key := range p.Keys {
			val, found := m.Get(key.Name)
			if !found {
				return runtime.NewError(runtime.ErrType, "cannot destructure: map has no key '%s'", key.Name)
			}
			env.Define(key.Name, val)
		}
		return nil
	default:
		return runtime.NewError(runtime.ErrType, "cannot bind to %s", pattern.NodeType())
	}
}
