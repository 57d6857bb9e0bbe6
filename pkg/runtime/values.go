package runtime

import (
	"fmt"
	"io"

	"github.com/rill-lang/rill/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindMap
	KindFun
	KindTask
)

// String reports the surface type name, as returned by type_of and rendered
// in type errors.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindStr:
		return "Str"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindFun:
		return "Fun"
	case KindTask:
		return "Task"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// SelfDescriber lets a value supply its own pipeline-trace digest in place
// of the default shape summary.
type SelfDescriber interface {
	Value
	Describe() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StrValue struct {
	Val string
}

func (v StrValue) Kind() Kind { return KindStr }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

// NewList wraps the given elements without copying.
func NewList(elements ...Value) *ListValue {
	return &ListValue{Elements: elements}
}

// MapValue keeps keys in insertion order so iteration and rendering stay
// deterministic.
type MapValue struct {
	keys    []string
	entries map[string]Value
}

func NewMap() *MapValue {
	return &MapValue{entries: make(map[string]Value)}
}

func (v *MapValue) Kind() Kind { return KindMap }

// Set inserts or replaces an entry. New keys go to the end of the order.
func (v *MapValue) Set(key string, val Value) {
	if _, ok := v.entries[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.entries[key] = val
}

// Get looks up a key, reporting whether it was present.
func (v *MapValue) Get(key string) (Value, bool) {
	val, ok := v.entries[key]
	return val, ok
}

// Delete removes a key while preserving the order of the remainder.
func (v *MapValue) Delete(key string) {
	if _, ok := v.entries[key]; !ok {
		return
	}
	delete(v.entries, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (v *MapValue) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

func (v *MapValue) Len() int {
	return len(v.keys)
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined callable together with its defining scope.
// Declarations carry a Body block; lambdas carry an Expr instead. Traced is
// set for pipeline declarations.
type FunctionValue struct {
	Name    string
	Params  []*ast.Parameter
	Body    *ast.BlockStatement
	Expr    ast.Expression
	Closure *Environment
	Traced  bool
}

func (v *FunctionValue) Kind() Kind { return KindFun }

// NativeCallContext gives native functions a view of the interpreter without
// importing it: the calling scope, the configured output sink, a callback
// for invoking rill callables, and the interpreter's display formatting.
type NativeCallContext struct {
	Env    *Environment
	Out    io.Writer
	Invoke func(callee Value, args []Value) (Value, error)
	Format func(v Value) string
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a host-provided builtin. Arity of -1 means the
// implementation validates the argument count itself.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindFun }

// NewNative is the host-side constructor for builtins. An arity of -1 lets
// the implementation validate its own argument count.
func NewNative(name string, arity int, impl NativeFunc) NativeFunctionValue {
	return NativeFunctionValue{Name: name, Arity: arity, Impl: impl}
}

//-----------------------------------------------------------------------------
// Shared helpers
//-----------------------------------------------------------------------------

// Truthy reports whether a value counts as true in a condition: null, false,
// zero numbers, the empty string, and the empty list are falsy; everything
// else (empty maps included) is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NullValue:
		return false
	case BoolValue:
		return val.Val
	case IntValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StrValue:
		return val.Val != ""
	case *ListValue:
		return len(val.Elements) > 0
	default:
		return true
	}
}

// Equals implements the structural equality used by ==, match patterns, and
// list membership. Ints compare numerically against floats; lists and maps
// compare element-wise; functions and tasks compare by identity.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return av.Val == bv.Val
		case FloatValue:
			return float64(av.Val) == bv.Val
		}
		return false
	case FloatValue:
		switch bv := b.(type) {
		case IntValue:
			return av.Val == float64(bv.Val)
		case FloatValue:
			return av.Val == bv.Val
		}
		return false
	case StrValue:
		bv, ok := b.(StrValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equals(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *MapValue:
		bv, ok := b.(*MapValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, k := range av.keys {
			other, ok := bv.Get(k)
			if !ok || !Equals(av.entries[k], other) {
				return false
			}
		}
		return true
	case *FunctionValue:
		bv, ok := b.(*FunctionValue)
		return ok && av == bv
	case NativeFunctionValue:
		bv, ok := b.(NativeFunctionValue)
		return ok && av.Name == bv.Name
	case *TaskValue:
		bv, ok := b.(*TaskValue)
		return ok && av == bv
	}
	return false
}

// MatchesType checks a declared parameter type against a value. Any accepts
// everything and Num accepts both numeric kinds; the remaining names match
// their own kind only.
func MatchesType(name string, v Value) bool {
	switch name {
	case "Any":
		return true
	case "Num":
		k := v.Kind()
		return k == KindInt || k == KindFloat
	default:
		return v.Kind().String() == name
	}
}
