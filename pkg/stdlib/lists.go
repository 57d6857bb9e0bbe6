package stdlib

import (
	"sort"
	"strings"

	"github.com/rill-lang/rill/pkg/runtime"
)

func listMethods() []runtime.NativeFunctionValue {
	return []runtime.NativeFunctionValue{
		runtime.NewNative("map", 2, listMap),
		runtime.NewNative("filter", 2, listFilter),
		runtime.NewNative("reduce", -1, listReduce),
		runtime.NewNative("join", 2, listJoin),
		runtime.NewNative("push", 2, listPush),
		runtime.NewNative("contains", 2, listContains),
		runtime.NewNative("reverse", 1, listReverse),
		runtime.NewNative("sorted", 1, listSorted),
		runtime.NewNative("first", 1, listFirst),
		runtime.NewNative("last", 1, listLast),
	}
}

func listMap(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	fn, err := wantCallable("map", args[1])
	if err != nil {
		return nil, err
	}
	out := runtime.NewList()
	for _, el := range list.Elements {
		mapped, err := ctx.Invoke(fn, []runtime.Value{el})
		if err != nil {
			return nil, err
		}
		out.Elements = append(out.Elements, mapped)
	}
	return out, nil
}

func listFilter(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	fn, err := wantCallable("filter", args[1])
	if err != nil {
		return nil, err
	}
	out := runtime.NewList()
	for _, el := range list.Elements {
		keep, err := ctx.Invoke(fn, []runtime.Value{el})
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(keep) {
			out.Elements = append(out.Elements, el)
		}
	}
	return out, nil
}

// listReduce folds left: reduce(fn) seeds with the first element,
// reduce(fn, init) with the given accumulator.
func listReduce(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, runtime.NewError(runtime.ErrArity, "'reduce' expects 1 or 2 arguments, got %d", len(args)-1)
	}
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	fn, err := wantCallable("reduce", args[1])
	if err != nil {
		return nil, err
	}
	var acc runtime.Value
	elements := list.Elements
	if len(args) == 3 {
		acc = args[2]
	} else {
		if len(elements) == 0 {
			return nil, runtime.NewError(runtime.ErrRuntime, "reduce of empty list with no initial value")
		}
		acc = elements[0]
		elements = elements[1:]
	}
	for _, el := range elements {
		next, err := ctx.Invoke(fn, []runtime.Value{acc, el})
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

func listJoin(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := wantStr("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, len(list.Elements))
	for _, el := range list.Elements {
		parts = append(parts, ctx.Format(el))
	}
	return runtime.StrValue{Val: strings.Join(parts, sep.Val)}, nil
}

// listPush appends in place and returns the list, so pushes chain.
func listPush(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	list.Elements = append(list.Elements, args[1])
	return list, nil
}

func listContains(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	for _, el := range list.Elements {
		if runtime.Equals(el, args[1]) {
			return runtime.BoolValue{Val: true}, nil
		}
	}
	return runtime.BoolValue{Val: false}, nil
}

func listReverse(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(list.Elements))
	for idx, el := range list.Elements {
		out[len(out)-1-idx] = el
	}
	return runtime.NewList(out...), nil
}

// listSorted returns a new ascending copy. The list must be all numbers or
// all strings; anything else has no defined order.
func listSorted(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	numeric, textual := true, true
	for _, el := range list.Elements {
		switch el.Kind() {
		case runtime.KindInt, runtime.KindFloat:
			textual = false
		case runtime.KindStr:
			numeric = false
		default:
			numeric, textual = false, false
		}
	}
	if !numeric && !textual {
		return nil, runtime.NewError(runtime.ErrType, "sorted expects a list of numbers or a list of strings")
	}
	out := make([]runtime.Value, len(list.Elements))
	copy(out, list.Elements)
	if numeric {
		sort.SliceStable(out, func(a, b int) bool {
			av, _, _ := wantNum("sorted", out[a])
			bv, _, _ := wantNum("sorted", out[b])
			return av < bv
		})
	} else {
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].(runtime.StrValue).Val < out[b].(runtime.StrValue).Val
		})
	}
	return runtime.NewList(out...), nil
}

func listFirst(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	if len(list.Elements) == 0 {
		return runtime.NullValue{}, nil
	}
	return list.Elements[0], nil
}

func listLast(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	list, err := wantList("receiver", args[0])
	if err != nil {
		return nil, err
	}
	if len(list.Elements) == 0 {
		return runtime.NullValue{}, nil
	}
	return list.Elements[len(list.Elements)-1], nil
}
