package stdlib

import (
	"github.com/rill-lang/rill/pkg/runtime"
)

func mapMethods() []runtime.NativeFunctionValue {
	return []runtime.NativeFunctionValue{
		runtime.NewNative("keys", 1, mapKeys),
		runtime.NewNative("values", 1, mapValues),
		runtime.NewNative("has", 2, mapHas),
		runtime.NewNative("get", -1, mapGet),
		runtime.NewNative("merge", 2, mapMerge),
		runtime.NewNative("items", 1, mapItems),
	}
}

func mapKeys(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	m, err := wantMap("receiver", args[0])
	if err != nil {
		return nil, err
	}
	out := runtime.NewList()
	for _, key := range m.Keys() {
		out.Elements = append(out.Elements, runtime.StrValue{Val: key})
	}
	return out, nil
}

func mapValues(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	m, err := wantMap("receiver", args[0])
	if err != nil {
		return nil, err
	}
	out := runtime.NewList()
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		out.Elements = append(out.Elements, val)
	}
	return out, nil
}

func mapHas(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	m, err := wantMap("receiver", args[0])
	if err != nil {
		return nil, err
	}
	key, err := wantStr("has", args[1])
	if err != nil {
		return nil, err
	}
	_, found := m.Get(key.Val)
	return runtime.BoolValue{Val: found}, nil
}

// mapGet is the soft counterpart of index access: a missing key yields the
// fallback (or null) instead of an IndexError.
func mapGet(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, runtime.NewError(runtime.ErrArity, "'get' expects 1 or 2 arguments, got %d", len(args)-1)
	}
	m, err := wantMap("receiver", args[0])
	if err != nil {
		return nil, err
	}
	key, err := wantStr("get", args[1])
	if err != nil {
		return nil, err
	}
	if val, found := m.Get(key.Val); found {
		return val, nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return runtime.NullValue{}, nil
}

// mapMerge returns a new map with the receiver's entries overlaid by the
// argument's; neither input is touched.
func mapMerge(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	m, err := wantMap("receiver", args[0])
	if err != nil {
		return nil, err
	}
	other, err := wantMap("merge", args[1])
	if err != nil {
		return nil, err
	}
	out := runtime.NewMap()
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		out.Set(key, val)
	}
	for _, key := range other.Keys() {
		val, _ := other.Get(key)
		out.Set(key, val)
	}
	return out, nil
}

func mapItems(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	m, err := wantMap("receiver", args[0])
	if err != nil {
		return nil, err
	}
	out := runtime.NewList()
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		out.Elements = append(out.Elements, runtime.NewList(runtime.StrValue{Val: key}, val))
	}
	return out, nil
}
