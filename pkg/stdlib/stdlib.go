// Package stdlib provides the native function catalog, the per-kind builtin
// methods, and the importable modules for rill programs. Everything here
// reaches the evaluator through the callable registration contract only:
// natives are plain values defined into the root environment, methods and
// modules go through the interpreter's registries.
package stdlib

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rill-lang/rill/pkg/interpreter"
	"github.com/rill-lang/rill/pkg/runtime"
)

// Install populates an interpreter with the full standard library: global
// natives, Str/List/Map methods, and the math and strings modules.
func Install(interp *interpreter.Interpreter) {
	env := interp.GlobalEnvironment()
	for _, fn := range coreNatives() {
		env.Define(fn.Name, fn)
	}
	for _, fn := range numberNatives() {
		env.Define(fn.Name, fn)
	}
	for _, m := range strMethods() {
		interp.RegisterMethod(runtime.KindStr, m)
	}
	for _, m := range listMethods() {
		interp.RegisterMethod(runtime.KindList, m)
	}
	for _, m := range mapMethods() {
		interp.RegisterMethod(runtime.KindMap, m)
	}
	interp.RegisterModule("math", mathModule())
	interp.RegisterModule("strings", stringsModule())
}

func coreNatives() []runtime.NativeFunctionValue {
	return []runtime.NativeFunctionValue{
		runtime.NewNative("show", -1, nativeShow),
		runtime.NewNative("to_text", 1, nativeToText),
		runtime.NewNative("type_of", 1, nativeTypeOf),
		runtime.NewNative("len", 1, nativeLen),
		runtime.NewNative("range", -1, nativeRange),
		runtime.NewNative("clock_ms", 0, nativeClockMs),
		runtime.NewNative("sleep_ms", 1, nativeSleepMs),
	}
}

// nativeShow prints its arguments space-separated on one line.
func nativeShow(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, ctx.Format(arg))
	}
	if _, err := ctx.Out.Write([]byte(strings.Join(parts, " ") + "\n")); err != nil {
		return nil, runtime.NewError(runtime.ErrRuntime, "show: %s", err)
	}
	return runtime.NullValue{}, nil
}

func nativeToText(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return runtime.StrValue{Val: ctx.Format(args[0])}, nil
}

func nativeTypeOf(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return runtime.StrValue{Val: args[0].Kind().String()}, nil
}

func nativeLen(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.StrValue:
		return runtime.IntValue{Val: int64(utf8.RuneCountInString(v.Val))}, nil
	case *runtime.ListValue:
		return runtime.IntValue{Val: int64(len(v.Elements))}, nil
	case *runtime.MapValue:
		return runtime.IntValue{Val: int64(v.Len())}, nil
	default:
		return nil, runtime.NewError(runtime.ErrType, "len expects Str, List, or Map, got %s", args[0].Kind())
	}
}

// nativeRange builds [start, stop) with an optional step:
// range(stop), range(start, stop), range(start, stop, step).
func nativeRange(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, runtime.NewError(runtime.ErrArity, "'range' expects 1 to 3 arguments, got %d", len(args))
	}
	bounds := make([]int64, len(args))
	for idx, arg := range args {
		iv, ok := arg.(runtime.IntValue)
		if !ok {
			return nil, runtime.NewError(runtime.ErrType, "range expects Int arguments, got %s", arg.Kind())
		}
		bounds[idx] = iv.Val
	}
	start, stop, step := int64(0), int64(0), int64(1)
	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	}
	if step == 0 {
		return nil, runtime.NewError(runtime.ErrType, "range step must not be zero")
	}
	out := runtime.NewList()
	if step > 0 {
		for v := start; v < stop; v += step {
			out.Elements = append(out.Elements, runtime.IntValue{Val: v})
		}
	} else {
		for v := start; v > stop; v += step {
			out.Elements = append(out.Elements, runtime.IntValue{Val: v})
		}
	}
	return out, nil
}

func nativeClockMs(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	return runtime.IntValue{Val: time.Now().UnixMilli()}, nil
}

func nativeSleepMs(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	ms, ok := args[0].(runtime.IntValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrType, "sleep_ms expects Int, got %s", args[0].Kind())
	}
	time.Sleep(time.Duration(ms.Val) * time.Millisecond)
	return runtime.NullValue{}, nil
}

//-----------------------------------------------------------------------------
// Argument helpers shared by the method catalogs
//-----------------------------------------------------------------------------

func wantStr(name string, v runtime.Value) (runtime.StrValue, error) {
	s, ok := v.(runtime.StrValue)
	if !ok {
		return runtime.StrValue{}, runtime.NewError(runtime.ErrType, "%s expects Str, got %s", name, v.Kind())
	}
	return s, nil
}

func wantInt(name string, v runtime.Value) (runtime.IntValue, error) {
	n, ok := v.(runtime.IntValue)
	if !ok {
		return runtime.IntValue{}, runtime.NewError(runtime.ErrType, "%s expects Int, got %s", name, v.Kind())
	}
	return n, nil
}

func wantList(name string, v runtime.Value) (*runtime.ListValue, error) {
	l, ok := v.(*runtime.ListValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrType, "%s expects List, got %s", name, v.Kind())
	}
	return l, nil
}

func wantMap(name string, v runtime.Value) (*runtime.MapValue, error) {
	m, ok := v.(*runtime.MapValue)
	if !ok {
		return nil, runtime.NewError(runtime.ErrType, "%s expects Map, got %s", name, v.Kind())
	}
	return m, nil
}

func wantCallable(name string, v runtime.Value) (runtime.Value, error) {
	if v.Kind() != runtime.KindFun {
		return nil, runtime.NewError(runtime.ErrNotCallable, "%s expects a callable, got %s", name, v.Kind())
	}
	return v, nil
}

func wantNum(name string, v runtime.Value) (float64, bool, error) {
	switch n := v.(type) {
	case runtime.IntValue:
		return float64(n.Val), true, nil
	case runtime.FloatValue:
		return n.Val, false, nil
	default:
		return 0, false, runtime.NewError(runtime.ErrType, "%s expects a number, got %s", name, v.Kind())
	}
}
