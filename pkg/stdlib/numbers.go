package stdlib

import (
	"math"

	"github.com/rill-lang/rill/pkg/runtime"
)

func numberNatives() []runtime.NativeFunctionValue {
	return []runtime.NativeFunctionValue{
		runtime.NewNative("abs", 1, nativeAbs),
		runtime.NewNative("min", -1, nativeMin),
		runtime.NewNative("max", -1, nativeMax),
		runtime.NewNative("floor", 1, nativeFloor),
		runtime.NewNative("ceil", 1, nativeCeil),
		runtime.NewNative("sqrt", 1, nativeSqrt),
	}
}

func nativeAbs(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.IntValue:
		if v.Val < 0 {
			return runtime.IntValue{Val: -v.Val}, nil
		}
		return v, nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: math.Abs(v.Val)}, nil
	default:
		return nil, runtime.NewError(runtime.ErrType, "abs expects a number, got %s", args[0].Kind())
	}
}

func nativeMin(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return pickExtreme("min", args, func(a, b float64) bool { return a < b })
}

func nativeMax(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return pickExtreme("max", args, func(a, b float64) bool { return a > b })
}

// pickExtreme scans numeric arguments and keeps the winner, preserving the
// winner's original Int or Float kind.
func pickExtreme(name string, args []runtime.Value, better func(a, b float64) bool) (runtime.Value, error) {
	if len(args) == 0 {
		return nil, runtime.NewError(runtime.ErrArity, "'%s' expects at least 1 argument, got 0", name)
	}
	best := args[0]
	bestNum, _, err := wantNum(name, best)
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		num, _, err := wantNum(name, arg)
		if err != nil {
			return nil, err
		}
		if better(num, bestNum) {
			best, bestNum = arg, num
		}
	}
	return best, nil
}

func nativeFloor(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	num, _, err := wantNum("floor", args[0])
	if err != nil {
		return nil, err
	}
	return runtime.IntValue{Val: int64(math.Floor(num))}, nil
}

func nativeCeil(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	num, _, err := wantNum("ceil", args[0])
	if err != nil {
		return nil, err
	}
	return runtime.IntValue{Val: int64(math.Ceil(num))}, nil
}

func nativeSqrt(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	num, _, err := wantNum("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	if num < 0 {
		return nil, runtime.NewError(runtime.ErrRuntime, "square root of negative number")
	}
	return runtime.FloatValue{Val: math.Sqrt(num)}, nil
}

// mathModule exports constants and functions for `use math`.
func mathModule() *runtime.MapValue {
	m := runtime.NewMap()
	m.Set("pi", runtime.FloatValue{Val: math.Pi})
	m.Set("e", runtime.FloatValue{Val: math.E})
	m.Set("pow", runtime.NewNative("pow", 2, mathPow))
	m.Set("sin", runtime.NewNative("sin", 1, mathUnary("sin", math.Sin)))
	m.Set("cos", runtime.NewNative("cos", 1, mathUnary("cos", math.Cos)))
	m.Set("tan", runtime.NewNative("tan", 1, mathUnary("tan", math.Tan)))
	m.Set("log", runtime.NewNative("log", 1, mathLog))
	m.Set("round", runtime.NewNative("round", 1, mathRound))
	return m
}

func mathPow(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	base, _, err := wantNum("pow", args[0])
	if err != nil {
		return nil, err
	}
	exp, _, err := wantNum("pow", args[1])
	if err != nil {
		return nil, err
	}
	return runtime.FloatValue{Val: math.Pow(base, exp)}, nil
}

func mathUnary(name string, fn func(float64) float64) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		num, _, err := wantNum(name, args[0])
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: fn(num)}, nil
	}
}

func mathLog(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	num, _, err := wantNum("log", args[0])
	if err != nil {
		return nil, err
	}
	if num <= 0 {
		return nil, runtime.NewError(runtime.ErrRuntime, "log of non-positive number")
	}
	return runtime.FloatValue{Val: math.Log(num)}, nil
}

func mathRound(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	num, _, err := wantNum("round", args[0])
	if err != nil {
		return nil, err
	}
	return runtime.IntValue{Val: int64(math.Round(num))}, nil
}
