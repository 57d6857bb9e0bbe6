package stdlib

import (
	"strings"
	"unicode/utf8"

	"github.com/rill-lang/rill/pkg/runtime"
)

// strMethods is the builtin method set for Str receivers. The receiver
// arrives prepended as the first argument; arity counts it.
func strMethods() []runtime.NativeFunctionValue {
	return []runtime.NativeFunctionValue{
		runtime.NewNative("upper", 1, strUnary(strings.ToUpper)),
		runtime.NewNative("lower", 1, strUnary(strings.ToLower)),
		runtime.NewNative("trim", 1, strUnary(strings.TrimSpace)),
		runtime.NewNative("split", 2, strSplit),
		runtime.NewNative("contains", 2, strContains),
		runtime.NewNative("starts_with", 2, strStartsWith),
		runtime.NewNative("ends_with", 2, strEndsWith),
		runtime.NewNative("replace", 3, strReplace),
		runtime.NewNative("chars", 1, strChars),
	}
}

func strUnary(fn func(string) string) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		s, err := wantStr("receiver", args[0])
		if err != nil {
			return nil, err
		}
		return runtime.StrValue{Val: fn(s.Val)}, nil
	}
}

func strSplit(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("receiver", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := wantStr("split", args[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s.Val, sep.Val)
	out := runtime.NewList()
	for _, part := range parts {
		out.Elements = append(out.Elements, runtime.StrValue{Val: part})
	}
	return out, nil
}

func strContains(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("receiver", args[0])
	if err != nil {
		return nil, err
	}
	sub, err := wantStr("contains", args[1])
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: strings.Contains(s.Val, sub.Val)}, nil
}

func strStartsWith(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("receiver", args[0])
	if err != nil {
		return nil, err
	}
	prefix, err := wantStr("starts_with", args[1])
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: strings.HasPrefix(s.Val, prefix.Val)}, nil
}

func strEndsWith(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("receiver", args[0])
	if err != nil {
		return nil, err
	}
	suffix, err := wantStr("ends_with", args[1])
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: strings.HasSuffix(s.Val, suffix.Val)}, nil
}

func strReplace(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("receiver", args[0])
	if err != nil {
		return nil, err
	}
	old, err := wantStr("replace", args[1])
	if err != nil {
		return nil, err
	}
	repl, err := wantStr("replace", args[2])
	if err != nil {
		return nil, err
	}
	return runtime.StrValue{Val: strings.ReplaceAll(s.Val, old.Val, repl.Val)}, nil
}

func strChars(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("receiver", args[0])
	if err != nil {
		return nil, err
	}
	out := runtime.NewList()
	for _, r := range s.Val {
		out.Elements = append(out.Elements, runtime.StrValue{Val: string(r)})
	}
	return out, nil
}

// stringsModule exports rune-aware helpers that go beyond the method set,
// for `use strings`.
func stringsModule() *runtime.MapValue {
	m := runtime.NewMap()
	m.Set("repeat", runtime.NewNative("repeat", 2, stringsRepeat))
	m.Set("index_of", runtime.NewNative("index_of", 2, stringsIndexOf))
	m.Set("slice", runtime.NewNative("slice", 3, stringsSlice))
	m.Set("pad_start", runtime.NewNative("pad_start", 3, stringsPadStart))
	m.Set("pad_end", runtime.NewNative("pad_end", 3, stringsPadEnd))
	return m
}

func stringsRepeat(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("repeat", args[0])
	if err != nil {
		return nil, err
	}
	count, err := wantInt("repeat", args[1])
	if err != nil {
		return nil, err
	}
	if count.Val < 0 {
		return nil, runtime.NewError(runtime.ErrType, "repeat count must not be negative")
	}
	return runtime.StrValue{Val: strings.Repeat(s.Val, int(count.Val))}, nil
}

// stringsIndexOf returns the rune index of the first occurrence, or -1.
func stringsIndexOf(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("index_of", args[0])
	if err != nil {
		return nil, err
	}
	sub, err := wantStr("index_of", args[1])
	if err != nil {
		return nil, err
	}
	byteIdx := strings.Index(s.Val, sub.Val)
	if byteIdx < 0 {
		return runtime.IntValue{Val: -1}, nil
	}
	return runtime.IntValue{Val: int64(utf8.RuneCountInString(s.Val[:byteIdx]))}, nil
}

// stringsSlice takes the rune range [start, end), clamped to the string.
func stringsSlice(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	s, err := wantStr("slice", args[0])
	if err != nil {
		return nil, err
	}
	start, err := wantInt("slice", args[1])
	if err != nil {
		return nil, err
	}
	end, err := wantInt("slice", args[2])
	if err != nil {
		return nil, err
	}
	runes := []rune(s.Val)
	lo := clamp(int(start.Val), 0, len(runes))
	hi := clamp(int(end.Val), 0, len(runes))
	if lo >= hi {
		return runtime.StrValue{}, nil
	}
	return runtime.StrValue{Val: string(runes[lo:hi])}, nil
}

func stringsPadStart(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return stringsPad(args, true)
}

func stringsPadEnd(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	return stringsPad(args, false)
}

func stringsPad(args []runtime.Value, atStart bool) (runtime.Value, error) {
	s, err := wantStr("pad", args[0])
	if err != nil {
		return nil, err
	}
	width, err := wantInt("pad", args[1])
	if err != nil {
		return nil, err
	}
	fill, err := wantStr("pad", args[2])
	if err != nil {
		return nil, err
	}
	if fill.Val == "" {
		return nil, runtime.NewError(runtime.ErrType, "pad fill must not be empty")
	}
	have := utf8.RuneCountInString(s.Val)
	need := int(width.Val) - have
	if need <= 0 {
		return s, nil
	}
	fillRunes := []rune(fill.Val)
	pad := make([]rune, need)
	for idx := range pad {
		pad[idx] = fillRunes[idx%len(fillRunes)]
	}
	if atStart {
		return runtime.StrValue{Val: string(pad) + s.Val}, nil
	}
	return runtime.StrValue{Val: s.Val + string(pad)}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
