package stdlib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/pkg/interpreter"
	"github.com/rill-lang/rill/pkg/parser"
	"github.com/rill-lang/rill/pkg/runtime"
)

func tryRun(source string) (runtime.Value, error) {
	var out bytes.Buffer
	interp := interpreter.New(interpreter.WithStdout(&out))
	Install(interp)
	program, err := parser.Parse("test.rill", source)
	if err != nil {
		return nil, err
	}
	return interp.Run(program, nil)
}

func run(t *testing.T, source string) runtime.Value {
	t.Helper()
	val, err := tryRun(source)
	require.NoError(t, err)
	return val
}

func runFail(t *testing.T, source string) *runtime.Error {
	t.Helper()
	_, err := tryRun(source)
	require.Error(t, err)
	var rerr *runtime.Error
	require.ErrorAs(t, err, &rerr)
	return rerr
}

func text(v runtime.Value) string {
	return interpreter.New().Format(v)
}

func num(n int64) runtime.IntValue { return runtime.IntValue{Val: n} }

func fl(f float64) runtime.FloatValue { return runtime.FloatValue{Val: f} }

func str(s string) runtime.StrValue { return runtime.StrValue{Val: s} }

func TestToText(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`to_text(42)`, "42"},
		{`to_text(2.0)`, "2.0"},
		{`to_text("hi")`, "hi"},
		{`to_text(null)`, "null"},
		{`to_text([1, "a"])`, `[1, "a"]`},
		{`to_text({n: 1})`, "{n: 1}"},
	}
	for _, tc := range cases {
		require.Equal(t, str(tc.want), run(t, tc.source), tc.source)
	}
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`type_of(1)`, "Int"},
		{`type_of(1.0)`, "Float"},
		{`type_of("x")`, "Str"},
		{`type_of(true)`, "Bool"},
		{`type_of(null)`, "Null"},
		{`type_of([])`, "List"},
		{`type_of({})`, "Map"},
		{`type_of(fn (x) -> x)`, "Fun"},
		{`type_of(len)`, "Fun"},
		{`type_of(spawn { 1 })`, "Task"},
	}
	for _, tc := range cases {
		require.Equal(t, str(tc.want), run(t, tc.source), tc.source)
	}
}

func TestLenCountsRunes(t *testing.T) {
	require.Equal(t, num(5), run(t, `len("héllo")`))
	require.Equal(t, num(0), run(t, `len("")`))
	require.Equal(t, num(3), run(t, `len([1, 2, 3])`))
	require.Equal(t, num(2), run(t, `len({a: 1, b: 2})`))
}

func TestLenRejectsOtherKinds(t *testing.T) {
	err := runFail(t, `len(42)`)
	require.Equal(t, runtime.ErrType, err.Kind)
	require.Equal(t, "len expects Str, List, or Map, got Int", err.Message)
}

func TestRangeForms(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`range(4)`, "[0, 1, 2, 3]"},
		{`range(0)`, "[]"},
		{`range(2, 6)`, "[2, 3, 4, 5]"},
		{`range(5, 2)`, "[]"},
		{`range(10, 0, -3)`, "[10, 7, 4, 1]"},
		{`range(0, 10, 4)`, "[0, 4, 8]"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, text(run(t, tc.source)), tc.source)
	}
}

func TestRangeErrors(t *testing.T) {
	err := runFail(t, `range()`)
	require.Equal(t, runtime.ErrArity, err.Kind)
	require.Equal(t, "'range' expects 1 to 3 arguments, got 0", err.Message)

	err = runFail(t, `range(1, 2, 3, 4)`)
	require.Equal(t, "'range' expects 1 to 3 arguments, got 4", err.Message)

	err = runFail(t, `range(1.5)`)
	require.Equal(t, runtime.ErrType, err.Kind)
	require.Equal(t, "range expects Int arguments, got Float", err.Message)

	err = runFail(t, `range(0, 10, 0)`)
	require.Equal(t, "range step must not be zero", err.Message)
}

func TestClockAdvancesAcrossSleep(t *testing.T) {
	val := run(t, `
let before = clock_ms()
sleep_ms(10)
let after = clock_ms()
after - before >= 10
`)
	require.Equal(t, runtime.BoolValue{Val: true}, val)
}

func TestSleepRequiresInt(t *testing.T) {
	err := runFail(t, `sleep_ms(1.5)`)
	require.Equal(t, runtime.ErrType, err.Kind)
	require.Equal(t, "sleep_ms expects Int, got Float", err.Message)
}

func TestUnknownMethodSuggestsFromRegistry(t *testing.T) {
	err := runFail(t, `"hi".trm()`)
	require.Equal(t, runtime.ErrProperty, err.Kind)
	require.Equal(t, "Str has no method 'trm'. Did you mean 'trim'?", err.Message)
}

func TestUnknownMethodWithoutCandidates(t *testing.T) {
	err := runFail(t, `5.frobnicate()`)
	require.Equal(t, runtime.ErrProperty, err.Kind)
	require.Equal(t, "Int has no method 'frobnicate'", err.Message)
}

// Method arity messages count caller-side arguments; the receiver slot is
// an implementation detail.
func TestMethodArityCountsCallerArguments(t *testing.T) {
	err := runFail(t, `"hi".upper(1)`)
	require.Equal(t, runtime.ErrArity, err.Kind)
	require.Equal(t, "'upper' expects 0 arguments, got 1", err.Message)

	err = runFail(t, `[1, 2].push()`)
	require.Equal(t, "'push' expects 1 arguments, got 0", err.Message)

	err = runFail(t, `"a,b".split(",", "extra")`)
	require.Equal(t, "'split' expects 1 arguments, got 2", err.Message)
}

func TestCallableMapFieldShadowsMethods(t *testing.T) {
	val := run(t, `
let m = {keys: fn () -> "mine"}
m.keys()
`)
	require.Equal(t, str("mine"), val)
}

func TestPlainMapFieldDoesNotShadowMethods(t *testing.T) {
	val := run(t, `
let m = {keys: 7}
m.keys()
`)
	require.Equal(t, `["keys"]`, text(val))
}

func TestHigherOrderMethodsRejectNonCallables(t *testing.T) {
	err := runFail(t, `[1, 2].map(5)`)
	require.Equal(t, runtime.ErrNotCallable, err.Kind)
	require.Equal(t, "map expects a callable, got Int", err.Message)
}
