package interpreter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/runtime"
)

func TestFormatScalars(t *testing.T) {
	i := New()
	cases := []struct {
		name string
		in   runtime.Value
		want string
	}{
		{"null", runtime.NullValue{}, "null"},
		{"bool", runtime.BoolValue{Val: true}, "true"},
		{"int", runtime.IntValue{Val: 42}, "42"},
		{"negative int", runtime.IntValue{Val: -7}, "-7"},
		{"whole float keeps a decimal", runtime.FloatValue{Val: 2}, "2.0"},
		{"fractional float", runtime.FloatValue{Val: 2.5}, "2.5"},
		{"small float", runtime.FloatValue{Val: -0.25}, "-0.25"},
		{"string stays bare", runtime.StrValue{Val: "plain text"}, "plain text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, i.Format(tc.in))
		})
	}
}

func TestFormatQuotesStringsInsideContainers(t *testing.T) {
	i := New()

	list := runtime.NewList(
		runtime.IntValue{Val: 1},
		runtime.StrValue{Val: "a"},
		runtime.NullValue{},
	)
	require.Equal(t, `[1, "a", null]`, i.Format(list))

	nested := runtime.NewList(runtime.NewList(runtime.StrValue{Val: "x"}))
	require.Equal(t, `[["x"]]`, i.Format(nested))

	m := runtime.NewMap()
	m.Set("greeting", runtime.StrValue{Val: "hi"})
	m.Set("n", runtime.IntValue{Val: 1})
	require.Equal(t, `{greeting: "hi", n: 1}`, i.Format(m))

	require.Equal(t, "[]", i.Format(runtime.NewList()))
	require.Equal(t, "{}", i.Format(runtime.NewMap()))
}

func TestFormatFunctions(t *testing.T) {
	i := New()
	require.Equal(t, "<lambda>", i.Format(&runtime.FunctionValue{}))
	require.Equal(t, "<fun inc>", i.Format(&runtime.FunctionValue{Name: "inc"}))
	require.Equal(t, "<native len>", i.Format(runtime.NewNative("len", 1, nil)))
}

func TestDescribeScalars(t *testing.T) {
	i := New()
	cases := []struct {
		name string
		in   runtime.Value
		want string
	}{
		{"null", runtime.NullValue{}, "Null"},
		{"bool", runtime.BoolValue{Val: true}, "Bool(true)"},
		{"int", runtime.IntValue{Val: 5}, "Int(5)"},
		{"whole float", runtime.FloatValue{Val: 2}, "Float(2.0)"},
		{"fractional float", runtime.FloatValue{Val: 2.5}, "Float(2.5)"},
		{"short string", runtime.StrValue{Val: "hi"}, `Str("hi")`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, i.Describe(tc.in))
		})
	}
}

func TestDescribeTruncatesLongStrings(t *testing.T) {
	i := New()

	exact := strings.Repeat("x", 24)
	require.Equal(t, `Str("`+exact+`")`, i.Describe(runtime.StrValue{Val: exact}))

	long := strings.Repeat("x", 30)
	require.Equal(t, `Str("`+exact+`...")`, i.Describe(runtime.StrValue{Val: long}))

	// Truncation counts runes, not bytes.
	accented := strings.Repeat("é", 30)
	want := `Str("` + strings.Repeat("é", 24) + `...")`
	require.Equal(t, want, i.Describe(runtime.StrValue{Val: accented}))
}

func TestDescribeListShapes(t *testing.T) {
	i := New()

	require.Equal(t, "List<0>", i.Describe(runtime.NewList()))

	ints := runtime.NewList(runtime.IntValue{Val: 1}, runtime.IntValue{Val: 2}, runtime.IntValue{Val: 3})
	require.Equal(t, "List<3 Int>", i.Describe(ints))

	strs := runtime.NewList(runtime.StrValue{Val: "a"})
	require.Equal(t, "List<1 Str>", i.Describe(strs))

	mixed := runtime.NewList(runtime.IntValue{Val: 1}, runtime.StrValue{Val: "a"})
	require.Equal(t, "List<2 mixed>", i.Describe(mixed))
}

func TestDescribeMapShapes(t *testing.T) {
	i := New()

	empty := runtime.NewMap()
	require.Equal(t, "Map{0 keys}", i.Describe(empty))

	one := runtime.NewMap()
	one.Set("a", runtime.IntValue{Val: 1})
	require.Equal(t, "Map{1 key}", i.Describe(one))

	three := runtime.NewMap()
	three.Set("a", runtime.IntValue{Val: 1})
	three.Set("b", runtime.IntValue{Val: 2})
	three.Set("c", runtime.IntValue{Val: 3})
	require.Equal(t, "Map{3 keys}", i.Describe(three))
}

func TestDescribeFunctionsAndTasks(t *testing.T) {
	i := New()

	require.Equal(t, "Fun(lambda)", i.Describe(&runtime.FunctionValue{}))
	require.Equal(t, "Fun(inc)", i.Describe(&runtime.FunctionValue{Name: "inc"}))
	require.Equal(t, "Fun(len)", i.Describe(runtime.NewNative("len", 1, nil)))

	pending := runtime.NewTask()
	require.Equal(t, "Task(pending)", i.Describe(pending))

	done := runtime.NewTask()
	done.Resolve(runtime.IntValue{Val: 1})
	require.Equal(t, "Task(done)", i.Describe(done))

	failed := runtime.NewTask()
	failed.Fail(runtime.NewError(runtime.ErrRuntime, "boom"))
	require.Equal(t, "Task(failed)", i.Describe(failed))
}

func TestStageLabels(t *testing.T) {
	cases := []struct {
		name  string
		stage ast.Expression
		want  string
	}{
		{"bare name", ast.NewIdentifier("inc"), "inc"},
		{"named call", ast.NewCallExpression(ast.NewIdentifier("add"), []ast.Expression{ast.NewIntegerLiteral(1)}), "add(..)"},
		{"computed call", ast.NewCallExpression(ast.NewIndexExpression(ast.NewIdentifier("fns"), ast.NewIntegerLiteral(0)), nil), "call"},
		{"method", ast.NewMethodCall(nil, ast.NewIdentifier("trim"), nil), ".trim"},
		{"field", ast.NewFieldAccess(ast.NewIdentifier("ops"), ast.NewIdentifier("square")), "square"},
		{"lambda", ast.NewLambdaExpression(nil, ast.NewIntegerLiteral(1)), "lambda"},
		{"anything else", ast.NewIntegerLiteral(9), "stage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, stageLabel(tc.stage))
		})
	}
}
