package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		val  Value
		want bool
	}{
		{"null", NullValue{}, false},
		{"false", BoolValue{Val: false}, false},
		{"true", BoolValue{Val: true}, true},
		{"zero int", IntValue{Val: 0}, false},
		{"nonzero int", IntValue{Val: -3}, true},
		{"zero float", FloatValue{Val: 0}, false},
		{"nonzero float", FloatValue{Val: 0.5}, true},
		{"empty string", StrValue{Val: ""}, false},
		{"nonempty string", StrValue{Val: "hi"}, true},
		{"empty list", NewList(), false},
		{"nonempty list", NewList(IntValue{Val: 1}), true},
		{"empty map", NewMap(), true},
		{"task", NewTask(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Truthy(tc.val))
		})
	}
}

func TestEqualsAcrossNumericKinds(t *testing.T) {
	require.True(t, Equals(IntValue{Val: 1}, FloatValue{Val: 1.0}))
	require.True(t, Equals(FloatValue{Val: 2.5}, FloatValue{Val: 2.5}))
	require.False(t, Equals(IntValue{Val: 1}, StrValue{Val: "1"}))
}

func TestEqualsDeepCollections(t *testing.T) {
	a := NewList(IntValue{Val: 1}, NewList(StrValue{Val: "x"}))
	b := NewList(IntValue{Val: 1}, NewList(StrValue{Val: "x"}))
	require.True(t, Equals(a, b))

	c := NewList(IntValue{Val: 1}, NewList(StrValue{Val: "y"}))
	require.False(t, Equals(a, c))

	m1 := NewMap()
	m1.Set("a", IntValue{Val: 1})
	m1.Set("b", IntValue{Val: 2})
	m2 := NewMap()
	m2.Set("b", IntValue{Val: 2})
	m2.Set("a", IntValue{Val: 1})
	require.True(t, Equals(m1, m2), "map equality ignores insertion order")
}

func TestEqualsFunctionIdentity(t *testing.T) {
	f := &FunctionValue{Name: "f"}
	g := &FunctionValue{Name: "f"}
	require.True(t, Equals(f, f))
	require.False(t, Equals(f, g))
}

func TestMapValueKeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("one", IntValue{Val: 1})
	m.Set("two", IntValue{Val: 2})
	m.Set("three", IntValue{Val: 3})
	require.Equal(t, []string{"one", "two", "three"}, m.Keys())

	m.Set("two", IntValue{Val: 22})
	require.Equal(t, []string{"one", "two", "three"}, m.Keys(), "overwrite keeps position")

	m.Delete("two")
	require.Equal(t, []string{"one", "three"}, m.Keys())
	require.Equal(t, 2, m.Len())

	_, ok := m.Get("two")
	require.False(t, ok)
}

func TestMatchesType(t *testing.T) {
	require.True(t, MatchesType("Any", NullValue{}))
	require.True(t, MatchesType("Any", NewMap()))
	require.True(t, MatchesType("Num", IntValue{Val: 1}))
	require.True(t, MatchesType("Num", FloatValue{Val: 1.5}))
	require.False(t, MatchesType("Num", StrValue{Val: "1"}))
	require.True(t, MatchesType("Int", IntValue{Val: 1}))
	require.False(t, MatchesType("Int", FloatValue{Val: 1.0}))
	require.True(t, MatchesType("Fun", &FunctionValue{}))
	require.True(t, MatchesType("Fun", NativeFunctionValue{Name: "len"}))
	require.True(t, MatchesType("Task", NewTask()))
	require.False(t, MatchesType("Null", IntValue{Val: 0}))
	require.True(t, MatchesType("Null", NullValue{}))
}

func TestErrorRendering(t *testing.T) {
	err := NewError(ErrDivideByZero, "division by zero")
	require.Equal(t, "DivideByZero: division by zero", err.Error())

	err.WithPos(3, 9)
	require.Equal(t, "DivideByZero at 3:9: division by zero", err.Error())

	err.WithPos(8, 1)
	require.Equal(t, 3, err.Line, "first stamped position wins")

	require.Equal(t, "DivideByZero: division by zero", err.Description())
}
