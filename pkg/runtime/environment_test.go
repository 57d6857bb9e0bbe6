package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", IntValue{Val: 10})

	val, err := env.Get("x")
	require.NoError(t, err)
	require.Equal(t, IntValue{Val: 10}, val)
}

func TestEnvironmentShadowing(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("x", IntValue{Val: 1})

	child := parent.Extend()
	child.Define("x", IntValue{Val: 2})

	inner, err := child.Get("x")
	require.NoError(t, err)
	require.Equal(t, IntValue{Val: 2}, inner)

	outer, err := parent.Get("x")
	require.NoError(t, err)
	require.Equal(t, IntValue{Val: 1}, outer)
}

func TestEnvironmentAssignWalksChain(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("count", IntValue{Val: 0})
	child := parent.Extend()

	require.NoError(t, child.Assign("count", IntValue{Val: 5}))

	val, err := parent.Get("count")
	require.NoError(t, err)
	require.Equal(t, IntValue{Val: 5}, val)
}

func TestEnvironmentAssignUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign("missing", NullValue{})
	require.Error(t, err)

	rerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, ErrUndefinedVariable, rerr.Kind)
}

func TestEnvironmentSuggestsClosestName(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("count", IntValue{Val: 1})
	env.Define("total", IntValue{Val: 2})

	_, err := env.Get("cont")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Did you mean 'count'?")
}

func TestEnvironmentVisibleNames(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("b", NullValue{})
	parent.Define("a", NullValue{})
	child := parent.Extend()
	child.Define("a", IntValue{Val: 1})
	child.Define("c", NullValue{})

	require.Equal(t, []string{"a", "b", "c"}, child.VisibleNames())
}

func TestEnvironmentConcurrentReads(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("shared", IntValue{Val: 99})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			val, err := env.Get("shared")
			require.NoError(t, err)
			require.Equal(t, IntValue{Val: 99}, val)
		}()
	}
	wg.Wait()
}
