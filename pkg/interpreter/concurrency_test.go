package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/pkg/interpreter"
	"github.com/rill-lang/rill/pkg/runtime"
)

func TestSpawnReturnsATaskHandle(t *testing.T) {
	val := eval(t, "spawn { 1 + 1 }")
	require.IsType(t, &runtime.TaskValue{}, val)
}

func TestAwaitYieldsTheSpawnedValue(t *testing.T) {
	require.Equal(t, num(2), eval(t, "await spawn { 1 + 1 }"))
}

func TestSpawnReturnStatementResolvesTheTask(t *testing.T) {
	require.Equal(t, num(42), eval(t, "await spawn { return 42 }"))
}

func TestSpawnedBlockSeesEnclosingScope(t *testing.T) {
	src := `
let base = 10
let task = spawn { base * 2 }
await task
`
	require.Equal(t, num(20), eval(t, src))
}

func TestConcurrentTasksShareState(t *testing.T) {
	// The sleeps are staggered so the two increments never overlap;
	// assignment is a read-modify-write, not an atomic step.
	src := `
let counter = 0
let slow = spawn {
  sleep_ms(30)
  counter = counter + 1
}
let fast = spawn {
  sleep_ms(10)
  counter = counter + 1
}
await slow
await fast
counter
`
	require.Equal(t, num(2), eval(t, src))
}

func TestAwaitReRaisesTaskFailure(t *testing.T) {
	err := evalErr(t, "await spawn { 10 / 0 }")
	require.Equal(t, runtime.ErrDivideByZero, err.Kind)
	require.Equal(t, "division by zero", err.Message)
}

func TestAwaitTwiceSeesTheSameOutcome(t *testing.T) {
	src := `
let task = spawn { 10 / 0 }
let first = try {
  await task
} rescue e {
  e
}
let second = try {
  await task
} rescue e {
  e
}
"{first}|{second}"
`
	want := "DivideByZero: division by zero|DivideByZero: division by zero"
	require.Equal(t, str(want), eval(t, src))
}

func TestAwaitRequiresATask(t *testing.T) {
	err := evalErr(t, "await 5")
	require.Equal(t, runtime.ErrType, err.Kind)
	require.Equal(t, "await expects a Task, got Int", err.Message)
}

func TestSpawnedBreakIsAnError(t *testing.T) {
	err := evalErr(t, "await spawn { break }")
	require.Equal(t, runtime.ErrRuntime, err.Kind)
	require.Equal(t, "break outside loop in spawned block", err.Message)
}

func TestTaskFanOut(t *testing.T) {
	src := `
let tasks = []
for i in [1, 2, 3] {
  tasks.push(spawn { i * 10 })
}
let total = 0
for task in tasks {
  total = total + await task
}
total
`
	require.Equal(t, num(60), eval(t, src))
}

func TestSpawnRunsOnAConfiguredPool(t *testing.T) {
	// More tasks than workers: the pool must still run every one of them.
	src := `
let tasks = []
for i in [1, 2, 3, 4, 5, 6] {
  tasks.push(spawn { i })
}
let total = 0
for task in tasks {
  total = total + await task
}
total
`
	pool := runtime.NewWorkerPool(2)
	require.Equal(t, num(21), eval(t, src, interpreter.WithWorkerPool(pool)))
}

func TestTaskDigestInTraces(t *testing.T) {
	src := `
fn hold(task) {
  return task
}
fn unwrap(task) {
  return await task
}
spawn { 7 } |> hold |> unwrap
`
	val, out := evalOut(t, src)
	require.Equal(t, num(7), val)
	require.Contains(t, out, "[trace] #0 input -> Task(")
}
