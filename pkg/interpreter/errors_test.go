package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/pkg/runtime"
)

//----------------------------------------------------------------------------
// guard
//----------------------------------------------------------------------------

func TestGuardPassesSilently(t *testing.T) {
	require.Equal(t, num(1), eval(t, "guard 1 < 2\n1"))
}

func TestGuardFailureDefaultMessage(t *testing.T) {
	err := evalErr(t, "guard 1 > 2")
	require.Equal(t, runtime.ErrGuard, err.Kind)
	require.Equal(t, "Guard assertion failed", err.Message)
}

func TestGuardCustomMessage(t *testing.T) {
	err := evalErr(t, `guard false : "expected {1 + 1} items"`)
	require.Equal(t, runtime.ErrGuard, err.Kind)
	require.Equal(t, "expected 2 items", err.Message)
}

func TestGuardMessageOnlyEvaluatedOnFailure(t *testing.T) {
	// `boom` is unbound; a passing guard must never touch its message.
	require.Equal(t, num(7), eval(t, "guard true : boom\n7"))
}

func TestGuardStopsFunctionBody(t *testing.T) {
	src := `
fn half(n) {
  guard n % 2 == 0 : "expected an even number, got {n}"
  return n / 2
}
half(7)
`
	err := evalErr(t, src)
	require.Equal(t, runtime.ErrGuard, err.Kind)
	require.Equal(t, "expected an even number, got 7", err.Message)
}

//----------------------------------------------------------------------------
// try / rescue / ensure
//----------------------------------------------------------------------------

func TestTryYieldsBodyValueOnSuccess(t *testing.T) {
	require.Equal(t, num(42), eval(t, "try {\n  42\n} rescue {\n  0\n}"))
}

func TestRescueValueReplacesFailure(t *testing.T) {
	src := `
let x = try {
  10 / 0
} rescue {
  -1
}
x
`
	require.Equal(t, num(-1), eval(t, src))
}

func TestRescueBindsErrorDescription(t *testing.T) {
	src := `
try {
  10 / 0
} rescue e {
  e
}
`
	require.Equal(t, str("DivideByZero: division by zero"), eval(t, src))
}

func TestRescueScopeIsLocal(t *testing.T) {
	src := `
try {
  10 / 0
} rescue e {
  0
}
e
`
	err := evalErr(t, src)
	require.Equal(t, runtime.ErrUndefinedVariable, err.Kind)
}

func TestRescueFailureReplacesOriginal(t *testing.T) {
	src := `
try {
  10 / 0
} rescue {
  missing
}
`
	err := evalErr(t, src)
	require.Equal(t, runtime.ErrUndefinedVariable, err.Kind)
}

func TestEnsureRunsOnSuccess(t *testing.T) {
	src := `
let log = []
try {
  log.push("body")
} rescue {
  log.push("rescue")
} ensure {
  log.push("ensure")
}
log
`
	require.Equal(t, `["body", "ensure"]`, fmtVal(eval(t, src)))
}

func TestEnsureRunsOnFailure(t *testing.T) {
	src := `
let log = []
try {
  10 / 0
} rescue {
  log.push("rescue")
} ensure {
  log.push("ensure")
}
log
`
	require.Equal(t, `["rescue", "ensure"]`, fmtVal(eval(t, src)))
}

func TestEnsureWithoutRescueReRaises(t *testing.T) {
	src := `
try {
  10 / 0
} ensure {
  show("cleanup")
}
`
	_, out, err := tryEval(src)
	require.Error(t, err)
	var rerr *runtime.Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, runtime.ErrDivideByZero, rerr.Kind)
	require.Equal(t, "cleanup\n", out)
}

func TestEnsureFailureWinsOverRescuedValue(t *testing.T) {
	src := `
try {
  10 / 0
} rescue {
  "recovered"
} ensure {
  missing
}
`
	err := evalErr(t, src)
	require.Equal(t, runtime.ErrUndefinedVariable, err.Kind)
}

func TestReturnPassesThroughRescue(t *testing.T) {
	src := `
let log = []
fn attempt() {
  try {
    return "early"
  } rescue {
    log.push("rescue")
    return "rescued"
  } ensure {
    log.push("ensure")
  }
}
let r = attempt()
"{r}:{log}"
`
	require.Equal(t, str(`early:["ensure"]`), eval(t, src))
}

func TestBreakPassesThroughRescue(t *testing.T) {
	src := `
let log = []
let i = 0
while true {
  i = i + 1
  try {
    break
  } rescue {
    log.push("rescue")
  } ensure {
    log.push("ensure")
  }
}
"{i}:{log}"
`
	require.Equal(t, str(`1:["ensure"]`), eval(t, src))
}

func TestNestedTryRescuesAtTheClosestLevel(t *testing.T) {
	src := `
try {
  try {
    10 / 0
  } rescue e {
    "inner {e}"
  }
} rescue {
  "outer"
}
`
	require.Equal(t, str("inner DivideByZero: division by zero"), eval(t, src))
}

func TestGuardFailureIsRescuable(t *testing.T) {
	src := `
try {
  guard false : "bad input"
  "unreached"
} rescue e {
  e
}
`
	require.Equal(t, str("GuardFailure: bad input"), eval(t, src))
}

//----------------------------------------------------------------------------
// use
//----------------------------------------------------------------------------

func TestUseBringsModuleIntoScope(t *testing.T) {
	src := `
use math
math.pow(2, 10)
`
	require.Equal(t, fl(1024), eval(t, src))
}

func TestUseUnknownModuleSuggests(t *testing.T) {
	err := evalErr(t, "use mth")
	require.Equal(t, runtime.ErrImport, err.Kind)
	require.Contains(t, err.Message, "no module named 'mth'")
	require.Contains(t, err.Message, "Did you mean 'math'?")
}

func TestModuleMembersBeforeUseAreUndefined(t *testing.T) {
	err := evalErr(t, "math.pi")
	require.Equal(t, runtime.ErrUndefinedVariable, err.Kind)
}

//----------------------------------------------------------------------------
// Error rendering details
//----------------------------------------------------------------------------

func TestErrorsCarrySourcePositions(t *testing.T) {
	err := evalErr(t, "let ok = 1\nlet bad = missing")
	require.Equal(t, runtime.ErrUndefinedVariable, err.Kind)
	assert.Equal(t, 2, err.Line)
	assert.Equal(t, 11, err.Column)
}

func TestErrorTextIncludesKindAndPosition(t *testing.T) {
	err := evalErr(t, "10 / 0")
	require.Equal(t, "DivideByZero at 1:4: division by zero", err.Error())
}
