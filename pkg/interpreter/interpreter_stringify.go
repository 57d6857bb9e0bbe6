package interpreter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rill-lang/rill/pkg/runtime"
)

const digestTextLimit = 24

// Format renders a value the way `show`, string interpolation, and guard
// messages display it: strings bare, containers with quoted string elements,
// host values through their self-description.
func (i *Interpreter) Format(v runtime.Value) string {
	if d, ok := v.(runtime.SelfDescriber); ok {
		return d.Describe()
	}
	switch val := v.(type) {
	case runtime.NullValue:
		return "null"
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case runtime.IntValue:
		return strconv.FormatInt(val.Val, 10)
	case runtime.FloatValue:
		return formatFloat(val.Val)
	case runtime.StrValue:
		return val.Val
	case *runtime.ListValue:
		parts := make([]string, 0, len(val.Elements))
		for _, el := range val.Elements {
			parts = append(parts, i.inspect(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.MapValue:
		parts := make([]string, 0, val.Len())
		for _, key := range val.Keys() {
			entry, _ := val.Get(key)
			parts = append(parts, key+": "+i.inspect(entry))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *runtime.FunctionValue:
		if val.Name == "" {
			return "<lambda>"
		}
		return "<fun " + val.Name + ">"
	case runtime.NativeFunctionValue:
		return "<native " + val.Name + ">"
	default:
		return v.Kind().String()
	}
}

// inspect is Format with strings quoted, used for elements inside containers.
func (i *Interpreter) inspect(v runtime.Value) string {
	if s, ok := v.(runtime.StrValue); ok {
		return strconv.Quote(s.Val)
	}
	return i.Format(v)
}

// Describe produces the short type/shape digest shown in trace rows.
func (i *Interpreter) Describe(v runtime.Value) string {
	if d, ok := v.(runtime.SelfDescriber); ok {
		return d.Describe()
	}
	switch val := v.(type) {
	case runtime.NullValue:
		return "Null"
	case runtime.BoolValue:
		return fmt.Sprintf("Bool(%t)", val.Val)
	case runtime.IntValue:
		return fmt.Sprintf("Int(%d)", val.Val)
	case runtime.FloatValue:
		return "Float(" + formatFloat(val.Val) + ")"
	case runtime.StrValue:
		return fmt.Sprintf("Str(%q)", truncate(val.Val, digestTextLimit))
	case *runtime.ListValue:
		return describeList(val)
	case *runtime.MapValue:
		if val.Len() == 1 {
			return "Map{1 key}"
		}
		return fmt.Sprintf("Map{%d keys}", val.Len())
	case *runtime.FunctionValue:
		if val.Name == "" {
			return "Fun(lambda)"
		}
		return "Fun(" + val.Name + ")"
	case runtime.NativeFunctionValue:
		return "Fun(" + val.Name + ")"
	default:
		return v.Kind().String()
	}
}

func describeList(list *runtime.ListValue) string {
	if len(list.Elements) == 0 {
		return "List<0>"
	}
	elem := list.Elements[0].Kind()
	for _, el := range list.Elements[1:] {
		if el.Kind() != elem {
			return fmt.Sprintf("List<%d mixed>", len(list.Elements))
		}
	}
	return fmt.Sprintf("List<%d %s>", len(list.Elements), elem)
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
