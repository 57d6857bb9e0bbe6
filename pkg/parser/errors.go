package parser

import (
	"fmt"
	"strings"
)

// ParseError reports malformed source with a 1-based position and a
// human-readable expected-token description. Incomplete is set when the
// parser ran out of input, which interactive callers use to keep reading
// instead of reporting.
type ParseError struct {
	File       string
	Line       int
	Column     int
	Message    string
	Incomplete bool
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error at %s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Render formats the error as a caret snippet over the offending source,
// with up to two lines of leading context.
func (e *ParseError) Render(source string) string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteByte('\n')

	lines := strings.Split(source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return b.String()
	}
	first := e.Line - 2
	if first < 1 {
		first = 1
	}
	for n := first; n <= e.Line; n++ {
		fmt.Fprintf(&b, "%4d | %s\n", n, lines[n-1])
	}
	col := e.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	return b.String()
}
