// Package errors provides a typed, location-carrying error for the
// expression lexer/parser: a type tag, a source location, and a caret
// pointing at the offending column.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType classifies where in the pipeline an error originated.
type ErrorType string

const (
	// SyntaxError is raised by the lexer/parser on malformed source text.
	SyntaxError ErrorType = "SyntaxError"
	// BindingError is raised when a Variable has no entry in its
	// bindings at evaluation time. This is a programmer error: it is
	// never recovered, only reported before the panic that terminates
	// the run.
	BindingError ErrorType = "BindingError"
	// DomainError marks an operation (exponentiation of a wholly
	// negative base) whose result is the empty interval set. It is not
	// itself an exception - it reaches callers as a zero-length Set.
	// No code in this module constructs an ExprError of this type.
	DomainError ErrorType = "DomainError"
)

// SourceLocation identifies a line and column in an expression's source
// text.
type SourceLocation struct {
	Line   int
	Column int
}

// ExprError is an error with source location information, rendered with
// a caret under the offending column the way a compiler diagnostic would.
type ExprError struct {
	Type     ErrorType
	Message  string
	Location SourceLocation
	Source   string // the full single-line expression, for context
}

func (e *ExprError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Type, e.Message))
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n  %s^", e.Source, strings.Repeat(" ", max0(e.Location.Column))))
	}
	return sb.String()
}

func max0(c int) int {
	if c < 0 {
		return 0
	}
	return c
}

// NewSyntaxError builds a SyntaxError at the given line/column.
func NewSyntaxError(message, source string, line, column int) *ExprError {
	return &ExprError{
		Type:     SyntaxError,
		Message:  message,
		Location: SourceLocation{Line: line, Column: column},
		Source:   source,
	}
}

// NewBindingError builds a BindingError naming the unresolved variable.
func NewBindingError(variable rune) *ExprError {
	return &ExprError{
		Type:    BindingError,
		Message: fmt.Sprintf("no binding for variable %q", variable),
	}
}
