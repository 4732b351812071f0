// Package diag provides the diagnostic (error) types shared by the lexer,
// parser, and evaluator.
package diag

import (
	"fmt"

	"spelllang/internal/span"
)

// Kind distinguishes which stage of the pipeline raised a diagnostic.
type Kind int

const (
	LexerKind Kind = iota
	ParserKind
	RuntimeKind
)

func (k Kind) String() string {
	switch k {
	case LexerKind:
		return "Lexer"
	case ParserKind:
		return "Parser"
	case RuntimeKind:
		return "Runtime"
	default:
		return "Unknown"
	}
}

// Diagnostic is a positioned or unpositioned error raised by one of the
// three pipeline stages. It implements error so it can be returned and
// wrapped like any other Go error.
type Diagnostic struct {
	Kind    Kind
	Message string
	Span    span.Span
	HasPos  bool
}

// Error renders the diagnostic using the wording required by the error
// handling design: positioned errors read
// "<Kind> Error at line L, column C: <message>"; unpositioned runtime
// errors read "Runtime Error: <message>".
func (d Diagnostic) Error() string {
	if !d.HasPos {
		return fmt.Sprintf("%s Error: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s Error at line %d, column %d: %s",
		d.Kind, d.Span.Start.Line, d.Span.Start.Column, d.Message)
}

// Lexerf builds a positioned lexer diagnostic.
func Lexerf(s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: LexerKind, Message: fmt.Sprintf(format, args...), Span: s, HasPos: true}
}

// Parserf builds a positioned parser diagnostic.
func Parserf(s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: ParserKind, Message: fmt.Sprintf(format, args...), Span: s, HasPos: true}
}

// Runtimef builds a positioned runtime diagnostic.
func Runtimef(s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: RuntimeKind, Message: fmt.Sprintf(format, args...), Span: s, HasPos: true}
}

// RuntimeNoPos builds a runtime diagnostic with no associated position, for
// errors that do not carry a call-site span.
func RuntimeNoPos(format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: RuntimeKind, Message: fmt.Sprintf(format, args...), HasPos: false}
}
