// Package diag implements the ordered, per-file diagnostic list (spec
// §4.8): diagnostics carry a closed code, severity, primary span, and an
// optional note chain, and are rendered with a source-line preview and
// caret underline.
package diag

import "github.com/bearlang/bearc/internal/token"

// Severity is error, warning, or note (spec §4.8).
type Severity uint8

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Code is the closed diagnostic code enum (spec §4.8, §7 taxonomy).
type Code uint16

const (
	// Lexical
	CodeUnterminatedLiteral Code = iota + 1
	CodeIndeterminateToken

	// Syntactic
	CodeExpectedToken
	CodeExpectedIdentifier
	CodeExpectedType
	CodeExpectedExpression
	CodeExpectedStatement
	CodeIncompleteVarDecl
	CodeMismatchedRParen
	CodeExtraneousSemicolon
	CodeExtraneousVisibility
	CodeBodyMustBeBraced
	CodeTooManyQualifications

	// Semantic-structural
	CodeRedefinition
	CodeOriginalDefinitionHere
	CodeBreakOutsideLoop
	CodeRedundantQualifier
	CodeMutOnNonMt
	CodeInvalidModuleName
	CodeInvalidFunctionPrefix
	CodeInvalidPattern

	// Import
	CodeImportedFileDoesNotExist
	CodeCircularImport
)

// defaultSeverity is consulted by New when the caller doesn't override
// the severity (spec §4.8 "each code maps to one formatted template and
// a default severity").
var defaultSeverity = map[Code]Severity{
	CodeUnterminatedLiteral:      Error,
	CodeIndeterminateToken:       Error,
	CodeExpectedToken:            Error,
	CodeExpectedIdentifier:       Error,
	CodeExpectedType:             Error,
	CodeExpectedExpression:       Error,
	CodeExpectedStatement:        Error,
	CodeIncompleteVarDecl:        Error,
	CodeMismatchedRParen:         Error,
	CodeExtraneousSemicolon:      Warning,
	CodeExtraneousVisibility:     Warning,
	CodeBodyMustBeBraced:         Error,
	CodeTooManyQualifications:    Warning,
	CodeRedefinition:             Error,
	CodeOriginalDefinitionHere:   Note,
	CodeBreakOutsideLoop:         Error,
	CodeRedundantQualifier:       Warning,
	CodeMutOnNonMt:               Error,
	CodeInvalidModuleName:        Error,
	CodeInvalidFunctionPrefix:    Error,
	CodeInvalidPattern:           Error,
	CodeImportedFileDoesNotExist: Error,
	CodeCircularImport:           Error,
}

// Span locates a diagnostic within a single file.
type Span struct {
	File   string
	Start  int
	Length int
	Line   int // zero-indexed; display layer adds 1
	Column int
}

// Diagnostic is one entry in a file's diagnostic list, optionally
// chained to a following note (spec §3 Diagnostic, §4.8).
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     Span
	Message  string
	Next     *Diagnostic // chained note, or nil
}

// New creates a diagnostic at the code's default severity.
func New(code Code, span Span, message string) *Diagnostic {
	sev, ok := defaultSeverity[code]
	if !ok {
		sev = Error
	}
	return &Diagnostic{Code: code, Severity: sev, Span: span, Message: message}
}

// WithNote chains a note diagnostic after d and returns d for chaining.
func (d *Diagnostic) WithNote(note *Diagnostic) *Diagnostic {
	tail := d
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = note
	return d
}

// List is a per-file ordered diagnostic list (spec §4.8). The zero value
// is ready to use.
type List struct {
	File  string
	items []*Diagnostic
}

// Add appends d to the end of the list (insertion order, not sorted by
// source position).
func (l *List) Add(d *Diagnostic) { l.items = append(l.items, d) }

// Items returns the diagnostics in insertion order.
func (l *List) Items() []*Diagnostic { return l.items }

// Len returns the number of top-level diagnostics (not counting chained
// notes).
func (l *List) Len() int { return len(l.items) }

// ErrorCount returns how many top-level diagnostics are errors.
func (l *List) ErrorCount() int {
	n := 0
	for _, d := range l.items {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// ExpectedTokenMessage formats the standard "expected X" message body
// used by CodeExpectedToken, factored out so the parser and tests share
// exact wording.
func ExpectedTokenMessage(want token.Kind, got token.Kind) string {
	return "expected '" + want.Name() + "', found '" + got.Name() + "'"
}
