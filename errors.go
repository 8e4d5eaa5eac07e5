package tplscript

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of compilation failure.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidCharacter is returned when the lexer encounters a
	// character that cannot begin any token.
	ErrInvalidCharacter ErrorCode = iota

	// ErrUnterminatedString is returned when a string literal is missing
	// its closing quote.
	ErrUnterminatedString

	// ErrUnterminatedComment is returned when a block comment is missing
	// its closing terminator.
	ErrUnterminatedComment

	// ErrMalformedHexLiteral is returned when a 0x prefix is not followed
	// by any hexadecimal digit.
	ErrMalformedHexLiteral

	// ErrMalformedIntLiteral is returned when an integer token cannot be
	// parsed as a signed decimal number.
	ErrMalformedIntLiteral

	// ErrUnmatchedPushOpen is returned when a '<' is never closed.
	ErrUnmatchedPushOpen

	// ErrUnmatchedPushClose is returned for a '>' with no open push.
	ErrUnmatchedPushClose

	// ErrUnmatchedEvalOpen is returned when a '$(' is never closed.
	ErrUnmatchedEvalOpen

	// ErrUnmatchedEvalClose is returned for a ')' with no open evaluation.
	ErrUnmatchedEvalClose

	// ErrUnknownIdentifier is returned when an identifier matches no
	// opcode name, variable id or script id in the environment.
	ErrUnknownIdentifier

	// ErrUnknownScript is returned when compilation is requested for a
	// script id the environment does not contain.
	ErrUnknownScript

	// ErrCircularReference is returned when script composition revisits a
	// script already being compiled on the current chain.
	ErrCircularReference

	// ErrMissingCapability is returned when a variable's kind has no
	// operation bound in the environment, or an evaluation is reached
	// with no virtual machine bound.
	ErrMissingCapability

	// ErrMissingData is returned when an operation lacks the runtime data
	// it needs for a variable.
	ErrMissingData

	// ErrOperationFailed is returned when a bound operation fails for a
	// reason other than missing data.
	ErrOperationFailed

	// ErrEvaluationFailed is returned when the virtual machine reports an
	// error for an evaluation or leaves an empty stack.
	ErrEvaluationFailed

	// ErrOddLengthHex is returned when a hex literal carries an odd
	// number of digits.
	ErrOddLengthHex

	// ErrPushTooLarge is returned when push contents exceed the largest
	// representable push encoding.
	ErrPushTooLarge
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidCharacter:    "ErrInvalidCharacter",
	ErrUnterminatedString:  "ErrUnterminatedString",
	ErrUnterminatedComment: "ErrUnterminatedComment",
	ErrMalformedHexLiteral: "ErrMalformedHexLiteral",
	ErrMalformedIntLiteral: "ErrMalformedIntLiteral",
	ErrUnmatchedPushOpen:   "ErrUnmatchedPushOpen",
	ErrUnmatchedPushClose:  "ErrUnmatchedPushClose",
	ErrUnmatchedEvalOpen:   "ErrUnmatchedEvalOpen",
	ErrUnmatchedEvalClose:  "ErrUnmatchedEvalClose",
	ErrUnknownIdentifier:   "ErrUnknownIdentifier",
	ErrUnknownScript:       "ErrUnknownScript",
	ErrCircularReference:   "ErrCircularReference",
	ErrMissingCapability:   "ErrMissingCapability",
	ErrMissingData:         "ErrMissingData",
	ErrOperationFailed:     "ErrOperationFailed",
	ErrEvaluationFailed:    "ErrEvaluationFailed",
	ErrOddLengthHex:        "ErrOddLengthHex",
	ErrPushTooLarge:        "ErrPushTooLarge",
}

// String returns the ErrorCode as a human-readable name.
func (code ErrorCode) String() string {
	if s := errorCodeStrings[code]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(code))
}

// ErrorKind is the coarse classification of an ErrorCode, one per
// compilation stage that can fail.
type ErrorKind int

// Error kinds, ordered by pipeline stage.
const (
	KindLex ErrorKind = iota
	KindParse
	KindResolution
	KindEvaluation
	KindEncoding
)

var errorKindStrings = map[ErrorKind]string{
	KindLex:        "LexError",
	KindParse:      "ParseError",
	KindResolution: "ResolutionError",
	KindEvaluation: "EvaluationExecutionError",
	KindEncoding:   "EncodingError",
}

// String returns the ErrorKind as a human-readable name.
func (kind ErrorKind) String() string {
	if s := errorKindStrings[kind]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorKind (%d)", int(kind))
}

// Kind returns the classification of the error code.
func (code ErrorCode) Kind() ErrorKind {
	switch code {
	case ErrInvalidCharacter, ErrUnterminatedString, ErrUnterminatedComment,
		ErrMalformedHexLiteral:
		return KindLex
	case ErrMalformedIntLiteral, ErrUnmatchedPushOpen, ErrUnmatchedPushClose,
		ErrUnmatchedEvalOpen, ErrUnmatchedEvalClose:
		return KindParse
	case ErrEvaluationFailed:
		return KindEvaluation
	case ErrOddLengthHex, ErrPushTooLarge:
		return KindEncoding
	default:
		return KindResolution
	}
}

// Error identifies a single located compilation error.
type Error struct {
	Code        ErrorCode
	Span        Span
	Description string
	cause       error
}

// Error satisfies the error interface and prints errors with their source
// location.
func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Description)
}

// Unwrap returns the underlying cause, if any. Errors raised while compiling
// a referenced script unwrap to that script's CompileError.
func (e *Error) Unwrap() error {
	return e.cause
}

// scriptError creates an Error given a set of arguments.
func scriptError(code ErrorCode, span Span, description string) *Error {
	return &Error{Code: code, Span: span, Description: description}
}

func scriptErrorWithCause(code ErrorCode, span Span, description string, cause error) *Error {
	return &Error{Code: code, Span: span, Description: description, cause: cause}
}

// CompileError is the failure result of a compilation. It carries every
// located error collected while compiling the requested script.
type CompileError struct {
	ScriptID string
	Errors   []*Error
}

// Error satisfies the error interface.
func (e *CompileError) Error() string {
	switch len(e.Errors) {
	case 0:
		return fmt.Sprintf("script %q: compilation failed", e.ScriptID)
	case 1:
		return fmt.Sprintf("script %q: %s", e.ScriptID, e.Errors[0])
	default:
		return fmt.Sprintf("script %q: %s (and %d more errors)",
			e.ScriptID, e.Errors[0], len(e.Errors)-1)
	}
}

// Unwrap exposes the first collected error.
func (e *CompileError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// Kind returns the taxonomy kind of the first collected error.
func (e *CompileError) Kind() ErrorKind {
	if len(e.Errors) == 0 {
		return KindResolution
	}
	return e.Errors[0].Code.Kind()
}

// MissingDataError reports that an operation lacked a runtime value it
// needs for a variable. Operations return it (or wrap it) so compilations
// can distinguish absent data from operation failures.
type MissingDataError struct {
	VariableID string
	What       string
}

// Error satisfies the error interface.
func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no %s provided for variable %q", e.What, e.VariableID)
}

// IsErrorCode returns whether or not the provided error is a compilation
// error with the passed code. When the error carries several collected
// errors, each one is considered.
func IsErrorCode(err error, code ErrorCode) bool {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		for _, collected := range compileErr.Errors {
			if collected.Code == code {
				return true
			}
		}
		return false
	}
	var scriptErr *Error
	if errors.As(err, &scriptErr) {
		return scriptErr.Code == code
	}
	return false
}
