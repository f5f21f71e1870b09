// Package plc is the embedding façade for the ladder-logic scan-cycle
// runtime: it loads a program, drives the scan, and forwards each
// ScanResult to a registered observer (spec §4.7, §6).
package plc

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes a *Error by the phase that produced it.
type ErrorCode string

const (
	ErrCodeCompile       ErrorCode = "compile error"
	ErrCodeValidation    ErrorCode = "validation error"
	ErrCodeNotLoaded     ErrorCode = "no program loaded"
	ErrCodeScan          ErrorCode = "scan error"
	ErrCodeUnsupported   ErrorCode = "unsupported operation"
	ErrCodeInvalidParams ErrorCode = "invalid parameters"
)

// Error is a structured runtime error carrying the operation that
// failed, an error code, a message, and an optionally wrapped inner
// error (spec §7).
type Error struct {
	Op    string
	Code  ErrorCode
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("plc: %s (op=%s)", msg, e.Op)
	}
	return fmt.Sprintf("plc: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Inner }

// Is supports comparing a structured Error by Code alone.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError builds a structured error with no wrapped cause.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// WrapError wraps inner with op context, inferring a reasonable code.
func WrapError(op string, code ErrorCode, inner error) *Error {
	if inner == nil {
		return nil
	}
	if pe, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: pe.Code, Msg: pe.Msg, Inner: pe.Inner}
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is (or wraps) a *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// ErrNotLoaded carries ErrCodeNotLoaded. No Manager method returns it:
// Step without a loaded program fails with an ErrCodeScan error that
// wraps the runtime's own "no program loaded" error.
var ErrNotLoaded = &Error{Code: ErrCodeNotLoaded, Msg: "no program loaded"}

// ErrInvalidAddress matches, through errors.Is, the error SetInput
// returns for a malformed address. Is compares codes alone, so it also
// matches any other ErrCodeInvalidParams error, such as Start's.
var ErrInvalidAddress = &Error{Code: ErrCodeInvalidParams, Msg: "invalid input address"}
