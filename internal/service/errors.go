package service

import "errors"

// ErrorKind classifies every business error the services can return. Handlers
// map kinds to HTTP statuses and the apierror envelope; none of these are
// fatal to the process.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidState      ErrorKind = "invalid_state"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindAlreadyConverted  ErrorKind = "already_converted"
	KindAlreadyPaid       ErrorKind = "already_paid"
	KindExceedsBalance    ErrorKind = "exceeds_balance"
	KindValidation        ErrorKind = "validation_error"
	KindConflict          ErrorKind = "conflict"
	KindUnauthorized      ErrorKind = "unauthorized"
)

// Error is a business error with a machine-readable kind.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFound(msg string) *Error          { return &Error{Kind: KindNotFound, Message: msg} }
func invalidState(msg string) *Error      { return &Error{Kind: KindInvalidState, Message: msg} }
func invalidTransition(msg string) *Error { return &Error{Kind: KindInvalidTransition, Message: msg} }
func alreadyConverted(msg string) *Error  { return &Error{Kind: KindAlreadyConverted, Message: msg} }
func alreadyPaid(msg string) *Error       { return &Error{Kind: KindAlreadyPaid, Message: msg} }
func exceedsBalance(msg string) *Error    { return &Error{Kind: KindExceedsBalance, Message: msg} }
func validation(msg string) *Error        { return &Error{Kind: KindValidation, Message: msg} }
func conflict(msg string) *Error          { return &Error{Kind: KindConflict, Message: msg} }
func unauthorized(msg string) *Error      { return &Error{Kind: KindUnauthorized, Message: msg} }

// KindOf extracts the kind of a business error, or "" for unexpected errors
// (which handlers surface as 500).
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
