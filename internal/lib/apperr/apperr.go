// Package apperr defines the error kinds of an offboarding run.
//
// ErrInputFormat aborts the whole run. ErrQuery, ErrWrite and ErrDelivery are scoped to a
// single employee: the orchestrator records them and moves on to the next one.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInputFormat = errors.New("input format error")
	ErrQuery       = errors.New("query error")
	ErrWrite       = errors.New("write error")
	ErrDelivery    = errors.New("delivery error")
)

// Error carries the kind of a failure, the operation that produced it and its cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

// E wraps err with a kind and an operation name. A nil err stays nil.
func E(kind error, op string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf creates a kinded error from a format string.
func Errorf(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// KindOf returns the kind sentinel of err, or nil if err carries none.
func KindOf(err error) error {
	for _, kind := range []error{ErrInputFormat, ErrQuery, ErrWrite, ErrDelivery} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}
