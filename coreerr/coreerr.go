// Package coreerr defines the typed error kinds returned across the
// module (spec §7). Errors carry a Kind that callers can switch on via
// errors.As, plus whatever underlying cause triggered them.
package coreerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the error categories from spec §7.
type Kind string

const (
	KindInvalidTimeFormat Kind = "invalid_time_format"
	KindInvalidDate       Kind = "invalid_date"
	KindInvalidRequest    Kind = "invalid_request"
	KindNotSupported      Kind = "not_supported"
	KindNotFound          Kind = "not_found"
	KindStoreError        Kind = "store_error"
	KindCancelled         Kind = "cancelled"
)

// Error is the concrete error type for every kind in this package.
type Error struct {
	Kind    Kind
	Message string
	// Query is attached to KindStoreError, carrying the originating
	// query context, per spec §4.C ("Failures surface as StoreError
	// with origin query attached").
	Query string
	Cause error
}

func (e *Error) Error() string {
	if e.Query != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s (query=%q): %v", e.Kind, e.Message, e.Query, e.Cause)
		}
		return fmt.Sprintf("%s: %s (query=%q)", e.Kind, e.Message, e.Query)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes errors.Is match any *Error target of the same Kind,
// regardless of message, query or cause, e.g.
// errors.Is(err, coreerr.NotFound("")).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Store(query string, cause error) *Error {
	return &Error{Kind: KindStoreError, Message: "store operation failed", Query: query, Cause: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidRequest(message string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message}
}

func NotSupported(message string) *Error {
	return &Error{Kind: KindNotSupported, Message: message}
}

func Cancelled(message string) *Error {
	return &Error{Kind: KindCancelled, Message: message}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
