// Package apperr defines the error kinds surfaced by the scrape and parse
// pipelines. Every failure that reaches the HTTP layer carries one of these
// kinds so handlers can turn it into a structured response.
package apperr

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindFetch        Kind = "fetch"
	KindEmptyContent Kind = "empty_content"
	KindExtraction   Kind = "extraction"
	KindInternal     Kind = "internal"
)

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. The cause is wrapped with eris so its stack is kept
// for debug logging. Wrap returns nil when err is nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) && existing.Kind == kind && msg == "" {
		return err
	}
	return &Error{Kind: kind, Message: msg, Err: eris.Wrap(err, string(kind))}
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal when none is present.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the outermost classified message, falling back to err's
// full text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
