// Package errors defines the error type shared across the application.
// Every failure a front end may show to a user carries a Kind describing
// what went wrong and a message written for humans, not for logs.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by what the caller can do about it.
type Kind int

const (
	// KindInternal marks unexpected failures that are not user-actionable.
	KindInternal Kind = iota
	// KindInvalidURL marks URLs that carry no recognizable video ID.
	KindInvalidURL
	// KindUnavailable marks videos the caption source cannot produce a
	// transcript for, whatever the platform's reason.
	KindUnavailable
	// KindParsing marks caption data that was obtained but could not be
	// turned into usable text.
	KindParsing
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindUnavailable:
		return "unavailable"
	case KindParsing:
		return "parsing"
	default:
		return "internal"
	}
}

// Error is the application error. Op records where the failure originated,
// Message is safe to show to users, and Err holds the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error with the given kind.
func New(kind Kind, op string, err error, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// InvalidURL creates an error for URLs that do not identify a video.
func InvalidURL(op string, err error, message string) *Error {
	return New(KindInvalidURL, op, err, message)
}

// Unavailable creates an error for videos whose captions cannot be fetched.
func Unavailable(op string, err error, message string) *Error {
	return New(KindUnavailable, op, err, message)
}

// Parsing creates an error for caption data that cannot be processed.
func Parsing(op string, err error, message string) *Error {
	return New(KindParsing, op, err, message)
}

// Internal creates an error for unexpected failures.
func Internal(op string, err error, message string) *Error {
	return New(KindInternal, op, err, message)
}

// KindOf returns the kind carried by err, or KindInternal when err carries
// none. It unwraps the chain so wrapped application errors keep their kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsUserFacing reports whether err's message was written to be shown to an
// end user. Internal errors are logged instead.
func IsUserFacing(err error) bool {
	switch KindOf(err) {
	case KindInvalidURL, KindUnavailable, KindParsing:
		return true
	default:
		return false
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
