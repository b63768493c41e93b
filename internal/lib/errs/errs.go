// Package errs defines the error kinds shared by validators, the integrity
// guard and the persistence layer. HTTP handlers translate a Kind into a
// fixed status code.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	InvalidInput
	Conflict
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields lists the violated fields of an InvalidInput error.
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, "; "))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Invalid builds an InvalidInput error listing each violated field.
func Invalid(fields ...string) *Error {
	return &Error{Kind: InvalidInput, Message: "invalid input", Fields: fields}
}

func Unauthenticatedf(format string, args ...any) *Error {
	return New(Unauthenticated, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...any) *Error {
	return New(Forbidden, fmt.Sprintf(format, args...))
}

func Invalidf(format string, args ...any) *Error {
	return New(InvalidInput, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

// KindOf reports the kind of the first *Error in the chain; anything else
// is Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Fields returns the violated fields of an InvalidInput error.
func Fields(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Message is the client-facing text of err. Internal errors never expose
// their cause.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == Internal {
		return "internal server error"
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, "; "))
	}
	return e.Message
}
