// Package apperrors defines the error taxonomy shared by services and the
// HTTP boundary: not-found, validation and forbidden. The boundary maps the
// kinds to 404, 400 and 403; anything unclassified becomes a 500.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindForbidden
)

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Kind() Kind { return e.kind }

func NotFound(format string, args ...any) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{kind: KindForbidden, msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, or 0 when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsValidation(err error) bool { return KindOf(err) == KindValidation }

func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }
