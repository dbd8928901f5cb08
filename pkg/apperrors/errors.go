package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthorization
	KindNotFound
	KindConflict
	KindCollaborator
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

// Error is the error type returned by engine operations.
type Error struct {
	Kind   Kind
	Entity string // which entity the error is about, e.g. "dog"
	Msg    string // caller-actionable detail, e.g. "dog is not currently available for adoption"
	Err    error  // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind, so sentinel-style checks work across layers.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Entity == "" || t.Entity == e.Entity)
}

func Validation(entity, msg string) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Msg: msg}
}

func Validationf(entity, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Msg: fmt.Sprintf(format, args...)}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Msg: entity + " not found"}
}

func Conflict(entity, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Msg: msg}
}

func Collaborator(name string, err error) *Error {
	return &Error{Kind: KindCollaborator, Entity: name, Msg: "collaborator call failed", Err: err}
}

func IsValidation(err error) bool    { return isKind(err, KindValidation) }
func IsAuthorization(err error) bool { return isKind(err, KindAuthorization) }
func IsNotFound(err error) bool      { return isKind(err, KindNotFound) }
func IsConflict(err error) bool      { return isKind(err, KindConflict) }
func IsCollaborator(err error) bool  { return isKind(err, KindCollaborator) }

func isKind(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}
