package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it to a status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindNotFound
	KindDuplicate
	KindUnauthorized
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDuplicate:
		return "already exists"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation failed"
	default:
		return "internal error"
	}
}

// Error is a classified failure carrying a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a bare sentinel of the same kind, so
// errors.Is(NotFoundf("boatyard 4"), ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrAlreadyExists indicates a uniqueness violation.
	ErrAlreadyExists = &Error{Kind: KindDuplicate}
	// ErrUnauthorized indicates the caller may not touch the record.
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	// ErrValidation indicates malformed or missing input.
	ErrValidation = &Error{Kind: KindValidation}
)

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Duplicatef(format string, args ...any) error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...any) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
