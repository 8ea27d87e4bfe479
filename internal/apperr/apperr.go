// Package apperr classifies failures into the small set of kinds that
// callers act on, so each public operation returns a value or one kind.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the classification of an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDatabase
	KindParse
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDatabase:
		return "database"
	case KindParse:
		return "parse"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Error is a classified error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": " + e.Kind.String() + " error"
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed input. err may be a sentinel such as
// model.ErrInvalidAmount and stays matchable with errors.Is.
func Validation(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// NotFound reports a missing record.
func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: msg}
}

// Database wraps a ledger read or write failure.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindDatabase, Op: op, Err: err}
}

// Parse reports input that could not be decoded.
func Parse(op, msg string) error {
	return &Error{Kind: KindParse, Op: op, Msg: msg}
}

// File wraps a filesystem failure.
func File(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindFile, Op: op, Err: err}
}

// Wrap returns err unchanged if it is already classified, otherwise
// wraps it as KindUnknown.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindUnknown, Op: op, Err: err}
}

// WrapKind returns err unchanged if it is already classified, otherwise
// wraps it with the given kind.
func WrapKind(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage renders err as a short message without internal detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return "Something went wrong"
	}
	switch ae.Kind {
	case KindValidation:
		if ae.Err != nil {
			return "Invalid input: " + ae.Err.Error()
		}
		return "Invalid input: " + ae.Msg
	case KindNotFound:
		if ae.Msg != "" {
			return ae.Msg
		}
		return "Not found"
	case KindDatabase:
		return "Could not access the ledger"
	case KindParse:
		if ae.Msg != "" {
			return "Could not read input: " + ae.Msg
		}
		return "Could not read input"
	case KindFile:
		return "File operation failed"
	}
	return "Something went wrong"
}
