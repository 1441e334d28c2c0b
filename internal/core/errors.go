package core

import (
	"errors"
	"strings"
)

// Error kinds. Every error returned by a Model wraps exactly one of these.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnprocessable = errors.New("unprocessable entity")
	ErrInternal      = errors.New("internal error")
)

// OpError is the error returned by data-access operations.
type OpError struct {
	Op     string // "create", "update", "list", ...
	Table  string
	Column string // Offending column, when there is one
	Kind   error  // One of the Err* kinds
	Msg    string
	Err    error // Underlying cause, may be nil
}

func (e *OpError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Table != "" {
		b.WriteString(" ")
		b.WriteString(e.Table)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the error kind carried by err, or nil if err is not
// classified.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrUnprocessable, ErrInternal} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// asInternal keeps an already classified error and wraps anything else
// as an internal failure.
func asInternal(op, table string, err error) error {
	if KindOf(err) != nil {
		return err
	}
	return &OpError{Op: op, Table: table, Kind: ErrInternal, Err: err}
}

func notFound(op, table, msg string) error {
	return &OpError{Op: op, Table: table, Kind: ErrNotFound, Msg: msg}
}

func unprocessable(op, table, column, msg string) error {
	return &OpError{Op: op, Table: table, Column: column, Kind: ErrUnprocessable, Msg: msg}
}
