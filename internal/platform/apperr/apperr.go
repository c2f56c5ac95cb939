// Package apperr define los errores de dominio compartidos por servicios,
// repositorios y handlers. Los handlers los traducen a códigos HTTP con errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error acompaña a un error sentinel con un mensaje apto para el cliente.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return New(ErrInvalidInput, format, args...)
}

func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return New(ErrConflict, format, args...)
}

func Forbidden(format string, args ...any) error {
	return New(ErrForbidden, format, args...)
}

// MissingFields es el mensaje que se devuelve cuando falta un campo obligatorio.
func MissingFields() error {
	return Invalid("Missing at least one mandatory field")
}

// Describe reemplaza un ErrNotFound/ErrConflict "pelado" (como lo devuelven los repos)
// por uno con mensaje. Cualquier otro error se devuelve igual.
func Describe(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound(format+" not found", args...)
	case errors.Is(err, ErrConflict):
		return Conflict(format+" already exists", args...)
	default:
		return err
	}
}

// Message devuelve el mensaje para el cliente, si el error lo trae.
func Message(err error) (string, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae.Msg != "" {
		return ae.Msg, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
