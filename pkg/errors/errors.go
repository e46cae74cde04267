package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota + 1000
	KindConflict
	KindNotFound
	KindAuth
	KindPersistence
)

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewValidationf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewNotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewAuth(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

// NewPersistence wraps an underlying store failure. The original error is
// carried verbatim and reachable through Unwrap.
func NewPersistence(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "persistence failure", Err: err}
}

func kindOf(err error) Kind {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return 0
}

func IsValidation(err error) bool  { return kindOf(err) == KindValidation }
func IsConflict(err error) bool    { return kindOf(err) == KindConflict }
func IsNotFound(err error) bool    { return kindOf(err) == KindNotFound }
func IsAuth(err error) bool        { return kindOf(err) == KindAuth }
func IsPersistence(err error) bool { return kindOf(err) == KindPersistence }
