package apperror

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is the error taxonomy surfaced by services. The middleware in
// serverutils maps Status onto the HTTP response, so handlers simply return
// these up the chain.
type AppError struct {
	Status  int    // HTTP status code
	Message string // user-visible message
	Err     error  // wrapped cause, optional
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

// NewValidation marks bad/oversized/missing input. Surfaced immediately,
// never retried.
func NewValidation(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: message}
}

// NewNotFound marks a resource that never existed (distinct from expired)
func NewNotFound(message string) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Message: message}
}

// NewExpired marks a resource that existed but timed out; UIs render this
// differently from "unknown", hence 410 rather than 404.
func NewExpired(message string) *AppError {
	return &AppError{Status: fiber.StatusGone, Message: message}
}

// NewInternal wraps a programming-logic failure that is allowed to escape
// as a 500. Evaluator and parse failures should never reach this; they are
// absorbed at the evaluator boundary.
func NewInternal(message string, err error) *AppError {
	return &AppError{Status: fiber.StatusInternalServerError, Message: message, Err: err}
}
