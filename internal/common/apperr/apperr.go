package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindDependency
	KindInternal
)

// Error is the structured error returned by services. Details carries
// machine-readable payloads such as the list of missing price pairs.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func ValidationWithDetails(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Dependency(message string, err error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func statusCode(kind Kind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindDependency:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes the JSON error body for a service error. Internal errors
// never leak their cause to the client.
func Respond(c *fiber.Ctx, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}

	if e.Kind == KindInternal {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": e.Message,
		})
	}

	body := fiber.Map{"message": e.Message}
	if e.Details != nil {
		body["error"] = e.Details
	} else if e.Err != nil {
		body["error"] = e.Err.Error()
	}
	return c.Status(statusCode(e.Kind)).JSON(body)
}
