package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried in AppError.Code and in the "code" field of error responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeBusinessRule = "BUSINESS_RULE"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is an error with a stable code and a message safe to show to callers.
type AppError struct {
	Code    string
	Message string
	Err     error
	// Details are merged into the JSON error body (e.g. unavailable_products).
	Details map[string]any
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

// WithDetail returns the error with an extra field attached to its response body.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewUnauthorizedError reports a missing or unusable caller identity.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewForbiddenError reports an identified caller acting on something they do not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewNotFoundError reports a missing resource, e.g. NewNotFoundError("Product", 7).
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Err:     fmt.Errorf("%s %v does not exist", resource, id),
	}
}

// NewConflictError reports a uniqueness or concurrent-update conflict.
func NewConflictError(message string, err error) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Err: err}
}

// NewBusinessRuleError reports a well-formed request that marketplace rules reject.
func NewBusinessRuleError(message string) *AppError {
	return &AppError{Code: CodeBusinessRule, Message: message}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// StatusFor maps an error to the HTTP status it should be reported with.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeBusinessRule:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes err as a JSON error body with the given status.
// Messages of non-AppError failures are not exposed for 5xx responses.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	body := fiber.Map{}

	var appErr *AppError
	if errors.As(err, &appErr) {
		for k, v := range appErr.Details {
			body[k] = v
		}
		body["error"] = appErr.Message
		body["code"] = appErr.Code
	} else if status >= fiber.StatusInternalServerError {
		body["error"] = "Internal server error"
		body["code"] = CodeInternal
	} else {
		body["error"] = err.Error()
	}

	return c.Status(status).JSON(body)
}
