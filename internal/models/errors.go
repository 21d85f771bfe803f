package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError and rendered in API responses.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeInvalidMediaType = "INVALID_MEDIA_TYPE"
	CodeMediaTooLarge    = "MEDIA_TOO_LARGE"
	CodeDanglingAuthor   = "DANGLING_AUTHOR_REFERENCE"
	CodeStorageFailure   = "STORAGE_FAILURE"
	CodeRateLimited      = "RATE_LIMITED"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Fields holds per-field validation messages keyed by JSON field name.
	Fields map[string]string
	Err    error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError reports one or more invalid input fields.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

func NewInvalidMediaTypeError(filename, mimeType string) *AppError {
	return &AppError{
		Code:    CodeInvalidMediaType,
		Message: fmt.Sprintf("File %q has unsupported type %q", filename, mimeType),
	}
}

func NewMediaTooLargeError(filename string, limitBytes int64) *AppError {
	return &AppError{
		Code:    CodeMediaTooLarge,
		Message: fmt.Sprintf("File %q exceeds the %d MB limit", filename, limitBytes/(1024*1024)),
	}
}

// NewDanglingAuthorError marks a story whose author row no longer resolves.
func NewDanglingAuthorError(storyID uint, authorID string) *AppError {
	return &AppError{
		Code:    CodeDanglingAuthor,
		Message: fmt.Sprintf("Story %d references missing author %q", storyID, authorID),
	}
}

func NewStorageFailureError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeStorageFailure,
		Message: "Storage failure during " + operation,
		Err:     err,
	}
}

// HasCode reports whether err wraps an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		}
		// Wrapped causes of server-side failures carry driver text; keep them in the log.
		if appErr.Err != nil && status < fiber.StatusInternalServerError {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
