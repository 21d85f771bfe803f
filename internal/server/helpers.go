package server

import (
	"errors"
	"log/slog"

	"heirloom/internal/middleware"
	"heirloom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid story ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// mapServiceError converts an AppError code to its HTTP status.
func mapServiceError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeInvalidMediaType:
		return fiber.StatusUnsupportedMediaType
	case models.CodeMediaTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case models.CodeRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return models.CodeValidation
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusRequestEntityTooLarge:
		return models.CodeMediaTooLarge
	case fiber.StatusTooManyRequests:
		return models.CodeRateLimited
	default:
		if status >= fiber.StatusInternalServerError {
			return models.CodeInternal
		}
		return ""
	}
}

// respondServiceError writes err with the status its code maps to. Errors
// without a code are store failures; their text stays in the log.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		middleware.Logger.ErrorContext(c.UserContext(), "store failure",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return models.RespondWithError(c, fiber.StatusInternalServerError, &models.AppError{
			Code:    models.CodeStorageFailure,
			Message: "Storage failure",
		})
	}
	status := mapServiceError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("code", appErr.Code),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}
