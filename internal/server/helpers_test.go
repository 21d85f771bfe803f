package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"heirloom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad"), fiber.StatusBadRequest},
		{"not found", models.NewNotFoundError("Story", 1), fiber.StatusNotFound},
		{"unauthorized", models.NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{"media type", models.NewInvalidMediaTypeError("a.pdf", "application/pdf"), fiber.StatusUnsupportedMediaType},
		{"media size", models.NewMediaTooLargeError("a.mov", 50<<20), fiber.StatusRequestEntityTooLarge},
		{"dangling", models.NewDanglingAuthorError(1, "ghost"), fiber.StatusInternalServerError},
		{"storage", models.NewStorageFailureError("write", errors.New("disk full")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", models.NewNotFoundError("Story", 2)), fiber.StatusNotFound},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapServiceError(tt.err))
		})
	}
}

func TestParseID(t *testing.T) {
	srv := &Server{}
	app := fiber.New()
	app.Get("/stories/:id", func(c *fiber.Ctx) error {
		id, err := srv.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	for path, want := range map[string]int{
		"/stories/7":   fiber.StatusOK,
		"/stories/0":   fiber.StatusBadRequest,
		"/stories/-3":  fiber.StatusBadRequest,
		"/stories/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}

func TestRespondServiceError_HidesCauses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"plain store error", errors.New("pq: connection refused to 10.0.0.5"), fiber.StatusInternalServerError, models.CodeStorageFailure},
		{"wrapped storage failure", models.NewStorageFailureError("story insert", errors.New("pq: connection refused to 10.0.0.5")), fiber.StatusInternalServerError, models.CodeStorageFailure},
		{"internal", models.NewInternalError(errors.New("pq: connection refused to 10.0.0.5")), fiber.StatusInternalServerError, models.CodeInternal},
		{"not found", models.NewNotFoundError("Story", 3), fiber.StatusNotFound, models.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/fail", func(c *fiber.Ctx) error {
				return respondServiceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, string(raw), "10.0.0.5")
		})
	}
}
