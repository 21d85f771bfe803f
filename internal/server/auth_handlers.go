package server

import (
	"heirloom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateSession handles POST /api/auth/session
// @Summary Start a session
// @Description Create or refresh the caller's user record from their identity token claims.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/session [post]
func (s *Server) CreateSession(c *fiber.Ctx) error {
	identity, ok := c.Locals("identity").(*models.Identity)
	if !ok || identity == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	user, err := s.userService.UpsertIdentity(c.UserContext(), *identity)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetCurrentUser handles GET /api/auth/user
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/user [get]
func (s *Server) GetCurrentUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
