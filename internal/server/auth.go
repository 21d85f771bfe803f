package server

import (
	"errors"

	"heirloom/internal/middleware"
	"heirloom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired rejects requests without a valid identity token.
// The caller's id is stored in c.Locals("userID") and its identity in
// c.Locals("identity").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := s.identityFromRequest(c)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, middleware.ErrMissingToken) {
				msg = "Authorization required"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
		}
		s.setIdentity(c, identity)
		return c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// otherwise continues as an anonymous viewer.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity, err := s.identityFromRequest(c); err == nil {
			s.setIdentity(c, identity)
		}
		return c.Next()
	}
}

func (s *Server) identityFromRequest(c *fiber.Ctx) (*models.Identity, error) {
	token, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return nil, middleware.ErrMissingToken
	}
	return middleware.ParseIdentity(token, s.config.JWTSecret)
}

func (s *Server) setIdentity(c *fiber.Ctx, identity *models.Identity) {
	c.Locals("userID", identity.UserID)
	c.Locals("identity", identity)
	c.SetUserContext(middleware.WithUserID(c.UserContext(), identity.UserID))
}

// viewerID returns the authenticated caller's id, or "" for anonymous requests.
func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
