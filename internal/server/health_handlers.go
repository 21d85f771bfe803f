package server

import (
	"context"
	"log/slog"
	"time"

	"heirloom/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// HealthStatus is the readiness probe response body.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// LivenessCheck handles GET /health/live
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck handles GET /health/ready. Redis is optional: when it is not
// configured the check reports "disabled" and does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	health := HealthStatus{Status: "ok", Checks: map[string]string{}}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "database health check failed", slog.String("error", err.Error()))
		health.Status = "unhealthy"
		health.Checks["database"] = "unhealthy"
	} else {
		health.Checks["database"] = "healthy"
	}

	switch {
	case s.redis == nil:
		health.Checks["redis"] = "disabled"
	case s.redis.Ping(ctx).Err() != nil:
		health.Status = "unhealthy"
		health.Checks["redis"] = "unhealthy"
	default:
		health.Checks["redis"] = "healthy"
	}

	if health.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(health)
	}
	return c.JSON(health)
}
