package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker func(ctx context.Context) error

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	checks map[string]ReadinessChecker
}

func NewHealthHandler(checks map[string]ReadinessChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	results := make(map[string]string, len(h.checks))
	ready := true

	for name, check := range h.checks {
		if err := check(c.Context()); err != nil {
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
			Status: "not ready",
			Checks: results,
		})
	}

	return c.JSON(HealthResponse{
		Status: "ready",
		Checks: results,
	})
}
