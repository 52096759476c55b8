package handlers

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"giftlist/internal/docstore"
)

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	store docstore.Store
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(store docstore.Store) *ProbeHandler {
	return &ProbeHandler{store: store}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the backing store can serve traffic. The in-memory
// driver has no external dependency and is always ready.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if pinger, ok := h.store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "store unavailable",
			})
		}
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
