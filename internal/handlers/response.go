// Package handlers contains the HTTP layer: JSON endpoints over the
// wishlist engine, session login and the SSE live list streams.
package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"giftlist/internal/docstore"
	"giftlist/internal/middleware"
	"giftlist/internal/models"
	"giftlist/internal/wishlist"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// respondError maps engine errors onto the envelope. Aborted transactions
// only reach this point after the engine has exhausted its retries.
func respondError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, wishlist.ErrItemNotFound),
		errors.Is(err, wishlist.ErrProfileNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case wishlist.IsValidation(err):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case wishlist.IsConflict(err):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, docstore.ErrTxAborted):
		return jsonError(c, fiber.StatusServiceUnavailable, "store is busy, please retry")
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
}

// currentProfile returns the profile loaded by the auth middleware.
func currentProfile(c fiber.Ctx) (*models.Profile, bool) {
	profile, ok := c.Locals(middleware.LocalsProfileKey).(*models.Profile)
	return profile, ok
}
