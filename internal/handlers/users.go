package handlers

import (
	"github.com/gofiber/fiber/v3"

	"giftlist/internal/wishlist"
)

// UserHandler lists family members.
type UserHandler struct {
	service *wishlist.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *wishlist.Service) *UserHandler {
	return &UserHandler{service: service}
}

// List returns the configured family names and the profiles that exist so
// far. PINs never appear in the payload.
func (h *UserHandler) List(c fiber.Ctx) error {
	profiles, err := h.service.Profiles(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return jsonSuccess(c, fiber.Map{
		"names":    h.service.AllowedNames(),
		"profiles": profiles,
	})
}
