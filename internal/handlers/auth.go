package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"giftlist/internal/middleware"
	"giftlist/internal/wishlist"
)

// AuthHandler handles login, logout and profile endpoints.
type AuthHandler struct {
	service  *wishlist.Service
	sessions *session.Store
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *wishlist.Service, sessions *session.Store) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions}
}

// Login verifies a family name and PIN and opens a session. The first login
// for a name creates its profile with the supplied PIN.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
		PIN  string `json:"pin"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.service.Login(c.Context(), body.Name, body.PIN)
	if err != nil {
		if errors.Is(err, wishlist.ErrWrongPIN) {
			return jsonError(c, fiber.StatusUnauthorized, "wrong pin for this name")
		}
		return respondError(c, err)
	}

	sess := session.FromContext(c)
	if sess == nil {
		return respondError(c, fiber.ErrInternalServerError)
	}
	sess.Set(middleware.SessionUserKey, profile.ID)

	return jsonSuccess(c, profile)
}

// Logout destroys the session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		_ = sess.Destroy()
	}
	return jsonSuccess(c, nil)
}

// Me returns the authenticated profile.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	return jsonSuccess(c, profile)
}

// ChangePIN updates the caller's PIN.
func (h *AuthHandler) ChangePIN(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var body struct {
		PIN string `json:"pin"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ChangePIN(c.Context(), profile.ID, body.PIN); err != nil {
		return respondError(c, err)
	}
	return jsonSuccess(c, nil)
}
