package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"giftlist/internal/wishlist"
)

// SessionUserKey is the session key holding the authenticated person's ID.
const SessionUserKey = "user_id"

// LocalsProfileKey is the request-locals key for the loaded profile.
const LocalsProfileKey = "profile"

// AuthMiddleware resolves the session to a family profile.
type AuthMiddleware struct {
	store   *session.Store
	service *wishlist.Service
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, service *wishlist.Service) *AuthMiddleware {
	return &AuthMiddleware{store: store, service: service}
}

// RequireAuth ensures the request carries a valid session, responding 401
// otherwise.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return unauthorized(c)
	}

	userID, _ := sess.Get(SessionUserKey).(string)
	if userID == "" {
		return unauthorized(c)
	}

	profile, err := m.service.Profile(c.Context(), userID)
	if err != nil {
		sess.Destroy()
		return unauthorized(c)
	}

	c.Locals(LocalsProfileKey, profile)
	return c.Next()
}

// OptionalAuth loads the profile if a session exists, but doesn't require one.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Next()
	}

	userID, _ := sess.Get(SessionUserKey).(string)
	if userID == "" {
		return c.Next()
	}

	if profile, err := m.service.Profile(c.Context(), userID); err == nil {
		c.Locals(LocalsProfileKey, profile)
	}
	return c.Next()
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "authentication required",
	})
}
