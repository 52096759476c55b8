package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"giftlist/internal/preview"
)

// PreviewHandler proxies og:image lookups for wishlist links.
type PreviewHandler struct {
	fetcher *preview.Fetcher
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(fetcher *preview.Fetcher) *PreviewHandler {
	return &PreviewHandler{fetcher: fetcher}
}

// Lookup resolves the best preview image for a URL. Pages without a usable
// image, unreachable hosts and unsafe targets all degrade to a null image;
// only a missing url parameter is a client error.
func (h *PreviewHandler) Lookup(c fiber.Ctx) error {
	rawURL := c.Query("url")
	if rawURL == "" {
		return jsonError(c, fiber.StatusBadRequest, "url query parameter is required")
	}

	imageURL, err := h.fetcher.ImageURL(c.Context(), rawURL)
	if err != nil {
		if !errors.Is(err, preview.ErrUnsafeURL) {
			slog.Debug("link preview failed", "url", rawURL, "error", err)
		}
		imageURL = ""
	}

	var payload any
	if imageURL != "" {
		payload = imageURL
	}
	return jsonSuccess(c, fiber.Map{"imageUrl": payload})
}
