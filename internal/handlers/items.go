package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"giftlist/internal/wishlist"
)

// ItemHandler handles wishlist item CRUD, reservations and ordering.
type ItemHandler struct {
	service *wishlist.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(service *wishlist.Service) *ItemHandler {
	return &ItemHandler{service: service}
}

// List returns the viewer's projected view of one owner's list. An owner
// loading their own list triggers the one-time position bootstrap first.
func (h *ItemHandler) List(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	owner, ok := h.service.ResolveName(c.Params("owner"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown list")
	}

	isOwner := profile.ID == owner
	if isOwner {
		if err := h.service.BootstrapPositions(c.Context(), owner); err != nil {
			return respondError(c, err)
		}
	}

	items, err := h.service.ListVisible(c.Context(), owner, profile.ID, isOwner)
	if err != nil {
		return respondError(c, err)
	}

	return jsonSuccess(c, fiber.Map{
		"owner":    owner,
		"is_owner": isOwner,
		"items":    items,
	})
}

// Create adds an item to a list. Owners add normal positioned items;
// anyone else creates a hidden suggestion.
func (h *ItemHandler) Create(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	owner, ok := h.service.ResolveName(c.Params("owner"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown list")
	}

	var payload wishlist.ItemPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.CreateItem(c.Context(), owner, profile.ID, payload)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   item,
	})
}

// Update edits an item's details. Only the owner may edit.
func (h *ItemHandler) Update(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload wishlist.ItemPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.UpdateItemDetails(c.Context(), c.Params("id"), profile.ID, payload)
	if err != nil {
		return respondError(c, err)
	}
	return jsonSuccess(c, item)
}

// Delete removes an item from the owner's list. Reserved items are flagged
// rather than deleted so the reserver keeps their view until release.
func (h *ItemHandler) Delete(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.OwnerDelete(c.Context(), c.Params("id"), profile.ID); err != nil {
		return respondError(c, err)
	}
	return jsonSuccess(c, nil)
}

// Reserve claims an item for the caller, optionally together with a partner.
func (h *ItemHandler) Reserve(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var body struct {
		Partner *string `json:"partner"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	if err := h.service.Reserve(c.Context(), c.Params("id"), profile.ID, body.Partner); err != nil {
		return respondError(c, err)
	}
	return jsonSuccess(c, nil)
}

// Release gives up the caller's reservation on an item.
func (h *ItemHandler) Release(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := h.service.Release(c.Context(), c.Params("id"), profile.ID); err != nil {
		return respondError(c, err)
	}
	return jsonSuccess(c, nil)
}

// Reorder saves a new total order for the owner's list.
func (h *ItemHandler) Reorder(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	owner, ok := h.service.ResolveName(c.Params("owner"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown list")
	}
	if profile.ID != owner {
		return jsonError(c, fiber.StatusForbidden, "only the owner may reorder this list")
	}

	var body struct {
		ItemIDs []string `json:"itemIds"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Reorder(c.Context(), owner, body.ItemIDs); err != nil {
		return respondError(c, err)
	}
	return jsonSuccess(c, nil)
}
