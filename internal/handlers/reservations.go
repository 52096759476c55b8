package handlers

import (
	"github.com/gofiber/fiber/v3"

	"giftlist/internal/models"
	"giftlist/internal/wishlist"
)

// ReservationHandler serves the caller's "gifts I am giving" overview.
type ReservationHandler struct {
	service *wishlist.Service
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(service *wishlist.Service) *ReservationHandler {
	return &ReservationHandler{service: service}
}

type giftGroup struct {
	Owner string         `json:"owner"`
	Items []*models.Item `json:"items"`
}

// MyGifts lists every item the caller has reserved, grouped by list owner.
// Groups appear in the order of the caller's newest reservation per owner.
func (h *ReservationHandler) MyGifts(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	items, err := h.service.Reservations(c.Context(), profile.ID)
	if err != nil {
		return respondError(c, err)
	}

	var groups []*giftGroup
	index := make(map[string]*giftGroup)
	for _, item := range items {
		group, ok := index[item.OwnerID]
		if !ok {
			group = &giftGroup{Owner: item.OwnerID}
			index[item.OwnerID] = group
			groups = append(groups, group)
		}
		group.Items = append(group.Items, item)
	}
	if groups == nil {
		groups = []*giftGroup{}
	}

	return jsonSuccess(c, groups)
}
