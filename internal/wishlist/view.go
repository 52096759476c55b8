package wishlist

import (
	"context"
	"sort"

	"giftlist/internal/models"
)

// VisibleItems projects the raw item set of one owner into the ordered list
// a given viewer may see:
//
//  1. Hidden suggestions never reach the owner, whatever their reservation
//     or removal state; this filter runs independently of the removal one
//     so a hidden, reserved-then-removed item cannot leak to the owner
//     through the removal path.
//  2. A removed item stays visible only to the person still holding its
//     reservation, so they can release it.
//  3. Positioned items sort first by position; positionless ones follow in
//     creation order.
func VisibleItems(items []*models.Item, viewerID string, isOwner bool) []*models.Item {
	var out []*models.Item
	for _, item := range items {
		if isOwner && item.HiddenFromOwner {
			continue
		}
		if item.RemovedByOwner && !item.ReservedByActor(viewerID) {
			continue
		}
		out = append(out, item.Clone())
	}
	sortForDisplay(out)
	return out
}

func sortForDisplay(items []*models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.Position != nil && b.Position != nil:
			return *a.Position < *b.Position
		case a.Position != nil:
			return true
		case b.Position != nil:
			return false
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

// ListVisible returns the current projected view for a viewer.
func (s *Service) ListVisible(ctx context.Context, ownerID, viewerID string, isOwner bool) ([]*models.Item, error) {
	items, err := s.store.ListItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return VisibleItems(items, viewerID, isOwner), nil
}

// SubscribeList republishes the projected view to fn after every committed
// change to the owner's items. The returned cancel func stops delivery
// immediately.
func (s *Service) SubscribeList(ownerID, viewerID string, isOwner bool, fn func(items []*models.Item)) func() {
	return s.store.Subscribe(ownerID, func(items []*models.Item) {
		fn(VisibleItems(items, viewerID, isOwner))
	})
}

// Reservations returns every item the person currently has reserved, newest
// first, for the "gifts I am giving" overview.
func (s *Service) Reservations(ctx context.Context, personID string) ([]*models.Item, error) {
	items, err := s.store.ListReservedBy(ctx, personID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// SubscribeReservations republishes the person's reserved set to fn after
// every committed change touching it.
func (s *Service) SubscribeReservations(personID string, fn func(items []*models.Item)) func() {
	return s.store.SubscribeReservations(personID, fn)
}
