package wishlist

import (
	"context"
	"errors"
	"fmt"

	"giftlist/internal/docstore"
	"giftlist/internal/models"
)

// NextPosition returns the position for a freshly created item: one past
// the highest existing position, or 1 for an empty list.
func NextPosition(activeItems []*models.Item) int {
	highest := 0
	for _, item := range activeItems {
		if item.Position != nil && *item.Position > highest {
			highest = *item.Position
		}
	}
	return highest + 1
}

// ownerVisibleActive selects the items that belong to the owner's ordering
// domain: not removed and not hidden suggestions.
func ownerVisibleActive(items []*models.Item) []*models.Item {
	var out []*models.Item
	for _, item := range items {
		if item.Active() && !item.HiddenFromOwner {
			out = append(out, item)
		}
	}
	return out
}

// BootstrapPositions assigns positions 1..N to the owner's active items in
// their current display order when any of them lacks one. The write is one
// atomic transaction, it is an idempotent no-op when every item is already
// positioned, and it runs at most once per owner per process: concurrent or
// repeated loads of the same list must not race each other here.
func (s *Service) BootstrapPositions(ctx context.Context, ownerID string) error {
	s.bootMu.Lock()
	if s.booted[ownerID] {
		s.bootMu.Unlock()
		return nil
	}
	s.booted[ownerID] = true
	s.bootMu.Unlock()

	err := s.bootstrap(ctx, ownerID)
	if err != nil {
		// Allow a later load to try again.
		s.bootMu.Lock()
		delete(s.booted, ownerID)
		s.bootMu.Unlock()
	}
	return err
}

func (s *Service) bootstrap(ctx context.Context, ownerID string) error {
	items, err := s.store.ListItems(ctx, ownerID)
	if err != nil {
		return err
	}

	active := ownerVisibleActive(items)
	missing := false
	for _, item := range active {
		if item.Position == nil {
			missing = true
			break
		}
	}
	if !missing {
		return nil
	}

	sortForDisplay(active)
	ids := make([]string, len(active))
	for i, item := range active {
		ids[i] = item.ID
	}

	return s.runTx(ctx, func(tx docstore.Tx) error {
		for idx, id := range ids {
			item, err := tx.GetItem(id)
			if errors.Is(err, docstore.ErrNotFound) {
				// Deleted since we listed; the remaining order still holds.
				continue
			}
			if err != nil {
				return err
			}
			item.Position = models.IntPtr(idx + 1)
			if err := tx.PutItem(item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reorder persists a caller-supplied total order of the owner's active
// items as positions 1..N in one atomic transaction: either every position
// updates or none does, so no subscriber ever observes a half-applied
// order. The supplied IDs must exactly cover the owner's active ordered
// items.
func (s *Service) Reorder(ctx context.Context, ownerID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return &ValidationError{Field: "itemIds", Reason: "order must not be empty"}
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return &ValidationError{Field: "itemIds", Reason: fmt.Sprintf("duplicate item %s", id)}
		}
		seen[id] = true
	}

	items, err := s.store.ListItems(ctx, ownerID)
	if err != nil {
		return err
	}
	expected := make(map[string]bool)
	for _, item := range ownerVisibleActive(items) {
		expected[item.ID] = true
	}
	if len(expected) != len(orderedIDs) {
		return &ValidationError{Field: "itemIds", Reason: "order must cover every active item exactly once"}
	}
	for id := range expected {
		if !seen[id] {
			return &ValidationError{Field: "itemIds", Reason: fmt.Sprintf("missing item %s", id)}
		}
	}

	return s.runTx(ctx, func(tx docstore.Tx) error {
		for idx, id := range orderedIDs {
			item, err := tx.GetItem(id)
			if errors.Is(err, docstore.ErrNotFound) {
				return ErrItemNotFound
			}
			if err != nil {
				return err
			}
			if item.OwnerID != ownerID {
				return &ValidationError{Field: "itemIds", Reason: "item belongs to another list"}
			}
			if !item.Active() {
				return &ValidationError{Field: "itemIds", Reason: "removed items cannot be reordered"}
			}
			item.Position = models.IntPtr(idx + 1)
			if err := tx.PutItem(item); err != nil {
				return err
			}
		}
		return nil
	})
}
