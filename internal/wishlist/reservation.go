package wishlist

import (
	"context"
	"errors"

	"giftlist/internal/docstore"
	"giftlist/internal/metrics"
	"giftlist/internal/models"
)

// Reserve claims a free item for actorID, optionally together with a
// partner. The transaction re-reads current state before writing: if
// someone else holds the reservation the caller lost the race and gets
// ErrAlreadyReserved, which must not be retried. Reserving an item the
// actor already holds is a no-op success. A successful reserve clears any
// pending owner removal flag, which cannot be set on a free item.
func (s *Service) Reserve(ctx context.Context, itemID, actorID string, partner *string) error {
	if actorID == "" {
		return &ValidationError{Field: "actor", Reason: "actor is required"}
	}

	err := s.runTx(ctx, func(tx docstore.Tx) error {
		item, err := tx.GetItem(itemID)
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		if item.OwnerID == actorID {
			return &ValidationError{Field: "actor", Reason: "owners cannot reserve their own items"}
		}
		if item.Reserved() && !item.ReservedByActor(actorID) {
			return ErrAlreadyReserved
		}

		reservedWith, err := s.canonicalPartner(partner, actorID, item.OwnerID)
		if err != nil {
			return err
		}

		item.ReservedBy = &actorID
		item.ReservedWith = reservedWith
		item.RemovedByOwner = false
		return tx.PutItem(item)
	})

	switch {
	case err == nil:
		metrics.RecordReservation(metrics.OutcomeReserved)
	case errors.Is(err, ErrAlreadyReserved):
		metrics.RecordReservation(metrics.OutcomeConflict)
	}
	return err
}

// canonicalPartner validates the optional reservation partner: must be an
// allowed family name, and neither the reserver nor the list owner.
func (s *Service) canonicalPartner(partner *string, actorID, ownerID string) (*string, error) {
	if partner == nil || *partner == "" {
		return nil, nil
	}
	canonical, ok := s.names.Canonicalize(*partner)
	if !ok {
		return nil, &ValidationError{Field: "partner", Reason: "not an allowed family name"}
	}
	if canonical == actorID {
		return nil, &ValidationError{Field: "partner", Reason: "partner must be someone else"}
	}
	if canonical == ownerID {
		return nil, &ValidationError{Field: "partner", Reason: "partner cannot be the list owner"}
	}
	return &canonical, nil
}

// Release gives up actorID's reservation. Releasing an item the owner
// already removed purges the document for good; otherwise the item returns
// to free. Releasing a missing item or one with no reservation succeeds
// (already resolved), but a reservation held by someone else is rejected
// with ErrNotYourReservation rather than silently ignored.
func (s *Service) Release(ctx context.Context, itemID, actorID string) error {
	if actorID == "" {
		return &ValidationError{Field: "actor", Reason: "actor is required"}
	}

	purged := false
	err := s.runTx(ctx, func(tx docstore.Tx) error {
		purged = false
		item, err := tx.GetItem(itemID)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if item.Reserved() && !item.ReservedByActor(actorID) {
			return ErrNotYourReservation
		}

		if item.RemovedByOwner {
			purged = true
			return tx.DeleteItem(itemID)
		}

		item.ReservedBy = nil
		item.ReservedWith = nil
		return tx.PutItem(item)
	})

	if err == nil {
		if purged {
			metrics.RecordReservation(metrics.OutcomePurged)
		} else {
			metrics.RecordReservation(metrics.OutcomeReleased)
		}
	}
	return err
}

// OwnerDelete removes an item from actorID's own list. An unreserved item
// is hard-deleted; a reserved one is only flagged removed so the reserver
// keeps seeing it until they release, at which point it is purged. Deleting
// a missing item succeeds.
func (s *Service) OwnerDelete(ctx context.Context, itemID, actorID string) error {
	return s.runTx(ctx, func(tx docstore.Tx) error {
		item, err := tx.GetItem(itemID)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if item.OwnerID != actorID {
			return &ValidationError{Field: "actor", Reason: "only the owner can delete an item"}
		}

		if item.Reserved() {
			item.RemovedByOwner = true
			return tx.PutItem(item)
		}
		return tx.DeleteItem(itemID)
	})
}

// stateOf names the item's position in the reservation lifecycle. Used by
// tests and logging; the persisted document never stores it.
func stateOf(item *models.Item) string {
	switch {
	case item == nil:
		return "deleted"
	case item.Reserved() && item.RemovedByOwner:
		return "reserved_removed"
	case item.Reserved():
		return "reserved"
	default:
		return "free"
	}
}
