// Package docstore provides the transactional document backend for profiles
// and wishlist items: snapshot-isolated transactions with atomic
// commit-or-abort, plus change subscriptions keyed by list owner or by
// reserver. Two drivers implement the contract, an in-memory store and a
// Postgres-backed one.
package docstore

import (
	"context"
	"errors"

	"giftlist/internal/models"
)

var (
	// ErrNotFound is returned when an operation targets a missing document.
	ErrNotFound = errors.New("document not found")

	// ErrTxAborted is returned when a transaction lost a write race and was
	// rolled back without applying anything. The whole transaction is safe
	// to retry from scratch.
	ErrTxAborted = errors.New("transaction aborted by concurrent write")
)

// Tx is the read/write handle passed to a transaction function. Reads see a
// consistent snapshot; writes are buffered and applied atomically at commit.
// A commit that conflicts with a concurrent transaction on the same
// documents fails the whole RunTx call with ErrTxAborted.
type Tx interface {
	GetItem(id string) (*models.Item, error)
	PutItem(item *models.Item) error
	DeleteItem(id string) error

	GetProfile(id string) (*models.Profile, error)
	PutProfile(profile *models.Profile) error
}

// Store is the transactional document backend. Subscription callbacks are
// invoked with the full current matching set after every committed change
// that touches it, never with diffs, so callers can derive presentation
// state declaratively. The returned cancel func stops delivery immediately.
type Store interface {
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context, ownerID string) ([]*models.Item, error)
	ListReservedBy(ctx context.Context, personID string) ([]*models.Item, error)

	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]*models.Profile, error)

	RunTx(ctx context.Context, fn func(tx Tx) error) error

	Subscribe(ownerID string, fn func(items []*models.Item)) (cancel func())
	SubscribeReservations(personID string, fn func(items []*models.Item)) (cancel func())

	Close()
}
