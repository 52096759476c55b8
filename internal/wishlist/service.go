// Package wishlist implements the reservation and ordering consistency
// engine: the transactional state machine for reserving, releasing and
// deleting wishlist items, stable integer ordering for an owner's list, and
// the role-aware live view derived from store subscriptions.
package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"giftlist/internal/docstore"
	"giftlist/internal/metrics"
	"giftlist/internal/names"
)

// txAttempts bounds retries of transactions aborted by write races.
// Business rejections are never retried.
const txAttempts = 3

// Service exposes the engine operations. All correctness-critical work runs
// as check-then-act transactions against the document store; the service
// never mutates state outside a transaction.
type Service struct {
	store docstore.Store
	names *names.Registry
	log   *slog.Logger

	bootMu sync.Mutex
	booted map[string]bool
}

// New constructs the engine over a document store and the allowed family
// name registry.
func New(store docstore.Store, registry *names.Registry, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		names:  registry,
		log:    logger,
		booted: make(map[string]bool),
	}
}

// runTx executes fn transactionally, retrying aborted transactions a bounded
// number of times. Any other error passes through on first occurrence.
func (s *Service) runTx(ctx context.Context, fn func(tx docstore.Tx) error) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = s.store.RunTx(ctx, fn)
		if !errors.Is(err, docstore.ErrTxAborted) {
			return err
		}
		metrics.RecordTxRetry()
		s.log.Debug("retrying aborted transaction", "attempt", attempt)
	}
	s.log.Warn("transaction retries exhausted", "attempts", txAttempts)
	return err
}
