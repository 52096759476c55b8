package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"giftlist/internal/models"
)

func seedItem(t *testing.T, store *MemoryStore, item *models.Item) {
	t.Helper()
	err := store.RunTx(context.Background(), func(tx Tx) error {
		return tx.PutItem(item)
	})
	if err != nil {
		t.Fatalf("seeding item %s: %v", item.ID, err)
	}
}

func TestGetItemNotFound(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	if _, err := store.GetItem(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunTxCommitAndReadBack(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	seedItem(t, store, &models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks"})

	item, err := store.GetItem(ctx, "i1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Title != "Socks" || item.OwnerID != "Anna" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped on commit")
	}
}

func TestRunTxErrorDiscardsWrites(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.RunTx(ctx, func(tx Tx) error {
		if err := tx.PutItem(&models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the fn error back, got %v", err)
	}

	if _, err := store.GetItem(ctx, "i1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("write should not have been applied, got %v", err)
	}
}

func TestRunTxAbortsOnConcurrentWrite(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	seedItem(t, store, &models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks"})

	err := store.RunTx(ctx, func(tx Tx) error {
		item, err := tx.GetItem("i1")
		if err != nil {
			return err
		}

		// A competing transaction commits between our read and our commit.
		inner := store.RunTx(ctx, func(tx2 Tx) error {
			other, err := tx2.GetItem("i1")
			if err != nil {
				return err
			}
			other.Title = "Scarf"
			return tx2.PutItem(other)
		})
		if inner != nil {
			return inner
		}

		item.Title = "Gloves"
		return tx.PutItem(item)
	})
	if !errors.Is(err, ErrTxAborted) {
		t.Fatalf("expected ErrTxAborted, got %v", err)
	}

	item, err := store.GetItem(ctx, "i1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item.Title != "Scarf" {
		t.Errorf("the competing write should have won, got title %q", item.Title)
	}
}

func TestTxReadsSeeOwnWrites(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	err := store.RunTx(context.Background(), func(tx Tx) error {
		if err := tx.PutItem(&models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks"}); err != nil {
			return err
		}
		item, err := tx.GetItem("i1")
		if err != nil {
			return err
		}
		if item.Title != "Socks" {
			t.Errorf("read inside tx got %q", item.Title)
		}
		if err := tx.DeleteItem("i1"); err != nil {
			return err
		}
		if _, err := tx.GetItem("i1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after buffered delete, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunTx: %v", err)
	}
}

func collectDeliveries(t *testing.T) (chan []*models.Item, func(items []*models.Item)) {
	t.Helper()
	ch := make(chan []*models.Item, 16)
	return ch, func(items []*models.Item) { ch <- items }
}

func waitDelivery(t *testing.T, ch chan []*models.Item) []*models.Item {
	t.Helper()
	select {
	case items := <-ch:
		return items
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a subscription delivery")
		return nil
	}
}

func assertNoDelivery(t *testing.T, ch chan []*models.Item) {
	t.Helper()
	select {
	case items := <-ch:
		t.Fatalf("unexpected delivery of %d items", len(items))
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeDeliversFullSetPerCommit(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ch, fn := collectDeliveries(t)
	cancel := store.Subscribe("Anna", fn)
	defer cancel()

	// One commit writing two items must arrive as a single delivery
	// holding the whole set.
	err := store.RunTx(context.Background(), func(tx Tx) error {
		if err := tx.PutItem(&models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks"}); err != nil {
			return err
		}
		return tx.PutItem(&models.Item{ID: "i2", OwnerID: "Anna", Title: "Scarf"})
	})
	if err != nil {
		t.Fatalf("RunTx: %v", err)
	}

	items := waitDelivery(t, ch)
	if len(items) != 2 {
		t.Fatalf("expected the full set of 2 items, got %d", len(items))
	}
	assertNoDelivery(t, ch)
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ch, fn := collectDeliveries(t)
	cancel := store.Subscribe("Anna", fn)

	seedItem(t, store, &models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks"})
	waitDelivery(t, ch)

	cancel()
	seedItem(t, store, &models.Item{ID: "i2", OwnerID: "Anna", Title: "Scarf"})
	assertNoDelivery(t, ch)
}

func TestSubscribeReservationsSeesHandover(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	seedItem(t, store, &models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks", ReservedBy: models.StringPtr("Ben")})

	ch, fn := collectDeliveries(t)
	cancel := store.SubscribeReservations("Ben", fn)
	defer cancel()

	// Clearing the reservation must notify the previous holder with their
	// now-empty set, via the pre-image.
	err := store.RunTx(ctx, func(tx Tx) error {
		item, err := tx.GetItem("i1")
		if err != nil {
			return err
		}
		item.ReservedBy = nil
		return tx.PutItem(item)
	})
	if err != nil {
		t.Fatalf("RunTx: %v", err)
	}

	items := waitDelivery(t, ch)
	if len(items) != 0 {
		t.Errorf("expected the empty reserved set, got %d items", len(items))
	}
}

func TestDeleteNotifiesReserverFromPreImage(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	seedItem(t, store, &models.Item{ID: "i1", OwnerID: "Anna", Title: "Socks", ReservedBy: models.StringPtr("Ben")})

	ch, fn := collectDeliveries(t)
	cancel := store.SubscribeReservations("Ben", fn)
	defer cancel()

	err := store.RunTx(context.Background(), func(tx Tx) error {
		return tx.DeleteItem("i1")
	})
	if err != nil {
		t.Fatalf("RunTx: %v", err)
	}

	items := waitDelivery(t, ch)
	if len(items) != 0 {
		t.Errorf("expected the empty reserved set after delete, got %d items", len(items))
	}
}
