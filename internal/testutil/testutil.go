// Package testutil provides test fixtures over the in-memory store.
package testutil

import (
	"context"
	"testing"

	"giftlist/internal/docstore"
	"giftlist/internal/models"
	"giftlist/internal/names"
	"giftlist/internal/wishlist"
)

// DefaultFamily is the roster used by test fixtures.
var DefaultFamily = []string{"Anna", "Ben", "Clara", "David"}

// NewService builds a wishlist service over a fresh in-memory store.
func NewService(t *testing.T) (*wishlist.Service, *docstore.MemoryStore) {
	t.Helper()

	store := docstore.NewMemoryStore()
	t.Cleanup(store.Close)

	registry := names.NewRegistry(DefaultFamily)
	return wishlist.New(store, registry, nil), store
}

// CreateProfile logs a member in, creating their profile on the way.
func CreateProfile(t *testing.T, service *wishlist.Service, name string) *models.Profile {
	t.Helper()

	profile, err := service.Login(context.Background(), name, "1234")
	if err != nil {
		t.Fatalf("failed to create profile %s: %v", name, err)
	}
	return profile
}

// CreateItem adds an item titled title to ownerID's list, acting as actorID.
func CreateItem(t *testing.T, service *wishlist.Service, ownerID, actorID, title string) *models.Item {
	t.Helper()

	item, err := service.CreateItem(context.Background(), ownerID, actorID, wishlist.ItemPayload{Title: title})
	if err != nil {
		t.Fatalf("failed to create item %q: %v", title, err)
	}
	return item
}
