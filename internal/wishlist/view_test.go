package wishlist

import (
	"context"
	"testing"
	"time"

	"giftlist/internal/models"
)

func TestVisibleItems(t *testing.T) {
	base := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	items := []*models.Item{
		{ID: "plain", OwnerID: "Anna", Title: "Plain", Position: models.IntPtr(2), CreatedAt: base},
		{ID: "first", OwnerID: "Anna", Title: "First", Position: models.IntPtr(1), CreatedAt: base},
		{
			ID: "hidden", OwnerID: "Anna", Title: "Hidden", CreatedAt: base,
			HiddenFromOwner: true, SuggestedBy: models.StringPtr("Clara"),
		},
		{
			ID: "removed", OwnerID: "Anna", Title: "Removed", CreatedAt: base,
			RemovedByOwner: true, ReservedBy: models.StringPtr("Ben"),
		},
		{ID: "late", OwnerID: "Anna", Title: "Late", CreatedAt: base.Add(time.Hour)},
		{ID: "early", OwnerID: "Anna", Title: "Early", CreatedAt: base.Add(time.Minute)},
	}

	ids := func(items []*models.Item) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.ID
		}
		return out
	}

	tests := []struct {
		name    string
		viewer  string
		isOwner bool
		want    []string
	}{
		// Positioned items first, then positionless by creation time.
		{"owner sees neither hidden nor removed", "Anna", true, []string{"first", "plain", "early", "late"}},
		{"reserver keeps the removed item", "Ben", false, []string{"first", "plain", "hidden", "removed", "early", "late"}},
		{"third party sees hidden but not removed", "Clara", false, []string{"first", "plain", "hidden", "early", "late"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(VisibleItems(items, tt.viewer, tt.isOwner))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// A suggestion that was reserved and then flagged removed still must not
// surface in the owner's view: the hidden filter applies before the
// removal filter is even considered.
func TestHiddenRemovedItemNeverLeaksToOwner(t *testing.T) {
	items := []*models.Item{
		{
			ID: "trap", OwnerID: "Anna", Title: "Trap",
			HiddenFromOwner: true, SuggestedBy: models.StringPtr("Clara"),
			RemovedByOwner: true, ReservedBy: models.StringPtr("Anna"),
		},
	}
	if got := VisibleItems(items, "Anna", true); len(got) != 0 {
		t.Errorf("owner view must be empty, got %d items", len(got))
	}
}

func TestVisibleItemsReturnsClones(t *testing.T) {
	items := []*models.Item{{ID: "i1", OwnerID: "Anna", Title: "Socks"}}
	view := VisibleItems(items, "Ben", false)
	view[0].Title = "Tampered"
	if items[0].Title != "Socks" {
		t.Error("the projection must not alias the source items")
	}
}

func TestSubscribeListProjectsPerViewer(t *testing.T) {
	svc, _ := newTestService(t)

	ownerCh := make(chan []*models.Item, 8)
	cancelOwner := svc.SubscribeList("Anna", "Anna", true, func(items []*models.Item) { ownerCh <- items })
	defer cancelOwner()

	visitorCh := make(chan []*models.Item, 8)
	cancelVisitor := svc.SubscribeList("Anna", "Ben", false, func(items []*models.Item) { visitorCh <- items })
	defer cancelVisitor()

	mustCreate(t, svc, "Anna", "Clara", "Surprise")

	select {
	case items := <-ownerCh:
		if len(items) != 0 {
			t.Errorf("the owner's delivery must not contain the suggestion, got %d items", len(items))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the owner delivery")
	}

	select {
	case items := <-visitorCh:
		if len(items) != 1 || items[0].SuggestedBy == nil || *items[0].SuggestedBy != "Clara" {
			t.Errorf("the visitor's delivery must carry the labeled suggestion, got %+v", items)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the visitor delivery")
	}
}

func TestReservationsNewestFirst(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	seedLegacyItem(t, store, &models.Item{ID: "old", OwnerID: "Anna", Title: "Old", CreatedAt: base, ReservedBy: models.StringPtr("Ben")})
	seedLegacyItem(t, store, &models.Item{ID: "new", OwnerID: "Clara", Title: "New", CreatedAt: base.Add(time.Hour), ReservedBy: models.StringPtr("Ben")})

	items, err := svc.Reservations(ctx, "Ben")
	if err != nil {
		t.Fatalf("reservations: %v", err)
	}
	if len(items) != 2 || items[0].ID != "new" || items[1].ID != "old" {
		t.Errorf("expected newest first, got %+v", items)
	}
}
