package models

import (
	"time"
)

// Item is a single wishlist entry owned by one family member.
//
// Reservation lifecycle: an item is free (ReservedBy nil), reserved
// (ReservedBy set), reserved-but-removed (ReservedBy set and RemovedByOwner
// true, pending release), or gone (document deleted). RemovedByOwner is never
// true without a reservation: deleting an unreserved item removes the
// document outright.
type Item struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`

	// Position orders the owner's active items. Nil until the owner's list
	// has been bootstrapped; positionless items sort after positioned ones
	// by creation time.
	Position *int `json:"position,omitempty"`

	RemovedByOwner bool    `json:"removed_by_owner"`
	ReservedBy     *string `json:"reserved_by,omitempty"`
	ReservedWith   *string `json:"reserved_with,omitempty"`

	// HiddenFromOwner marks a visitor suggestion: visible to the rest of
	// the family, never to the list owner.
	HiddenFromOwner bool    `json:"hidden_from_owner"`
	SuggestedBy     *string `json:"suggested_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Reserved reports whether the item currently holds a reservation.
func (i *Item) Reserved() bool {
	return i.ReservedBy != nil && *i.ReservedBy != ""
}

// ReservedByActor reports whether actorID holds the item's reservation.
func (i *Item) ReservedByActor(actorID string) bool {
	return i.ReservedBy != nil && *i.ReservedBy == actorID
}

// Active reports whether the item still belongs to the owner's ordering
// domain (not soft-removed).
func (i *Item) Active() bool {
	return !i.RemovedByOwner
}

// Clone returns a deep copy so snapshots and subscribers never share
// pointer fields with committed state.
func (i *Item) Clone() *Item {
	cp := *i
	cp.Description = cloneStringPtr(i.Description)
	cp.Link = cloneStringPtr(i.Link)
	cp.ImageURL = cloneStringPtr(i.ImageURL)
	cp.Position = cloneIntPtr(i.Position)
	cp.ReservedBy = cloneStringPtr(i.ReservedBy)
	cp.ReservedWith = cloneStringPtr(i.ReservedWith)
	cp.SuggestedBy = cloneStringPtr(i.SuggestedBy)
	return &cp
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneIntPtr(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// StringPtr returns a pointer to s, or nil when s is empty. Optional item
// fields store nil rather than empty strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
