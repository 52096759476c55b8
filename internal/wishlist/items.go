package wishlist

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"giftlist/internal/docstore"
	"giftlist/internal/metrics"
	"giftlist/internal/models"
	"giftlist/internal/validation"
)

// ItemPayload carries the caller-editable item fields. Optional fields are
// stored as nil when blank.
type ItemPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url"`
}

func (p *ItemPayload) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Link = strings.TrimSpace(p.Link)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
}

func (p *ItemPayload) validate() error {
	if p.Title == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if p.Link != "" {
		if ok, reason := validation.ValidateURL(p.Link); !ok {
			return &ValidationError{Field: "link", Reason: reason}
		}
	}
	if p.ImageURL != "" {
		if ok, reason := validation.ValidateURL(p.ImageURL); !ok {
			return &ValidationError{Field: "image_url", Reason: reason}
		}
	}
	return nil
}

// CreateItem adds an item to ownerID's list. When the actor is the owner
// the item is appended to the active order (next free position). Any other
// family member creates a suggestion instead: hidden from the owner,
// labeled with the suggester, and positionless since it never joins the
// owner's ordering.
func (s *Service) CreateItem(ctx context.Context, ownerID, actorID string, payload ItemPayload) (*models.Item, error) {
	owner, ok := s.names.Canonicalize(ownerID)
	if !ok {
		return nil, ErrNameNotAllowed
	}
	if actorID == "" {
		return nil, &ValidationError{Field: "actor", Reason: "actor is required"}
	}

	payload.normalize()
	if err := payload.validate(); err != nil {
		return nil, err
	}

	suggestion := actorID != owner

	var position *int
	if !suggestion {
		// Position comes from the caller's current view of the active
		// list, like the interactive client computed it. A concurrent
		// create can hand out the same position; the order stays stable
		// and the next reorder normalizes it.
		items, err := s.store.ListItems(ctx, owner)
		if err != nil {
			return nil, err
		}
		position = models.IntPtr(NextPosition(ownerVisibleActive(items)))
	}

	item := &models.Item{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		Title:       payload.Title,
		Description: models.StringPtr(payload.Description),
		Link:        models.StringPtr(payload.Link),
		ImageURL:    models.StringPtr(payload.ImageURL),
		Position:    position,
	}
	if suggestion {
		item.HiddenFromOwner = true
		item.SuggestedBy = &actorID
	}

	err := s.runTx(ctx, func(tx docstore.Tx) error {
		if _, err := tx.GetProfile(owner); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		return tx.PutItem(item)
	})
	if err != nil {
		return nil, err
	}

	if suggestion {
		metrics.RecordItemCreated(metrics.KindSuggestion)
	} else {
		metrics.RecordItemCreated(metrics.KindOwner)
	}

	created, err := s.store.GetItem(ctx, item.ID)
	if err != nil {
		// The write committed; fall back to the in-memory copy.
		return item, nil
	}
	return created, nil
}

// UpdateItemDetails edits title, description, link and image of the owner's
// own item. Position and reservation state are untouched.
func (s *Service) UpdateItemDetails(ctx context.Context, itemID, actorID string, payload ItemPayload) (*models.Item, error) {
	payload.normalize()
	if err := payload.validate(); err != nil {
		return nil, err
	}

	var updated *models.Item
	err := s.runTx(ctx, func(tx docstore.Tx) error {
		item, err := tx.GetItem(itemID)
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		if item.OwnerID != actorID {
			return &ValidationError{Field: "actor", Reason: "only the owner can edit an item"}
		}

		item.Title = payload.Title
		item.Description = models.StringPtr(payload.Description)
		item.Link = models.StringPtr(payload.Link)
		item.ImageURL = models.StringPtr(payload.ImageURL)
		updated = item
		return tx.PutItem(item)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetItem fetches a single item.
func (s *Service) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	return item, err
}
