package wishlist

import (
	"context"
	"errors"

	"giftlist/internal/docstore"
	"giftlist/internal/models"
	"giftlist/internal/validation"
)

// Login verifies a family name and PIN, creating the profile on first use.
// The create-or-verify runs in one transaction so two first logins for the
// same name cannot both create it with different PINs.
func (s *Service) Login(ctx context.Context, displayName, pin string) (*models.Profile, error) {
	canonical, ok := s.names.Canonicalize(displayName)
	if !ok {
		return nil, ErrNameNotAllowed
	}
	if !validation.ValidatePIN(pin) {
		return nil, &ValidationError{Field: "pin", Reason: "pin must be 4 to 8 digits"}
	}

	var profile *models.Profile
	err := s.runTx(ctx, func(tx docstore.Tx) error {
		existing, err := tx.GetProfile(canonical)
		if errors.Is(err, docstore.ErrNotFound) {
			profile = &models.Profile{
				ID:          canonical,
				DisplayName: canonical,
				Email:       s.names.EmailFor(canonical),
				PIN:         pin,
			}
			return tx.PutProfile(profile)
		}
		if err != nil {
			return err
		}
		if existing.PIN != pin {
			return ErrWrongPIN
		}
		profile = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ChangePIN updates the caller's own PIN.
func (s *Service) ChangePIN(ctx context.Context, actorID, newPIN string) error {
	if !validation.ValidatePIN(newPIN) {
		return &ValidationError{Field: "pin", Reason: "pin must be 4 to 8 digits"}
	}
	return s.runTx(ctx, func(tx docstore.Tx) error {
		profile, err := tx.GetProfile(actorID)
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		profile.PIN = newPIN
		return tx.PutProfile(profile)
	})
}

// Profile fetches one profile by ID.
func (s *Service) Profile(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.store.GetProfile(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return profile, err
}

// Profiles lists every family profile, sorted by display name.
func (s *Service) Profiles(ctx context.Context) ([]*models.Profile, error) {
	return s.store.ListProfiles(ctx)
}

// AllowedNames returns the configured family names in order.
func (s *Service) AllowedNames() []string {
	return s.names.All()
}

// ResolveName canonicalizes a family name taken from a URL path or payload.
func (s *Service) ResolveName(name string) (string, bool) {
	return s.names.Canonicalize(name)
}
