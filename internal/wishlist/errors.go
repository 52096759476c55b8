package wishlist

import (
	"errors"
	"fmt"
)

// Business rejections. These are terminal outcomes shown to the user, never
// retried: losing a reservation race or releasing someone else's
// reservation is a fact, not a transient failure.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrProfileNotFound = errors.New("profile not found")

	ErrAlreadyReserved    = errors.New("already reserved by someone else")
	ErrNotYourReservation = errors.New("this reservation belongs to someone else")
	ErrWrongPIN           = errors.New("wrong pin for this name")
	ErrNameNotAllowed     = errors.New("name is not in the family list")
)

// ValidationError rejects an operation before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsConflict reports whether err is a terminal business rejection that maps
// to a user-facing conflict message.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyReserved) ||
		errors.Is(err, ErrNotYourReservation) ||
		errors.Is(err, ErrWrongPIN)
}

// IsValidation reports whether err was rejected before any write.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrNameNotAllowed)
}
