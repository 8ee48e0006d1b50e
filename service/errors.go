package service

import (
	"errors"

	"github.com/google/uuid"
)

// Failure kinds the controllers translate to HTTP statuses. Services wrap
// these with %w so callers match via errors.Is.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrStorage        = errors.New("storage failure")
)

// sameOwner is the single ownership capability check. A nil/missing owner on
// either side never matches.
func sameOwner(resourceOwnerID, callerID uuid.UUID) bool {
	if resourceOwnerID == uuid.Nil || callerID == uuid.Nil {
		return false
	}
	return resourceOwnerID == callerID
}
