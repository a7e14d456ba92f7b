package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
)

// MaxListingLimit caps an explicit page size.
const MaxListingLimit = 100

// ListingFilter narrows a List call. A nil OwnerID lists every owner and a
// zero Limit returns every matching listing.
type ListingFilter struct {
	OwnerID *uuid.UUID
	Limit   int
	Offset  int
}

// Normalized returns a copy with an explicit limit clamped to
// MaxListingLimit and negative values reset to zero.
func (f ListingFilter) Normalized() ListingFilter {
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Limit > MaxListingLimit {
		f.Limit = MaxListingLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ListingStore defines the interface for listing persistence.
// Mutations are scoped by owner: a row is only changed when both its ID
// and its owner_id match.
type ListingStore interface {
	// Create saves a new listing.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, listing *domain.Listing) error

	// GetByID retrieves a listing by its unique ID.
	// Returns ErrListingNotFound if the listing does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// GetForUpdate is GetByID that also locks the row until the enclosing
	// transaction ends, where the backend supports row locks.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// List returns listings newest first according to filter.
	List(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)

	// Update writes title, description and updated_at of an existing listing
	// owned by listing.OwnerID.
	// Returns ErrListingNotFound if no listing with that ID and owner exists.
	Update(ctx context.Context, listing *domain.Listing) error

	// Delete removes the listing with the given ID owned by ownerID.
	// Returns ErrListingNotFound if no listing with that ID and owner exists.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// WithTx returns a new ListingStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ListingStore
}
