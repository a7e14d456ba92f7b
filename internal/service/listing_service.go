package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/store"
)

const listingServiceComponent = "listing_service"

// ListingService provides listing operations. Mutations take the caller's
// user ID and enforce ownership.
type ListingService interface {
	// Create stores a new listing owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Listing, error)

	// Get returns a single listing. Returns store.ErrListingNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error)

	// List returns listings newest first according to filter.
	List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error)

	// Update applies patch to a listing owned by userID and returns the result.
	// Returns store.ErrListingNotFound, ErrListingNotOwned, ErrEmptyPatch
	// or a validation error.
	Update(ctx context.Context, userID, id uuid.UUID, patch domain.ListingPatch) (*domain.Listing, error)

	// Delete removes a listing owned by userID.
	// Returns store.ErrListingNotFound or ErrListingNotOwned.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// listingServiceImpl implements the ListingService interface
type listingServiceImpl struct {
	db       *sql.DB
	listings store.ListingStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewListingService creates a new ListingService.
// It returns an error if any of the required dependencies are nil.
func NewListingService(db *sql.DB, listings store.ListingStore, logger *slog.Logger) (ListingService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if listings == nil {
		return nil, domain.NewValidationError("listings", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &listingServiceImpl{
		db:       db,
		listings: listings,
		logger:   logger.With(slog.String("component", listingServiceComponent)),
		now:      time.Now,
	}, nil
}

// Create implements ListingService.Create
func (s *listingServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description string,
) (*domain.Listing, error) {
	listing, err := domain.NewListing(ownerID, title, description)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.listings.WithTx(tx).Create(ctx, listing)
	})
	if err != nil {
		return nil, s.wrap(ctx, "create", "failed to save listing", err)
	}

	return listing, nil
}

// Get implements ListingService.Get
func (s *listingServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(ctx, "get", "failed to load listing", err)
	}
	return listing, nil
}

// List implements ListingService.List
func (s *listingServiceImpl) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	listings, err := s.listings.List(ctx, filter.Normalized())
	if err != nil {
		return nil, s.wrap(ctx, "list", "failed to list listings", err)
	}
	return listings, nil
}

// Update implements ListingService.Update
// The ownership check and the write happen in one transaction, with the
// row locked where the backend supports it.
func (s *listingServiceImpl) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.ListingPatch,
) (*domain.Listing, error) {
	if patch.Empty() {
		return nil, ErrEmptyPatch
	}

	var updated *domain.Listing
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txListings := s.listings.WithTx(tx)

		listing, err := s.authorize(ctx, txListings, userID, id)
		if err != nil {
			return err
		}

		if err := listing.Apply(patch, s.now()); err != nil {
			return err
		}

		if err := txListings.Update(ctx, listing); err != nil {
			return err
		}

		updated = listing
		return nil
	})
	if err != nil {
		return nil, s.wrap(ctx, "update", "failed to update listing", err)
	}

	return updated, nil
}

// Delete implements ListingService.Delete
func (s *listingServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txListings := s.listings.WithTx(tx)

		if _, err := s.authorize(ctx, txListings, userID, id); err != nil {
			return err
		}
		return txListings.Delete(ctx, id, userID)
	})
	if err != nil {
		return s.wrap(ctx, "delete", "failed to delete listing", err)
	}
	return nil
}

// authorize loads the listing and checks that userID owns it.
func (s *listingServiceImpl) authorize(
	ctx context.Context,
	listings store.ListingStore,
	userID, id uuid.UUID,
) (*domain.Listing, error) {
	listing, err := listings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.OwnerID != userID {
		logger.ForComponent(ctx, s.logger, listingServiceComponent).Warn("listing ownership check failed",
			slog.String("listing_id", id.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrListingNotOwned
	}
	return listing, nil
}

// wrap passes expected conditions through and wraps everything else.
func (s *listingServiceImpl) wrap(ctx context.Context, op, msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, ErrNotOwned),
		errors.Is(err, domain.ErrValidation):
		return err
	}

	logger.ForComponent(ctx, s.logger, listingServiceComponent).Error(msg,
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewListingServiceError(op, msg, err)
}
