package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/service"
	"github.com/phrazzld/adboard/internal/store"
)

// MockListingService implements service.ListingService for testing
type MockListingService struct {
	CreateFn func(ctx context.Context, ownerID uuid.UUID, title, description string) (*domain.Listing, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	ListFn   func(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error)
	UpdateFn func(ctx context.Context, userID, id uuid.UUID, patch domain.ListingPatch) (*domain.Listing, error)
	DeleteFn func(ctx context.Context, userID, id uuid.UUID) error
}

var _ service.ListingService = (*MockListingService)(nil)

// Create implements service.ListingService
func (m *MockListingService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description string,
) (*domain.Listing, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ownerID, title, description)
	}
	return domain.NewListing(ownerID, title, description)
}

// Get implements service.ListingService
func (m *MockListingService) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, store.ErrListingNotFound
}

// List implements service.ListingService
func (m *MockListingService) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []*domain.Listing{}, nil
}

// Update implements service.ListingService
func (m *MockListingService) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch domain.ListingPatch,
) (*domain.Listing, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, userID, id, patch)
	}
	return nil, store.ErrListingNotFound
}

// Delete implements service.ListingService
func (m *MockListingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	return store.ErrListingNotFound
}
