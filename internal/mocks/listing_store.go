package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/store"
)

// MockListingStore implements store.ListingStore for testing with an
// in-memory map. Function fields override the default behavior.
type MockListingStore struct {
	CreateFn       func(ctx context.Context, listing *domain.Listing) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	GetForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	ListFn         func(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error)
	UpdateFn       func(ctx context.Context, listing *domain.Listing) error
	DeleteFn       func(ctx context.Context, id, ownerID uuid.UUID) error

	mu       sync.Mutex
	Listings map[uuid.UUID]*domain.Listing
}

var _ store.ListingStore = (*MockListingStore)(nil)

// NewMockListingStore creates a new mock store with initialized defaults
func NewMockListingStore() *MockListingStore {
	return &MockListingStore{
		Listings: make(map[uuid.UUID]*domain.Listing),
	}
}

// Create implements the ListingStore interface
func (m *MockListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, listing)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *listing
	m.Listings[listing.ID] = &copied
	return nil
}

// GetByID implements the ListingStore interface
func (m *MockListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.get(id)
}

// GetForUpdate implements the ListingStore interface
func (m *MockListingStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.get(id)
}

func (m *MockListingStore) get(id uuid.UUID) (*domain.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	listing, exists := m.Listings[id]
	if !exists {
		return nil, store.ErrListingNotFound
	}
	copied := *listing
	return &copied, nil
}

// List implements the ListingStore interface
func (m *MockListingStore) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	filter = filter.Normalized()
	result := make([]*domain.Listing, 0, len(m.Listings))
	for _, listing := range m.Listings {
		if filter.OwnerID != nil && listing.OwnerID != *filter.OwnerID {
			continue
		}
		copied := *listing
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() > result[j].ID.String()
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset >= len(result) {
		return []*domain.Listing{}, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Update implements the ListingStore interface
func (m *MockListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, listing)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.Listings[listing.ID]
	if !exists || existing.OwnerID != listing.OwnerID {
		return store.ErrListingNotFound
	}
	copied := *listing
	m.Listings[listing.ID] = &copied
	return nil
}

// Delete implements the ListingStore interface
func (m *MockListingStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.Listings[id]
	if !exists || existing.OwnerID != ownerID {
		return store.ErrListingNotFound
	}
	delete(m.Listings, id)
	return nil
}

// WithTx implements the ListingStore interface for transaction support
func (m *MockListingStore) WithTx(tx *sql.Tx) store.ListingStore {
	return m
}
