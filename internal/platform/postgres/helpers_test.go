package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// createTestUser inserts a user with a placeholder digest.
func createTestUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, postgres.NewPostgresUserStore(db, nil).Create(context.Background(), user))
	return user
}

// createTestListing inserts a listing owned by ownerID, created at createdAt.
func createTestListing(
	t *testing.T,
	db *sql.DB,
	ownerID uuid.UUID,
	title string,
	createdAt time.Time,
) *domain.Listing {
	t.Helper()

	listing, err := domain.NewListing(ownerID, title, "A perfectly fine description")
	require.NoError(t, err)
	listing.CreatedAt = createdAt.UTC()
	listing.UpdatedAt = createdAt.UTC()

	require.NoError(t, postgres.NewPostgresListingStore(db, nil, postgres.WithoutRowLocks()).
		Create(context.Background(), listing))
	return listing
}
