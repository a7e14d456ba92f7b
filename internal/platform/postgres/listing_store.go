package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/store"
)

const listingStoreComponent = "listing_store"

const listingColumns = "id, title, description, owner_id, created_at, updated_at"

// PostgresListingStore implements the store.ListingStore interface.
type PostgresListingStore struct {
	db       store.DBTX
	logger   *slog.Logger
	rowLocks bool
}

// ListingStoreOption configures a PostgresListingStore.
type ListingStoreOption func(*PostgresListingStore)

// WithoutRowLocks drops the FOR UPDATE clause from GetForUpdate. SQLite
// has no row locks; its writers are already serialized.
func WithoutRowLocks() ListingStoreOption {
	return func(s *PostgresListingStore) {
		s.rowLocks = false
	}
}

// NewPostgresListingStore creates a new SQL implementation of the ListingStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresListingStore(
	db store.DBTX,
	logger *slog.Logger,
	opts ...ListingStoreOption,
) *PostgresListingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &PostgresListingStore{
		db:       db,
		logger:   logger.With(slog.String("component", listingStoreComponent)),
		rowLocks: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.ListingStore = (*PostgresListingStore)(nil)

// WithTx implements store.ListingStore.WithTx
func (s *PostgresListingStore) WithTx(tx *sql.Tx) store.ListingStore {
	return &PostgresListingStore{
		db:       tx,
		logger:   s.logger,
		rowLocks: s.rowLocks,
	}
}

// Create implements store.ListingStore.Create
func (s *PostgresListingStore) Create(ctx context.Context, listing *domain.Listing) error {
	log := logger.ForComponent(ctx, s.logger, listingStoreComponent)

	if err := listing.Validate(); err != nil {
		log.Warn("listing validation failed during create",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	query := `
		INSERT INTO listings (id, title, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.OwnerID,
		listing.CreatedAt.UTC(),
		listing.UpdatedAt.UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during listing creation",
				slog.String("listing_id", listing.ID.String()),
				slog.String("owner_id", listing.OwnerID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, listing.OwnerID)
		}
		log.Error("failed to create listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return store.NewStoreError("listing", "create", "insert failed", MapError(err))
	}

	log.Info("listing created successfully",
		slog.String("listing_id", listing.ID.String()),
		slog.String("owner_id", listing.OwnerID.String()))
	return nil
}

// GetByID implements store.ListingStore.GetByID
func (s *PostgresListingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings WHERE id = $1"
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.ListingStore.GetForUpdate
func (s *PostgresListingStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings WHERE id = $1"
	if s.rowLocks {
		query += " FOR UPDATE"
	}
	return s.getOne(ctx, query, id)
}

func (s *PostgresListingStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Listing, error) {
	log := logger.ForComponent(ctx, s.logger, listingStoreComponent)

	listing, err := scanListing(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("listing not found", slog.String("listing_id", id.String()))
			return nil, store.ErrListingNotFound
		}
		log.Error("failed to get listing by ID",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return nil, fmt.Errorf("failed to get listing: %w", MapError(err))
	}
	return listing, nil
}

// List implements store.ListingStore.List
// Returns an empty slice if no listings match the filter.
func (s *PostgresListingStore) List(ctx context.Context, filter store.ListingFilter) ([]*domain.Listing, error) {
	log := logger.ForComponent(ctx, s.logger, listingStoreComponent)
	filter = filter.Normalized()

	var (
		where []string
		args  []any
	)
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}

	query := "SELECT " + listingColumns + " FROM listings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 || filter.Offset > 0 {
		// SQLite only accepts OFFSET after a LIMIT.
		limit := int64(filter.Limit)
		if limit == 0 {
			limit = math.MaxInt64
		}
		args = append(args, limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query listings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list listings: %w", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	listings := []*domain.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			log.Error("failed to scan listing row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	log.Debug("listed listings",
		slog.Int("count", len(listings)),
		slog.Int("limit", filter.Limit),
		slog.Int("offset", filter.Offset))
	return listings, nil
}

// Update implements store.ListingStore.Update
func (s *PostgresListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	log := logger.ForComponent(ctx, s.logger, listingStoreComponent)

	if err := listing.Validate(); err != nil {
		log.Warn("listing validation failed during update",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return err
	}

	query := `
		UPDATE listings
		SET title = $1, description = $2, updated_at = $3
		WHERE id = $4 AND owner_id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		listing.Title,
		listing.Description,
		listing.UpdatedAt.UTC(),
		listing.ID,
		listing.OwnerID,
	)
	if err != nil {
		log.Error("failed to update listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", listing.ID.String()))
		return store.NewStoreError("listing", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrListingNotFound); err != nil {
		return err
	}

	log.Info("listing updated successfully", slog.String("listing_id", listing.ID.String()))
	return nil
}

// Delete implements store.ListingStore.Delete
func (s *PostgresListingStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.ForComponent(ctx, s.logger, listingStoreComponent)

	query := `
		DELETE FROM listings
		WHERE id = $1 AND owner_id = $2
	`
	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete listing",
			slog.String("error", err.Error()),
			slog.String("listing_id", id.String()))
		return store.NewStoreError("listing", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrListingNotFound); err != nil {
		return err
	}

	log.Info("listing deleted successfully", slog.String("listing_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	if err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.OwnerID,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}
