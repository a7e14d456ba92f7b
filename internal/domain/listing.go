package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxTitleLength is the maximum number of characters in a listing title.
	MaxTitleLength = 100

	// MaxDescriptionLength is the maximum number of characters in a listing description.
	MaxDescriptionLength = 500
)

// Listing validation errors
var (
	ErrListingIDEmpty      = errors.New("listing ID cannot be empty")
	ErrListingOwnerIDEmpty = errors.New("listing owner ID cannot be empty")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrTitleTooLong        = errors.New("title is too long")
	ErrEmptyDescription    = errors.New("description cannot be empty")
	ErrDescriptionTooLong  = errors.New("description is too long")
)

// Listing is a classified ad owned by the user who created it.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewListing creates a new Listing owned by ownerID.
// Returns an error if validation fails.
func NewListing(ownerID uuid.UUID, title, description string) (*Listing, error) {
	now := Timestamp(time.Now())
	listing := &Listing{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := listing.Validate(); err != nil {
		return nil, err
	}

	return listing, nil
}

// Validate checks if the Listing has valid data.
func (l *Listing) Validate() error {
	if l.ID == uuid.Nil {
		return ErrListingIDEmpty
	}
	if l.OwnerID == uuid.Nil {
		return ErrListingOwnerIDEmpty
	}

	var errs ValidationErrors
	if ve := validateTitle(l.Title); ve != nil {
		errs = append(errs, ve)
	}
	if ve := validateDescription(l.Description); ve != nil {
		errs = append(errs, ve)
	}
	return errs.orNil()
}

func validateTitle(title string) *ValidationError {
	switch {
	case strings.TrimSpace(title) == "":
		return NewValidationError("title", ErrEmptyTitle.Error(), ErrEmptyTitle)
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return NewValidationError("title", ErrTitleTooLong.Error(), ErrTitleTooLong)
	}
	return nil
}

func validateDescription(description string) *ValidationError {
	switch {
	case strings.TrimSpace(description) == "":
		return NewValidationError("description", ErrEmptyDescription.Error(), ErrEmptyDescription)
	case utf8.RuneCountInString(description) > MaxDescriptionLength:
		return NewValidationError("description", ErrDescriptionTooLong.Error(), ErrDescriptionTooLong)
	}
	return nil
}

// ListingPatch is a partial update. Nil fields are left untouched; the
// owner and ID are not representable here.
type ListingPatch struct {
	Title       *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// Apply merges the patch into the listing and validates the result.
// On error the listing is left unchanged.
func (l *Listing) Apply(p ListingPatch, now time.Time) error {
	updated := *l
	if p.Title != nil {
		updated.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = Timestamp(now)
	*l = updated
	return nil
}
