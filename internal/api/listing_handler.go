package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/api/shared"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/service"
	"github.com/phrazzld/adboard/internal/service/auth"
	"github.com/phrazzld/adboard/internal/store"
)

const listingHandlerComponent = "listing_handler"

// immutableListingFields are listing attributes a PATCH may not name.
var immutableListingFields = map[string]bool{
	"id":         true,
	"owner_id":   true,
	"created_at": true,
	"updated_at": true,
}

// ListingHandler handles listing-related HTTP requests
type ListingHandler struct {
	listings service.ListingService
	logger   *slog.Logger
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listings service.ListingService, logger *slog.Logger) *ListingHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ListingHandler")
	}

	return &ListingHandler{
		listings: listings,
		logger:   logger.With(slog.String("component", listingHandlerComponent)),
	}
}

// List handles GET / requests.
// Optional query parameters: owner (user ID), limit and offset.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	listings, err := h.listings.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list listings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listingsToResponse(listings))
}

// Get handles GET /{id} requests.
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get listing")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listingToResponse(listing))
}

// Create handles POST / requests. The listing is owned by the caller.
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.ForComponent(r.Context(), h.logger, listingHandlerComponent)

	identity, ok := getIdentityFromContext(r)
	if !ok {
		log.Warn("identity not found in request context")
		HandleAPIError(w, r, auth.ErrUnauthenticated, "")
		return
	}

	var req CreateListingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	listing, err := h.listings.Create(r.Context(), identity.UserID, *req.Title, *req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create listing")
		return
	}

	log.Debug("listing created", slog.String("listing_id", listing.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, listingToResponse(listing))
}

// Update handles PATCH /{id} requests.
// Only title and description may be changed; any other key is rejected
// before the listing is loaded.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndPathID(w, r)
	if !ok {
		return
	}

	patch, err := parseListingPatch(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	listing, err := h.listings.Update(r.Context(), identity.UserID, id, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update listing")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, listingToResponse(listing))
}

// Delete handles DELETE /{id} requests.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndPathID(w, r)
	if !ok {
		return
	}

	if err := h.listings.Delete(r.Context(), identity.UserID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete listing")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "listing deleted")
}

// identityAndPathID extracts the caller and the {id} path parameter,
// writing the error response itself when either is missing.
func (h *ListingHandler) identityAndPathID(
	w http.ResponseWriter,
	r *http.Request,
) (*domain.Identity, uuid.UUID, bool) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		logger.ForComponent(r.Context(), h.logger, listingHandlerComponent).Warn("identity not found in request context")
		HandleAPIError(w, r, auth.ErrUnauthenticated, "")
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}

	return identity, id, true
}

// parseListingFilter reads owner, limit and offset from the query string.
func parseListingFilter(r *http.Request) (store.ListingFilter, error) {
	var filter store.ListingFilter
	var errs domain.ValidationErrors
	q := r.URL.Query()

	if raw := q.Get("owner"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, domain.NewValidationError("owner", "owner is not a valid ID", domain.ErrInvalidID))
		} else {
			filter.OwnerID = &ownerID
		}
	}

	// Without a limit every matching listing is returned.
	for _, p := range []struct {
		name string
		min  int
		rule string
		dst  *int
	}{
		{"limit", 1, "a positive integer", &filter.Limit},
		{"offset", 0, "a non-negative integer", &filter.Offset},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < p.min {
			errs = append(errs, domain.NewValidationError(p.name,
				p.name+" must be "+p.rule, domain.ErrValidation))
			continue
		}
		*p.dst = n
	}

	if len(errs) > 0 {
		return store.ListingFilter{}, errs
	}
	return filter, nil
}

// parseListingPatch decodes a PATCH body into a ListingPatch. Immutable,
// unknown and non-string fields are all reported together.
func parseListingPatch(r *http.Request) (domain.ListingPatch, error) {
	var patch domain.ListingPatch

	var raw map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &raw); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return patch, err
		}
		return patch, errMalformedBody
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs domain.ValidationErrors
	for _, key := range keys {
		switch {
		case key == "title":
			patch.Title = stringField(key, raw[key], &errs)
		case key == "description":
			patch.Description = stringField(key, raw[key], &errs)
		case immutableListingFields[key]:
			errs = append(errs, domain.NewValidationError(key,
				"field "+key+" cannot be modified", domain.ErrImmutableField))
		default:
			errs = append(errs, domain.NewValidationError(key,
				"unknown field "+key, domain.ErrValidation))
		}
	}

	if len(errs) > 0 {
		return domain.ListingPatch{}, errs
	}
	if patch.Empty() {
		return patch, service.ErrEmptyPatch
	}
	return patch, nil
}

// stringField decodes a JSON string value, recording a validation error
// for null or any other type.
func stringField(key string, value json.RawMessage, errs *domain.ValidationErrors) *string {
	var s *string
	if err := json.Unmarshal(value, &s); err != nil || s == nil {
		*errs = append(*errs, domain.NewValidationError(key, key+" must be a string", domain.ErrValidation))
		return nil
	}
	return s
}
