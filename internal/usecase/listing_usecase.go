package usecase

import (
	"context"
	"strings"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/infrastructure/backend"
	"campusmarket/internal/infrastructure/ratelimit"
	"campusmarket/internal/session"
	"campusmarket/internal/store"
	apperrors "campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/utils"
)

type ListingUseCase struct {
	pageSize int
	limiter  *ratelimit.RateLimiter
}

func NewListingUseCase(pageSize int, limiter *ratelimit.RateLimiter) *ListingUseCase {
	return &ListingUseCase{
		pageSize: pageSize,
		limiter:  limiter,
	}
}

func (uc *ListingUseCase) PageSize() int {
	return uc.pageSize
}

// Browse fetches one browse-feed page. The page argument is the one-based
// UI page; the backend call is zero-based. The result is tagged with a
// request sequence so a late response never overwrites a newer one.
func (uc *ListingUseCase) Browse(ctx context.Context, sess *session.Session, page int, search string) error {
	if page < 1 {
		page = 1
	}
	params := utils.PaginationParams{Page: page, PageSize: uc.pageSize}

	seq := sess.Listings.NextSeq()
	sess.Listings.Dispatch(store.BrowseFetchStarted{Seq: seq})

	result, err := sess.Client.ListListings(ctx, params.APIPage(), params.PageSize, search)
	if err != nil {
		sess.Listings.Dispatch(store.BrowseFetchFailed{Seq: seq, Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Listings.Dispatch(store.BrowseFetchSucceeded{
		Seq:           seq,
		Items:         result.Content,
		TotalElements: result.TotalElements,
	})
	return nil
}

// Search handles a keystroke on the browse feed: the page index resets to 1
// because the old index is meaningless against a new result set, and the
// per-session limiter keeps the keystroke storm off the backend.
func (uc *ListingUseCase) Search(ctx context.Context, sess *session.Session, keyword string) error {
	if allowed, wait := uc.limiter.Allow(sess.ID, "search"); !allowed {
		logger.Debug("session %s: search throttled for %s", sess.ID, wait)
		return apperrors.TooManyRequests("Searching too fast, hold on a moment")
	}
	return uc.Browse(ctx, sess, 1, keyword)
}

// BrowseCategory fetches one page of a category feed.
func (uc *ListingUseCase) BrowseCategory(ctx context.Context, sess *session.Session, category string, page int) error {
	if page < 1 {
		page = 1
	}
	params := utils.PaginationParams{Page: page, PageSize: uc.pageSize}

	seq := sess.Listings.NextSeq()
	sess.Listings.Dispatch(store.BrowseFetchStarted{Seq: seq})

	result, err := sess.Client.ListingsByCategory(ctx, category, params.APIPage(), params.PageSize)
	if err != nil {
		sess.Listings.Dispatch(store.BrowseFetchFailed{Seq: seq, Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Listings.Dispatch(store.BrowseFetchSucceeded{
		Seq:           seq,
		Items:         result.Content,
		TotalElements: result.TotalElements,
	})
	return nil
}

// BrowsePriceRange fetches one page of listings within [minPrice, maxPrice].
func (uc *ListingUseCase) BrowsePriceRange(ctx context.Context, sess *session.Session, minPrice, maxPrice float64, page int) error {
	if minPrice < 0 || maxPrice < minPrice {
		return FieldErrors{"price": "Invalid price range"}
	}
	if page < 1 {
		page = 1
	}
	params := utils.PaginationParams{Page: page, PageSize: uc.pageSize}

	seq := sess.Listings.NextSeq()
	sess.Listings.Dispatch(store.BrowseFetchStarted{Seq: seq})

	result, err := sess.Client.ListingsByPriceRange(ctx, minPrice, maxPrice, params.APIPage(), params.PageSize)
	if err != nil {
		sess.Listings.Dispatch(store.BrowseFetchFailed{Seq: seq, Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Listings.Dispatch(store.BrowseFetchSucceeded{
		Seq:           seq,
		Items:         result.Content,
		TotalElements: result.TotalElements,
	})
	return nil
}

// LoadDetail eagerly loads the full listing for the detail page.
func (uc *ListingUseCase) LoadDetail(ctx context.Context, sess *session.Session, id int64) (*entity.Listing, error) {
	listing, err := sess.Client.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Listings.Dispatch(store.DetailLoaded{Listing: *listing})
	return listing, nil
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Images      []backend.ImageUpload
}

// Create validates the form locally, then posts the multipart payload. On
// success the new listing is prepended to both the browse feed and the own
// listings so the creator sees it immediately, first in both.
func (uc *ListingUseCase) Create(ctx context.Context, sess *session.Session, input CreateListingInput) (*entity.Listing, error) {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(input.Title) == "" {
		fieldErrs["title"] = "Title is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fieldErrs["description"] = "Description is required"
	}
	if input.Price <= 0 {
		fieldErrs["price"] = "Price must be greater than 0"
	}
	if strings.TrimSpace(input.Category) == "" {
		fieldErrs["category"] = "Category is required"
	}
	if len(input.Images) == 0 {
		fieldErrs["images"] = "At least one image is required"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	listing, err := sess.Client.CreateListing(ctx, backend.CreateListingInput{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Status:      entity.ListingStatusActive,
		Images:      input.Images,
	})
	if err != nil {
		return nil, err
	}

	sess.Listings.Dispatch(store.ListingCreated{Listing: *listing})
	uc.resolveUser(sess, listing.Seller)
	return listing, nil
}

// LoadOwn fetches the authenticated user's listings for the profile page.
func (uc *ListingUseCase) LoadOwn(ctx context.Context, sess *session.Session, page int) error {
	if page < 1 {
		page = 1
	}
	params := utils.PaginationParams{Page: page, PageSize: uc.pageSize}

	seq := sess.Listings.NextSeq()
	sess.Listings.Dispatch(store.OwnFetchStarted{Seq: seq})

	result, err := sess.Client.OwnListings(ctx, params.APIPage(), params.PageSize)
	if err != nil {
		sess.Listings.Dispatch(store.OwnFetchFailed{Seq: seq, Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Listings.Dispatch(store.OwnFetchSucceeded{Seq: seq, Items: result.Content})

	// The seller on an own listing is the current user; backfill the full
	// identity the login response could not provide.
	if len(result.Content) > 0 {
		uc.resolveUser(sess, result.Content[0].Seller)
	}
	return nil
}

// UpdateStatus applies a seller-driven status transition. The result is
// applied uniformly to the browse feed, the own listings and the detail
// cache; touching only one of them would let the caches diverge.
func (uc *ListingUseCase) UpdateStatus(ctx context.Context, sess *session.Session, id int64, status string) error {
	if !entity.ValidListingStatus(status) {
		return FieldErrors{"status": "Unknown listing status"}
	}

	listing, err := sess.Client.UpdateListingStatus(ctx, id, status)
	if err != nil {
		return err
	}

	sess.Listings.Dispatch(store.ListingUpdated{Listing: *listing})
	return nil
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
}

// Update edits listing fields. Same uniform propagation as UpdateStatus.
func (uc *ListingUseCase) Update(ctx context.Context, sess *session.Session, id int64, input UpdateListingInput) error {
	fieldErrs := FieldErrors{}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		fieldErrs["title"] = "Title cannot be empty"
	}
	if input.Price != nil && *input.Price <= 0 {
		fieldErrs["price"] = "Price must be greater than 0"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	listing, err := sess.Client.UpdateListing(ctx, id, backend.UpdateListingInput{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
	})
	if err != nil {
		return err
	}

	sess.Listings.Dispatch(store.ListingUpdated{Listing: *listing})
	return nil
}

// Delete removes the listing from every local cache that may hold it.
func (uc *ListingUseCase) Delete(ctx context.Context, sess *session.Session, id int64) error {
	if err := sess.Client.DeleteListing(ctx, id); err != nil {
		return err
	}
	sess.Listings.Dispatch(store.ListingDeleted{ID: id})
	return nil
}

func (uc *ListingUseCase) resolveUser(sess *session.Session, user entity.User) {
	current := sess.Auth.Snapshot()
	if current.User != nil && current.User.Username == user.Username && user.ID != 0 {
		sess.Auth.Dispatch(store.UserResolved{User: user})
	}
}
