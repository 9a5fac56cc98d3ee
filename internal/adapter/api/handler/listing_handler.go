package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/middleware"
	"campusmarket/internal/domain/entity"
	"campusmarket/internal/infrastructure/backend"
	"campusmarket/internal/session"
	"campusmarket/internal/usecase"
	apperrors "campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/response"
	"campusmarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
	messageUseCase *usecase.MessageUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, messageUseCase *usecase.MessageUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		messageUseCase: messageUseCase,
	}
}

type homeView struct {
	Nav           Nav
	Listings      []entity.Listing
	Error         string
	Loading       bool
	Search        string
	Category      string
	MinPrice      string
	MaxPrice      string
	Page          int
	TotalPages    int
	HasPrev       bool
	HasNext       bool
	PrevPage      int
	NextPage      int
	TotalListings int64
}

type listingDetailView struct {
	Nav          Nav
	Listing      *entity.Listing
	IsOwner      bool
	MessageError string
	Statuses     []string
}

type createListingRequest struct {
	Title       string  `form:"title" validate:"required"`
	Description string  `form:"description" validate:"required"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Category    string  `form:"category" validate:"required"`
}

type listingFormView struct {
	Nav         Nav
	ListingID   int64
	Error       string
	FieldErrors usecase.FieldErrors
	Title       string
	Description string
	Price       string
	Category    string
	Categories  []string
}

var listingCategories = []string{
	"Textbooks",
	"Electronics",
	"Furniture",
	"Clothing",
	"Sports",
	"Tickets",
	"Other",
}

// Home renders the browse feed. One of three fetch modes applies, picked
// from the query string: keyword search, category filter, or price range.
func (h *ListingHandler) Home(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	ctx := c.Request().Context()

	params := utils.GetPaginationParams(c, h.listingUseCase.PageSize())
	search := c.QueryParam("search")
	category := c.QueryParam("category")
	minStr := c.QueryParam("min_price")
	maxStr := c.QueryParam("max_price")

	status := http.StatusOK
	filterError := ""

	var err error
	switch {
	case category != "":
		err = h.listingUseCase.BrowseCategory(ctx, sess, category, params.Page)
	case minStr != "" || maxStr != "":
		minPrice, okMin := parsePrice(minStr)
		maxPrice, okMax := parsePrice(maxStr)
		if !okMin || !okMax {
			filterError = "Price filters must be numbers"
			status = http.StatusBadRequest
		} else {
			err = h.listingUseCase.BrowsePriceRange(ctx, sess, minPrice, maxPrice, params.Page)
		}
	default:
		err = h.listingUseCase.Browse(ctx, sess, params.Page, search)
	}
	if err != nil {
		// The page still renders; the store carries the error message.
		logger.Warn("session %s: browse fetch failed: %v", sess.ID, err)
	}

	state := sess.Listings.Snapshot()
	totalPages := utils.PageCount(state.TotalElements, params.PageSize)
	pageError := state.Error
	if filterError != "" {
		pageError = filterError
	}

	return c.Render(status, "home", homeView{
		Nav:           navFor(sess),
		Listings:      state.Items,
		Error:         pageError,
		Loading:       state.Loading,
		Search:        search,
		Category:      category,
		MinPrice:      minStr,
		MaxPrice:      maxStr,
		Page:          params.Page,
		TotalPages:    totalPages,
		HasPrev:       params.Page > 1,
		HasNext:       params.Page < totalPages,
		PrevPage:      params.Page - 1,
		NextPage:      params.Page + 1,
		TotalListings: state.TotalElements,
	})
}

// Search is the JSON endpoint behind search-as-you-type on the browse feed.
func (h *ListingHandler) Search(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	keyword := c.QueryParam("q")
	if err := h.listingUseCase.Search(c.Request().Context(), sess, keyword); err != nil {
		return response.Error(c, err)
	}

	state := sess.Listings.Snapshot()
	pageSize := h.listingUseCase.PageSize()
	return response.Paginated(c, state.Items, state.TotalElements, 1, pageSize, utils.PageCount(state.TotalElements, pageSize))
}

func (h *ListingHandler) ShowListing(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return renderError(c, sess, apperrors.NotFound("Listing", err))
	}

	listing, err := h.listingUseCase.LoadDetail(c.Request().Context(), sess, id)
	if err != nil {
		return renderError(c, sess, err)
	}

	return c.Render(http.StatusOK, "listing_detail", listingDetailView{
		Nav:      navFor(sess),
		Listing:  listing,
		IsOwner:  isOwner(sess, listing),
		Statuses: listingStatuses(),
	})
}

func (h *ListingHandler) ShowCreate(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	return c.Render(http.StatusOK, "listing_form", listingFormView{
		Nav:        navFor(sess),
		Categories: listingCategories,
	})
}

func (h *ListingHandler) Create(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, sess, apperrors.BadRequest("Invalid listing form", err))
	}

	formView := listingFormView{
		Nav:         navFor(sess),
		Title:       req.Title,
		Description: req.Description,
		Price:       c.FormValue("price"),
		Category:    req.Category,
		Categories:  listingCategories,
	}

	if err := c.Validate(&req); err != nil {
		formView.FieldErrors = fieldErrorsFrom(err)
		return c.Render(http.StatusBadRequest, "listing_form", formView)
	}

	images, err := readImages(c)
	if err != nil {
		return renderError(c, sess, err)
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), sess, usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      images,
	})
	if err != nil {
		var fieldErrs usecase.FieldErrors
		if errors.As(err, &fieldErrs) {
			formView.FieldErrors = fieldErrs
		} else {
			formView.Error = apperrors.AsAppError(err).Message
		}
		return c.Render(http.StatusBadRequest, "listing_form", formView)
	}

	return c.Redirect(http.StatusSeeOther, "/listings/"+strconv.FormatInt(listing.ID, 10))
}

type updateListingRequest struct {
	Title       string  `form:"title" validate:"required"`
	Description string  `form:"description" validate:"required"`
	Price       float64 `form:"price" validate:"required,gt=0"`
	Category    string  `form:"category" validate:"required"`
}

// ShowEdit renders the edit form pre-filled with the current listing.
func (h *ListingHandler) ShowEdit(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return renderError(c, sess, apperrors.NotFound("Listing", err))
	}

	listing, err := h.listingUseCase.LoadDetail(c.Request().Context(), sess, id)
	if err != nil {
		return renderError(c, sess, err)
	}
	if !isOwner(sess, listing) {
		return renderError(c, sess, apperrors.Forbidden("Only the seller can edit a listing", nil))
	}

	return c.Render(http.StatusOK, "listing_edit", listingFormView{
		Nav:         navFor(sess),
		ListingID:   listing.ID,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       strconv.FormatFloat(listing.Price, 'f', -1, 64),
		Category:    listing.Category,
		Categories:  listingCategories,
	})
}

// Edit applies a field edit. Images are not editable after posting; the
// backend keeps the original set.
func (h *ListingHandler) Edit(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return renderError(c, sess, apperrors.NotFound("Listing", err))
	}

	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, sess, apperrors.BadRequest("Invalid listing form", err))
	}

	formView := listingFormView{
		Nav:         navFor(sess),
		ListingID:   id,
		Title:       req.Title,
		Description: req.Description,
		Price:       c.FormValue("price"),
		Category:    req.Category,
		Categories:  listingCategories,
	}

	if err := c.Validate(&req); err != nil {
		formView.FieldErrors = fieldErrorsFrom(err)
		return c.Render(http.StatusBadRequest, "listing_edit", formView)
	}

	err = h.listingUseCase.Update(c.Request().Context(), sess, id, usecase.UpdateListingInput{
		Title:       &req.Title,
		Description: &req.Description,
		Price:       &req.Price,
		Category:    &req.Category,
	})
	if err != nil {
		var fieldErrs usecase.FieldErrors
		if errors.As(err, &fieldErrs) {
			formView.FieldErrors = fieldErrs
		} else {
			formView.Error = apperrors.AsAppError(err).Message
		}
		return c.Render(http.StatusBadRequest, "listing_edit", formView)
	}

	return c.Redirect(http.StatusSeeOther, "/listings/"+strconv.FormatInt(id, 10))
}

func (h *ListingHandler) UpdateStatus(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return renderError(c, sess, apperrors.NotFound("Listing", err))
	}

	if err := h.listingUseCase.UpdateStatus(c.Request().Context(), sess, id, c.FormValue("status")); err != nil {
		return renderError(c, sess, err)
	}

	return c.Redirect(http.StatusSeeOther, backTo(c, "/profile"))
}

func (h *ListingHandler) Delete(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return renderError(c, sess, apperrors.NotFound("Listing", err))
	}

	if err := h.listingUseCase.Delete(c.Request().Context(), sess, id); err != nil {
		return renderError(c, sess, err)
	}

	return c.Redirect(http.StatusSeeOther, "/profile")
}

// ContactSeller starts a conversation about a listing from its detail page.
func (h *ListingHandler) ContactSeller(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return renderError(c, sess, apperrors.NotFound("Listing", err))
	}

	listing, err := h.listingUseCase.LoadDetail(ctx, sess, id)
	if err != nil {
		return renderError(c, sess, err)
	}

	_, err = h.messageUseCase.MessageSeller(ctx, sess, listing, c.FormValue("content"))
	if err != nil {
		return c.Render(http.StatusBadRequest, "listing_detail", listingDetailView{
			Nav:          navFor(sess),
			Listing:      listing,
			IsOwner:      isOwner(sess, listing),
			MessageError: apperrors.AsAppError(err).Message,
			Statuses:     listingStatuses(),
		})
	}

	return c.Redirect(http.StatusSeeOther, "/messages?user="+strconv.FormatInt(listing.Seller.ID, 10))
}

func readImages(c echo.Context) ([]backend.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// A form without files still binds; the missing-image validation
		// happens downstream.
		return nil, nil
	}

	var images []backend.ImageUpload
	for _, fileHeader := range form.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, apperrors.BadRequest("Could not read uploaded image", err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, apperrors.BadRequest("Could not read uploaded image", err)
		}
		images = append(images, backend.ImageUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

func isOwner(sess *session.Session, listing *entity.Listing) bool {
	auth := sess.Auth.Snapshot()
	return auth.User != nil && auth.User.Username == listing.Seller.Username
}

func listingStatuses() []string {
	return []string{
		entity.ListingStatusActive,
		entity.ListingStatusPending,
		entity.ListingStatusSold,
		entity.ListingStatusCancelled,
	}
}

func parsePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	return value, err == nil
}

func backTo(c echo.Context, fallback string) string {
	if back := c.FormValue("back"); len(back) > 1 && back[0] == '/' && back[1] != '/' {
		return back
	}
	return fallback
}
