package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/middleware"
	"campusmarket/internal/domain/entity"
	"campusmarket/internal/usecase"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/utils"
)

type ProfileHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewProfileHandler(listingUseCase *usecase.ListingUseCase) *ProfileHandler {
	return &ProfileHandler{
		listingUseCase: listingUseCase,
	}
}

type profileView struct {
	Nav      Nav
	User     *entity.User
	Listings []entity.Listing
	Error    string
	Statuses []string
}

func (h *ProfileHandler) Profile(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	params := utils.GetPaginationParams(c, h.listingUseCase.PageSize())
	if err := h.listingUseCase.LoadOwn(c.Request().Context(), sess, params.Page); err != nil {
		logger.Warn("session %s: own listings fetch failed: %v", sess.ID, err)
	}

	state := sess.Listings.Snapshot()
	return c.Render(http.StatusOK, "profile", profileView{
		Nav:      navFor(sess),
		User:     sess.Auth.Snapshot().User,
		Listings: state.UserListings,
		Error:    state.Error,
		Statuses: listingStatuses(),
	})
}
