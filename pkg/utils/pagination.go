package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PaginationParams represents pagination parameters. Page is the one-based
// page shown in the UI; the backend speaks zero-based page indexes, so every
// outbound call goes through APIPage.
type PaginationParams struct {
	Page     int
	PageSize int
}

// GetPaginationParams extracts pagination parameters from request
func GetPaginationParams(c echo.Context, defaultSize int) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("size"))

	if page <= 0 {
		page = 1
	}

	if pageSize <= 0 || pageSize > 100 {
		pageSize = defaultSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}

// APIPage translates the one-based UI page into the backend's zero-based
// page index.
func (p PaginationParams) APIPage() int {
	return p.Page - 1
}

// PageCount computes the number of pages from the backend's totalElements,
// the sole source of truth for list sizes.
func PageCount(totalElements int64, pageSize int) int {
	if pageSize <= 0 || totalElements <= 0 {
		return 0
	}
	count := int(totalElements) / pageSize
	if int(totalElements)%pageSize > 0 {
		count++
	}
	return count
}
