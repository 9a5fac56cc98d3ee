package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParamsDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=0&size=500", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	params := GetPaginationParams(c, 12)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 12, params.PageSize)
	assert.Equal(t, 0, params.APIPage())
}

func TestAPIPageIsZeroBased(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&size=10", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	params := GetPaginationParams(c, 12)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 2, params.APIPage())
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 12))
	assert.Equal(t, 1, PageCount(12, 12))
	assert.Equal(t, 2, PageCount(13, 12))
	assert.Equal(t, 5, PageCount(50, 10))
	assert.Equal(t, 0, PageCount(50, 0))
}
