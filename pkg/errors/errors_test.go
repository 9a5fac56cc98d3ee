package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromResponsePlainString(t *testing.T) {
	appErr := FromResponse(http.StatusBadRequest, []byte("Invalid username or password"))

	assert.Equal(t, "BAD_REQUEST", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid username or password", appErr.Message)
}

func TestFromResponseQuotedString(t *testing.T) {
	appErr := FromResponse(http.StatusBadRequest, []byte(`"Username is already taken!"`))

	assert.Equal(t, "Username is already taken!", appErr.Message)
}

func TestFromResponseMessageField(t *testing.T) {
	appErr := FromResponse(http.StatusNotFound, []byte(`{"message":"Listing not found","timestamp":"x"}`))

	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, "Listing not found", appErr.Message)
}

func TestFromResponseErrorField(t *testing.T) {
	appErr := FromResponse(http.StatusForbidden, []byte(`{"error":"not your listing"}`))

	assert.Equal(t, "not your listing", appErr.Message)
}

func TestFromResponseUnknownObjectFallsBack(t *testing.T) {
	appErr := FromResponse(http.StatusInternalServerError, []byte(`{"trace":["a","b"]}`))

	assert.Equal(t, "SERVER_ERROR", appErr.Code)
	assert.Equal(t, "Request failed: Internal Server Error", appErr.Message)
}

func TestFromResponseEmptyBody(t *testing.T) {
	appErr := FromResponse(http.StatusBadGateway, nil)

	assert.Equal(t, "Request failed: Bad Gateway", appErr.Message)
}

func TestAsAppErrorPassthrough(t *testing.T) {
	orig := Unauthorized("Session expired", nil)
	assert.Same(t, orig, AsAppError(orig))

	wrapped := AsAppError(fmt.Errorf("boom"))
	assert.Equal(t, "INTERNAL_ERROR", wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Unauthorized("nope", nil))
	assert.True(t, Is(err, "UNAUTHORIZED"))
	assert.False(t, Is(err, "NOT_FOUND"))
}
