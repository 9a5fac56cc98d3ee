package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "campusmarket/pkg/errors"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[],"totalElements":0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("abc123")

	_, err := client.ListListings(context.Background(), 0, 12, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestAnonymousBrowsePermitted(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"content":[],"totalElements":0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListListings(context.Background(), 0, 12, "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedFiresForcedLogoutOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("stale-token")

	calls := 0
	client.OnUnauthorized(func() { calls++ })

	// Any endpoint triggers the central hook, not just auth ones.
	err := client.DeleteListing(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
	assert.Equal(t, 1, calls)
	assert.Empty(t, client.Token(), "credential must be cleared on forced logout")

	_, err = client.UnreadCount(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestErrorNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid username or password"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid username or password", appErr.Message)
}

func TestNonAuthFailureLeavesTokenAlone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("abc123")
	hookFired := false
	client.OnUnauthorized(func() { hookFired = true })

	_, err := client.GetListing(context.Background(), 1)
	require.Error(t, err)
	assert.False(t, hookFired)
	assert.Equal(t, "abc123", client.Token())
}

func TestLoginDecodesTokenAndUsername(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"token":"abc123","username":"alice"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Token)
	assert.Equal(t, "alice", result.Username)
}

func TestListListingsQueryParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"content":[{"id":1,"title":"Bike"}],"totalElements":25}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.ListListings(context.Background(), 0, 12, "bike")
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "page=0")
	assert.Contains(t, gotQuery, "size=12")
	assert.Contains(t, gotQuery, "search=bike")
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.GreaterOrEqual(t, page.TotalElements, int64(len(page.Content)))
}

func TestCreateListingMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Desk lamp", r.FormValue("title"))
		assert.Equal(t, "19.5", r.FormValue("price"))
		assert.Equal(t, "ACTIVE", r.FormValue("status"))

		files := r.MultipartForm.File["images"]
		require.Len(t, files, 2)
		assert.Equal(t, "front.jpg", files[0].Filename)
		assert.Equal(t, "back.jpg", files[1].Filename)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"title":"Desk lamp","price":19.5,"status":"ACTIVE"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	listing, err := client.CreateListing(context.Background(), CreateListingInput{
		Title:       "Desk lamp",
		Description: "Barely used",
		Price:       19.5,
		Category:    "Furniture",
		Status:      "ACTIVE",
		Images: []ImageUpload{
			{Filename: "front.jpg", Data: []byte("jpegdata")},
			{Filename: "back.jpg", Data: []byte("jpegdata")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), listing.ID)
}

func TestConversationEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/messages/conversations":
			w.Write([]byte(`[{"user":{"id":2,"username":"bob"},"lastMessage":{"id":5,"content":"hi"},"unreadCount":3}]`))
		case "/messages/conversation/2":
			w.Write([]byte(`[{"id":4,"content":"hello"},{"id":5,"content":"hi"}]`))
		case "/messages/unread/count":
			w.Write([]byte(`3`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	conversations, err := client.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "bob", conversations[0].User.Username)
	assert.Equal(t, 3, conversations[0].UnreadCount)

	thread, err := client.ConversationThread(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, thread, 2)

	count, err := client.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
