package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusmarket/internal/domain/entity"
	"campusmarket/internal/infrastructure/ratelimit"
	"campusmarket/internal/store"
	"campusmarket/internal/usecase"
)

func TestMessagesPageShowsRecentWhenNoConversationSelected(t *testing.T) {
	inboxGETs := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/messages":
			inboxGETs++
			w.Write([]byte(`{"content":[{"id":1,"content":"see you at the library","sender":{"id":9,"username":"bob"},"receiver":{"id":7,"username":"alice"}}],"totalElements":1}`))
		case "/messages/conversations":
			w.Write([]byte(`[]`))
		case "/messages/unread/count":
			w.Write([]byte(`1`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	e := newTestEcho(t)
	sess := newPageSession(t, server.URL)
	sess.Establish(context.Background(), "abc123", "alice")
	sess.Auth.Dispatch(store.UserResolved{User: entity.User{ID: 7, Username: "alice"}})

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session", sess)

	h := NewMessageHandler(usecase.NewMessageUseCase(20, ratelimit.NewRateLimiter()))
	require.NoError(t, h.Messages(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, inboxGETs, "an unselected conversation view must load the recent list")
	body := rec.Body.String()
	assert.Contains(t, body, "see you at the library")
	assert.Contains(t, body, "bob", "the counterpart, not the current user, labels the entry")
	assert.Contains(t, body, "/messages?user=9")
}
