package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/middleware"
	"campusmarket/internal/domain/entity"
	"campusmarket/internal/session"
	"campusmarket/internal/usecase"
	apperrors "campusmarket/pkg/errors"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type messagesView struct {
	Nav           Nav
	Conversations []entity.Conversation
	ActiveUserID  int64
	ActiveUser    *entity.User
	Thread        []entity.Message
	Recent        []entity.Message
	CurrentUserID int64
	Error         string
	SendError     string
}

// Messages renders the conversations sidebar plus, when a counterpart is
// selected, that conversation's full history.
func (h *MessageHandler) Messages(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	activeUserID, _ := strconv.ParseInt(c.QueryParam("user"), 10, 64)
	return h.renderMessages(c, sess, activeUserID, "", http.StatusOK)
}

type sendMessageRequest struct {
	ReceiverID int64  `form:"receiver_id" validate:"required"`
	Content    string `form:"content" validate:"required"`
	ListingID  int64  `form:"listing_id"`
}

func (h *MessageHandler) Send(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return renderError(c, sess, apperrors.BadRequest("Invalid message form", err))
	}

	input := usecase.SendMessageInput{
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if req.ListingID != 0 {
		listingID := req.ListingID
		input.ListingID = &listingID
	}

	if _, err := h.messageUseCase.Send(c.Request().Context(), sess, input); err != nil {
		return h.renderMessages(c, sess, req.ReceiverID, apperrors.AsAppError(err).Message, http.StatusBadRequest)
	}

	return c.Redirect(http.StatusSeeOther, "/messages?user="+strconv.FormatInt(req.ReceiverID, 10))
}

// MarkRead is the JSON endpoint the messages page calls when an unread
// incoming message scrolls into view.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.Error(c, apperrors.NotFound("Message", err))
	}

	if err := h.messageUseCase.MarkRead(c.Request().Context(), sess, id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"unreadCount": sess.Messages.Snapshot().UnreadCount,
	})
}

// Unread backs the nav badge poll.
func (h *MessageHandler) Unread(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	if err := h.messageUseCase.RefreshUnread(c.Request().Context(), sess); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"unreadCount": sess.Messages.Snapshot().UnreadCount,
	})
}

func (h *MessageHandler) renderMessages(c echo.Context, sess *session.Session, activeUserID int64, sendError string, status int) error {
	ctx := c.Request().Context()

	if err := h.messageUseCase.LoadConversations(ctx, sess); err != nil {
		logger.Warn("session %s: conversations fetch failed: %v", sess.ID, err)
	}
	if activeUserID != 0 {
		if err := h.messageUseCase.SelectConversation(ctx, sess, activeUserID); err != nil {
			logger.Warn("session %s: thread fetch failed: %v", sess.ID, err)
		}
	} else {
		// No conversation selected: the right pane shows the recent
		// messages across all counterparts instead.
		if err := h.messageUseCase.LoadInbox(ctx, sess, 1); err != nil {
			logger.Warn("session %s: recent messages fetch failed: %v", sess.ID, err)
		}
	}
	if err := h.messageUseCase.RefreshUnread(ctx, sess); err != nil {
		logger.Debug("session %s: unread refresh failed: %v", sess.ID, err)
	}

	state := sess.Messages.Snapshot()
	view := messagesView{
		Nav:           navFor(sess),
		Conversations: state.Conversations,
		ActiveUserID:  activeUserID,
		Thread:        state.Threads[activeUserID],
		Recent:        state.Items,
		Error:         state.Error,
		SendError:     sendError,
	}

	auth := sess.Auth.Snapshot()
	if auth.User != nil {
		view.CurrentUserID = auth.User.ID
	}
	for i := range state.Conversations {
		if state.Conversations[i].User.ID == activeUserID {
			view.ActiveUser = &state.Conversations[i].User
			break
		}
	}
	if view.ActiveUserID != 0 && view.ActiveUser == nil && len(view.Thread) > 0 {
		// First contact with this counterpart: no summary exists yet, so
		// take the identity from the thread itself.
		counterpart := view.Thread[0].Counterpart(view.CurrentUserID)
		view.ActiveUser = &counterpart
	}

	return c.Render(status, "messages", view)
}
