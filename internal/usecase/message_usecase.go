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

type MessageUseCase struct {
	pageSize int
	limiter  *ratelimit.RateLimiter
}

func NewMessageUseCase(pageSize int, limiter *ratelimit.RateLimiter) *MessageUseCase {
	return &MessageUseCase{
		pageSize: pageSize,
		limiter:  limiter,
	}
}

// LoadInbox fetches the flat recent-message list.
func (uc *MessageUseCase) LoadInbox(ctx context.Context, sess *session.Session, page int) error {
	if page < 1 {
		page = 1
	}
	params := utils.PaginationParams{Page: page, PageSize: uc.pageSize}

	sess.Messages.Dispatch(store.MessagesFetchStarted{})

	result, err := sess.Client.ListMessages(ctx, params.APIPage(), params.PageSize)
	if err != nil {
		sess.Messages.Dispatch(store.MessagesFetchFailed{Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Messages.Dispatch(store.MessagesFetchSucceeded{Items: result.Content})
	return nil
}

// LoadConversations fetches the backend-aggregated counterpart summaries.
func (uc *MessageUseCase) LoadConversations(ctx context.Context, sess *session.Session) error {
	sess.Messages.Dispatch(store.MessagesFetchStarted{})

	conversations, err := sess.Client.Conversations(ctx)
	if err != nil {
		sess.Messages.Dispatch(store.MessagesFetchFailed{Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Messages.Dispatch(store.ConversationsLoaded{Conversations: conversations})
	return nil
}

// SelectConversation loads the full history with one counterpart, replacing
// that counterpart's cached thread. Fast switching between conversations is
// raced on purpose: only the most recently selected thread's result lands.
func (uc *MessageUseCase) SelectConversation(ctx context.Context, sess *session.Session, userID int64) error {
	seq := sess.Messages.NextSeq()
	sess.Messages.Dispatch(store.ThreadFetchStarted{Seq: seq})

	messages, err := sess.Client.ConversationThread(ctx, userID)
	if err != nil {
		sess.Messages.Dispatch(store.ThreadFetchFailed{Seq: seq, Message: apperrors.AsAppError(err).Message})
		return err
	}

	sess.Messages.Dispatch(store.ThreadFetchSucceeded{Seq: seq, UserID: userID, Items: messages})
	return nil
}

type SendMessageInput struct {
	ReceiverID int64
	Content    string
	ListingID  *int64
}

// Send delivers a message and applies the optimistic append to the active
// thread and the recent list. The conversation summaries are then
// re-fetched in full: the backend owns unread counts and last-message
// ordering across all counterparts.
func (uc *MessageUseCase) Send(ctx context.Context, sess *session.Session, input SendMessageInput) (*entity.Message, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, FieldErrors{"content": "Message cannot be empty"}
	}

	current := sess.Auth.Snapshot()
	if current.User != nil && current.User.ID != 0 && current.User.ID == input.ReceiverID {
		return nil, apperrors.BadRequest("You cannot message yourself", nil)
	}

	if allowed, wait := uc.limiter.Allow(sess.ID, "send_message"); !allowed {
		logger.Debug("session %s: send throttled for %s", sess.ID, wait)
		return nil, apperrors.TooManyRequests("Sending messages too fast, hold on a moment")
	}

	message, err := sess.Client.SendMessage(ctx, backend.SendMessageInput{
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
		ListingID:  input.ListingID,
	})
	if err != nil {
		return nil, err
	}

	sess.Messages.Dispatch(store.MessageSent{CounterpartID: input.ReceiverID, Message: *message})
	uc.resolveSender(sess, message.Sender)

	if err := uc.LoadConversations(ctx, sess); err != nil {
		// The message is delivered; a failed summary refresh only leaves
		// the sidebar briefly stale.
		logger.Warn("session %s: conversation refresh after send failed: %v", sess.ID, err)
	}
	return message, nil
}

// MessageSeller starts (or continues) a conversation about a listing from
// its detail page. Self-messaging is rejected before any network call.
func (uc *MessageUseCase) MessageSeller(ctx context.Context, sess *session.Session, listing *entity.Listing, content string) (*entity.Message, error) {
	current := sess.Auth.Snapshot()
	if current.User != nil && current.User.Username == listing.Seller.Username {
		return nil, apperrors.BadRequest("You cannot message yourself", nil)
	}

	listingID := listing.ID
	return uc.Send(ctx, sess, SendMessageInput{
		ReceiverID: listing.Seller.ID,
		Content:    content,
		ListingID:  &listingID,
	})
}

// MarkRead flips one message's read flag. The unread counter decrements by
// exactly one, floored at zero, and nothing cascades to the rest of the
// thread.
func (uc *MessageUseCase) MarkRead(ctx context.Context, sess *session.Session, messageID int64) error {
	if err := sess.Client.MarkMessageRead(ctx, messageID); err != nil {
		return err
	}
	sess.Messages.Dispatch(store.MessageRead{ID: messageID})
	return nil
}

// RefreshUnread polls the backend's unread total for the nav badge.
func (uc *MessageUseCase) RefreshUnread(ctx context.Context, sess *session.Session) error {
	count, err := sess.Client.UnreadCount(ctx)
	if err != nil {
		return err
	}
	sess.Messages.Dispatch(store.UnreadCountSet{Count: count})
	return nil
}

func (uc *MessageUseCase) resolveSender(sess *session.Session, sender entity.User) {
	current := sess.Auth.Snapshot()
	if current.User != nil && current.User.Username == sender.Username && sender.ID != 0 {
		sess.Auth.Dispatch(store.UserResolved{User: sender})
	}
}
