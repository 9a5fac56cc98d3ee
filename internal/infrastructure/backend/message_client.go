package backend

import (
	"context"
	"fmt"

	"campusmarket/internal/domain/entity"
)

type MessagePage struct {
	Content       []entity.Message `json:"content"`
	TotalElements int64            `json:"totalElements"`
}

type SendMessageInput struct {
	ReceiverID int64  `json:"receiverId"`
	Content    string `json:"content"`
	ListingID  *int64 `json:"listingId,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	var message entity.Message
	if err := c.postJSON(ctx, "/messages", input, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages fetches the flat recent-message list for the current user.
func (c *Client) ListMessages(ctx context.Context, page, size int) (*MessagePage, error) {
	var result MessagePage
	if err := c.get(ctx, "/messages", pageQuery(page, size), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Conversations fetches the pre-aggregated counterpart summaries. The
// backend owns this projection; the client never rebuilds it from a partial
// message cache.
func (c *Client) Conversations(ctx context.Context) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	if err := c.get(ctx, "/messages/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// ConversationThread fetches the full history with one counterpart.
func (c *Client) ConversationThread(ctx context.Context, userID int64) ([]entity.Message, error) {
	var messages []entity.Message
	if err := c.get(ctx, fmt.Sprintf("/messages/conversation/%d", userID), nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, messageID int64) error {
	return c.putJSON(ctx, fmt.Sprintf("/messages/%d/read", messageID), nil, nil, nil)
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	var count int64
	if err := c.get(ctx, "/messages/unread/count", nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}
