package entity

// Conversation is the aggregated messaging relationship between the current
// user and one counterpart. It is a read-only projection computed by the
// backend; the client never derives it from a partial message cache.
type Conversation struct {
	User        User    `json:"user"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}
