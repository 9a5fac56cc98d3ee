package entity

type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Sender    User      `json:"sender"`
	Receiver  User      `json:"receiver"`
	Listing   *Listing  `json:"listing,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// Counterpart returns the other participant of the message relative to the
// given user id.
func (m Message) Counterpart(userID int64) User {
	if m.Sender.ID == userID {
		return m.Receiver
	}
	return m.Sender
}
