package models

import "time"

// Conversation is the single shared channel between two identities.
// The participant pair is stored canonicalized (UserA < UserB) so the
// database can enforce at-most-one conversation per unordered pair.
type Conversation struct {
	ID        string    `json:"id"`
	UserA     string    `json:"-"`
	UserB     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Participants carries the user projections for API responses.
	Participants []PublicUser `json:"users,omitempty"`

	// LastMessage is filled by list queries only.
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// CanonicalPair returns the two user ids in storage order.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether id is one of the two participants.
func (c *Conversation) HasParticipant(id string) bool {
	return c.UserA == id || c.UserB == id
}

// OtherParticipant returns the participant that is not id. If id is not a
// participant at all, UserA is returned.
func (c *Conversation) OtherParticipant(id string) string {
	if c.UserA == id {
		return c.UserB
	}
	return c.UserA
}
