package models

import "time"

// Message is an immutable entry in a conversation's ordered log.
// ID and CreatedAt are assigned by the server at persist time.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	AuthorID       string    `json:"authorId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`

	// Author is the user projection for API responses; list queries fill it.
	Author *PublicUser `json:"user,omitempty"`
}
