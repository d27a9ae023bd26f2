// Package models defines client-side data models: API payload shapes and
// the local session and thread state.
package models

import "time"

// User is the identity projection the API returns; it never carries
// credential material.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Conversation is a channel between the current user and one other party.
type Conversation struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Users       []User    `json:"users,omitempty"`
	LastMessage *Message  `json:"lastMessage,omitempty"`
}

// OtherParty returns the participant that is not selfID. Falls back to
// the first participant if selfID is not among them.
func (c *Conversation) OtherParty(selfID string) *User {
	for i := range c.Users {
		if c.Users[i].ID != selfID {
			return &c.Users[i]
		}
	}
	if len(c.Users) > 0 {
		return &c.Users[0]
	}
	return nil
}

// Message is a confirmed, server-persisted message.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	AuthorID       string    `json:"authorId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	Author         *User     `json:"user,omitempty"`
}
