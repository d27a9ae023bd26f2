// Package client defines the API surface the chat client talks to and its
// HTTP implementation.
package client

import (
	"context"

	"github.com/myumkm/myumkm/internal/client/models"
)

// LoginResult carries the issued credential and the identity it belongs to.
type LoginResult struct {
	Token string
	User  models.User
}

// Client is the backend API. Authenticated calls take the bearer token
// explicitly; the session layer decides which token to present.
type Client interface {
	Close() error

	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error

	// Me confirms a held credential and returns the identity behind it.
	Me(ctx context.Context, token string) (*models.User, error)

	Users(ctx context.Context, token string) ([]models.User, error)

	// ResolveConversation maps the pair {self, otherPartyID} to its single
	// shared conversation, creating it server-side when absent.
	ResolveConversation(ctx context.Context, token, otherPartyID string) (*models.Conversation, error)
	Conversations(ctx context.Context, token string) ([]models.Conversation, error)
	Messages(ctx context.Context, token, conversationID string) ([]models.Message, error)
	SendMessage(ctx context.Context, token, conversationID, content string) (*models.Message, error)
}
