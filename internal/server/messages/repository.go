// Package messages implements appending to and reading the ordered
// message log of a conversation.
package messages

import (
	"context"

	"github.com/myumkm/myumkm/internal/server/models"
)

type Repository interface {
	// Create persists the message with a server-assigned timestamp and
	// bumps the owning conversation's updated_at in the same statement.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)

	// ListByConversation returns the full log in ascending creation
	// order (id as tiebreaker), with author projections attached.
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
}
