// Package conversations implements resolution of the single shared
// conversation between a pair of identities.
package conversations

import (
	"context"

	"github.com/myumkm/myumkm/internal/server/models"
)

type Repository interface {
	// GetByPair looks up the conversation for a canonicalized pair.
	GetByPair(ctx context.Context, userA, userB string) (*models.Conversation, error)

	// CreateIfAbsent inserts the conversation unless one already exists
	// for its pair, and returns the stored row either way.
	CreateIfAbsent(ctx context.Context, conv *models.Conversation) (*models.Conversation, error)

	// GetByIDForUser returns the conversation only if userID is one of
	// its participants; otherwise common.ErrorNotFound.
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Conversation, error)

	// ListForUser returns the user's conversations, most recently
	// updated first, each including participants and the last message.
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
}
