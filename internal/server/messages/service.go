package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/conversations"
	"github.com/myumkm/myumkm/internal/server/models"
	"github.com/myumkm/myumkm/internal/server/users"
)

type Service struct {
	repo      Repository
	convRepo  conversations.Repository
	usersRepo users.Repository
}

func NewService(repo Repository, convRepo conversations.Repository, usersRepo users.Repository) *Service {
	return &Service{repo: repo, convRepo: convRepo, usersRepo: usersRepo}
}

// Append validates and persists a message. The conversation lookup is
// scoped to the author, so a non-participant author gets
// common.ErrorNotFound and never learns the conversation exists. The
// returned record carries the server-assigned id and timestamp the client
// reconciles against.
func (s *Service) Append(ctx context.Context, conversationID, authorID, content string) (*models.Message, error) {

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrorValidation)
	}

	if _, err := s.convRepo.GetByIDForUser(ctx, conversationID, authorID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		AuthorID:       authorID,
		Content:        content,
	}

	msg, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if author, err := s.usersRepo.GetByID(ctx, authorID); err == nil {
		pub := author.Public()
		msg.Author = &pub
	}

	return msg, nil
}

// ListOrdered returns the conversation's messages in ascending creation
// order. Callers that do not participate in the conversation get
// common.ErrorNotFound.
func (s *Service) ListOrdered(ctx context.Context, conversationID, callerID string) ([]models.Message, error) {

	if _, err := s.convRepo.GetByIDForUser(ctx, conversationID, callerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	result, err := s.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return result, nil
}
