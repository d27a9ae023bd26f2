package conversations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/models"
	"github.com/myumkm/myumkm/internal/server/users"
)

type Service struct {
	repo      Repository
	usersRepo users.Repository
}

func NewService(repo Repository, usersRepo users.Repository) *Service {
	return &Service{repo: repo, usersRepo: usersRepo}
}

// Resolve maps the unordered pair {selfID, otherID} to its single shared
// conversation, creating it when absent. Creation is insert-if-absent over
// the canonical pair with a re-read in the same transaction, so two
// concurrent calls for the same pair converge on one conversation.
func (s *Service) Resolve(ctx context.Context, selfID, otherID string) (*models.Conversation, error) {

	if otherID == "" {
		return nil, fmt.Errorf("%w: other party id is required", common.ErrorValidation)
	}
	if selfID == otherID {
		return nil, common.ErrorSelfConversation
	}

	a, b := models.CanonicalPair(selfID, otherID)

	conv, err := s.repo.GetByPair(ctx, a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	if _, err := s.usersRepo.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	// CreateIfAbsent returns the surviving row whichever writer won the
	// insert, with timestamps and participant projections filled in.
	created := &models.Conversation{ID: uuid.NewString(), UserA: a, UserB: b}
	conv, err = s.repo.CreateIfAbsent(ctx, created)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return conv, nil
}

// GetForUser returns the conversation only if callerID participates in it.
// Non-participants get common.ErrorNotFound: from their perspective the
// conversation does not exist.
func (s *Service) GetForUser(ctx context.Context, id, callerID string) (*models.Conversation, error) {
	conv, err := s.repo.GetByIDForUser(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return conv, nil
}

// ListForUser returns the caller's conversations, most recently updated
// first, each with its last message.
func (s *Service) ListForUser(ctx context.Context, callerID string) ([]models.Conversation, error) {
	result, err := s.repo.ListForUser(ctx, callerID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}
