package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/myumkm/myumkm/internal/client/client"
	"github.com/myumkm/myumkm/internal/client/models"
	"github.com/myumkm/myumkm/internal/client/session"
)

// ChatService defines conversation and message operations for the CLI.
type ChatService interface {
	Users(ctx context.Context) ([]models.User, error)
	Conversations(ctx context.Context) ([]models.Conversation, error)

	// Open resolves the conversation with the other party and loads its
	// message log into a Thread.
	Open(ctx context.Context, otherPartyID string) (*Thread, error)

	// Send appends content to the thread optimistically: the entry shows
	// up as pending immediately and is replaced in place once the server
	// confirms it. On failure the pending entry is removed and the error
	// returned; there is no automatic retry.
	Send(ctx context.Context, t *Thread, content string) error

	// Refresh re-reads the server log into the thread, keeping pending
	// entries at the tail.
	Refresh(ctx context.Context, t *Thread) error
}

// Thread is the local view of one conversation: the confirmed log plus
// any pending entries awaiting server confirmation.
type Thread struct {
	ConversationID string
	OtherParty     *models.User

	mu      sync.Mutex
	entries []models.ThreadEntry
}

// Entries returns a snapshot of the thread in display order.
func (t *Thread) Entries() []models.ThreadEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]models.ThreadEntry, len(t.entries))
	copy(result, t.entries)
	return result
}

// appendPending inserts an optimistic entry and returns its temp id.
func (t *Thread) appendPending(msg models.Message) string {
	tempID := uuid.NewString()
	t.mu.Lock()
	t.entries = append(t.entries, models.ThreadEntry{
		State:   models.MessagePending,
		TempID:  tempID,
		Message: msg,
	})
	t.mu.Unlock()
	return tempID
}

// confirm replaces the pending entry identified by tempID with the
// server record, in place. The match is by temp id only, so late
// confirmations landing out of order still replace the right entry.
func (t *Thread) confirm(tempID string, msg *models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].Pending() && t.entries[i].TempID == tempID {
			t.entries[i] = models.ThreadEntry{State: models.MessageConfirmed, Message: *msg}
			return
		}
	}
}

// drop removes the pending entry identified by tempID.
func (t *Thread) drop(tempID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.entries {
		if t.entries[i].Pending() && t.entries[i].TempID == tempID {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// replaceConfirmed swaps the confirmed prefix for the fresh server log,
// carrying pending entries over at the tail.
func (t *Thread) replaceConfirmed(msgs []models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fresh := make([]models.ThreadEntry, 0, len(msgs))
	for i := range msgs {
		fresh = append(fresh, models.ThreadEntry{State: models.MessageConfirmed, Message: msgs[i]})
	}
	for i := range t.entries {
		if t.entries[i].Pending() {
			fresh = append(fresh, t.entries[i])
		}
	}
	t.entries = fresh
}

type chatService struct {
	api   client.Client
	store *session.Store
}

// NewChatService constructs a ChatService bound to the given API client
// and session store.
func NewChatService(api client.Client, store *session.Store) ChatService {
	return &chatService{api: api, store: store}
}

func (c *chatService) token(ctx context.Context) (string, error) {
	token, err := c.store.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", session.ErrNotAuthenticated
	}
	return token, nil
}

func (c *chatService) Users(ctx context.Context) ([]models.User, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.api.Users(ctx, token)
}

func (c *chatService) Conversations(ctx context.Context) ([]models.Conversation, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.api.Conversations(ctx, token)
}

func (c *chatService) Open(ctx context.Context, otherPartyID string) (*Thread, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	conv, err := c.api.ResolveConversation(ctx, token, otherPartyID)
	if err != nil {
		return nil, fmt.Errorf("error resolving conversation: %w", err)
	}

	msgs, err := c.api.Messages(ctx, token, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading messages: %w", err)
	}

	selfID := ""
	if s := c.store.Session(); s.User != nil {
		selfID = s.User.ID
	}

	t := &Thread{ConversationID: conv.ID, OtherParty: conv.OtherParty(selfID)}
	t.replaceConfirmed(msgs)
	return t, nil
}

func (c *chatService) Send(ctx context.Context, t *Thread, content string) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	selfID := ""
	if s := c.store.Session(); s.User != nil {
		selfID = s.User.ID
	}

	tempID := t.appendPending(models.Message{
		ConversationID: t.ConversationID,
		AuthorID:       selfID,
		Content:        content,
	})

	msg, err := c.api.SendMessage(ctx, token, t.ConversationID, content)
	if err != nil {
		t.drop(tempID)
		return err
	}

	t.confirm(tempID, msg)
	return nil
}

func (c *chatService) Refresh(ctx context.Context, t *Thread) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	msgs, err := c.api.Messages(ctx, token, t.ConversationID)
	if err != nil {
		return err
	}

	t.replaceConfirmed(msgs)
	return nil
}
