package httpserver

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/logging"
	"github.com/myumkm/myumkm/internal/server/config"
	"github.com/myumkm/myumkm/internal/server/conversations"
	"github.com/myumkm/myumkm/internal/server/messages"
	"github.com/myumkm/myumkm/internal/server/models"
	"github.com/myumkm/myumkm/internal/server/users"

	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]*models.User)}
}

func (r *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	now := time.Now().UTC()
	stored := *user
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = &stored
	result := stored
	return &result, nil
}

func (r *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *u
	return &result, nil
}

func (r *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeConversationsRepo struct {
	mu    sync.Mutex
	convs map[string]*models.Conversation
	users *fakeUsersRepo
}

func newFakeConversationsRepo(users *fakeUsersRepo) *fakeConversationsRepo {
	return &fakeConversationsRepo{convs: make(map[string]*models.Conversation), users: users}
}

func (r *fakeConversationsRepo) withParticipants(c *models.Conversation) *models.Conversation {
	result := *c
	result.Participants = nil
	for _, id := range []string{c.UserA, c.UserB} {
		if u, err := r.users.GetByID(context.Background(), id); err == nil {
			result.Participants = append(result.Participants, u.Public())
		}
	}
	return &result
}

func (r *fakeConversationsRepo) GetByPair(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, b := models.CanonicalPair(userA, userB)
	for _, c := range r.convs {
		if c.UserA == a && c.UserB == b {
			return r.withParticipants(c), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeConversationsRepo) CreateIfAbsent(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, b := models.CanonicalPair(conv.UserA, conv.UserB)
	for _, c := range r.convs {
		if c.UserA == a && c.UserB == b {
			return r.withParticipants(c), nil
		}
	}
	now := time.Now().UTC()
	stored := models.Conversation{ID: conv.ID, UserA: a, UserB: b, CreatedAt: now, UpdatedAt: now}
	r.convs[stored.ID] = &stored
	return r.withParticipants(&stored), nil
}

func (r *fakeConversationsRepo) GetByIDForUser(ctx context.Context, id, userID string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok || !c.HasParticipant(userID) {
		return nil, common.ErrorNotFound
	}
	return r.withParticipants(c), nil
}

func (r *fakeConversationsRepo) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Conversation
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			result = append(result, *r.withParticipants(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	return result, nil
}

func (r *fakeConversationsRepo) touch(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.convs[id]; ok {
		c.UpdatedAt = at
	}
}

type fakeMessagesRepo struct {
	mu    sync.Mutex
	seq   int
	msgs  []models.Message
	convs *fakeConversationsRepo
}

func newFakeMessagesRepo(convs *fakeConversationsRepo) *fakeMessagesRepo {
	return &fakeMessagesRepo{convs: convs}
}

func (r *fakeMessagesRepo) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	r.mu.Lock()
	r.seq++
	stored := *msg
	// Deterministic strictly increasing timestamps keep ordering assertions stable.
	stored.CreatedAt = time.Unix(1700000000, int64(r.seq)*int64(time.Millisecond)).UTC()
	r.msgs = append(r.msgs, stored)
	r.mu.Unlock()

	r.convs.touch(stored.ConversationID, stored.CreatedAt)
	result := stored
	return &result, nil
}

func (r *fakeMessagesRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			copied := m
			if u, err := r.convs.users.GetByID(ctx, m.AuthorID); err == nil {
				pub := u.Public()
				copied.Author = &pub
			}
			result = append(result, copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type fakeManager struct {
	conn  *sql.DB
	users *fakeUsersRepo
	convs *fakeConversationsRepo
	msgs  *fakeMessagesRepo
}

func newFakeManager() *fakeManager {
	ur := newFakeUsersRepo()
	cr := newFakeConversationsRepo(ur)
	return &fakeManager{users: ur, convs: cr, msgs: newFakeMessagesRepo(cr)}
}

func (m *fakeManager) Conn() *sql.DB { return m.conn }

func (m *fakeManager) Users() users.Repository { return m.users }

func (m *fakeManager) Conversations() conversations.Repository { return m.convs }

func (m *fakeManager) Messages() messages.Repository { return m.msgs }
func (m *fakeManager) Close() error {
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// seedUser inserts an identity directly into the fake store, bypassing
// registration, so tests can mint tokens for known ids.
func seedUser(m *fakeManager, id, name, email string) {
	_, _ = m.users.Create(context.Background(), &models.User{
		ID:    id,
		Name:  name,
		Email: email,
	})
}

func newTestServer(env string) (*Server, *fakeManager) {
	cfg := &config.Config{
		EndpointAddr: ":0",
		SecretKey:    testSecret,
		Environment:  env,
	}
	m := newFakeManager()
	return NewServer(cfg, discardLogger(), m), m
}

func openTestSQLite() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return db, nil
}
