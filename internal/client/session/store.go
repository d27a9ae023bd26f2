// Package session keeps the client's credential and identity across two
// channels: a durable sqlite-backed store and the HTTP cookie jar. The
// durable store is authoritative; the jar exists so the credential also
// travels the way a browser would carry it, and tokens found only in the
// jar are migrated into the durable store on first read.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/myumkm/myumkm/internal/client/client"
	"github.com/myumkm/myumkm/internal/client/models"
	"github.com/myumkm/myumkm/internal/client/repositories/metadata"
)

const (
	keyToken    = "token"
	keyRevision = "revision"
)

// ErrNotAuthenticated means no usable credential is held in either channel.
var ErrNotAuthenticated = errors.New("not authenticated")

// CookieChannel is the jar-backed secondary credential channel.
type CookieChannel interface {
	TokenCookie() string
	SetTokenCookie(token string)
}

// Confirmer confirms a held credential against the server and returns the
// identity behind it.
type Confirmer interface {
	Me(ctx context.Context, token string) (*models.User, error)
}

// Store reconciles the two credential channels and caches the confirmed
// identity in memory.
type Store struct {
	repo    metadata.Repository
	cookies CookieChannel
	api     Confirmer

	mu       sync.Mutex
	session  models.Session
	revision string
}

func NewStore(repo metadata.Repository, cookies CookieChannel, api Confirmer) *Store {
	return &Store{repo: repo, cookies: cookies, api: api}
}

// SetToken writes the credential to the durable store first, then mirrors
// it into the cookie jar. An empty token clears both channels and the
// cached identity.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.clear(ctx)
	}

	if err := s.repo.Set(ctx, keyToken, []byte(token)); err != nil {
		return err
	}
	if err := s.bumpRevision(ctx); err != nil {
		return err
	}
	s.cookies.SetTokenCookie(token)

	s.mu.Lock()
	s.session.Token = token
	s.mu.Unlock()
	return nil
}

// Token returns the held credential, preferring the durable store. A
// token found only in the cookie jar is migrated into the durable store
// so later reads agree. Returns "" when neither channel holds one.
func (s *Store) Token(ctx context.Context) (string, error) {
	value, err := s.repo.Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	if len(value) > 0 {
		return string(value), nil
	}

	fromJar := s.cookies.TokenCookie()
	if fromJar == "" {
		return "", nil
	}

	if err := s.repo.Set(ctx, keyToken, []byte(fromJar)); err != nil {
		return "", err
	}
	if err := s.bumpRevision(ctx); err != nil {
		return "", err
	}
	return fromJar, nil
}

// Session returns a copy of the in-memory session snapshot.
func (s *Store) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// CheckAuth establishes whether the held credential is usable. The token
// is treated as opaque: the client checks only that it is well formed and
// unexpired, and leaves signature verification to the server via
// GET /auth/me. A credential the server rejects is purged from both
// channels; transport failures leave it in place.
func (s *Store) CheckAuth(ctx context.Context) (models.Session, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if token == "" {
		return models.Session{}, ErrNotAuthenticated
	}

	if !tokenUsable(token) {
		if err := s.clear(ctx); err != nil {
			return models.Session{}, err
		}
		return models.Session{}, ErrNotAuthenticated
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			if clearErr := s.clear(ctx); clearErr != nil {
				return models.Session{}, clearErr
			}
			return models.Session{}, ErrNotAuthenticated
		}
		return models.Session{}, err
	}

	s.mu.Lock()
	s.session = models.Session{Token: token, User: user}
	snapshot := s.session
	s.mu.Unlock()

	return snapshot, nil
}

// Watch polls the durable store's revision and re-validates the session
// whenever another writer changed it. Each re-validation result is sent
// on the returned channel; the channel closes when ctx is cancelled.
// Consistency across contexts is eventual, bounded by interval.
func (s *Store) Watch(ctx context.Context, interval time.Duration) <-chan models.Session {
	out := make(chan models.Session, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			value, err := s.repo.Get(ctx, keyRevision)
			if err != nil {
				continue
			}
			rev := string(value)

			s.mu.Lock()
			changed := rev != s.revision
			s.revision = rev
			s.mu.Unlock()

			if !changed {
				continue
			}

			snapshot, err := s.CheckAuth(ctx)
			if err != nil && !errors.Is(err, ErrNotAuthenticated) {
				continue
			}

			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *Store) clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, keyToken); err != nil {
		return err
	}
	if err := s.bumpRevision(ctx); err != nil {
		return err
	}
	s.cookies.SetTokenCookie("")

	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()
	return nil
}

// bumpRevision marks the store changed so watchers in other contexts
// re-validate.
func (s *Store) bumpRevision(ctx context.Context) error {
	rev := uuid.NewString()
	if err := s.repo.Set(ctx, keyRevision, []byte(rev)); err != nil {
		return fmt.Errorf("failed to bump session revision: %w", err)
	}
	s.mu.Lock()
	s.revision = rev
	s.mu.Unlock()
	return nil
}

// tokenUsable reports whether the token decodes as a JWT whose exp lies
// in the future. The signature is deliberately not checked here.
func tokenUsable(token string) bool {
	parser := jwt.NewParser()
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.After(time.Now())
}
