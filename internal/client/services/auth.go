// Package services contains application services for the chat client:
// authentication on top of the session store, and conversation/thread
// management with optimistic sends.
package services

import (
	"context"

	"github.com/myumkm/myumkm/internal/client/client"
	"github.com/myumkm/myumkm/internal/client/models"
	"github.com/myumkm/myumkm/internal/client/session"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new account on the server; does not log in.
//   - Login: authenticate and persist the credential in both session
//     channels.
//   - Logout: clear the credential everywhere, locally and server-side.
//   - CheckAuth: re-validate the held credential against the server.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (models.Session, error)
	Close(ctx context.Context) error
}

type authService struct {
	api   client.Client
	store *session.Store
}

// NewAuthService constructs an AuthService bound to the given API client
// and session store.
func NewAuthService(api client.Client, store *session.Store) AuthService {
	return &authService{api: api, store: store}
}

func (a *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return a.api.Register(ctx, name, email, password)
}

// Login authenticates against the server and stores the issued token in
// the durable store and the cookie jar. The identity returned by the
// server becomes the session snapshot without an extra /auth/me round-trip.
func (a *authService) Login(ctx context.Context, email, password string) (models.Session, error) {
	result, err := a.api.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}

	if err := a.store.SetToken(ctx, result.Token); err != nil {
		return models.Session{}, err
	}

	return a.store.CheckAuth(ctx)
}

// Logout discards the credential. The server call only clears the
// server-set cookie; local state is wiped regardless of its outcome.
func (a *authService) Logout(ctx context.Context) error {
	_ = a.api.Logout(ctx)
	return a.store.SetToken(ctx, "")
}

func (a *authService) CheckAuth(ctx context.Context) (models.Session, error) {
	return a.store.CheckAuth(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.api.Close()
}
