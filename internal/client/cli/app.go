// Package cli implements the interactive terminal client: a REPL over the
// auth and chat services, with the session persisted locally so a restart
// resumes a logged-in state.
package cli

import (
	"bufio"
	"context"
	"errors"
	"log"
	"os"

	"github.com/myumkm/myumkm/internal/client/client"
	"github.com/myumkm/myumkm/internal/client/config"
	"github.com/myumkm/myumkm/internal/client/repositories/metadata"
	"github.com/myumkm/myumkm/internal/client/services"
	"github.com/myumkm/myumkm/internal/client/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	store       *session.Store
	authService services.AuthService
	chatService services.ChatService
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(metadata.NewSQLiteRepository(db), apiClient, apiClient)

	as := services.NewAuthService(apiClient, store)
	cs := services.NewChatService(apiClient, store)

	return &App{
		config:      c,
		store:       store,
		authService: as,
		chatService: cs,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// isLoggedIn reads the session through the store, which is safe to share
// with the watcher goroutine.
func (a *App) isLoggedIn() bool {
	s := a.store.Session()
	return s.Authenticated()
}

// selfID returns the confirmed identity's id, or "" while logged out.
func (a *App) selfID() string {
	s := a.store.Session()
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// resumeSession tries to pick up a credential persisted by a previous run.
func (a *App) resumeSession(ctx context.Context) {
	s, err := a.authService.CheckAuth(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNotAuthenticated) {
			log.Printf("session check failed: %s", err.Error())
		}
		return
	}
	log.Printf("Welcome back, %s", s.User.Name)
}

// startSessionWatcher follows changes other client contexts make to the
// shared local store. Watch re-validates and updates the store's own
// snapshot; the REPL reads it via store.Session, so the updates only
// need draining here.
func (a *App) startSessionWatcher(ctx context.Context) {
	updates := a.store.Watch(ctx, a.config.SessionPollInterval)
	go func() {
		for range updates {
		}
	}()
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.authService.Close(ctx)

	a.resumeSession(ctx)
	a.startSessionWatcher(ctx)
	a.Root(ctx)
}
