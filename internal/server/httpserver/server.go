// Package httpserver exposes the HTTP API: credential issuance and
// verification, the access guard, user listing, conversation resolution
// and message exchange.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/myumkm/myumkm/internal/logging"
	"github.com/myumkm/myumkm/internal/server/config"
	"github.com/myumkm/myumkm/internal/server/conversations"
	"github.com/myumkm/myumkm/internal/server/messages"
	"github.com/myumkm/myumkm/internal/server/shared/db"
	"github.com/myumkm/myumkm/internal/server/users"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg           *config.Config
	logger        logging.Logger
	jwtSecret     []byte
	db            db.RepositoryManager
	users         *users.Service
	conversations *conversations.Service
	messages      *messages.Service
	limiter       *RateLimiter
}

func NewServer(cfg *config.Config, logger logging.Logger, manager db.RepositoryManager) *Server {
	us := users.NewService(manager.Users(), cfg)
	cs := conversations.NewService(manager.Conversations(), manager.Users())
	ms := messages.NewService(manager.Messages(), manager.Conversations(), manager.Users())

	return &Server{
		cfg:           cfg,
		logger:        logger,
		jwtSecret:     []byte(cfg.SecretKey),
		db:            manager,
		users:         us,
		conversations: cs,
		messages:      ms,
		limiter:       NewRateLimiter(DefaultRateLimiterConfig()),
	}
}

// Run starts the HTTP listener and blocks until ctx is cancelled, then
// drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.EndpointAddr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "http server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Health handles GET /healthz with a database ping.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Conn().PingContext(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
