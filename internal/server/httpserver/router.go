package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router builds the route tree. Every route passes through the access
// guard; the guard itself decides which paths are public.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recovery)
	r.Use(s.requestLogger)
	r.Use(s.accessGuard)

	r.Get("/healthz", s.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.limiter.Middleware())
			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
		})
		r.Post("/logout", s.Logout)
		r.Get("/me", s.Me)
	})

	r.Get("/api/users", s.ListUsers)

	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", s.ListConversations)
		r.Post("/", s.CreateConversation)
		r.Get("/{id}/messages", s.ListMessages)
		r.Post("/{id}/messages", s.SendMessage)
	})

	return r
}
