package httpserver

import (
	"net/http"

	"github.com/myumkm/myumkm/internal/server/models"
)

// ListUsers handles GET /api/users: every registered user except the
// caller, for starting new conversations.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	all, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	users := make([]models.PublicUser, 0, len(all))
	for _, u := range all {
		if u.ID != claims.UserID {
			users = append(users, u)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
