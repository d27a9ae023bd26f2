package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/myumkm/myumkm/internal/common"
)

// errorBody is the uniform error payload for API responses.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForError maps sentinel errors onto the HTTP taxonomy:
// validation 400, authentication 401, authorization 403, not found 404,
// conflict 409, everything else 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorSelfConversation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "already exists"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError converts a service error into a response. Unexpected errors
// come back as a generic 500; the diagnostic detail is included only
// outside production.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusForError(err)

	body := errorBody{Error: msg}
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		if !s.cfg.IsProduction() {
			body.Detail = err.Error()
		}
	}

	writeJSON(w, status, body)
}
