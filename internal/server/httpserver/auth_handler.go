package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/auth"
	"github.com/myumkm/myumkm/internal/server/models"
)

const tokenCookieMaxAge = int(common.TokenValidityDuration / time.Second)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

// setTokenCookie mirrors the issued credential into the token cookie so
// browser-style clients carry it automatically. Lifetime matches the
// token's own expiry.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   tokenCookieMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "registration successful, please log in",
		"user":    user.Public(),
	})
}

// Login handles POST /auth/login: verifies the password, issues a token
// and returns it both in the body and as a cookie.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email and password are required"})
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookie(w, result.Token)
	w.Header().Set("Cache-Control", "no-store")

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   result.Token,
		User:    result.User.Public(),
	})
}

// Logout handles POST /auth/logout. The credential is stateless, so
// logout is purely cookie deletion; the client discards its own copy.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.clearTokenCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "logout successful",
	})
}

// Me handles GET /auth/me. Unlike guarded routes it accepts the
// Authorization header only, so API clients can confirm a held credential
// without a cookie round-trip.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	h := r.Header.Get(common.AuthHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "no token provided"})
		return
	}

	claims, err := auth.VerifyToken(strings.TrimPrefix(h, common.BearerPrefix), s.jwtSecret)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
		return
	}

	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user.Public())
}
