package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// publicPaths lists path prefixes that bypass authentication entirely:
// marketing pages, public browse pages and the auth flow itself.
// A path matches if it equals the entry or starts with entry + "/".
var publicPaths = []string{
	"/",
	"/auth/login",
	"/auth/register",
	"/auth/logout",
	"/auth/me", // enforces its own header-only check in the handler
	"/auth/forgot-password",
	"/auth/reset-password",
	"/marketplace",
	"/forum",
	"/tentang",
	"/kebijakan-privasi",
	"/syarat-ketentuan",
	"/.well-known/appspecific/com.chrome.devtools.json",
	"/healthz",
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
		if p != "/" && strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// isAPIPath classifies routes whose callers expect structured errors
// rather than a login redirect.
func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/auth/") ||
		strings.HasPrefix(path, "/conversations")
}

// extractToken reads the credential from the Authorization header first,
// then from the token cookie.
func extractToken(r *http.Request) string {
	if h := r.Header.Get(common.AuthHeaderName); strings.HasPrefix(h, common.BearerPrefix) {
		return strings.TrimPrefix(h, common.BearerPrefix)
	}
	if c, err := r.Cookie(common.TokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// accessGuard is the request-time authentication gate. Public paths pass
// through untouched. Protected paths require a verifiable credential:
// on success the verified claims are attached to the request context; on
// failure API routes get a 401 and page routes are redirected to the
// login page with the original URL preserved as a callback target.
func (s *Server) accessGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		reject := func(invalidCookie bool) {
			if isAPIPath(r.URL.Path) {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}
			if invalidCookie {
				s.clearTokenCookie(w)
			}
			loginURL := "/auth/login?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, loginURL, http.StatusFound)
		}

		token := extractToken(r)
		if token == "" {
			reject(false)
			return
		}

		claims, err := auth.VerifyToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Debug(r.Context(), "token verification failed", "error", err.Error())
			reject(true)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the verified claims attached by the access
// guard. Valid only on requests that passed the guard.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("no verified identity in context")
	}
	return claims, nil
}

// ContextWithClaims injects claims into a context. Used by tests and by
// handlers that verify the token themselves.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error(r.Context(), "panic recovered", "path", r.URL.Path, "panic", fmt.Sprint(rec))
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
