package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/terra-clan/career-engine/internal/auth"
)

// Authenticator resolves a bearer token to a user id
type Authenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

// AuthMiddleware handles bearer token authentication
type AuthMiddleware struct {
	auth Authenticator
}

// NewAuthMiddleware creates new auth middleware
func NewAuthMiddleware(a Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: a}
}

// Authenticate verifies the token from the Authorization header.
// Supports formats: "Bearer <token>" or the raw token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

// AuthenticateStream also accepts the token as a "token" query parameter,
// since browsers cannot set headers on websocket upgrades.
func (m *AuthMiddleware) AuthenticateStream(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

func (m *AuthMiddleware) authenticate(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" && allowQuery {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			respondError(w, http.StatusUnauthorized, "missing_token", "provide Authorization header with Bearer token")
			return
		}

		userID, err := m.auth.Authenticate(token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				slog.Error("failed to validate token", "error", err)
			}
			slog.Warn("invalid token attempt", "remote_addr", r.RemoteAddr, "reason", err)
			respondError(w, http.StatusUnauthorized, "invalid_token", "token is not valid")
			return
		}

		slog.Debug("authenticated request", "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	})
}

// extractToken extracts the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
