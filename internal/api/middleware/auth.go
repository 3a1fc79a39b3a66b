package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ShipIM/database-refactoring/internal/api/shared"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/redact"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

// AuthMiddleware authenticates bearer tokens. The token subject becomes the
// request principal.
type AuthMiddleware struct {
	tokens auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}
		m.serveWithToken(w, r, header, next)
	})
}

// Optional authenticates the request when it carries an Authorization header and
// passes anonymous requests through. A header with an invalid token is still rejected.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.serveWithToken(w, r, header, next)
	})
}

func (m *AuthMiddleware) serveWithToken(w http.ResponseWriter, r *http.Request, header string, next http.Handler) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
		return
	}

	claims, err := m.tokens.Verify(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
		case errors.Is(err, auth.ErrInvalidToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		default:
			logger.FromContext(r.Context()).Error("failed to validate token", redact.Attr(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return
	}

	ctx := shared.WithPrincipal(r.Context(), claims.Subject)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// GetPrincipal extracts the authenticated caller's login from the request context.
func GetPrincipal(r *http.Request) (string, bool) {
	return shared.GetPrincipal(r.Context())
}
