package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/mini-erp/internal/user/domain"
	"github.com/tair/mini-erp/pkg/auth"
	"github.com/tair/mini-erp/pkg/logger"
	"github.com/tair/mini-erp/pkg/response"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// Authenticator validates bearer tokens and enforces module access
type Authenticator struct {
	tokens *auth.TokenManager
}

func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate rejects requests without a valid bearer token
func (a *Authenticator) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Error(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, ok := a.claims(header)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)))
	}
}

// OptionalAuthenticate attaches the caller's identity when a token is sent.
// A token that is present but invalid is still rejected.
func (a *Authenticator) OptionalAuthenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next(w, r)
			return
		}
		a.Authenticate(next)(w, r)
	}
}

// RequireModule authenticates the caller and checks that their role may use
// module
func (a *Authenticator) RequireModule(module string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return a.Authenticate(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if !domain.HasAccess(role, module) {
				logger.Warn(r.Context()).
					Uint("user_id", UserIDFromContext(r.Context())).
					Str("role", role).
					Str("module", module).
					Msg("Access denied")
				response.Error(w, http.StatusForbidden, "You do not have access to this resource")
				return
			}
			next(w, r)
		})
	}
}

func (a *Authenticator) claims(header string) (*auth.Claims, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	return context.WithValue(ctx, RoleKey, claims.Role)
}

// UserIDFromContext returns the authenticated user id, or 0
func UserIDFromContext(ctx context.Context) uint {
	id, _ := ctx.Value(UserIDKey).(uint)
	return id
}

// RoleFromContext returns the authenticated role, or ""
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}
