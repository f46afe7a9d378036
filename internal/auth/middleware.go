package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey struct{}

var identityKey contextKey

// ContextWithIdentity attaches the caller identity to the context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFromContext returns the caller identity, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}

// IdentityStore resolves a user ID to a stored identity.
type IdentityStore interface {
	IdentityByID(ctx context.Context, id uuid.UUID) (Identity, error)
}

// Authenticator resolves bearer tokens into request identities.
type Authenticator struct {
	Tokens *TokenManager
	Store  IdentityStore
	Logger *slog.Logger
}

// Middleware attaches the authenticated identity to the request context.
// Requests with no, unknown, or expired tokens pass through anonymously;
// route gates decide whether anonymous access is allowed.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, ok, err := a.Tokens.Resolve(r.Context(), token)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Error("resolve bearer token", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ident, err := a.Store.IdentityByID(r.Context(), userID)
		if err != nil || !ident.Ativo {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), &ident)))
	})
}

// BearerToken extracts the bearer credential from the Authorization header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
