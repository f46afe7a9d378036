package rbac

import (
	"log/slog"
	"net/http"

	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Middleware wires authorization gates for HTTP handlers. Every privileged
// route passes through here before touching the store.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireAdmin rejects requests unless the caller is an active administrator.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := auth.IdentityFromContext(r.Context())
		if ident == nil {
			httpx.Error(w, http.StatusUnauthorized, "Não autenticado.")
			return
		}
		if ident.Perfil != RoleAdministrador {
			httpx.Error(w, http.StatusForbidden, "Acesso proibido: somente administradores.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission ensures the caller's effective set covers the permission
// or one of its synonyms. Administrators always pass.
func (m Middleware) RequirePermission(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := auth.IdentityFromContext(r.Context())
			if ident == nil {
				httpx.Error(w, http.StatusUnauthorized, "Não autenticado.")
				return
			}
			if ident.Perfil == RoleAdministrador {
				next.ServeHTTP(w, r)
				return
			}
			ok, err := m.Service.HasPermission(r.Context(), ident.ID, name)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("resolve effective permissions", slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			if !ok {
				httpx.Error(w, http.StatusForbidden, "Acesso proibido: permissão insuficiente.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
