package rbac_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/auth"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
	"github.com/sisdisciplinar/sisdisciplinar/internal/rbac"
	_ "github.com/sisdisciplinar/sisdisciplinar/testing"
)

type gateRepo struct {
	role  string
	names []string
}

func (g *gateRepo) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	return nil, nil
}

func (g *gateRepo) FindPermission(ctx context.Context, name string) (rbac.Permission, error) {
	for i, n := range g.names {
		if n == name {
			return rbac.Permission{ID: int64(i + 1), Name: n}, nil
		}
	}
	return rbac.Permission{}, fmt.Errorf("%w: permissão desconhecida", httpx.ErrNotFound)
}

func (g *gateRepo) EnsurePermission(ctx context.Context, name string) (rbac.Permission, error) {
	return rbac.Permission{ID: 1, Name: name}, nil
}

func (g *gateRepo) RolePermissions(ctx context.Context) (map[string][]string, error) {
	return map[string][]string{g.role: g.names}, nil
}

func (g *gateRepo) GrantToRole(ctx context.Context, perfil string, permissionID int64) error {
	return nil
}

func (g *gateRepo) RevokeFromRole(ctx context.Context, perfil string, permissionID int64) error {
	return nil
}

func (g *gateRepo) ReplaceRolePermissions(ctx context.Context, perfil string, permissionIDs []int64) error {
	return nil
}

func (g *gateRepo) UserOverrides(ctx context.Context, userID uuid.UUID) ([]rbac.Override, error) {
	return nil, nil
}

func (g *gateRepo) SetOverride(ctx context.Context, userID uuid.UUID, permissionID int64, action string) error {
	return nil
}

func (g *gateRepo) RemoveOverride(ctx context.Context, userID uuid.UUID, permissionID int64) error {
	return nil
}

func (g *gateRepo) ReplaceOverrides(ctx context.Context, userID uuid.UUID, overrides []rbac.ResolvedOverride) error {
	return nil
}

func (g *gateRepo) ProfileRole(ctx context.Context, userID uuid.UUID) (string, error) {
	return g.role, nil
}

func newGate(role string, names ...string) rbac.Middleware {
	return rbac.Middleware{Service: rbac.NewService(&gateRepo{role: role, names: names})}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(perfil string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/profile-permissions", strings.NewReader(`{}`))
	ident := &auth.Identity{ID: uuid.New(), Nome: "Teste", Email: "teste@example.com", Perfil: perfil, Ativo: true}
	return req.WithContext(auth.ContextWithIdentity(req.Context(), ident))
}

func TestRequireAdminRejectsAnonymous(t *testing.T) {
	gate := newGate(rbac.RoleGestor)
	rec := httptest.NewRecorder()
	gate.RequireAdmin(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	gate := newGate(rbac.RoleGestor)
	rec := httptest.NewRecorder()
	gate.RequireAdmin(okHandler()).ServeHTTP(rec, requestAs(rbac.RoleGestor))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	want := `{"error":"Acesso proibido: somente administradores."}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}

func TestRequireAdminAllowsAdministrator(t *testing.T) {
	gate := newGate(rbac.RoleAdministrador)
	rec := httptest.NewRecorder()
	gate.RequireAdmin(okHandler()).ServeHTTP(rec, requestAs(rbac.RoleAdministrador))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequirePermissionResolvesEffectiveSet(t *testing.T) {
	gate := newGate(rbac.RoleGestor, "processo:criar")

	rec := httptest.NewRecorder()
	gate.RequirePermission("processo:criar")(okHandler()).ServeHTTP(rec, requestAs(rbac.RoleGestor))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	gate.RequirePermission("processo:finalizar")(okHandler()).ServeHTTP(rec, requestAs(rbac.RoleGestor))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequirePermissionAdminBypass(t *testing.T) {
	gate := newGate(rbac.RoleAdministrador)
	rec := httptest.NewRecorder()
	gate.RequirePermission("processo:finalizar")(okHandler()).ServeHTTP(rec, requestAs(rbac.RoleAdministrador))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
