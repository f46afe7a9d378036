package rbac

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

type mockRepository struct {
	perms     map[string]Permission
	nextID    int64
	roles     map[string][]string
	overrides map[uuid.UUID][]Override
	userRoles map[uuid.UUID]string

	findErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		perms:     make(map[string]Permission),
		nextID:    1,
		roles:     make(map[string][]string),
		overrides: make(map[uuid.UUID][]Override),
		userRoles: make(map[uuid.UUID]string),
	}
}

func (m *mockRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	out := make([]Permission, 0, len(m.perms))
	for _, p := range m.perms {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepository) FindPermission(ctx context.Context, name string) (Permission, error) {
	if m.findErr != nil {
		return Permission{}, m.findErr
	}
	if p, ok := m.perms[name]; ok {
		return p, nil
	}
	return Permission{}, fmt.Errorf("%w: permissão desconhecida: %s", httpx.ErrNotFound, name)
}

func (m *mockRepository) EnsurePermission(ctx context.Context, name string) (Permission, error) {
	if p, ok := m.perms[name]; ok {
		return p, nil
	}
	p := Permission{ID: m.nextID, Name: name}
	m.nextID++
	m.perms[name] = p
	return p, nil
}

func (m *mockRepository) RolePermissions(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string, len(m.roles))
	for role, names := range m.roles {
		out[role] = append([]string(nil), names...)
	}
	return out, nil
}

func (m *mockRepository) GrantToRole(ctx context.Context, perfil string, permissionID int64) error {
	name := m.nameByID(permissionID)
	for _, existing := range m.roles[perfil] {
		if existing == name {
			return nil
		}
	}
	m.roles[perfil] = append(m.roles[perfil], name)
	return nil
}

func (m *mockRepository) RevokeFromRole(ctx context.Context, perfil string, permissionID int64) error {
	name := m.nameByID(permissionID)
	kept := m.roles[perfil][:0]
	for _, existing := range m.roles[perfil] {
		if existing != name {
			kept = append(kept, existing)
		}
	}
	m.roles[perfil] = kept
	return nil
}

func (m *mockRepository) ReplaceRolePermissions(ctx context.Context, perfil string, permissionIDs []int64) error {
	names := make([]string, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		names = append(names, m.nameByID(id))
	}
	m.roles[perfil] = names
	return nil
}

func (m *mockRepository) UserOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	return append([]Override(nil), m.overrides[userID]...), nil
}

func (m *mockRepository) SetOverride(ctx context.Context, userID uuid.UUID, permissionID int64, action string) error {
	name := m.nameByID(permissionID)
	for i, o := range m.overrides[userID] {
		if o.PermissionName == name {
			m.overrides[userID][i].Action = action
			return nil
		}
	}
	m.overrides[userID] = append(m.overrides[userID], Override{UserID: userID, PermissionName: name, Action: action})
	return nil
}

func (m *mockRepository) RemoveOverride(ctx context.Context, userID uuid.UUID, permissionID int64) error {
	name := m.nameByID(permissionID)
	kept := m.overrides[userID][:0]
	for _, o := range m.overrides[userID] {
		if o.PermissionName != name {
			kept = append(kept, o)
		}
	}
	m.overrides[userID] = kept
	return nil
}

func (m *mockRepository) ReplaceOverrides(ctx context.Context, userID uuid.UUID, overrides []ResolvedOverride) error {
	out := make([]Override, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, Override{UserID: userID, PermissionName: m.nameByID(o.PermissionID), Action: o.Action})
	}
	m.overrides[userID] = out
	return nil
}

func (m *mockRepository) ProfileRole(ctx context.Context, userID uuid.UUID) (string, error) {
	role, ok := m.userRoles[userID]
	if !ok {
		return "", fmt.Errorf("%w: usuário não encontrado", httpx.ErrNotFound)
	}
	return role, nil
}

func (m *mockRepository) nameByID(id int64) string {
	for name, p := range m.perms {
		if p.ID == id {
			return name
		}
	}
	return ""
}

var _ RepositoryPort = (*mockRepository)(nil)

func TestListCatalogFallsBackToDefault(t *testing.T) {
	svc := NewService(newMockRepository())
	names, err := svc.ListCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, len(DefaultCatalog))
	assert.Contains(t, names, "processo:criar")
}

func TestGrantRolePermissionCreatesOnFirstReference(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.GrantRolePermission(ctx, RoleGestor, "process:create"))

	// stored under the canonical spelling
	_, ok := repo.perms["processo:criar"]
	assert.True(t, ok)
	assert.Equal(t, []string{"processo:criar"}, repo.roles[RoleGestor])

	// granting twice stays a no-op success
	require.NoError(t, svc.GrantRolePermission(ctx, RoleGestor, "processo:criar"))
	assert.Equal(t, []string{"processo:criar"}, repo.roles[RoleGestor])
}

func TestGrantRolePermissionRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMockRepository())
	err := svc.GrantRolePermission(context.Background(), "diretor", "processo:criar")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRevokeRolePermissionUnknownPermissionIsNoop(t *testing.T) {
	svc := NewService(newMockRepository())
	assert.NoError(t, svc.RevokeRolePermission(context.Background(), RoleGestor, "processo:criar"))
}

func TestGrantThenRevokeRoundTrip(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.GrantRolePermission(ctx, RoleJuridico, "processo:editar"))
	require.NoError(t, svc.RevokeRolePermission(ctx, RoleJuridico, "processo:editar"))
	assert.Empty(t, repo.roles[RoleJuridico])
}

func TestEffectivePermissionsRevokeWins(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()
	repo.userRoles[userID] = RoleGestor

	require.NoError(t, svc.GrantRolePermission(ctx, RoleGestor, "processo:criar"))
	require.NoError(t, svc.GrantRolePermission(ctx, RoleGestor, "funcionarios:ver"))

	// personal grant on top of the role defaults
	require.NoError(t, svc.GrantUserPermission(ctx, userID, "relatorios:ver"))
	// personal revoke of an inherited grant
	require.NoError(t, svc.ApplyOverrides(ctx, userID, []OverrideInput{
		{PermissionName: "relatorios:ver", Action: ActionGrant},
		{PermissionName: "processo:criar", Action: ActionRevoke},
	}))

	effective, err := svc.EffectivePermissions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"funcionarios:ver", "relatorios:ver"}, effective)
}

func TestEffectivePermissionsOverrideOnlyUser(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()
	repo.userRoles[userID] = RoleFuncionario

	require.NoError(t, svc.GrantUserPermission(ctx, userID, "relatorios:ver"))

	effective, err := svc.EffectivePermissions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"relatorios:ver"}, effective)
}

func TestHasPermissionMatchesSynonyms(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()
	repo.userRoles[userID] = RoleJuridico

	require.NoError(t, svc.GrantRolePermission(ctx, RoleJuridico, "processo:editar"))

	ok, err := svc.HasPermission(ctx, userID, "processo:finalizar")
	require.NoError(t, err)
	assert.True(t, ok, "finalizar should resolve through the editar grant")

	ok, err = svc.HasPermission(ctx, userID, "processo:criar")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyOverridesValidation(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	err := svc.ApplyOverrides(ctx, uuid.Nil, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.ApplyOverrides(ctx, uuid.New(), []OverrideInput{{PermissionName: "processo:ver", Action: "allow"}})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.ApplyOverrides(ctx, uuid.New(), []OverrideInput{{PermissionName: "  ", Action: ActionGrant}})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRevokeUserPermissionIdempotent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.GrantUserPermission(ctx, userID, "processo:ver"))
	require.NoError(t, svc.RevokeUserPermission(ctx, userID, "processo:ver"))
	require.NoError(t, svc.RevokeUserPermission(ctx, userID, "processo:ver"))
	assert.Empty(t, repo.overrides[userID])
}
