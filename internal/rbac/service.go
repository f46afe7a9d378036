package rbac

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Service is the permission resolver: it owns the catalog, role grants and
// per-user overrides, and computes effective permission sets.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// OverrideInput is one entry of a bulk override update.
type OverrideInput struct {
	PermissionName string
	Action         string
}

// ListCatalog returns every known permission name, falling back to the
// built-in catalog while the table is still empty.
func (s *Service) ListCatalog(ctx context.Context) ([]string, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		names := make([]string, len(DefaultCatalog))
		copy(names, DefaultCatalog)
		sort.Strings(names)
		return names, nil
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	return names, nil
}

// ResolveRolePermissions returns the role -> granted-permission mapping.
func (s *Service) ResolveRolePermissions(ctx context.Context) (map[string][]string, error) {
	return s.repo.RolePermissions(ctx)
}

// GrantRolePermission attaches a permission to a role, creating the
// permission on first reference. Granting twice is a no-op success.
func (s *Service) GrantRolePermission(ctx context.Context, perfil, name string) error {
	if !ValidRole(perfil) {
		return fmt.Errorf("%w: perfil desconhecido: %s", httpx.ErrValidation, perfil)
	}
	perm, err := s.lookupOrCreate(ctx, name)
	if err != nil {
		return err
	}
	return s.repo.GrantToRole(ctx, perfil, perm.ID)
}

// RevokeRolePermission detaches a permission from a role. Revoking an
// unknown permission or an absent grant is a no-op success.
func (s *Service) RevokeRolePermission(ctx context.Context, perfil, name string) error {
	if !ValidRole(perfil) {
		return fmt.Errorf("%w: perfil desconhecido: %s", httpx.ErrValidation, perfil)
	}
	perm, err := s.lookup(ctx, name)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.RevokeFromRole(ctx, perfil, perm.ID)
}

// ReplaceRolePermissions swaps the full grant set of a role.
func (s *Service) ReplaceRolePermissions(ctx context.Context, perfil string, names []string) error {
	if !ValidRole(perfil) {
		return fmt.Errorf("%w: perfil desconhecido: %s", httpx.ErrValidation, perfil)
	}
	ids := make([]int64, 0, len(names))
	seen := make(map[int64]struct{}, len(names))
	for _, name := range names {
		perm, err := s.lookupOrCreate(ctx, name)
		if err != nil {
			return err
		}
		if _, ok := seen[perm.ID]; ok {
			continue
		}
		seen[perm.ID] = struct{}{}
		ids = append(ids, perm.ID)
	}
	return s.repo.ReplaceRolePermissions(ctx, perfil, ids)
}

// UserOverrides lists the explicit overrides of one user.
func (s *Service) UserOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	return s.repo.UserOverrides(ctx, userID)
}

// ApplyOverrides replaces the override set of one user.
func (s *Service) ApplyOverrides(ctx context.Context, userID uuid.UUID, inputs []OverrideInput) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: usuário não informado", httpx.ErrValidation)
	}
	resolved := make([]ResolvedOverride, 0, len(inputs))
	for _, in := range inputs {
		action := strings.ToLower(strings.TrimSpace(in.Action))
		if action != ActionGrant && action != ActionRevoke {
			return fmt.Errorf("%w: ação inválida: %s", httpx.ErrValidation, in.Action)
		}
		if strings.TrimSpace(in.PermissionName) == "" {
			return fmt.Errorf("%w: permissão não informada", httpx.ErrValidation)
		}
		perm, err := s.lookupOrCreate(ctx, in.PermissionName)
		if err != nil {
			return err
		}
		resolved = append(resolved, ResolvedOverride{PermissionID: perm.ID, Action: action})
	}
	return s.repo.ReplaceOverrides(ctx, userID, resolved)
}

// GrantUserPermission records a grant override for one user. Idempotent.
func (s *Service) GrantUserPermission(ctx context.Context, userID uuid.UUID, name string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: usuário não informado", httpx.ErrValidation)
	}
	perm, err := s.lookupOrCreate(ctx, name)
	if err != nil {
		return err
	}
	return s.repo.SetOverride(ctx, userID, perm.ID, ActionGrant)
}

// RevokeUserPermission removes a user's override for the permission.
// Revoking a non-existent grant is a no-op success.
func (s *Service) RevokeUserPermission(ctx context.Context, userID uuid.UUID, name string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: usuário não informado", httpx.ErrValidation)
	}
	perm, err := s.lookup(ctx, name)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.RemoveOverride(ctx, userID, perm.ID)
}

// EffectivePermissions computes the effective permission set of a user:
// the role-level defaults, minus revoke overrides, plus grant overrides.
// A revoke always wins over an inherited grant.
func (s *Service) EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	role, err := s.repo.ProfileRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	mapping, err := s.repo.RolePermissions(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(mapping[role]))
	for _, name := range mapping[role] {
		set[name] = struct{}{}
	}
	overrides, err := s.repo.UserOverrides(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if o.Action == ActionGrant {
			set[o.PermissionName] = struct{}{}
		}
	}
	for _, o := range overrides {
		if o.Action == ActionRevoke {
			delete(set, o.PermissionName)
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// HasPermission reports whether the effective set covers the permission or
// any of its lookup synonyms.
func (s *Service) HasPermission(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	effective, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	granted := make(map[string]struct{}, len(effective))
	for _, p := range effective {
		granted[p] = struct{}{}
	}
	for _, candidate := range Candidates(name) {
		if _, ok := granted[candidate]; ok {
			return true, nil
		}
	}
	return false, nil
}

// lookup tries the canonical spelling and every synonym before giving up.
func (s *Service) lookup(ctx context.Context, name string) (Permission, error) {
	if strings.TrimSpace(name) == "" {
		return Permission{}, fmt.Errorf("%w: permissão não informada", httpx.ErrValidation)
	}
	for _, candidate := range Candidates(name) {
		perm, err := s.repo.FindPermission(ctx, candidate)
		if err == nil {
			return perm, nil
		}
		if !errors.Is(err, httpx.ErrNotFound) {
			return Permission{}, err
		}
	}
	return Permission{}, fmt.Errorf("%w: permissão desconhecida: %s", httpx.ErrNotFound, Normalize(name))
}

// lookupOrCreate resolves a permission, creating the canonical row when no
// spelling variant exists yet.
func (s *Service) lookupOrCreate(ctx context.Context, name string) (Permission, error) {
	perm, err := s.lookup(ctx, name)
	if err == nil {
		return perm, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return Permission{}, err
	}
	return s.repo.EnsurePermission(ctx, Normalize(name))
}
