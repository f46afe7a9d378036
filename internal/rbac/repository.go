package rbac

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for permission resolution.
type RepositoryPort interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
	FindPermission(ctx context.Context, name string) (Permission, error)
	EnsurePermission(ctx context.Context, name string) (Permission, error)

	RolePermissions(ctx context.Context) (map[string][]string, error)
	GrantToRole(ctx context.Context, perfil string, permissionID int64) error
	RevokeFromRole(ctx context.Context, perfil string, permissionID int64) error
	ReplaceRolePermissions(ctx context.Context, perfil string, permissionIDs []int64) error

	UserOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error)
	SetOverride(ctx context.Context, userID uuid.UUID, permissionID int64, action string) error
	RemoveOverride(ctx context.Context, userID uuid.UUID, permissionID int64) error
	ReplaceOverrides(ctx context.Context, userID uuid.UUID, overrides []ResolvedOverride) error

	ProfileRole(ctx context.Context, userID uuid.UUID) (string, error)
}

// ResolvedOverride pairs a permission row with an override action.
type ResolvedOverride struct {
	PermissionID int64
	Action       string
}
