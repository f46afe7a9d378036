package rbac

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/db"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *db.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPermissions returns the full catalog ordered by name.
func (r *Repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// FindPermission fetches a permission by exact name.
func (r *Repository) FindPermission(ctx context.Context, name string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM permissions WHERE name = $1`, name).Scan(&p.ID, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, httpx.ErrNotFound
		}
		return Permission{}, err
	}
	return p, nil
}

// EnsurePermission upserts a permission by name.
func (r *Repository) EnsurePermission(ctx context.Context, name string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx, `
		INSERT INTO permissions (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`, name).Scan(&p.ID, &p.Name)
	if err != nil {
		return Permission{}, err
	}
	return p, nil
}

// RolePermissions returns the role -> permission-name mapping.
func (r *Repository) RolePermissions(ctx context.Context) (map[string][]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pp.perfil, p.name
		FROM profile_permissions pp
		JOIN permissions p ON p.id = pp.permission_id
		ORDER BY pp.perfil, p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	mapping := make(map[string][]string)
	for rows.Next() {
		var perfil, name string
		if err := rows.Scan(&perfil, &name); err != nil {
			return nil, err
		}
		mapping[perfil] = append(mapping[perfil], name)
	}
	return mapping, rows.Err()
}

// GrantToRole attaches a permission to a role. Granting twice is a no-op.
func (r *Repository) GrantToRole(ctx context.Context, perfil string, permissionID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profile_permissions (perfil, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (perfil, permission_id) DO NOTHING`, perfil, permissionID)
	return err
}

// RevokeFromRole detaches a permission from a role. Revoking an absent grant
// is a no-op.
func (r *Repository) RevokeFromRole(ctx context.Context, perfil string, permissionID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM profile_permissions WHERE perfil = $1 AND permission_id = $2`, perfil, permissionID)
	return err
}

// ReplaceRolePermissions swaps the full grant set of a role in one transaction.
func (r *Repository) ReplaceRolePermissions(ctx context.Context, perfil string, permissionIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profile_permissions WHERE perfil = $1`, perfil); err != nil {
			return err
		}
		for _, id := range permissionIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO profile_permissions (perfil, permission_id)
				VALUES ($1, $2)
				ON CONFLICT (perfil, permission_id) DO NOTHING`, perfil, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// UserOverrides returns the per-user overrides ordered by permission name.
func (r *Repository) UserOverrides(ctx context.Context, userID uuid.UUID) ([]Override, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.user_id, p.name, o.action
		FROM user_permission_overrides o
		JOIN permissions p ON p.id = o.permission_id
		WHERE o.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var overrides []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.UserID, &o.PermissionName, &o.Action); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// SetOverride upserts an override for one user and permission.
func (r *Repository) SetOverride(ctx context.Context, userID uuid.UUID, permissionID int64, action string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_permission_overrides (user_id, permission_id, action)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, permission_id) DO UPDATE SET action = EXCLUDED.action`,
		userID, permissionID, action)
	return err
}

// RemoveOverride deletes an override. Removing an absent override is a no-op.
func (r *Repository) RemoveOverride(ctx context.Context, userID uuid.UUID, permissionID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM user_permission_overrides WHERE user_id = $1 AND permission_id = $2`,
		userID, permissionID)
	return err
}

// ReplaceOverrides swaps the full override set of a user in one transaction.
func (r *Repository) ReplaceOverrides(ctx context.Context, userID uuid.UUID, overrides []ResolvedOverride) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_permission_overrides WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, o := range overrides {
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_permission_overrides (user_id, permission_id, action)
				VALUES ($1, $2, $3)
				ON CONFLICT (user_id, permission_id) DO UPDATE SET action = EXCLUDED.action`,
				userID, o.PermissionID, o.Action); err != nil {
				return err
			}
		}
		return nil
	})
}

// ProfileRole returns the stored role of a profile.
func (r *Repository) ProfileRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var perfil string
	err := r.pool.QueryRow(ctx, `SELECT perfil FROM profiles WHERE id = $1`, userID).Scan(&perfil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", httpx.ErrNotFound
		}
		return "", err
	}
	return perfil, nil
}

var _ RepositoryPort = (*Repository)(nil)
