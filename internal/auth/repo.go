package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/db"
	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	IdentityByID(ctx context.Context, id uuid.UUID) (Identity, error)
	CreateSession(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time, ip, ua string) error
	RevokeSession(ctx context.Context, tokenID string) error
	TouchLastAccess(ctx context.Context, userID uuid.UUID) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *db.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *db.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, nome, email, perfil, senha_hash, ativo, criado_em
		FROM profiles
		WHERE lower(email) = lower($1)`, email)
	var user User
	if err := row.Scan(&user.ID, &user.Nome, &user.Email, &user.Perfil, &user.PasswordHash, &user.Ativo, &user.CriadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IdentityByID fetches the caller identity used for authorization decisions.
func (r *PGRepository) IdentityByID(ctx context.Context, id uuid.UUID) (Identity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, nome, email, perfil, ativo
		FROM profiles
		WHERE id = $1`, id)
	var ident Identity
	if err := row.Scan(&ident.ID, &ident.Nome, &ident.Email, &ident.Perfil, &ident.Ativo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, httpx.ErrNotFound
		}
		return Identity{}, err
	}
	return ident, nil
}

// CreateSession persists a login record for auditing and the recent-logins feed.
func (r *PGRepository) CreateSession(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO login_sessions (token_id, user_id, criado_em, expira_em, ip, ua)
		VALUES ($1, $2, NOW(), $3, NULLIF($4, ''), NULLIF($5, ''))`,
		tokenID, userID, expiresAt.UTC(), ip, ua)
	return err
}

// RevokeSession stamps the end of a login session. The row stays so the
// recent-logins and activity feeds keep their history.
func (r *PGRepository) RevokeSession(ctx context.Context, tokenID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE login_sessions
		SET revogado_em = NOW()
		WHERE token_id = $1 AND revogado_em IS NULL`, tokenID)
	return err
}

// TouchLastAccess stamps the profile's last access time.
func (r *PGRepository) TouchLastAccess(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE profiles SET ultimo_acesso = NOW() WHERE id = $1`, userID)
	return err
}

var _ Repository = (*PGRepository)(nil)
