package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

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

// ListUsers returns all profiles joined with their optional employee detail
// and the resolved manager name.
func (r *Repository) ListUsers(ctx context.Context) ([]UserView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.nome, p.email, p.perfil, p.ativo, p.criado_em, p.ultimo_acesso,
		       f.matricula, f.cargo, f.departamento, f.gestor_id, g.nome
		FROM profiles p
		LEFT JOIN funcionarios f ON f.profile_id = p.id
		LEFT JOIN profiles g ON g.id = f.gestor_id
		ORDER BY p.criado_em DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserView
	for rows.Next() {
		var u UserView
		var matricula, cargo, departamento, gestorNome *string
		var gestorID *uuid.UUID
		if err := rows.Scan(&u.ID, &u.Nome, &u.Email, &u.Perfil, &u.Ativo, &u.CriadoEm, &u.UltimoAcesso,
			&matricula, &cargo, &departamento, &gestorID, &gestorNome); err != nil {
			return nil, err
		}
		if matricula != nil {
			detail := EmployeeDetail{Matricula: *matricula, GestorID: gestorID}
			if cargo != nil {
				detail.Cargo = *cargo
			}
			if departamento != nil {
				detail.Departamento = *departamento
			}
			if gestorNome != nil {
				detail.GestorNome = *gestorNome
			}
			u.Funcionario = &detail
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser inserts the profile and, for employees, the employee row in one
// transaction. A failed employee insert rolls the whole creation back, so no
// orphaned account can remain.
func (r *Repository) CreateUser(ctx context.Context, user NewUser) (Profile, error) {
	var created Profile
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO profiles (id, nome, email, senha_hash, perfil, ativo, criado_em)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, nome, email, perfil, ativo, criado_em, ultimo_acesso`,
			uuid.New(), user.Nome, user.Email, user.SenhaHash, user.Perfil, user.Ativo)
		if err := row.Scan(&created.ID, &created.Nome, &created.Email, &created.Perfil,
			&created.Ativo, &created.CriadoEm, &created.UltimoAcesso); err != nil {
			return err
		}
		if user.Funcionario == nil {
			return nil
		}
		var gestorID *uuid.UUID
		if user.Funcionario.GestorID != "" {
			id, err := uuid.Parse(user.Funcionario.GestorID)
			if err != nil {
				return fmt.Errorf("%w: gestor inválido", httpx.ErrValidation)
			}
			gestorID = &id
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO funcionarios (id, profile_id, matricula, nome, cargo, departamento, gestor_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (matricula) DO UPDATE
			SET profile_id = EXCLUDED.profile_id,
			    nome = EXCLUDED.nome,
			    cargo = EXCLUDED.cargo,
			    departamento = EXCLUDED.departamento,
			    gestor_id = EXCLUDED.gestor_id`,
			uuid.New(), created.ID, user.Funcionario.Matricula, user.Nome,
			user.Funcionario.Cargo, user.Funcionario.Departamento, gestorID)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, fmt.Errorf("%w: email já cadastrado", httpx.ErrValidation)
		}
		return Profile{}, err
	}
	return created, nil
}

// RecentLogins returns the newest logins, newest first.
func (r *Repository) RecentLogins(ctx context.Context, limit int) ([]LoginEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ls.token_id, p.email, p.nome, ls.criado_em
		FROM login_sessions ls
		JOIN profiles p ON p.id = ls.user_id
		ORDER BY ls.criado_em DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []LoginEvent
	for rows.Next() {
		var e LoginEvent
		if err := rows.Scan(&e.ID, &e.Email, &e.Nome, &e.LastSignInAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
