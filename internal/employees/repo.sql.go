package employees

import (
	"context"

	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *db.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert writes an employee keyed by matricula. `xmax = 0` distinguishes a
// fresh insert from a conflict update.
func (r *Repository) Upsert(ctx context.Context, e Employee) (bool, error) {
	var inserted bool
	err := r.pool.QueryRow(ctx, `
		INSERT INTO funcionarios (id, matricula, nome, cargo, departamento)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (matricula) DO UPDATE
		SET nome = EXCLUDED.nome,
		    cargo = EXCLUDED.cargo,
		    departamento = EXCLUDED.departamento
		RETURNING (xmax = 0)`,
		uuid.New(), e.Matricula, e.Nome, e.Cargo, e.Departamento).Scan(&inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// List returns all employees ordered by registration number.
func (r *Repository) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, profile_id, matricula, nome, cargo, departamento
		FROM funcionarios
		ORDER BY matricula`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Matricula, &e.Nome, &e.Cargo, &e.Departamento); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
