package processes

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

const processColumns = `
	p.id, p.funcionario_id, p.criado_por, p.tipo_conduta, p.gravidade, p.descricao,
	p.status, p.juridico_id, COALESCE(p.resolucao, ''), COALESCE(p.numero_ocorrencia, ''), p.criado_em`

// List returns all cases joined with display names, newest first.
func (r *Repository) List(ctx context.Context) ([]ProcessView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+processColumns+`,
		       f.nome, f.matricula,
		       COALESCE(c.nome, ''), COALESCE(j.nome, '')
		FROM processos p
		JOIN funcionarios f ON f.id = p.funcionario_id
		LEFT JOIN profiles c ON c.id = p.criado_por
		LEFT JOIN profiles j ON j.id = p.juridico_id
		ORDER BY p.criado_em DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var views []ProcessView
	for rows.Next() {
		var v ProcessView
		if err := rows.Scan(&v.ID, &v.FuncionarioID, &v.CriadoPor, &v.TipoConduta, &v.Gravidade,
			&v.Descricao, &v.Status, &v.JuridicoID, &v.Resolucao, &v.NumeroOcorrencia, &v.CriadoEm,
			&v.FuncionarioNome, &v.FuncionarioMatricula, &v.CriadoPorNome, &v.JuridicoNome); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// Get fetches one case by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Process, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+processColumns+` FROM processos p WHERE p.id = $1`, id)
	return scanProcess(row)
}

// Create inserts a new case.
func (r *Repository) Create(ctx context.Context, p Process) (Process, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO processos (id, funcionario_id, criado_por, tipo_conduta, gravidade, descricao, status, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING `+selfColumns(), uuid.New(), p.FuncionarioID, p.CriadoPor, p.TipoConduta, p.Gravidade, p.Descricao, p.Status)
	created, err := scanProcess(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Process{}, fmt.Errorf("%w: funcionário não encontrado", httpx.ErrValidation)
		}
		return Process{}, err
	}
	return created, nil
}

// UpdateReview applies a legal-review decision.
func (r *Repository) UpdateReview(ctx context.Context, id uuid.UUID, status, resolucao string, juridicoID uuid.UUID) (Process, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE processos
		SET status = $2,
		    resolucao = NULLIF($3, ''),
		    juridico_id = $4
		WHERE id = $1
		RETURNING `+selfColumns(), id, status, resolucao, juridicoID)
	updated, err := scanProcess(row)
	if err != nil {
		return Process{}, err
	}
	return updated, nil
}

// Finalize stamps the occurrence number and moves the case to its terminal
// status.
func (r *Repository) Finalize(ctx context.Context, id uuid.UUID, numeroOcorrencia string) (Process, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE processos
		SET status = $2,
		    numero_ocorrencia = $3
		WHERE id = $1
		RETURNING `+selfColumns(), id, StatusFinalizado, numeroOcorrencia)
	updated, err := scanProcess(row)
	if err != nil {
		return Process{}, err
	}
	return updated, nil
}

func selfColumns() string {
	return `id, funcionario_id, criado_por, tipo_conduta, gravidade, descricao,
	        status, juridico_id, COALESCE(resolucao, ''), COALESCE(numero_ocorrencia, ''), criado_em`
}

func scanProcess(row pgx.Row) (Process, error) {
	var p Process
	err := row.Scan(&p.ID, &p.FuncionarioID, &p.CriadoPor, &p.TipoConduta, &p.Gravidade,
		&p.Descricao, &p.Status, &p.JuridicoID, &p.Resolucao, &p.NumeroOcorrencia, &p.CriadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Process{}, httpx.ErrNotFound
		}
		return Process{}, err
	}
	return p, nil
}

var _ RepositoryPort = (*Repository)(nil)
