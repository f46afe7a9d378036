package processes

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for disciplinary cases.
type RepositoryPort interface {
	List(ctx context.Context) ([]ProcessView, error)
	Get(ctx context.Context, id uuid.UUID) (Process, error)
	Create(ctx context.Context, p Process) (Process, error)
	UpdateReview(ctx context.Context, id uuid.UUID, status, resolucao string, juridicoID uuid.UUID) (Process, error)
	Finalize(ctx context.Context, id uuid.UUID, numeroOcorrencia string) (Process, error)
}
