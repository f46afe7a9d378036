package processes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Notifier publishes case events to interested parties.
type Notifier interface {
	CaseOpened(ctx context.Context, p Process) error
}

// Service handles disciplinary case business rules.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// CreateInput carries the case-creation request.
type CreateInput struct {
	FuncionarioID uuid.UUID
	CriadoPor     uuid.UUID
	TipoConduta   string
	Gravidade     string
	Descricao     string
}

// ReviewInput carries a legal-review decision.
type ReviewInput struct {
	Status     string
	Resolucao  string
	JuridicoID uuid.UUID
}

// List returns every case.
func (s *Service) List(ctx context.Context) ([]ProcessView, error) {
	return s.repo.List(ctx)
}

// Create registers a new case with the initial status.
func (s *Service) Create(ctx context.Context, in CreateInput) (Process, error) {
	if in.FuncionarioID == uuid.Nil {
		return Process{}, fmt.Errorf("%w: funcionário não informado", httpx.ErrValidation)
	}
	if strings.TrimSpace(in.TipoConduta) == "" {
		return Process{}, fmt.Errorf("%w: tipo de conduta é obrigatório", httpx.ErrValidation)
	}
	if !ValidGravidade(in.Gravidade) {
		return Process{}, fmt.Errorf("%w: gravidade inválida: %s", httpx.ErrValidation, in.Gravidade)
	}
	if strings.TrimSpace(in.Descricao) == "" {
		return Process{}, fmt.Errorf("%w: descrição é obrigatória", httpx.ErrValidation)
	}

	created, err := s.repo.Create(ctx, Process{
		FuncionarioID: in.FuncionarioID,
		CriadoPor:     in.CriadoPor,
		TipoConduta:   strings.TrimSpace(in.TipoConduta),
		Gravidade:     in.Gravidade,
		Descricao:     strings.TrimSpace(in.Descricao),
		Status:        StatusEmAnalise,
	})
	if err != nil {
		return Process{}, err
	}
	if s.notifier != nil {
		if err := s.notifier.CaseOpened(ctx, created); err != nil && s.logger != nil {
			s.logger.Warn("notify case opened", slog.Any("error", err))
		}
	}
	return created, nil
}

// Review applies a legal decision to a non-final case.
func (s *Service) Review(ctx context.Context, id uuid.UUID, in ReviewInput) (Process, error) {
	if !ValidStatus(in.Status) || in.Status == StatusFinalizado {
		return Process{}, fmt.Errorf("%w: status inválido para revisão: %s", httpx.ErrValidation, in.Status)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Process{}, err
	}
	if current.Status == StatusFinalizado {
		return Process{}, fmt.Errorf("%w: processo já finalizado", httpx.ErrValidation)
	}
	return s.repo.UpdateReview(ctx, id, in.Status, strings.TrimSpace(in.Resolucao), in.JuridicoID)
}

// Finalize moves a case into its terminal status. The external occurrence
// number is mandatory.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID, numeroOcorrencia string) (Process, error) {
	numeroOcorrencia = strings.TrimSpace(numeroOcorrencia)
	if numeroOcorrencia == "" {
		return Process{}, fmt.Errorf("%w: número de ocorrência é obrigatório para finalizar", httpx.ErrValidation)
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Process{}, err
	}
	if current.Status == StatusFinalizado {
		return Process{}, fmt.Errorf("%w: processo já finalizado", httpx.ErrValidation)
	}
	return s.repo.Finalize(ctx, id, numeroOcorrencia)
}
