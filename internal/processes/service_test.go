package processes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

type mockRepository struct {
	cases map[uuid.UUID]Process
}

func newMockRepository() *mockRepository {
	return &mockRepository{cases: make(map[uuid.UUID]Process)}
}

func (m *mockRepository) List(ctx context.Context) ([]ProcessView, error) {
	out := make([]ProcessView, 0, len(m.cases))
	for _, p := range m.cases {
		out = append(out, ProcessView{Process: p})
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (Process, error) {
	p, ok := m.cases[id]
	if !ok {
		return Process{}, fmt.Errorf("%w: processo não encontrado", httpx.ErrNotFound)
	}
	return p, nil
}

func (m *mockRepository) Create(ctx context.Context, p Process) (Process, error) {
	p.ID = uuid.New()
	p.CriadoEm = time.Now()
	m.cases[p.ID] = p
	return p, nil
}

func (m *mockRepository) UpdateReview(ctx context.Context, id uuid.UUID, status, resolucao string, juridicoID uuid.UUID) (Process, error) {
	p, ok := m.cases[id]
	if !ok {
		return Process{}, fmt.Errorf("%w: processo não encontrado", httpx.ErrNotFound)
	}
	p.Status = status
	p.Resolucao = resolucao
	p.JuridicoID = &juridicoID
	m.cases[id] = p
	return p, nil
}

func (m *mockRepository) Finalize(ctx context.Context, id uuid.UUID, numeroOcorrencia string) (Process, error) {
	p, ok := m.cases[id]
	if !ok {
		return Process{}, fmt.Errorf("%w: processo não encontrado", httpx.ErrNotFound)
	}
	p.Status = StatusFinalizado
	p.NumeroOcorrencia = numeroOcorrencia
	m.cases[id] = p
	return p, nil
}

var _ RepositoryPort = (*mockRepository)(nil)

type recordingNotifier struct {
	opened []Process
	err    error
}

func (n *recordingNotifier) CaseOpened(ctx context.Context, p Process) error {
	n.opened = append(n.opened, p)
	return n.err
}

func validInput() CreateInput {
	return CreateInput{
		FuncionarioID: uuid.New(),
		CriadoPor:     uuid.New(),
		TipoConduta:   "Atraso recorrente",
		Gravidade:     GravidadeLeve,
		Descricao:     "Três atrasos na mesma semana.",
	}
}

func TestCreateStartsInAnalysis(t *testing.T) {
	repo := newMockRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, StatusEmAnalise, created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, notifier.opened, 1)
	assert.Equal(t, created.ID, notifier.opened[0].ID)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	ctx := context.Background()

	in := validInput()
	in.FuncionarioID = uuid.Nil
	_, err := svc.Create(ctx, in)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	in = validInput()
	in.Gravidade = "Péssima"
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	in = validInput()
	in.Descricao = "   "
	_, err = svc.Create(ctx, in)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateSurvivesNotifierFailure(t *testing.T) {
	repo := newMockRepository()
	notifier := &recordingNotifier{err: fmt.Errorf("fila indisponível")}
	svc := NewService(repo, notifier, nil)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, StatusEmAnalise, created.Status)
}

func TestReviewTransitions(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	juridico := uuid.New()
	updated, err := svc.Review(ctx, created.ID, ReviewInput{Status: StatusSindicancia, Resolucao: "Abrir sindicância", JuridicoID: juridico})
	require.NoError(t, err)
	assert.Equal(t, StatusSindicancia, updated.Status)
	assert.Equal(t, "Abrir sindicância", updated.Resolucao)
	require.NotNil(t, updated.JuridicoID)
	assert.Equal(t, juridico, *updated.JuridicoID)
}

func TestReviewRejectsInvalidStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Review(ctx, created.ID, ReviewInput{Status: "Arquivado"})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	// review cannot move a case straight into the terminal status
	_, err = svc.Review(ctx, created.ID, ReviewInput{Status: StatusFinalizado})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestReviewRejectsFinalizedCase(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, created.ID, "OC-2024-001")
	require.NoError(t, err)

	_, err = svc.Review(ctx, created.ID, ReviewInput{Status: StatusSindicancia})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFinalizeRequiresOccurrenceNumber(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, created.ID, "  ")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	final, err := svc.Finalize(ctx, created.ID, "OC-2024-017")
	require.NoError(t, err)
	assert.Equal(t, StatusFinalizado, final.Status)
	assert.Equal(t, "OC-2024-017", final.NumeroOcorrencia)

	_, err = svc.Finalize(ctx, created.ID, "OC-2024-018")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestFinalizeUnknownCase(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	_, err := svc.Finalize(context.Background(), uuid.New(), "OC-1")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
