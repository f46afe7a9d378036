package employees

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

type mockRepository struct {
	byMatricula map[string]Employee
	upsertErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{byMatricula: make(map[string]Employee)}
}

func (m *mockRepository) Upsert(ctx context.Context, e Employee) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	_, exists := m.byMatricula[e.Matricula]
	if !exists {
		e.ID = uuid.New()
	} else {
		e.ID = m.byMatricula[e.Matricula].ID
	}
	m.byMatricula[e.Matricula] = e
	return !exists, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Employee, error) {
	out := make([]Employee, 0, len(m.byMatricula))
	for _, e := range m.byMatricula {
		out = append(out, e)
	}
	return out, nil
}

var _ RepositoryPort = (*mockRepository)(nil)

func TestImportCSVWithHeader(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, 0)

	report, err := svc.ImportCSV(context.Background(), "matricula,nome,cargo,departamento\n1001,Maria Souza,Analista,RH\n1002,João Lima,Técnico,TI\n")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, "Maria Souza", repo.byMatricula["1001"].Nome)
	assert.Equal(t, "TI", repo.byMatricula["1002"].Departamento)
}

func TestImportCSVPositionalWithoutHeader(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, 0)

	report, err := svc.ImportCSV(context.Background(), "1001,Maria Souza,Analista,RH")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, "Analista", repo.byMatricula["1001"].Cargo)
}

func TestImportCSVHeaderAliases(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, 0)

	report, err := svc.ImportCSV(context.Background(), "Registro,Name,Função,Setor\n1001,Maria Souza,Analista,RH")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	e := repo.byMatricula["1001"]
	assert.Equal(t, "Maria Souza", e.Nome)
	assert.Equal(t, "Analista", e.Cargo)
	assert.Equal(t, "RH", e.Departamento)
}

func TestImportCSVReimportCountsUpdates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, 0)
	ctx := context.Background()

	first, err := svc.ImportCSV(ctx, "matricula,nome\n1001,Maria Souza\n1002,João Lima")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	second, err := svc.ImportCSV(ctx, "matricula,nome\n1001,Maria S. Souza\n1003,Ana Reis")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Inserted)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, "Maria S. Souza", repo.byMatricula["1001"].Nome)
}

func TestImportCSVBadRowsCollectedNotFatal(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, 0)

	report, err := svc.ImportCSV(context.Background(), "matricula,nome\n1001,Maria Souza\n,Sem Matricula\n1002,")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 2, report.Errors)
	require.Len(t, report.Details, 2)
	assert.Equal(t, 3, report.Details[0].Line)
	assert.Equal(t, 4, report.Details[1].Line)
}

func TestImportCSVEmptyPayload(t *testing.T) {
	svc := NewService(newMockRepository(), 0)
	_, err := svc.ImportCSV(context.Background(), "   \n  ")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestImportCSVRowLimit(t *testing.T) {
	svc := NewService(newMockRepository(), 1)
	_, err := svc.ImportCSV(context.Background(), "matricula,nome\n1,A\n2,B")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestImportCSVStoreFailureIsPerRow(t *testing.T) {
	repo := newMockRepository()
	repo.upsertErr = errors.New("conexão perdida")
	svc := NewService(repo, 0)

	report, err := svc.ImportCSV(context.Background(), "matricula,nome\n1001,Maria Souza")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 0, report.Inserted)
}
