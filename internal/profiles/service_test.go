package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
	"github.com/sisdisciplinar/sisdisciplinar/internal/rbac"
)

type mockRepository struct {
	created []NewUser
	users   []UserView
	logins  []LoginEvent
}

func (m *mockRepository) ListUsers(ctx context.Context) ([]UserView, error) {
	return m.users, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, user NewUser) (Profile, error) {
	m.created = append(m.created, user)
	return Profile{
		ID:       uuid.New(),
		Nome:     user.Nome,
		Email:    user.Email,
		Perfil:   user.Perfil,
		Ativo:    user.Ativo,
		CriadoEm: time.Now(),
	}, nil
}

func (m *mockRepository) RecentLogins(ctx context.Context, limit int) ([]LoginEvent, error) {
	if limit < len(m.logins) {
		return m.logins[:limit], nil
	}
	return m.logins, nil
}

var _ RepositoryPort = (*mockRepository)(nil)

func TestCreateUserHashesPassword(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Nome:     "Maria Souza",
		Email:    "maria@example.com",
		Password: "senha-forte-1",
		Perfil:   rbac.RoleGestor,
		Ativo:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleGestor, created.Perfil)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.NotEqual(t, "senha-forte-1", stored.SenhaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SenhaHash), []byte("senha-forte-1")))
	assert.Nil(t, stored.Funcionario, "non-employee roles carry no employee detail")
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(&mockRepository{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateUserInput
	}{
		{"missing name", CreateUserInput{Email: "a@b.com", Password: "senha-forte-1", Perfil: rbac.RoleGestor}},
		{"missing email", CreateUserInput{Nome: "A", Password: "senha-forte-1", Perfil: rbac.RoleGestor}},
		{"short password", CreateUserInput{Nome: "A", Email: "a@b.com", Password: "curta", Perfil: rbac.RoleGestor}},
		{"unknown role", CreateUserInput{Nome: "A", Email: "a@b.com", Password: "senha-forte-1", Perfil: "diretor"}},
		{"employee without matricula", CreateUserInput{Nome: "A", Email: "a@b.com", Password: "senha-forte-1", Perfil: rbac.RoleFuncionario}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tc.in)
			assert.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestCreateUserEmployeeKeepsDetail(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Nome:        "João Lima",
		Email:       "joao@example.com",
		Password:    "senha-forte-1",
		Perfil:      rbac.RoleFuncionario,
		Ativo:       true,
		Funcionario: &NewEmployee{Matricula: "1001", Cargo: "Técnico", Departamento: "TI"},
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	require.NotNil(t, repo.created[0].Funcionario)
	assert.Equal(t, "1001", repo.created[0].Funcionario.Matricula)
}

func TestRecentLoginsDefaultsLimit(t *testing.T) {
	repo := &mockRepository{}
	for i := 0; i < 12; i++ {
		repo.logins = append(repo.logins, LoginEvent{ID: uuid.NewString()})
	}
	svc := NewService(repo)

	logins, err := svc.RecentLogins(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logins, 10)
}
