package profiles

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
	"github.com/sisdisciplinar/sisdisciplinar/internal/rbac"
)

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateUserInput carries the raw creation request.
type CreateUserInput struct {
	Nome        string
	Email       string
	Password    string
	Perfil      string
	Ativo       bool
	Funcionario *NewEmployee
}

// ListUsers returns all user views.
func (s *Service) ListUsers(ctx context.Context) ([]UserView, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUser validates the input, hashes the password and persists the
// account atomically.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (Profile, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Email = strings.TrimSpace(in.Email)
	if in.Nome == "" || in.Email == "" || in.Password == "" {
		return Profile{}, fmt.Errorf("%w: nome, email e password são obrigatórios", httpx.ErrValidation)
	}
	if len(in.Password) < 8 {
		return Profile{}, fmt.Errorf("%w: a senha deve ter ao menos 8 caracteres", httpx.ErrValidation)
	}
	if !rbac.ValidRole(in.Perfil) {
		return Profile{}, fmt.Errorf("%w: perfil desconhecido: %s", httpx.ErrValidation, in.Perfil)
	}
	if in.Perfil == rbac.RoleFuncionario {
		if in.Funcionario == nil || strings.TrimSpace(in.Funcionario.Matricula) == "" {
			return Profile{}, fmt.Errorf("%w: matrícula é obrigatória para funcionários", httpx.ErrValidation)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}

	user := NewUser{
		Nome:      in.Nome,
		Email:     in.Email,
		SenhaHash: string(hash),
		Perfil:    in.Perfil,
		Ativo:     in.Ativo,
	}
	if in.Perfil == rbac.RoleFuncionario {
		user.Funcionario = in.Funcionario
	}
	return s.repo.CreateUser(ctx, user)
}

// RecentLogins returns the newest logins truncated to limit.
func (s *Service) RecentLogins(ctx context.Context, limit int) ([]LoginEvent, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.RecentLogins(ctx, limit)
}
