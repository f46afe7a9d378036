package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// LoginResult carries the issued token and the caller's profile summary.
type LoginResult struct {
	Token  string
	User   Identity
	Expira time.Time
}

// Login validates email/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password, ip, ua string) (LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.Ativo {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return LoginResult{}, err
	}
	expiresAt := time.Now().Add(s.tokens.TTL())
	if err := s.repo.CreateSession(ctx, token, user.ID, expiresAt, ip, ua); err != nil {
		s.warn("register login session", err)
	}
	if err := s.repo.TouchLastAccess(ctx, user.ID); err != nil {
		s.warn("touch last access", err)
	}

	return LoginResult{
		Token: token,
		User: Identity{
			ID:     user.ID,
			Nome:   user.Nome,
			Email:  user.Email,
			Perfil: user.Perfil,
			Ativo:  user.Ativo,
		},
		Expira: expiresAt,
	}, nil
}

// Logout revokes a bearer token. Revoking an unknown token succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.repo.RevokeSession(ctx, token); err != nil {
		s.warn("revoke login session", err)
	}
	return s.tokens.Revoke(ctx, token)
}

func (s *Service) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
