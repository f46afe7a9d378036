package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("credenciais inválidas")

// User represents an account able to authenticate, including its secret hash.
type User struct {
	ID           uuid.UUID
	Nome         string
	Email        string
	Perfil       string
	PasswordHash string
	Ativo        bool
	CriadoEm     time.Time
}

// Identity describes the authenticated caller attached to a request.
type Identity struct {
	ID     uuid.UUID
	Nome   string
	Email  string
	Perfil string
	Ativo  bool
}
