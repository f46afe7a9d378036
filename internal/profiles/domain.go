// Package profiles manages user accounts and the admin users surface.
package profiles

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a user account.
type Profile struct {
	ID           uuid.UUID
	Nome         string
	Email        string
	Perfil       string
	Ativo        bool
	CriadoEm     time.Time
	UltimoAcesso *time.Time
}

// EmployeeDetail carries the employee record attached to a profile.
type EmployeeDetail struct {
	Matricula    string
	Cargo        string
	Departamento string
	GestorID     *uuid.UUID
	GestorNome   string
}

// UserView is a profile joined with its optional employee detail.
type UserView struct {
	Profile
	Funcionario *EmployeeDetail
}

// NewEmployee is the employee detail of a user being created.
type NewEmployee struct {
	Matricula    string `json:"matricula" validate:"required"`
	Cargo        string `json:"cargo"`
	Departamento string `json:"departamento"`
	GestorID     string `json:"gestorId"`
}

// NewUser is a user-creation request after validation.
type NewUser struct {
	Nome        string
	Email       string
	SenhaHash   string
	Perfil      string
	Ativo       bool
	Funcionario *NewEmployee
}

// LoginEvent is one row of the recent-logins feed.
type LoginEvent struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nome         string    `json:"nome"`
	LastSignInAt time.Time `json:"lastSignInAt"`
}
