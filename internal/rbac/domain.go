// Package rbac implements role and per-user permission resolution.
package rbac

import "github.com/google/uuid"

// Roles understood by the system.
const (
	RoleAdministrador = "administrador"
	RoleGestor        = "gestor"
	RoleJuridico      = "juridico"
	RoleFuncionario   = "funcionario"
)

// ValidRole reports whether the given role name is known.
func ValidRole(role string) bool {
	switch role {
	case RoleAdministrador, RoleGestor, RoleJuridico, RoleFuncionario:
		return true
	}
	return false
}

// Permission represents an atomic capability.
type Permission struct {
	ID   int64
	Name string
}

// Override actions.
const (
	ActionGrant  = "grant"
	ActionRevoke = "revoke"
)

// Override is a user-specific exception to the role-level defaults.
type Override struct {
	UserID         uuid.UUID
	PermissionName string
	Action         string
}

// DefaultCatalog is the built-in permission catalog, used to answer catalog
// queries before any permission row has been written.
var DefaultCatalog = []string{
	"processo:criar",
	"processo:ver",
	"processo:ver_todos",
	"processo:editar",
	"processo:finalizar",
	"funcionarios:ver",
	"funcionarios:importar",
	"usuarios:gerenciar",
	"permissoes:gerenciar",
	"relatorios:ver",
}
