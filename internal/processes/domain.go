// Package processes tracks disciplinary cases through their lifecycle.
package processes

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifications.
const (
	GravidadeLeve       = "Leve"
	GravidadeMedia      = "Média"
	GravidadeGrave      = "Grave"
	GravidadeGravissima = "Gravíssima"
)

// ValidGravidade reports whether the severity is known.
func ValidGravidade(g string) bool {
	switch g {
	case GravidadeLeve, GravidadeMedia, GravidadeGrave, GravidadeGravissima:
		return true
	}
	return false
}

// Case statuses. Finalizado is terminal and requires an external occurrence
// number to transition into.
const (
	StatusEmAnalise   = "Em Análise"
	StatusSindicancia = "Sindicância"
	StatusAguardando  = "Aguardando Assinatura"
	StatusFinalizado  = "Finalizado"
)

// ValidStatus reports whether the status is known.
func ValidStatus(s string) bool {
	switch s {
	case StatusEmAnalise, StatusSindicancia, StatusAguardando, StatusFinalizado:
		return true
	}
	return false
}

// Process is a disciplinary case record.
type Process struct {
	ID               uuid.UUID
	FuncionarioID    uuid.UUID
	CriadoPor        uuid.UUID
	TipoConduta      string
	Gravidade        string
	Descricao        string
	Status           string
	JuridicoID       *uuid.UUID
	Resolucao        string
	NumeroOcorrencia string
	CriadoEm         time.Time
}

// ProcessView is a process joined with the names the front end displays.
type ProcessView struct {
	Process
	FuncionarioNome      string
	FuncionarioMatricula string
	CriadoPorNome        string
	JuridicoNome         string
}
