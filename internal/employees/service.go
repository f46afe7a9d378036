package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Service handles employee import logic.
type Service struct {
	repo    RepositoryPort
	maxRows int
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, maxRows int) *Service {
	if maxRows <= 0 {
		maxRows = 5000
	}
	return &Service{repo: repo, maxRows: maxRows}
}

// Recognized header names, lowercase. The first row is treated as a header
// when it names the matricula column; otherwise columns are read positionally
// as matricula, nome, cargo, departamento.
var headerAliases = map[string]string{
	"matricula":    "matricula",
	"matrícula":    "matricula",
	"registro":     "matricula",
	"nome":         "nome",
	"name":         "nome",
	"cargo":        "cargo",
	"funcao":       "cargo",
	"função":       "cargo",
	"departamento": "departamento",
	"setor":        "departamento",
}

var defaultColumns = []string{"matricula", "nome", "cargo", "departamento"}

// ImportCSV parses the payload and upserts each row by registration number.
// Row errors are collected per row; a bad row never aborts the run.
func (s *Service) ImportCSV(ctx context.Context, payload string) (ImportReport, error) {
	if strings.TrimSpace(payload) == "" {
		return ImportReport{}, fmt.Errorf("%w: csv vazio", httpx.ErrValidation)
	}
	rows := parseCSV(payload)
	if len(rows) == 0 {
		return ImportReport{}, fmt.Errorf("%w: csv vazio", httpx.ErrValidation)
	}

	columns, dataStart := detectHeader(rows[0])
	if len(rows)-dataStart > s.maxRows {
		return ImportReport{}, fmt.Errorf("%w: importação limitada a %d linhas", httpx.ErrValidation, s.maxRows)
	}

	report := ImportReport{Details: []RowIssue{}}
	for i := dataStart; i < len(rows); i++ {
		line := i + 1
		employee, err := mapRow(columns, rows[i])
		if err != nil {
			report.Errors++
			report.Details = append(report.Details, RowIssue{Line: line, Erro: err.Error()})
			continue
		}
		inserted, err := s.repo.Upsert(ctx, employee)
		if err != nil {
			report.Errors++
			report.Details = append(report.Details, RowIssue{Line: line, Erro: "falha ao gravar: " + err.Error()})
			continue
		}
		if inserted {
			report.Inserted++
		} else {
			report.Updated++
		}
	}
	return report, nil
}

// List returns all employees.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

func detectHeader(first []string) (columns []string, dataStart int) {
	mapped := make([]string, len(first))
	hasMatricula := false
	for i, cell := range first {
		key := strings.ToLower(strings.TrimSpace(cell))
		if canonical, ok := headerAliases[key]; ok {
			mapped[i] = canonical
			if canonical == "matricula" {
				hasMatricula = true
			}
		}
	}
	if hasMatricula {
		return mapped, 1
	}
	return defaultColumns, 0
}

func mapRow(columns []string, row []string) (Employee, error) {
	var e Employee
	for i, cell := range row {
		if i >= len(columns) {
			break
		}
		value := strings.TrimSpace(cell)
		switch columns[i] {
		case "matricula":
			e.Matricula = value
		case "nome":
			e.Nome = value
		case "cargo":
			e.Cargo = value
		case "departamento":
			e.Departamento = value
		}
	}
	if e.Matricula == "" {
		return Employee{}, fmt.Errorf("matrícula ausente")
	}
	if e.Nome == "" {
		return Employee{}, fmt.Errorf("nome ausente")
	}
	return e, nil
}
