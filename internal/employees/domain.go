// Package employees manages employee records and the CSV import.
package employees

import "github.com/google/uuid"

// Employee is an employee record, keyed by registration number. The profile
// link is optional: imported employees may not have an account yet.
type Employee struct {
	ID           uuid.UUID
	ProfileID    *uuid.UUID
	Matricula    string
	Nome         string
	Cargo        string
	Departamento string
}

// RowIssue describes one rejected import row.
type RowIssue struct {
	Line int    `json:"line"`
	Erro string `json:"erro"`
}

// ImportReport summarizes an import run.
type ImportReport struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Errors   int        `json:"errors"`
	Details  []RowIssue `json:"details"`
}
