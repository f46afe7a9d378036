package employees

import "context"

// RepositoryPort defines data access methods for employees.
type RepositoryPort interface {
	// Upsert writes an employee keyed by registration number and reports
	// whether a new row was inserted.
	Upsert(ctx context.Context, e Employee) (inserted bool, err error)
	List(ctx context.Context) ([]Employee, error)
}
