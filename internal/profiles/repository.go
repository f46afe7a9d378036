package profiles

import "context"

// RepositoryPort defines data access methods for profiles.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]UserView, error)
	CreateUser(ctx context.Context, user NewUser) (Profile, error)
	RecentLogins(ctx context.Context, limit int) ([]LoginEvent, error)
}
