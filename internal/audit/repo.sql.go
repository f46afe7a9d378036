package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/db"
)

// RepositoryPort defines persistence for the audit trail.
type RepositoryPort interface {
	InsertEvent(ctx context.Context, e Event) error
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
	RecentLogins(ctx context.Context, limit int) ([]FeedItem, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *db.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertEvent persists an audit event.
func (r *Repository) InsertEvent(ctx context.Context, e Event) error {
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_events (actor_id, action, entity, entity_id, descricao, at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ActorID, e.Action, e.Entity, e.EntityID, e.Descricao, at)
	return err
}

// RecentEvents returns the newest audit events, newest first.
func (r *Repository) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_id, action, entity, entity_id, descricao, at
		FROM audit_events
		ORDER BY at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Descricao, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// RecentLogins returns the newest logins rendered as feed items.
func (r *Repository) RecentLogins(ctx context.Context, limit int) ([]FeedItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ls.token_id, p.nome, ls.criado_em
		FROM login_sessions ls
		JOIN profiles p ON p.id = ls.user_id
		ORDER BY ls.criado_em DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FeedItem
	for rows.Next() {
		var id, nome string
		var at time.Time
		if err := rows.Scan(&id, &nome, &at); err != nil {
			return nil, err
		}
		items = append(items, FeedItem{
			ID:        "login:" + id,
			Descricao: fmt.Sprintf("Login de %s", nome),
			At:        at,
		})
	}
	return items, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
