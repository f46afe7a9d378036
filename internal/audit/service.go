package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service records admin actions and assembles the recent-activities feed.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists an audit event. Failures are logged, never propagated:
// the audit trail must not break the operation it describes.
func (s *Service) Record(ctx context.Context, actorID uuid.UUID, action, entity, entityID, descricao string) {
	if s == nil || s.repo == nil {
		return
	}
	err := s.repo.InsertEvent(ctx, Event{
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Descricao: descricao,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit event", slog.Any("error", err))
	}
}

// RecentActivities merges audit events and logins into one feed, newest
// first, truncated to limit. Both sources are queried concurrently.
func (s *Service) RecentActivities(ctx context.Context, limit int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = 15
	}

	var events []Event
	var logins []FeedItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.repo.RecentEvents(gctx, limit)
		return err
	})
	g.Go(func() error {
		var err error
		logins, err = s.repo.RecentLogins(gctx, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(events)+len(logins))
	for _, e := range events {
		descricao := e.Descricao
		if descricao == "" {
			descricao = fmt.Sprintf("%s %s %s", e.Action, e.Entity, e.EntityID)
		}
		items = append(items, FeedItem{
			ID:        "evento:" + strconv.FormatInt(e.ID, 10),
			Descricao: descricao,
			At:        e.At,
		})
	}
	items = append(items, logins...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].At.After(items[j].At)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
