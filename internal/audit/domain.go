// Package audit records administrative actions and feeds the activity timeline.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one entry of the audit trail.
type Event struct {
	ID        int64
	ActorID   uuid.UUID
	Action    string
	Entity    string
	EntityID  string
	Descricao string
	At        time.Time
}

// FeedItem is one row of the recent-activities feed.
type FeedItem struct {
	ID        string    `json:"id"`
	Descricao string    `json:"descricao"`
	At        time.Time `json:"at"`
}
