package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

type ResourceKind string

const (
	ResourceEvent   ResourceKind = "event"
	ResourceProject ResourceKind = "project"
	ResourceContact ResourceKind = "contact"
)

// ResourceChange records a successful mutation so admin dashboards can
// resynchronise without polling.
type ResourceChange struct {
	Action   ChangeAction `json:"action"`
	Resource ResourceKind `json:"resource"`
	ID       uuid.UUID    `json:"id"`
	Title    string       `json:"title,omitempty"`
	At       time.Time    `json:"at"`
}
