package models

import "time"

// ActionKind is the type of a queued completion mutation.
type ActionKind string

const (
	ActionComplete   ActionKind = "complete"
	ActionUncomplete ActionKind = "uncomplete"
)

// QueuedAction is a durable record of a completion mutation issued while
// offline (or awaiting confirmation). At most one queued action exists per
// slot; a newer action for the same slot supersedes the older one.
type QueuedAction struct {
	ID         string           `json:"id"`
	Kind       ActionKind       `json:"kind"`
	SlotID     string           `json:"slot_id"`
	Status     CompletionStatus `json:"status,omitempty"`
	EnqueuedAt time.Time        `json:"enqueued_at"`
}
