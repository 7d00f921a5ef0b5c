package api

import (
	"context"

	"github.com/jurebordon/meal-frame/internal/models"
)

// Day selects which day snapshot to fetch.
type Day string

const (
	Today     Day = "today"
	Yesterday Day = "yesterday"
)

// Client is the remote API surface the completion-tracking core consumes.
type Client interface {
	// FetchDay returns the slot snapshot for the given day. It fails with
	// a *NetworkError or ErrNotFound (no plan for that date).
	FetchDay(ctx context.Context, which Day) (*models.DaySnapshot, error)
	// CompleteSlot marks a slot with the given status. It fails with a
	// *NetworkError, *ValidationError (invalid status), or ErrNotFound.
	CompleteSlot(ctx context.Context, slotID string, status models.CompletionStatus) error
	// UncompleteSlot clears a slot's completion. Same failure kinds as
	// CompleteSlot.
	UncompleteSlot(ctx context.Context, slotID string) error
}
