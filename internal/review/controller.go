package review

import (
	"context"
	"errors"
	"sync"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/engine"
	"github.com/jurebordon/meal-frame/internal/logger"
	"github.com/jurebordon/meal-frame/internal/models"
)

// State is the review session's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateHidden
	StateShowing
	StateDismissed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateHidden:
		return "hidden"
	case StateShowing:
		return "showing"
	case StateDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Controller orchestrates the yesterday-review session: it fetches
// yesterday's snapshot through the engine, decides whether the prompt is
// worth showing, and routes marks back through the same engine. Hidden and
// Dismissed are terminal for the day.
type Controller struct {
	mu      sync.Mutex
	state   State
	gate    *Gate
	engine  *engine.Engine
	checked bool
	written bool
}

func NewController(gate *Gate, eng *engine.Engine) *Controller {
	return &Controller{state: StateIdle, gate: gate, engine: eng}
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Check runs the check-then-show decision. It executes at most once per
// controller; later calls are no-ops. When the prompt was already dismissed
// today, no fetch is issued at all.
func (c *Controller) Check(ctx context.Context) error {
	c.mu.Lock()
	if c.checked {
		c.mu.Unlock()
		return nil
	}
	c.checked = true

	if c.gate.IsDismissedToday() {
		c.state = StateHidden
		c.mu.Unlock()
		return nil
	}
	c.state = StateChecking
	c.mu.Unlock()

	err := c.engine.Refresh(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateHidden
		if errors.Is(err, api.ErrNotFound) {
			// No plan existed yesterday; nothing to review.
			return nil
		}
		return err
	}

	snap := c.engine.Snapshot()
	// The gate may have flipped during the fetch (a concurrent dismissal
	// elsewhere); respect it before showing anything.
	if c.gate.IsDismissedToday() || snap == nil || len(snap.Slots) == 0 || len(snap.Unmarked()) == 0 {
		c.state = StateHidden
		return nil
	}

	c.state = StateShowing
	logger.Debug("Review prompt showing", "unmarked", len(snap.Unmarked()))
	return nil
}

// Unmarked returns yesterday's slots still awaiting a mark, in day order.
// Empty unless the session is Showing.
func (c *Controller) Unmarked() []models.Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowing {
		return nil
	}
	snap := c.engine.Snapshot()
	if snap == nil {
		return nil
	}
	return snap.Unmarked()
}

// MarkSlot marks one of yesterday's slots through the mutation engine. When
// the last unmarked slot is resolved the session auto-dismisses, recording
// the dismissal exactly once.
func (c *Controller) MarkSlot(ctx context.Context, slotID string, status models.CompletionStatus) error {
	c.mu.Lock()
	if c.state != StateShowing {
		c.mu.Unlock()
		return errors.New("review session is not showing")
	}
	c.mu.Unlock()

	if err := c.engine.Complete(ctx, slotID, status); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.engine.Snapshot()
	if snap != nil && len(snap.Unmarked()) == 0 {
		c.state = StateDismissed
		c.markDismissed()
	}
	return nil
}

// Dismiss ends the session without requiring all slots to be marked
// ("skip for now" or closing the prompt).
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDismissed {
		return
	}
	c.state = StateDismissed
	c.markDismissed()
}

// markDismissed writes through the gate at most once per session.
// Callers must hold c.mu.
func (c *Controller) markDismissed() {
	if c.written {
		return
	}
	c.written = true
	c.gate.MarkDismissed()
}
