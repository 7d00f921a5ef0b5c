// Package review decides, once per calendar day, whether to prompt the user
// to mark yesterday's unfinished meal slots, and drives that session.
package review

import (
	"time"

	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/logger"
	"github.com/jurebordon/meal-frame/internal/storage"
)

// Gate persists the calendar date on which the review prompt was last
// dismissed. The stored value expires implicitly: it is compared against
// the current local date at read time.
type Gate struct {
	store storage.KeyValue
	now   func() time.Time
}

func NewGate(store storage.KeyValue) *Gate {
	return &Gate{store: store, now: time.Now}
}

func (g *Gate) today() string {
	return g.now().Format(constants.DateFormat)
}

// IsDismissedToday reports whether the prompt was already dismissed on the
// current local date. When storage cannot be read at all it reports true:
// without a way to track dismissal the prompt would otherwise reappear on
// every check.
func (g *Gate) IsDismissedToday() bool {
	stored, err := g.store.Get(constants.ReviewDismissedKey)
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return false
		}
		logger.Warn("Cannot read dismissal state, treating as dismissed", "error", err)
		return true
	}
	return stored == g.today()
}

// MarkDismissed records today's date, overwriting any prior value. Storage
// write failures are swallowed; the gate degrades to once-per-session.
func (g *Gate) MarkDismissed() {
	if err := g.store.Set(constants.ReviewDismissedKey, g.today()); err != nil {
		logger.Warn("Failed to persist dismissal state", "error", err)
	}
}

// ClearDismissal removes the stored dismissal so the next check can show
// the prompt again, regardless of date.
func (g *Gate) ClearDismissal() {
	if err := g.store.Delete(constants.ReviewDismissedKey); err != nil {
		logger.Warn("Failed to clear dismissal state", "error", err)
	}
}
