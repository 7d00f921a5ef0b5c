// Package queue persists pending completion mutations so they survive app
// restarts. When connectivity returns, pending actions are replayed against
// the API in the order they were enqueued.
package queue

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/logger"
	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/storage"
)

// now is a test seam for enqueue timestamps.
var now = time.Now

// Queue is the durable action queue. All storage failures degrade to
// best-effort in-memory behavior; they never propagate to the caller.
type Queue struct {
	mu     sync.Mutex
	store  storage.KeyValue
	client api.Client
}

func New(store storage.KeyValue, client api.Client) *Queue {
	return &Queue{store: store, client: client}
}

// EnqueueComplete records a pending complete for the slot, replacing any
// previously queued action for the same slot.
func (q *Queue) EnqueueComplete(slotID string, status models.CompletionStatus) {
	q.enqueue(models.QueuedAction{
		ID:     uuid.NewString(),
		Kind:   models.ActionComplete,
		SlotID: slotID,
		Status: status,
	})
}

// EnqueueUncomplete records a pending uncomplete for the slot, replacing any
// previously queued action for the same slot.
func (q *Queue) EnqueueUncomplete(slotID string) {
	q.enqueue(models.QueuedAction{
		ID:     uuid.NewString(),
		Kind:   models.ActionUncomplete,
		SlotID: slotID,
	})
}

func (q *Queue) enqueue(action models.QueuedAction) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if action.EnqueuedAt.IsZero() {
		action.EnqueuedAt = now()
	}

	pending := q.load()
	// Last action wins: drop any queued action for the same slot.
	kept := pending[:0]
	for _, a := range pending {
		if a.SlotID != action.SlotID {
			kept = append(kept, a)
		}
	}
	kept = append(kept, action)
	q.persist(kept)
	logger.Debug("Queued offline action", "id", action.ID, "kind", action.Kind, "slot", action.SlotID)
}

// Flush replays all pending actions in enqueue order, sequentially. Actions
// that succeed are dropped immediately so an interrupted pass cannot replay
// them again; actions that fail are retained for the next flush. Returns the
// number of successfully replayed actions.
func (q *Queue) Flush(ctx context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.load()
	if len(pending) == 0 {
		return 0
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].EnqueuedAt.Before(pending[j].EnqueuedAt)
	})

	synced := 0
	var failed []models.QueuedAction
	for i, action := range pending {
		var err error
		switch action.Kind {
		case models.ActionComplete:
			err = q.client.CompleteSlot(ctx, action.SlotID, action.Status)
		case models.ActionUncomplete:
			err = q.client.UncompleteSlot(ctx, action.SlotID)
		default:
			logger.Warn("Dropping queued action of unknown kind", "kind", action.Kind)
			continue
		}

		if err != nil {
			logger.Debug("Replay failed, keeping action for retry", "id", action.ID, "slot", action.SlotID, "error", err)
			failed = append(failed, action)
			continue
		}

		synced++
		// Persist the remainder right away so this success never reappears.
		remainder := append(append([]models.QueuedAction{}, failed...), pending[i+1:]...)
		q.persist(remainder)
	}

	q.persist(failed)
	if synced > 0 {
		logger.Info("Replayed offline actions", "synced", synced, "failed", len(failed))
	}
	return synced
}

// Settle drops any queued action for the slot. Used when a mutation for
// the slot has been confirmed directly, superseding whatever was queued.
func (q *Queue) Settle(slotID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.load()
	kept := pending[:0]
	for _, a := range pending {
		if a.SlotID != slotID {
			kept = append(kept, a)
		}
	}
	if len(kept) != len(pending) {
		q.persist(kept)
	}
}

// PendingCount returns the number of actions waiting to be replayed.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.load())
}

// Pending returns a copy of the queued actions, unsorted.
func (q *Queue) Pending() []models.QueuedAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// HasPending reports whether a queued action exists for the slot.
func (q *Queue) HasPending(slotID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, a := range q.load() {
		if a.SlotID == slotID {
			return true
		}
	}
	return false
}

// load reads the persisted queue. A missing or malformed value reads as an
// empty queue, never an error.
func (q *Queue) load() []models.QueuedAction {
	raw, err := q.store.Get(constants.OfflineQueueKey)
	if err != nil {
		if err != storage.ErrKeyNotFound {
			logger.Warn("Failed to read offline queue", "error", err)
		}
		return nil
	}
	var actions []models.QueuedAction
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		logger.Warn("Discarding malformed offline queue", "error", err)
		return nil
	}
	return actions
}

// persist writes the queue back. Write failures are swallowed: the queue
// degrades to non-durable for the session rather than crashing the caller.
func (q *Queue) persist(actions []models.QueuedAction) {
	if len(actions) == 0 {
		if err := q.store.Delete(constants.OfflineQueueKey); err != nil {
			logger.Warn("Failed to clear offline queue", "error", err)
		}
		return
	}
	data, err := json.Marshal(actions)
	if err != nil {
		logger.Warn("Failed to serialize offline queue", "error", err)
		return
	}
	if err := q.store.Set(constants.OfflineQueueKey, string(data)); err != nil {
		logger.Warn("Failed to persist offline queue", "error", err)
	}
}
