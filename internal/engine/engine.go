// Package engine applies completion mutations to a cached day snapshot
// optimistically, before the server confirms them. A genuine server-side
// rejection rolls the snapshot back; a connectivity failure keeps the
// optimistic state and hands the mutation to the offline queue instead.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/connectivity"
	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/logger"
	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/queue"
	"github.com/jurebordon/meal-frame/internal/storage"
)

// Engine owns the snapshot for one named day ("today" or "yesterday").
// Mutations are serialized: the snapshot/apply/confirm-or-rollback cycle
// for one mutation completes before the next begins, so derived fields are
// never observed mid-recompute and a second intent for the same slot is
// ordered after the first.
type Engine struct {
	day     api.Day
	store   *SnapshotStore
	client  api.Client
	queue   *queue.Queue
	monitor *connectivity.Monitor
	kv      storage.KeyValue

	// serializes whole mutation cycles, not just snapshot access
	mu sync.Mutex

	// mutation generation counter and the generation at which each slot
	// was last mutated locally; guarded by mu. Refresh captures the
	// counter before fetching so reconcile can tell which slots were
	// written while the fetch was in flight.
	gen     uint64
	slotGen map[string]uint64

	now func() time.Time
}

func New(day api.Day, client api.Client, q *queue.Queue, monitor *connectivity.Monitor, kv storage.KeyValue) *Engine {
	e := &Engine{
		day:     day,
		store:   NewSnapshotStore(),
		client:  client,
		queue:   q,
		monitor: monitor,
		kv:      kv,
		slotGen: make(map[string]uint64),
		now:     time.Now,
	}
	e.restore()
	return e
}

// restore loads the last persisted snapshot so the cached day is available
// before the first fetch, including fully offline sessions. Missing or
// malformed state reads as no snapshot.
func (e *Engine) restore() {
	raw, err := e.kv.Get(constants.SnapshotKeyPrefix + string(e.day))
	if err != nil {
		if err != storage.ErrKeyNotFound {
			logger.Warn("Failed to read cached snapshot", "day", e.day, "error", err)
		}
		return
	}
	var snap models.DaySnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Warn("Discarding malformed cached snapshot", "day", e.day, "error", err)
		return
	}
	snap.Recalculate()
	e.store.set(&snap)
}

// setSnapshot publishes the snapshot and persists it best-effort; a write
// failure degrades the cache to in-memory for the session.
func (e *Engine) setSnapshot(snap *models.DaySnapshot) {
	e.store.set(snap)
	data, err := json.Marshal(snap)
	if err != nil {
		logger.Warn("Failed to serialize snapshot", "day", e.day, "error", err)
		return
	}
	if err := e.kv.Set(constants.SnapshotKeyPrefix+string(e.day), string(data)); err != nil {
		logger.Warn("Failed to persist snapshot", "day", e.day, "error", err)
	}
}

// Store exposes the snapshot container for read access and subscriptions.
func (e *Engine) Store() *SnapshotStore { return e.store }

// Snapshot returns a copy of the current snapshot, or nil before the first
// successful Refresh.
func (e *Engine) Snapshot() *models.DaySnapshot { return e.store.Get() }

// Refresh fetches the day from the server and reconciles it into the local
// snapshot. Slots with a pending queued action keep their local completion
// fields; a stale fetch must not clobber a newer local write.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	startGen := e.gen
	e.mu.Unlock()

	snap, err := e.client.FetchDay(ctx, e.day)
	if err != nil {
		if api.IsNetworkError(err) {
			e.monitor.Set(false)
		}
		return err
	}

	e.mu.Lock()
	e.reconcile(snap, startGen)
	e.mu.Unlock()

	// Reconcile before announcing the transition: subscribers replay the
	// queue on reconnect, and the fetched snapshot predates that replay.
	e.monitor.Set(true)
	return nil
}

// Complete optimistically marks the slot with the given status.
func (e *Engine) Complete(ctx context.Context, slotID string, status models.CompletionStatus) error {
	if !status.Valid() {
		return &api.ValidationError{Message: fmt.Sprintf("unknown completion status %q", status)}
	}
	completedAt := e.now()
	return e.mutate(ctx, slotID, func(s *models.Slot) {
		s.CompletionStatus = status
		s.CompletedAt = &completedAt
	}, func() error {
		return e.client.CompleteSlot(ctx, slotID, status)
	}, func() {
		e.queue.EnqueueComplete(slotID, status)
	})
}

// Uncomplete optimistically clears the slot's completion.
func (e *Engine) Uncomplete(ctx context.Context, slotID string) error {
	return e.mutate(ctx, slotID, func(s *models.Slot) {
		s.CompletionStatus = ""
		s.CompletedAt = nil
	}, func() error {
		return e.client.UncompleteSlot(ctx, slotID)
	}, func() {
		e.queue.EnqueueUncomplete(slotID)
	})
}

// mutate runs the three-phase transaction: capture the pre-mutation
// snapshot, apply the change locally, then confirm against the server or
// roll back. A confirmed-offline failure enqueues instead of rolling back.
func (e *Engine) mutate(ctx context.Context, slotID string, apply func(*models.Slot), confirm func() error, enqueue func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.store.Get()
	if prev == nil {
		return fmt.Errorf("no snapshot loaded for %s", e.day)
	}

	next := prev.Clone()
	idx := next.FindSlot(slotID)
	if idx < 0 {
		return fmt.Errorf("slot %s: %w", slotID, api.ErrNotFound)
	}

	apply(&next.Slots[idx])
	next.Recalculate()
	e.gen++
	e.slotGen[slotID] = e.gen
	e.setSnapshot(next)

	if !e.monitor.Online() {
		enqueue()
		logger.Debug("Offline, mutation queued", "day", e.day, "slot", slotID)
		return nil
	}

	err := confirm()
	if err == nil {
		// Optimistic state is authoritative; any queued action for this
		// slot has been superseded.
		e.queue.Settle(slotID)
		return nil
	}

	if api.IsNetworkError(err) {
		// Connectivity dropped mid-flight. Preserve the user's input
		// locally and reconcile on reconnect.
		e.monitor.Set(false)
		enqueue()
		logger.Info("Connection lost, mutation queued", "day", e.day, "slot", slotID)
		return nil
	}

	// Genuine server-side rejection: full rollback of status, timestamp,
	// and derived fields.
	e.setSnapshot(prev)
	logger.Warn("Mutation rejected, rolled back", "day", e.day, "slot", slotID, "error", err)
	return err
}

// reconcile merges a snapshot fetched at generation since, keeping local
// completion state for any slot that still has a queued action or was
// mutated after the fetch began. A confirmed mutation leaves no queue
// entry, so the generation check is what protects it from a stale fetch
// landing late.
func (e *Engine) reconcile(server *models.DaySnapshot, since uint64) {
	local := e.store.Get()
	if local != nil {
		for i := range server.Slots {
			id := server.Slots[i].ID
			if !e.queue.HasPending(id) && e.slotGen[id] <= since {
				continue
			}
			if j := local.FindSlot(id); j >= 0 {
				server.Slots[i].CompletionStatus = local.Slots[j].CompletionStatus
				server.Slots[i].CompletedAt = local.Slots[j].CompletedAt
			}
		}
	}
	server.Recalculate()
	e.setSnapshot(server)
}
