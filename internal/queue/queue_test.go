package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/storage"
)

// fakeClient records replayed calls and fails the slots it is told to.
type fakeClient struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{fail: make(map[string]error)}
}

func (f *fakeClient) FetchDay(ctx context.Context, which api.Day) (*models.DaySnapshot, error) {
	return nil, api.ErrNotFound
}

func (f *fakeClient) CompleteSlot(ctx context.Context, slotID string, status models.CompletionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "complete:"+slotID)
	return f.fail[slotID]
}

func (f *fakeClient) UncompleteSlot(ctx context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "uncomplete:"+slotID)
	return f.fail[slotID]
}

// stubClock makes enqueue timestamps strictly increasing and deterministic.
func stubClock(t *testing.T) {
	t.Helper()
	orig := now
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tick := 0
	now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	t.Cleanup(func() { now = orig })
}

func TestEnqueueDedupesPerSlot(t *testing.T) {
	stubClock(t)
	q := New(storage.NewMemoryStore(), newFakeClient())

	q.EnqueueComplete("slot-1", models.StatusFollowed)
	q.EnqueueComplete("slot-1", models.StatusSkipped)

	pending := q.Pending()
	require.Len(t, pending, 1, "a new action for a slot supersedes the old one")
	assert.Equal(t, models.ActionComplete, pending[0].Kind)
	assert.Equal(t, models.StatusSkipped, pending[0].Status, "last write wins")
}

func TestEnqueueUncompleteSupersedesComplete(t *testing.T) {
	stubClock(t)
	q := New(storage.NewMemoryStore(), newFakeClient())

	q.EnqueueComplete("slot-1", models.StatusFollowed)
	q.EnqueueUncomplete("slot-1")

	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, models.ActionUncomplete, pending[0].Kind)
	assert.Empty(t, pending[0].Status)
}

func TestQueueSurvivesRestart(t *testing.T) {
	stubClock(t)
	store := storage.NewMemoryStore()

	q := New(store, newFakeClient())
	q.EnqueueComplete("slot-1", models.StatusFollowed)

	// A new queue over the same store sees the persisted actions.
	q2 := New(store, newFakeClient())
	assert.Equal(t, 1, q2.PendingCount())
}

func TestFlushAllSucceed(t *testing.T) {
	stubClock(t)
	client := newFakeClient()
	store := storage.NewMemoryStore()
	q := New(store, client)

	q.EnqueueComplete("a", models.StatusFollowed)
	q.EnqueueUncomplete("b")
	q.EnqueueComplete("c", models.StatusModified)

	synced := q.Flush(context.Background())

	assert.Equal(t, 3, synced)
	assert.Equal(t, 0, q.PendingCount())
	assert.Equal(t, []string{"complete:a", "uncomplete:b", "complete:c"}, client.calls,
		"replay must follow enqueue order")

	_, err := store.Get(constants.OfflineQueueKey)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound, "empty queue clears the stored value")
}

func TestFlushKeepsFailures(t *testing.T) {
	stubClock(t)
	client := newFakeClient()
	client.fail["b"] = &api.NetworkError{Err: errors.New("connection refused")}
	q := New(storage.NewMemoryStore(), client)

	q.EnqueueComplete("a", models.StatusFollowed)
	q.EnqueueComplete("b", models.StatusSkipped)
	q.EnqueueComplete("c", models.StatusModified)

	synced := q.Flush(context.Background())
	assert.Equal(t, 2, synced)

	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].SlotID)
	assert.Equal(t, models.StatusSkipped, pending[0].Status, "failed action content unchanged")

	// The failure is retried on the next flush.
	delete(client.fail, "b")
	assert.Equal(t, 1, q.Flush(context.Background()))
	assert.Equal(t, 0, q.PendingCount())
}

// recordingStore captures every value written under the queue key.
type recordingStore struct {
	*storage.MemoryStore
	writes []string
}

func (s *recordingStore) Set(key, value string) error {
	if key == constants.OfflineQueueKey {
		s.writes = append(s.writes, value)
	}
	return s.MemoryStore.Set(key, value)
}

func TestFlushPersistsRemainderAfterEachSuccess(t *testing.T) {
	stubClock(t)
	client := newFakeClient()
	client.fail["c"] = &api.NetworkError{Err: errors.New("connection refused")}
	store := &recordingStore{MemoryStore: storage.NewMemoryStore()}
	q := New(store, client)

	q.EnqueueComplete("a", models.StatusFollowed)
	q.EnqueueComplete("b", models.StatusModified)
	q.EnqueueComplete("c", models.StatusSkipped)

	enqueued := len(store.writes)
	assert.Equal(t, 2, q.Flush(context.Background()))

	// Each success is dropped from the persisted document immediately, so
	// a crash mid-pass cannot replay it again.
	slotIDs := func(raw string) []string {
		var actions []models.QueuedAction
		require.NoError(t, json.Unmarshal([]byte(raw), &actions))
		ids := make([]string, len(actions))
		for i, a := range actions {
			ids[i] = a.SlotID
		}
		return ids
	}
	writes := store.writes[enqueued:]
	require.Len(t, writes, 3)
	assert.Equal(t, []string{"b", "c"}, slotIDs(writes[0]), "persisted right after a succeeded")
	assert.Equal(t, []string{"c"}, slotIDs(writes[1]), "persisted right after b succeeded")
	assert.Equal(t, []string{"c"}, slotIDs(writes[2]), "failure retained at the end of the pass")
}

func TestFlushEmptyQueue(t *testing.T) {
	q := New(storage.NewMemoryStore(), newFakeClient())
	assert.Equal(t, 0, q.Flush(context.Background()))
}

func TestMalformedQueueReadAsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(constants.OfflineQueueKey, "{not json"))

	q := New(store, newFakeClient())
	assert.Equal(t, 0, q.PendingCount())
	assert.Equal(t, 0, q.Flush(context.Background()))
}

func TestUnavailableStorageDegradesSilently(t *testing.T) {
	stubClock(t)
	q := New(storage.UnavailableStore{}, newFakeClient())

	// Must not panic or return errors anywhere on the queue surface.
	q.EnqueueComplete("a", models.StatusFollowed)
	assert.Equal(t, 0, q.PendingCount())
	assert.Equal(t, 0, q.Flush(context.Background()))
}

func TestSettleDropsPendingAction(t *testing.T) {
	stubClock(t)
	q := New(storage.NewMemoryStore(), newFakeClient())

	q.EnqueueComplete("a", models.StatusFollowed)
	q.EnqueueComplete("b", models.StatusFollowed)

	q.Settle("a")

	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].SlotID)

	assert.True(t, q.HasPending("b"))
	assert.False(t, q.HasPending("a"))
}
