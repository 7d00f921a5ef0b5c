package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurebordon/meal-frame/internal/api"
	"github.com/jurebordon/meal-frame/internal/connectivity"
	"github.com/jurebordon/meal-frame/internal/constants"
	"github.com/jurebordon/meal-frame/internal/engine"
	"github.com/jurebordon/meal-frame/internal/models"
	"github.com/jurebordon/meal-frame/internal/queue"
	"github.com/jurebordon/meal-frame/internal/storage"
)

type fakeClient struct {
	fetch      *models.DaySnapshot
	fetchErr   error
	fetchCalls int
	onFetch    func() // runs before the fetch resolves
}

func (f *fakeClient) FetchDay(ctx context.Context, which api.Day) (*models.DaySnapshot, error) {
	f.fetchCalls++
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetch.Clone(), nil
}

func (f *fakeClient) CompleteSlot(ctx context.Context, slotID string, status models.CompletionStatus) error {
	return nil
}

func (f *fakeClient) UncompleteSlot(ctx context.Context, slotID string) error {
	return nil
}

// countingStore counts writes of the dismissal key.
type countingStore struct {
	*storage.MemoryStore
	dismissWrites int
}

func (s *countingStore) Set(key, value string) error {
	if key == constants.ReviewDismissedKey {
		s.dismissWrites++
	}
	return s.MemoryStore.Set(key, value)
}

func yesterdaySnapshot(statuses ...models.CompletionStatus) *models.DaySnapshot {
	snap := &models.DaySnapshot{Date: "2026-08-29"}
	for i, status := range statuses {
		snap.Slots = append(snap.Slots, models.Slot{
			ID:               string(rune('a' + i)),
			MealTypeID:       "meal-type",
			CompletionStatus: status,
		})
	}
	snap.Recalculate()
	return snap
}

func newTestController(client *fakeClient) (*Controller, *countingStore) {
	store := &countingStore{MemoryStore: storage.NewMemoryStore()}
	gate := NewGate(store)
	gate.now = func() time.Time { return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) }

	monitor := connectivity.NewMonitor(true)
	q := queue.New(store, client)
	eng := engine.New(api.Yesterday, client, q, monitor, storage.NewMemoryStore())

	return NewController(gate, eng), store
}

func TestReviewFullSession(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot("", "", "")}
	c, store := newTestController(client)

	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, StateShowing, c.State())
	require.Len(t, c.Unmarked(), 3)

	// Marking one slot keeps the session open and writes no dismissal.
	require.NoError(t, c.MarkSlot(context.Background(), "a", models.StatusFollowed))
	assert.Equal(t, StateShowing, c.State())
	assert.Len(t, c.Unmarked(), 2)
	assert.Equal(t, 0, store.dismissWrites)

	// Marking the rest auto-dismisses, recording exactly one write.
	require.NoError(t, c.MarkSlot(context.Background(), "b", models.StatusModified))
	require.NoError(t, c.MarkSlot(context.Background(), "c", models.StatusSkipped))
	assert.Equal(t, StateDismissed, c.State())
	assert.Equal(t, 1, store.dismissWrites)
}

func TestReviewEmptySnapshotHides(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot()}
	c, store := newTestController(client)

	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, StateHidden, c.State())
	assert.Equal(t, 0, store.dismissWrites, "hiding writes no dismissal")
}

func TestReviewAllMarkedHides(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot(models.StatusFollowed, models.StatusSkipped)}
	c, _ := newTestController(client)

	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, StateHidden, c.State())
}

func TestReviewSkipsFetchWhenAlreadyDismissed(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot("")}
	c, store := newTestController(client)
	require.NoError(t, store.Set(constants.ReviewDismissedKey, "2026-08-30"))
	store.dismissWrites = 0

	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, StateHidden, c.State())
	assert.Equal(t, 0, client.fetchCalls, "no network cost for an already-dismissed day")
}

func TestReviewCheckRunsOnce(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot("")}
	c, _ := newTestController(client)

	require.NoError(t, c.Check(context.Background()))
	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, 1, client.fetchCalls, "the check must not fire twice")
}

func TestReviewDismissalRaceDuringFetch(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot("")}
	c, store := newTestController(client)

	// Another surface dismisses while the fetch is in flight.
	client.onFetch = func() {
		_ = store.MemoryStore.Set(constants.ReviewDismissedKey, "2026-08-30")
	}

	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, StateHidden, c.State())
}

func TestReviewExplicitDismiss(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot("", "")}
	c, store := newTestController(client)

	require.NoError(t, c.Check(context.Background()))
	require.Equal(t, StateShowing, c.State())

	c.Dismiss()
	assert.Equal(t, StateDismissed, c.State())
	assert.Equal(t, 1, store.dismissWrites, "dismissal recorded without marking every slot")

	c.Dismiss()
	assert.Equal(t, 1, store.dismissWrites, "repeat dismiss writes nothing")
}

func TestReviewNoPlanYesterday(t *testing.T) {
	client := &fakeClient{fetchErr: api.ErrNotFound}
	c, store := newTestController(client)

	require.NoError(t, c.Check(context.Background()), "a missing day is an empty state, not a failure")
	assert.Equal(t, StateHidden, c.State())
	assert.Equal(t, 0, store.dismissWrites)
}

func TestReviewFetchFailureHides(t *testing.T) {
	client := &fakeClient{fetchErr: &api.NetworkError{Err: errors.New("no route to host")}}
	c, _ := newTestController(client)

	err := c.Check(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateHidden, c.State())
}

func TestMarkSlotOutsideShowing(t *testing.T) {
	client := &fakeClient{fetch: yesterdaySnapshot()}
	c, _ := newTestController(client)

	err := c.MarkSlot(context.Background(), "a", models.StatusFollowed)
	assert.Error(t, err, "marking before the session shows is rejected")
}
