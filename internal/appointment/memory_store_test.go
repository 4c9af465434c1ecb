package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAssignsFreshIDs(t *testing.T) {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore(ClockFunc(func() time.Time { return created }))
	ctx := context.Background()

	a, err := store.Create(ctx, sampleRequest(mustDate(t, 2025, 6, 10), "9-00"))
	require.NoError(t, err)
	b, err := store.Create(ctx, sampleRequest(mustDate(t, 2025, 6, 10), "9-00"))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.Equal(t, created, a.CreatedAt)

	all, err := store.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	a, err := store.Create(ctx, sampleRequest(mustDate(t, 2025, 6, 10), "9-00"))
	require.NoError(t, err)
	a.Status = StatusCancelled

	got, err := store.GetAppointmentByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, got.Status)
}

func TestMemoryStore_CancelUnknownLeavesStoreUntouched(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	a, err := store.Create(ctx, sampleRequest(mustDate(t, 2025, 6, 10), "9-00"))
	require.NoError(t, err)

	_, _, err = store.Cancel(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	got, err := store.GetAppointmentByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, got.Status)
}

func TestMemoryStore_CancelReportsPreviousStatus(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	a, err := store.Create(ctx, sampleRequest(mustDate(t, 2025, 6, 10), "9-00"))
	require.NoError(t, err)

	updated, previous, err := store.Cancel(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, previous)
	assert.Equal(t, StatusCancelled, updated.Status)

	_, previous, err = store.Cancel(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, previous)
}

func TestMemoryStore_FindScheduled(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()
	date := mustDate(t, 2025, 6, 10)

	a, err := store.Create(ctx, sampleRequest(date, "9-00"))
	require.NoError(t, err)

	found, err := store.FindScheduled(ctx, date.Add(15*time.Hour), "9-00")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = store.FindScheduled(ctx, date, "9-30")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, _, err = store.Cancel(ctx, a.ID)
	require.NoError(t, err)
	_, err = store.FindScheduled(ctx, date, "9-00")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMemoryStore_HonoursCancelledContext(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, sampleRequest(mustDate(t, 2025, 6, 10), "9-00"))
	assert.ErrorIs(t, err, context.Canceled)
}
