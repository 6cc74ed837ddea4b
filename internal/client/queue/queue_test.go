package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/client/storage/sqlite"
	"github.com/iudanet/skirent/internal/models"
)

func newTestQueue(t *testing.T) (*Queue, *sqlite.Storage) {
	t.Helper()

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "replica.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return New(store, store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestQueue_EnqueueAndList(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	tempID := models.NewTempID(models.TempPrefixCustomer)
	first, err := q.Enqueue(ctx, models.OpCreate, models.OpEntityCustomer, models.Customer{Name: "Jane Doe"}, tempID)
	require.NoError(t, err)
	assert.Equal(t, models.OpStatusPending, first.Status)
	require.True(t, first.HasTempID())
	assert.Equal(t, tempID, *first.TempID)

	second, err := q.Enqueue(ctx, models.OpUpdate, models.OpEntityCustomer, json.RawMessage(`{"id":"c1","name":"Ana"}`), "")
	require.NoError(t, err)
	assert.False(t, second.HasTempID())

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.Seq, pending[0].Seq)
	assert.Equal(t, second.Seq, pending[1].Seq)
	assert.JSONEq(t, `{"name":"Jane Doe"}`, string(pending[0].Payload))
}

func TestQueue_EnqueueRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	tests := []struct {
		name    string
		kind    models.OpKind
		entity  models.OpEntity
		payload any
		tempID  string
	}{
		{name: "unknown kind", kind: "DELETE", entity: models.OpEntityRental, payload: struct{}{}},
		{name: "unknown entity", kind: models.OpCreate, entity: "TARIFF", payload: struct{}{}},
		{name: "temp id on update", kind: models.OpUpdate, entity: models.OpEntityCustomer, payload: struct{}{}, tempID: models.NewTempID(models.TempPrefixCustomer)},
		{name: "malformed temp id", kind: models.OpCreate, entity: models.OpEntityRental, payload: struct{}{}, tempID: "r1"},
		{name: "invalid raw payload", kind: models.OpCreate, entity: models.OpEntityRental, payload: json.RawMessage(`{`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := q.Enqueue(ctx, tt.kind, tt.entity, tt.payload, tt.tempID)
			assert.Error(t, err)
		})
	}

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestQueue_StateMachine(t *testing.T) {
	ctx := context.Background()
	q, store := newTestQueue(t)

	op, err := q.Enqueue(ctx, models.OpCreate, models.OpEntityReturn, models.ReturnRequest{RentalID: "r1"}, "")
	require.NoError(t, err)

	// PENDING → SYNCING: операция пропадает из выборки
	require.NoError(t, q.MarkSyncing(ctx, op.Seq))
	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// SYNCING → FAILED: снова в выборке, с ошибкой
	require.NoError(t, q.MarkFailed(ctx, op.Seq, errors.New("parent not yet synced")))
	pending, err = q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.OpStatusFailed, pending[0].Status)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "parent not yet synced", *pending[0].LastError)

	// FAILED → SYNCING → removed
	require.NoError(t, q.MarkSyncing(ctx, op.Seq))
	require.NoError(t, q.Remove(ctx, op.Seq))

	_, err = store.GetOperation(ctx, op.Seq)
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestQueue_EnqueueWith(t *testing.T) {
	ctx := context.Background()
	q, store := newTestQueue(t)

	require.NoError(t, store.PutRecord(ctx, models.CollectionItems,
		models.Record{ID: "i1", Data: json.RawMessage(`{"id":"i1","status":"available"}`)}))

	tempID := models.NewTempID(models.TempPrefixRental)
	rental := models.Rental{ID: tempID, CustomerID: "c1", Items: []models.RentalItem{{ItemID: "i1"}}, Status: models.RentalStatusActive, Offline: true}
	rec, err := models.RecordOf(tempID, true, rental)
	require.NoError(t, err)

	op, err := q.EnqueueWith(ctx, storage.LocalChange{
		Writes:     []storage.RecordWrite{{Collection: models.CollectionRentals, Record: rec}},
		ItemStatus: map[string]string{"i1": models.ItemStatusRented},
	}, models.OpCreate, models.OpEntityRental, rental, tempID)
	require.NoError(t, err)
	assert.Positive(t, op.Seq)

	got, err := store.GetRecord(ctx, models.CollectionRentals, tempID)
	require.NoError(t, err)
	assert.True(t, got.Offline)

	items, err := store.FindItems(ctx, storage.ItemFilter{Status: models.ItemStatusRented})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// Невалидная операция не оставляет локальных изменений
	_, err = q.EnqueueWith(ctx, storage.LocalChange{
		ItemStatus: map[string]string{"i1": models.ItemStatusAvailable},
	}, models.OpUpdate, models.OpEntityRental, rental, tempID)
	require.Error(t, err)

	items, err = store.FindItems(ctx, storage.ItemFilter{Status: models.ItemStatusRented})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestQueue_RecoverAndStats(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	stuck, err := q.Enqueue(ctx, models.OpCreate, models.OpEntityRental, models.Rental{CustomerID: "c1"}, "")
	require.NoError(t, err)
	interrupted, err := q.Enqueue(ctx, models.OpUpdate, models.OpEntityCustomer, models.Customer{ID: "c1", Name: "Ana"}, "")
	require.NoError(t, err)

	for i := 0; i < WarnAttempts; i++ {
		require.NoError(t, q.MarkSyncing(ctx, stuck.Seq))
		require.NoError(t, q.MarkFailed(ctx, stuck.Seq, errors.New("server error (500)")))
	}
	require.NoError(t, q.MarkSyncing(ctx, interrupted.Seq))

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Counts[models.OpStatusFailed])
	assert.Equal(t, 1, stats.Counts[models.OpStatusSyncing])
	require.Len(t, stats.Stuck, 1)
	assert.Equal(t, stuck.Seq, stats.Stuck[0].Seq)
	assert.False(t, stats.OldestPending.IsZero())

	// Прерванный SYNCING возвращается в PENDING
	n, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	pending, err := q.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.OpStatusPending, pending[1].Status)
	assert.Equal(t, 1, pending[1].Attempts)
}
