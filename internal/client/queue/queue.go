// Package queue implements the durable log of not yet confirmed mutations.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

// WarnAttempts is the attempt count after which a queued operation is reported as stuck.
const WarnAttempts = 3

// Queue provides the state transitions of queued operations.
// PENDING → SYNCING → removed on success, SYNCING → FAILED on failure,
// FAILED is picked up again by the next ListPending.
type Queue struct {
	store   storage.QueueStorage
	replica storage.ReplicaStorage
	logger  *slog.Logger
}

// Stats summarises the queue for status output
type Stats struct {
	OldestPending time.Time // OldestPending время создания самой старой операции, zero если очередь пуста
	Counts        map[models.OpStatus]int
	Stuck         []*models.Operation // Stuck операции с attempts >= WarnAttempts
	Total         int
}

// New creates a queue over the given storages
func New(store storage.QueueStorage, replica storage.ReplicaStorage, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		store:   store,
		replica: replica,
		logger:  logger,
	}
}

// Enqueue persists a new PENDING operation and returns it with its sequence id
func (q *Queue) Enqueue(
	ctx context.Context,
	kind models.OpKind,
	entity models.OpEntity,
	payload any,
	tempID string,
) (*models.Operation, error) {
	op, err := newOperation(kind, entity, payload, tempID)
	if err != nil {
		return nil, err
	}

	created, err := q.store.InsertOperation(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue operation: %w", err)
	}

	q.logEnqueued(created)
	return created, nil
}

// EnqueueWith persists the operation together with the optimistic local writes in change,
// so a crash never leaves a local write without its queue entry.
func (q *Queue) EnqueueWith(
	ctx context.Context,
	change storage.LocalChange,
	kind models.OpKind,
	entity models.OpEntity,
	payload any,
	tempID string,
) (*models.Operation, error) {
	op, err := newOperation(kind, entity, payload, tempID)
	if err != nil {
		return nil, err
	}

	change.Op = op
	created, err := q.replica.CommitLocal(ctx, change)
	if err != nil {
		return nil, fmt.Errorf("failed to commit offline change: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("offline change committed without queue entry")
	}

	q.logEnqueued(created)
	return created, nil
}

// ListPending returns PENDING and FAILED operations in ascending sequence order
func (q *Queue) ListPending(ctx context.Context) ([]*models.Operation, error) {
	ops, err := q.store.ListOperations(ctx, models.OpStatusPending, models.OpStatusFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending operations: %w", err)
	}
	return ops, nil
}

// MarkSyncing moves an operation to SYNCING and counts the attempt
func (q *Queue) MarkSyncing(ctx context.Context, seq int64) error {
	return q.store.SetOperationStatus(ctx, seq, models.OpStatusSyncing, nil)
}

// MarkFailed records a failed attempt; the operation stays eligible for the next drain
func (q *Queue) MarkFailed(ctx context.Context, seq int64, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return q.store.SetOperationStatus(ctx, seq, models.OpStatusFailed, &msg)
}

// Remove deletes an acknowledged operation
func (q *Queue) Remove(ctx context.Context, seq int64) error {
	return q.store.DeleteOperation(ctx, seq)
}

// Recover returns operations left in SYNCING by an interrupted drain back to PENDING
func (q *Queue) Recover(ctx context.Context) (int, error) {
	ops, err := q.store.ListOperations(ctx, models.OpStatusSyncing)
	if err != nil {
		return 0, fmt.Errorf("failed to list syncing operations: %w", err)
	}

	for _, op := range ops {
		if err := q.store.SetOperationStatus(ctx, op.Seq, models.OpStatusPending, op.LastError); err != nil {
			return 0, fmt.Errorf("failed to reset operation %d: %w", op.Seq, err)
		}
		q.logger.Warn("operation interrupted mid-sync, requeued", "seq", op.Seq, "entity", op.Entity)
	}

	return len(ops), nil
}

// Stats collects queue depth, oldest entry age and stuck operations
func (q *Queue) Stats(ctx context.Context) (*Stats, error) {
	ops, err := q.store.ListOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	stats := &Stats{
		Counts: make(map[models.OpStatus]int),
		Total:  len(ops),
	}

	for _, op := range ops {
		stats.Counts[op.Status]++
		if stats.OldestPending.IsZero() || op.CreatedAt.Before(stats.OldestPending) {
			stats.OldestPending = op.CreatedAt
		}
		if op.Attempts >= WarnAttempts {
			stats.Stuck = append(stats.Stuck, op)
		}
	}

	return stats, nil
}

func (q *Queue) logEnqueued(op *models.Operation) {
	attrs := []any{"seq", op.Seq, "kind", op.Kind, "entity", op.Entity}
	if op.HasTempID() {
		attrs = append(attrs, "temp_id", *op.TempID)
	}
	q.logger.Info("operation queued", attrs...)
}

// newOperation проверяет инвариант temp id и сериализует payload
func newOperation(kind models.OpKind, entity models.OpEntity, payload any, tempID string) (*models.Operation, error) {
	switch kind {
	case models.OpCreate, models.OpUpdate:
	default:
		return nil, fmt.Errorf("unknown operation kind: %s", kind)
	}

	if _, ok := models.CollectionOf(entity); !ok {
		return nil, fmt.Errorf("unknown operation entity: %s", entity)
	}

	op := &models.Operation{
		Kind:   kind,
		Entity: entity,
		Status: models.OpStatusPending,
	}

	// temp id есть только у сущностей, созданных офлайн
	if tempID != "" {
		if kind != models.OpCreate {
			return nil, fmt.Errorf("temp id %s on %s operation", tempID, kind)
		}
		if !models.IsTempID(tempID) {
			return nil, fmt.Errorf("malformed temp id: %s", tempID)
		}
		op.TempID = &tempID
	}

	switch p := payload.(type) {
	case json.RawMessage:
		op.Payload = p
	case []byte:
		op.Payload = json.RawMessage(p)
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal operation payload: %w", err)
		}
		op.Payload = data
	}

	if !json.Valid(op.Payload) {
		return nil, fmt.Errorf("operation payload is not valid JSON")
	}

	return op, nil
}
