package storage

import (
	"context"

	"github.com/iudanet/skirent/internal/models"
)

//go:generate moq -out queue_mock.go . QueueStorage

// QueueStorage defines durable storage for the operation queue.
type QueueStorage interface {
	// InsertOperation persists op, assigning Seq and CreatedAt
	InsertOperation(ctx context.Context, op *models.Operation) (*models.Operation, error)

	// ListOperations returns operations with any of the statuses in ascending Seq order
	ListOperations(ctx context.Context, statuses ...models.OpStatus) ([]*models.Operation, error)

	// GetOperation returns ErrOperationNotFound if seq doesn't exist
	GetOperation(ctx context.Context, seq int64) (*models.Operation, error)

	// SetOperationStatus moves an operation to status; lastError nil clears it.
	// Moving to SYNCING increments the attempt counter.
	SetOperationStatus(ctx context.Context, seq int64, status models.OpStatus, lastError *string) error

	// DeleteOperation removes an operation (terminal success)
	DeleteOperation(ctx context.Context, seq int64) error

	// CountOperations returns the number of queued operations per status
	CountOperations(ctx context.Context) (map[models.OpStatus]int, error)
}

//go:generate moq -out tempid_mock.go . TempIDStorage

// TempIDStorage defines storage for temp id → real id mappings.
type TempIDStorage interface {
	// SaveMapping stores a mapping; re-saving the same pair is a no-op,
	// a different real id for a known temp id yields ErrMappingConflict
	SaveMapping(ctx context.Context, m *models.TempIDMapping) error

	// GetMapping returns ErrMappingNotFound for unknown temp ids
	GetMapping(ctx context.Context, tempID string) (*models.TempIDMapping, error)
}
