package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

// opRow is the scan target for sync_queue.
type opRow struct {
	TempID    sql.NullString `db:"temp_id"`
	LastError sql.NullString `db:"last_error"`
	Kind      string         `db:"kind"`
	Entity    string         `db:"entity_type"`
	Status    string         `db:"status"`
	Payload   string         `db:"payload"`
	Seq       int64          `db:"seq"`
	Attempts  int            `db:"attempts"`
	CreatedAt int64          `db:"created_at"`
}

const opColumns = "seq, kind, entity_type, payload, temp_id, status, attempts, last_error, created_at"

func (r opRow) operation() *models.Operation {
	op := &models.Operation{
		Seq:       r.Seq,
		Kind:      models.OpKind(r.Kind),
		Entity:    models.OpEntity(r.Entity),
		Payload:   json.RawMessage(r.Payload),
		Status:    models.OpStatus(r.Status),
		Attempts:  r.Attempts,
		CreatedAt: time.UnixMilli(r.CreatedAt),
	}
	if r.TempID.Valid {
		v := r.TempID.String
		op.TempID = &v
	}
	if r.LastError.Valid {
		v := r.LastError.String
		op.LastError = &v
	}
	return op
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// InsertOperation appends op to the queue and returns it with Seq and CreatedAt assigned
func (s *Storage) InsertOperation(ctx context.Context, op *models.Operation) (*models.Operation, error) {
	var inserted *models.Operation

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		inserted, err = insertOperation(ctx, tx, op)
		return err
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

func insertOperation(ctx context.Context, tx *sqlx.Tx, op *models.Operation) (*models.Operation, error) {
	status := op.Status
	if status == "" {
		status = models.OpStatusPending
	}

	createdAt := nowMillis()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sync_queue (kind, entity_type, payload, temp_id, status, attempts, last_error, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, NULL, ?)`,
		string(op.Kind), string(op.Entity), string(op.Payload), nullString(op.TempID), string(status), createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue %s %s: %w", op.Kind, op.Entity, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue sequence: %w", err)
	}

	out := *op
	out.Seq = seq
	out.Status = status
	out.Attempts = 0
	out.LastError = nil
	out.CreatedAt = time.UnixMilli(createdAt)

	return &out, nil
}

// ListOperations returns operations with any of the given statuses (all when none given) in FIFO order
func (s *Storage) ListOperations(ctx context.Context, statuses ...models.OpStatus) ([]*models.Operation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	query := "SELECT " + opColumns + " FROM sync_queue"
	var args []any

	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, st := range statuses {
			names = append(names, string(st))
		}

		q, a, err := sqlx.In(query+" WHERE status IN (?)", names)
		if err != nil {
			return nil, fmt.Errorf("failed to build queue query: %w", err)
		}
		query, args = s.db.Rebind(q), a
	}

	var rows []opRow
	if err := s.db.SelectContext(ctx, &rows, query+" ORDER BY seq ASC", args...); err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	ops := make([]*models.Operation, 0, len(rows))
	for _, r := range rows {
		ops = append(ops, r.operation())
	}

	return ops, nil
}

// GetOperation retrieves a queued operation by sequence id
func (s *Storage) GetOperation(ctx context.Context, seq int64) (*models.Operation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var row opRow
	err := s.db.GetContext(ctx, &row, "SELECT "+opColumns+" FROM sync_queue WHERE seq = ?", seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to get operation %d: %w", seq, err)
	}

	return row.operation(), nil
}

// SetOperationStatus moves an operation to a new status
func (s *Storage) SetOperationStatus(
	ctx context.Context,
	seq int64,
	status models.OpStatus,
	lastError *string,
) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		attemptsDelta := 0
		if status == models.OpStatusSyncing {
			attemptsDelta = 1
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE sync_queue SET status = ?, last_error = ?, attempts = attempts + ? WHERE seq = ?`,
			string(status), nullString(lastError), attemptsDelta, seq,
		)
		if err != nil {
			return fmt.Errorf("failed to set operation %d status: %w", seq, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check operation %d update: %w", seq, err)
		}
		if n == 0 {
			return storage.ErrOperationNotFound
		}

		return nil
	})
}

// DeleteOperation removes an operation from the queue
func (s *Storage) DeleteOperation(ctx context.Context, seq int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sync_queue WHERE seq = ?", seq); err != nil {
			return fmt.Errorf("failed to delete operation %d: %w", seq, err)
		}
		return nil
	})
}

// CountOperations returns queue size per status
func (s *Storage) CountOperations(ctx context.Context) (map[models.OpStatus]int, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"cnt"`
	}
	if err := s.db.SelectContext(ctx, &rows, "SELECT status, COUNT(*) AS cnt FROM sync_queue GROUP BY status"); err != nil {
		return nil, fmt.Errorf("failed to count operations: %w", err)
	}

	counts := make(map[models.OpStatus]int, len(rows))
	for _, r := range rows {
		counts[models.OpStatus(r.Status)] = r.Count
	}

	return counts, nil
}
