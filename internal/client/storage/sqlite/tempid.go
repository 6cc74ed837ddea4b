package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

type mappingRow struct {
	TempID    string `db:"temp_id"`
	RealID    string `db:"real_id"`
	Entity    string `db:"entity_type"`
	CreatedAt int64  `db:"created_at"`
}

// SaveMapping stores temp id → real id; mappings are write-once
func (s *Storage) SaveMapping(ctx context.Context, m *models.TempIDMapping) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return saveMapping(ctx, tx, m)
	})
}

func saveMapping(ctx context.Context, tx *sqlx.Tx, m *models.TempIDMapping) error {
	if m.TempID == "" || m.RealID == "" {
		return fmt.Errorf("invalid mapping %q -> %q", m.TempID, m.RealID)
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO temp_id_map (temp_id, real_id, entity_type, created_at)
		 VALUES (?, ?, ?, ?) ON CONFLICT(temp_id) DO NOTHING`,
		m.TempID, m.RealID, string(m.Entity), nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("failed to save mapping %s: %w", m.TempID, err)
	}

	// Повторное сохранение той же пары допустимо, другой real id нет
	var realID string
	if err := tx.GetContext(ctx, &realID, "SELECT real_id FROM temp_id_map WHERE temp_id = ?", m.TempID); err != nil {
		return fmt.Errorf("failed to verify mapping %s: %w", m.TempID, err)
	}
	if realID != m.RealID {
		return fmt.Errorf("%w: %s already maps to %s", storage.ErrMappingConflict, m.TempID, realID)
	}

	return nil
}

// GetMapping resolves a temp id
func (s *Storage) GetMapping(ctx context.Context, tempID string) (*models.TempIDMapping, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var row mappingRow
	err := s.db.GetContext(ctx, &row,
		"SELECT temp_id, real_id, entity_type, created_at FROM temp_id_map WHERE temp_id = ?", tempID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMappingNotFound
		}
		return nil, fmt.Errorf("failed to get mapping %s: %w", tempID, err)
	}

	return &models.TempIDMapping{
		TempID:    row.TempID,
		RealID:    row.RealID,
		Entity:    models.OpEntity(row.Entity),
		CreatedAt: time.UnixMilli(row.CreatedAt),
	}, nil
}
