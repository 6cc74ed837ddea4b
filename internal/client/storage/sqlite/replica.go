package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

// ReplaceAll atomically swaps the server-confirmed rows of every collection in snapshot.
// Either all tables are replaced or none is touched.
func (s *Storage) ReplaceAll(ctx context.Context, snapshot map[models.Collection][]models.Record) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for collection, records := range snapshot {
			t, err := tableFor(collection)
			if err != nil {
				return err
			}

			// Строки, созданные офлайн и ещё не подтверждённые, сохраняем
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE offline = 0", t.name)); err != nil {
				return fmt.Errorf("failed to clear %s: %w", t.name, err)
			}

			// Сервер не перезаписывает строки с неподтверждёнными локальными изменениями
			stmt, err := tx.PrepareContext(ctx, t.replaceQuery())
			if err != nil {
				return fmt.Errorf("failed to prepare %s insert: %w", t.name, err)
			}

			for _, rec := range records {
				rec.Offline = false
				args, err := t.upsertArgs(rec)
				if err != nil {
					stmt.Close()
					return err
				}
				if _, err := stmt.ExecContext(ctx, args...); err != nil {
					stmt.Close()
					return fmt.Errorf("failed to insert %s %s: %w", t.name, rec.ID, err)
				}
			}

			if err := stmt.Close(); err != nil {
				return fmt.Errorf("failed to close %s insert: %w", t.name, err)
			}
		}
		return nil
	})
}

// PutRecord upserts a single record
func (s *Storage) PutRecord(ctx context.Context, collection models.Collection, rec models.Record) error {
	t, err := tableFor(collection)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return putRecord(ctx, tx, t, rec)
	})
}

func putRecord(ctx context.Context, tx *sqlx.Tx, t table, rec models.Record) error {
	args, err := t.upsertArgs(rec)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, t.upsertQuery(), args...); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", t.name, rec.ID, err)
	}

	return nil
}

// GetRecord retrieves a record by id
func (s *Storage) GetRecord(ctx context.Context, collection models.Collection, id string) (models.Record, error) {
	if s.db == nil {
		return models.Record{}, storage.ErrStorageClosed
	}

	t, err := tableFor(collection)
	if err != nil {
		return models.Record{}, err
	}

	var row recordRow
	query := fmt.Sprintf("SELECT id, offline, data FROM %s WHERE id = ?", t.name)
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, storage.ErrRecordNotFound
		}
		return models.Record{}, fmt.Errorf("failed to get %s %s: %w", t.name, id, err)
	}

	return row.record(), nil
}

// DeleteRecord removes a record by id
func (s *Storage) DeleteRecord(ctx context.Context, collection models.Collection, id string) error {
	t, err := tableFor(collection)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), id); err != nil {
			return fmt.Errorf("failed to delete %s %s: %w", t.name, id, err)
		}
		return nil
	})
}

// ListRecords returns every record of a collection ordered by id
func (s *Storage) ListRecords(ctx context.Context, collection models.Collection) ([]models.Record, error) {
	t, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	return s.selectRecords(ctx, fmt.Sprintf("SELECT id, offline, data FROM %s ORDER BY id", t.name))
}

// FindCustomers reads customers by name, DNI or phone prefix
func (s *Storage) FindCustomers(ctx context.Context, filter storage.CustomerFilter) ([]models.Record, error) {
	query := "SELECT id, offline, data FROM customers"
	var args []any

	if search := strings.TrimSpace(filter.Search); search != "" {
		prefix := escapeLike(search) + "%"
		query += ` WHERE name LIKE ? ESCAPE '\' OR dni LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'`
		args = append(args, prefix, strings.ToUpper(prefix), prefix)
	}

	query += " ORDER BY name COLLATE NOCASE, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.selectRecords(ctx, query, args...)
}

// FindItems reads items by status, type and barcode
func (s *Storage) FindItems(ctx context.Context, filter storage.ItemFilter) ([]models.Record, error) {
	var where []string
	var args []any

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ItemTypeID != "" {
		where = append(where, "item_type_id = ?")
		args = append(args, filter.ItemTypeID)
	}
	if filter.Code != "" {
		where = append(where, "code = ?")
		args = append(args, filter.Code)
	}

	return s.selectRecords(ctx, "SELECT id, offline, data FROM items"+whereClause(where)+" ORDER BY id", args...)
}

// FindRentals reads rentals by status and customer
func (s *Storage) FindRentals(ctx context.Context, filter storage.RentalFilter) ([]models.Record, error) {
	var where []string
	var args []any

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.CustomerID != "" {
		where = append(where, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}

	return s.selectRecords(ctx, "SELECT id, offline, data FROM rentals"+whereClause(where)+" ORDER BY id", args...)
}

// CommitLocal applies record upserts, item status changes and the queue insert in one transaction
func (s *Storage) CommitLocal(ctx context.Context, change storage.LocalChange) (*models.Operation, error) {
	var inserted *models.Operation

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := checkReconciled(ctx, tx, change.Writes); err != nil {
			return err
		}

		for _, w := range change.Writes {
			t, err := tableFor(w.Collection)
			if err != nil {
				return err
			}
			if err := putRecord(ctx, tx, t, w.Record); err != nil {
				return err
			}
		}

		if err := setItemStatuses(ctx, tx, change.ItemStatus, change.Op != nil); err != nil {
			return err
		}

		if change.Op != nil {
			op, err := insertOperation(ctx, tx, change.Op)
			if err != nil {
				return err
			}
			inserted = op
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return inserted, nil
}

// Confirm applies a server acknowledgement: mapping, temp row removal, server row upsert,
// rewrite of rentals that still point at a temp customer id and release of pending item marks.
func (s *Storage) Confirm(ctx context.Context, c storage.Confirmation) error {
	t, err := tableFor(c.Collection)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if c.Mapping != nil {
			if err := saveMapping(ctx, tx, c.Mapping); err != nil {
				return err
			}
		}

		if c.TempID != "" && c.TempID != c.Record.ID {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name), c.TempID); err != nil {
				return fmt.Errorf("failed to drop temp %s %s: %w", t.name, c.TempID, err)
			}
		}

		rec := c.Record
		rec.Offline = false
		if rec.ID != "" {
			if err := putRecord(ctx, tx, t, rec); err != nil {
				return err
			}
		}

		if c.Collection == models.CollectionCustomers && c.TempID != "" && c.TempID != rec.ID {
			_, err := tx.ExecContext(ctx,
				`UPDATE rentals SET customer_id = ?, data = json_set(data, '$.customer_id', ?) WHERE customer_id = ?`,
				rec.ID, rec.ID, c.TempID,
			)
			if err != nil {
				return fmt.Errorf("failed to rewrite rentals of customer %s: %w", c.TempID, err)
			}
		}

		return settleItems(ctx, tx, c)
	})
}

// checkReconciled rejects writes that still refer to a temp id the server has confirmed
func checkReconciled(ctx context.Context, tx *sqlx.Tx, writes []storage.RecordWrite) error {
	var ids []string
	for _, w := range writes {
		if models.IsTempID(w.Record.ID) {
			ids = append(ids, w.Record.ID)
		}
		if w.Collection == models.CollectionRentals {
			if customerID := payloadField(w.Record, "customer_id"); models.IsTempID(customerID) {
				ids = append(ids, customerID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In("SELECT temp_id FROM temp_id_map WHERE temp_id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("failed to build mapping lookup: %w", err)
	}

	var mapped []string
	if err := tx.SelectContext(ctx, &mapped, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to check mappings: %w", err)
	}
	if len(mapped) > 0 {
		return fmt.Errorf("%w: %s", storage.ErrTempIDReconciled, strings.Join(mapped, ", "))
	}

	return nil
}

// settleItems снимает отметку об ожидающем изменении с позиций, которые подтвердил сервер
func settleItems(ctx context.Context, tx *sqlx.Tx, c storage.Confirmation) error {
	if c.Collection == models.CollectionRentals && c.Record.ID != "" {
		_, err := tx.ExecContext(ctx,
			`UPDATE items SET offline = 0 WHERE offline = 1 AND id IN (
				SELECT json_extract(value, '$.item_id') FROM json_each(?, '$.items'))`,
			string(c.Record.Data),
		)
		if err != nil {
			return fmt.Errorf("failed to settle items of rental %s: %w", c.Record.ID, err)
		}
	}

	if len(c.ItemIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In("UPDATE items SET offline = 0 WHERE id IN (?)", c.ItemIDs)
	if err != nil {
		return fmt.Errorf("failed to build item settle: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to settle items %v: %w", c.ItemIDs, err)
	}

	return nil
}

// setItemStatuses applies item status transitions; pending marks the items as changed
// by a queued operation so that a download keeps the local status.
func setItemStatuses(ctx context.Context, tx *sqlx.Tx, statuses map[string]string, pending bool) error {
	// Группируем по статусу, чтобы обойтись одним UPDATE на статус
	byStatus := make(map[string][]string)
	for id, status := range statuses {
		byStatus[status] = append(byStatus[status], id)
	}

	for status, ids := range byStatus {
		query, args, err := sqlx.In(
			`UPDATE items SET status = ?, offline = max(offline, ?), data = json_set(data, '$.status', ?) WHERE id IN (?)`,
			status, boolToInt(pending), status, ids,
		)
		if err != nil {
			return fmt.Errorf("failed to build item status update: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to set items %v to %s: %w", ids, status, err)
		}
	}

	return nil
}

func (s *Storage) selectRecords(ctx context.Context, query string, args ...any) ([]models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}

	return toRecords(rows), nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
