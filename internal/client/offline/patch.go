package offline

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrRecordNotFound)
}

// applyReturn marks the returned lines of a local rental and closes it once every
// line is back. Fields the client does not model are kept as received.
// It returns the patched record and the ids of the items to free.
func applyReturn(rec models.Record, req *models.ReturnRequest) (models.Record, []string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.Data, &doc); err != nil {
		return models.Record{}, nil, fmt.Errorf("failed to decode rental %s: %w", rec.ID, err)
	}

	var lines []map[string]json.RawMessage
	if raw, ok := doc["items"]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &lines); err != nil {
			return models.Record{}, nil, fmt.Errorf("failed to decode items of rental %s: %w", rec.ID, err)
		}
	}

	wanted := make(map[string]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		wanted[id] = true
	}

	var freed []string
	allReturned := true
	for _, line := range lines {
		var itemID string
		_ = json.Unmarshal(line["item_id"], &itemID)

		var returned bool
		_ = json.Unmarshal(line["returned"], &returned)

		if !returned && (len(wanted) == 0 || wanted[itemID]) {
			line["returned"] = json.RawMessage("true")
			returned = true
			if itemID != "" {
				freed = append(freed, itemID)
			}
		}
		if !returned {
			allReturned = false
		}
	}

	// Позиции, которых нет в договоре, тоже освобождаем
	if len(lines) == 0 {
		freed = append(freed, req.ItemIDs...)
	}

	if lines != nil {
		raw, err := json.Marshal(lines)
		if err != nil {
			return models.Record{}, nil, err
		}
		doc["items"] = raw
	}

	if allReturned {
		doc["status"], _ = json.Marshal(models.RentalStatusReturned)
		doc["returned_at"], _ = json.Marshal(req.ReturnedAt)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return models.Record{}, nil, fmt.Errorf("failed to encode rental %s: %w", rec.ID, err)
	}

	return models.Record{ID: rec.ID, Data: data, Offline: rec.Offline}, freed, nil
}
