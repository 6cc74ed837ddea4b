package models

import (
	"encoding/json"
	"fmt"
)

// Collection identifies one of the server collections mirrored in the local replica.
type Collection string

const (
	CollectionCustomers Collection = "customers"
	CollectionItems     Collection = "items"
	CollectionRentals   Collection = "rentals"
	CollectionTariffs   Collection = "tariffs"
	CollectionPacks     Collection = "packs"
	CollectionSources   Collection = "sources"
	CollectionItemTypes Collection = "item_types"
)

// Collections lists every mirrored collection in download order.
var Collections = []Collection{
	CollectionCustomers,
	CollectionItems,
	CollectionRentals,
	CollectionTariffs,
	CollectionPacks,
	CollectionSources,
	CollectionItemTypes,
}

// ParseCollection принимает имя коллекции в том виде, в каком его вводит пользователь
// ("item-types" и "item_types" равнозначны).
func ParseCollection(name string) (Collection, error) {
	switch name {
	case "customers", "customer":
		return CollectionCustomers, nil
	case "items", "item":
		return CollectionItems, nil
	case "rentals", "rental":
		return CollectionRentals, nil
	case "tariffs", "tariff":
		return CollectionTariffs, nil
	case "packs", "pack":
		return CollectionPacks, nil
	case "sources", "source":
		return CollectionSources, nil
	case "item-types", "item_types", "itemtypes":
		return CollectionItemTypes, nil
	default:
		return "", fmt.Errorf("unknown collection: %s", name)
	}
}

// Record is a local copy of a server-owned entity.
// Data holds the payload exactly as it was received or written, so a repeated
// download of unchanged server state produces identical rows.
type Record struct {
	ID      string          `json:"id"`       // ID серверный или временный идентификатор
	Data    json.RawMessage `json:"data"`     // Data исходный JSON сущности
	Offline bool            `json:"_offline"` // Offline запись создана или изменена офлайн и ещё не подтверждена сервером
}

// recordHeader is the minimal shape shared by every server payload.
type recordHeader struct {
	ID json.RawMessage `json:"id"`
}

// RecordFromJSON builds a Record from a raw server payload.
// Numeric ids are kept in their decimal text form.
func RecordFromJSON(raw json.RawMessage) (Record, error) {
	var hdr recordHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return Record{}, fmt.Errorf("failed to decode record: %w", err)
	}

	id, err := decodeID(hdr.ID)
	if err != nil {
		return Record{}, err
	}

	return Record{ID: id, Data: raw}, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("record has no id")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("record has empty id")
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("unsupported id %s: %w", string(raw), err)
	}
	return n.String(), nil
}

// RecordOf marshals a typed entity into a Record.
func RecordOf(id string, offline bool, v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal record %s: %w", id, err)
	}
	return Record{ID: id, Data: data, Offline: offline}, nil
}

// Decode unmarshals the record payload into v.
func (r Record) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", r.ID, err)
	}
	return nil
}
