package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iudanet/skirent/internal/models"
)

// indexColumn maps a payload field onto an indexed table column.
type indexColumn struct {
	column string
	field  string
}

// table describes how a collection is laid out in SQLite.
type table struct {
	name    string
	indexed []indexColumn
}

var tables = map[models.Collection]table{
	models.CollectionCustomers: {
		name: "customers",
		indexed: []indexColumn{
			{column: "name", field: "name"},
			{column: "dni", field: "dni"},
			{column: "phone", field: "phone"},
		},
	},
	models.CollectionItems: {
		name: "items",
		indexed: []indexColumn{
			{column: "code", field: "code"},
			{column: "status", field: "status"},
			{column: "item_type_id", field: "item_type_id"},
		},
	},
	models.CollectionRentals: {
		name: "rentals",
		indexed: []indexColumn{
			{column: "status", field: "status"},
			{column: "customer_id", field: "customer_id"},
		},
	},
	models.CollectionTariffs:   {name: "tariffs"},
	models.CollectionPacks:     {name: "packs"},
	models.CollectionSources:   {name: "sources"},
	models.CollectionItemTypes: {name: "item_types"},
}

func tableFor(c models.Collection) (table, error) {
	t, ok := tables[c]
	if !ok {
		return table{}, fmt.Errorf("unknown collection: %s", c)
	}
	return t, nil
}

func (t table) columns() []string {
	cols := []string{"id", "offline", "data"}
	for _, ic := range t.indexed {
		cols = append(cols, ic.column)
	}
	return cols
}

// upsertQuery builds INSERT ... ON CONFLICT(id) DO UPDATE for the table.
func (t table) upsertQuery() string {
	cols := t.columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		t.name, strings.Join(cols, ", "), placeholders, strings.Join(updates, ", "),
	)
}

// replaceQuery is upsertQuery for server snapshots: rows holding local changes are left as they are.
func (t table) replaceQuery() string {
	return t.upsertQuery() + fmt.Sprintf(" WHERE %s.offline = 0", t.name)
}

// upsertArgs extracts the column values for rec in upsertQuery order.
func (t table) upsertArgs(rec models.Record) ([]any, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("%s: record without id", t.name)
	}

	args := []any{rec.ID, boolToInt(rec.Offline), string(rec.Data)}
	if len(t.indexed) == 0 {
		return args, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec.Data, &fields); err != nil {
		return nil, fmt.Errorf("%s %s: failed to decode payload: %w", t.name, rec.ID, err)
	}

	for _, ic := range t.indexed {
		args = append(args, fieldText(fields[ic.field]))
	}

	return args, nil
}

// fieldText renders a scalar JSON value as column text; objects, arrays and null become "".
func fieldText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

// payloadField returns a scalar field of the record payload, or "" when absent or undecodable.
func payloadField(rec models.Record, field string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec.Data, &fields); err != nil {
		return ""
	}
	return fieldText(fields[field])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// recordRow is the scan target for entity tables.
type recordRow struct {
	ID      string `db:"id"`
	Data    string `db:"data"`
	Offline bool   `db:"offline"`
}

func (r recordRow) record() models.Record {
	return models.Record{ID: r.ID, Data: json.RawMessage(r.Data), Offline: r.Offline}
}

func toRecords(rows []recordRow) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}
