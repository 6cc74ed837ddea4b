package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTempID(t *testing.T) {
	id := NewTempID(TempPrefixCustomer)

	assert.True(t, strings.HasPrefix(id, "customer_"))
	assert.True(t, IsTempID(id))
	assert.NotEqual(t, id, NewTempID(TempPrefixCustomer))
}

func TestNewTempIDAt_Format(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	id := newTempIDAt(TempPrefixRental, now)

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "rental", parts[0])
	assert.Equal(t, "1735689600123", parts[1])
	assert.Len(t, parts[2], 9)
}

func TestIsTempID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "rental temp id", id: "rental_1735689600123_0a1b2c3d4", want: true},
		{name: "customer temp id", id: "customer_1735689600123_abcdef012", want: true},
		{name: "server id", id: "c_9001", want: false},
		{name: "numeric id", id: "42", want: false},
		{name: "uuid", id: "b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5", want: false},
		{name: "unknown prefix", id: "item_1735689600123_abcdef012", want: false},
		{name: "empty", id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTempID(tt.id))
		})
	}
}

func TestRecordFromJSON(t *testing.T) {
	t.Run("string id", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"c_9001","name":"Jane Doe"}`)
		rec, err := RecordFromJSON(raw)
		require.NoError(t, err)
		assert.Equal(t, "c_9001", rec.ID)
		assert.Equal(t, raw, rec.Data)
		assert.False(t, rec.Offline)
	})

	t.Run("numeric id", func(t *testing.T) {
		rec, err := RecordFromJSON(json.RawMessage(`{"id":17,"name":"Adult skis"}`))
		require.NoError(t, err)
		assert.Equal(t, "17", rec.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := RecordFromJSON(json.RawMessage(`{"name":"x"}`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := RecordFromJSON(json.RawMessage(`{`))
		assert.Error(t, err)
	})
}

func TestRecordOf_Decode(t *testing.T) {
	rental := Rental{
		ID:         "rental_1735689600123_abcdef012",
		CustomerID: "c_1",
		Items:      []RentalItem{{ItemID: "i_1", Price: 25}},
		Status:     RentalStatusActive,
		Offline:    true,
	}

	rec, err := RecordOf(rental.ID, true, rental)
	require.NoError(t, err)
	assert.True(t, rec.Offline)

	var decoded Rental
	require.NoError(t, rec.Decode(&decoded))
	assert.Equal(t, rental, decoded)
	assert.Equal(t, []string{"i_1"}, decoded.ItemIDs())
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("item-types")
	require.NoError(t, err)
	assert.Equal(t, CollectionItemTypes, c)

	c, err = ParseCollection("rentals")
	require.NoError(t, err)
	assert.Equal(t, CollectionRentals, c)

	_, err = ParseCollection("bikes")
	assert.Error(t, err)
}

func TestCollectionOf(t *testing.T) {
	c, ok := CollectionOf(OpEntityReturn)
	assert.True(t, ok)
	assert.Equal(t, CollectionRentals, c)

	c, ok = CollectionOf(OpEntityCustomer)
	assert.True(t, ok)
	assert.Equal(t, CollectionCustomers, c)

	_, ok = CollectionOf(OpEntity("INVOICE"))
	assert.False(t, ok)
}
