package models

import (
	"encoding/json"
	"time"
)

// OpKind is the mutation kind of a queued operation.
type OpKind string

const (
	OpCreate OpKind = "CREATE"
	OpUpdate OpKind = "UPDATE"
)

// OpEntity is the entity a queued operation acts on.
type OpEntity string

const (
	OpEntityRental   OpEntity = "RENTAL"
	OpEntityReturn   OpEntity = "RETURN"
	OpEntityCustomer OpEntity = "CUSTOMER"
)

// OpStatus is the sync state of a queued operation.
type OpStatus string

const (
	OpStatusPending OpStatus = "PENDING"
	OpStatusSyncing OpStatus = "SYNCING"
	OpStatusFailed  OpStatus = "FAILED"
)

// Operation представляет запись очереди неподтверждённых изменений.
// TempID заполнен тогда и только тогда, когда операция создала сущность офлайн.
type Operation struct {
	CreatedAt time.Time       `json:"created_at"`
	TempID    *string         `json:"temp_id"`
	LastError *string         `json:"last_error"`
	Kind      OpKind          `json:"kind"`
	Entity    OpEntity        `json:"entity_type"`
	Status    OpStatus        `json:"status"`
	Payload   json.RawMessage `json:"payload"`
	Seq       int64           `json:"sequence_id"`
	Attempts  int             `json:"attempts"`
}

// HasTempID reports whether the operation created an entity offline.
func (o *Operation) HasTempID() bool {
	return o.TempID != nil && *o.TempID != ""
}

// TempIDMapping records the server id assigned to an entity created offline.
type TempIDMapping struct {
	CreatedAt time.Time `json:"created_at"`
	TempID    string    `json:"temp_id"`
	RealID    string    `json:"real_id"`
	Entity    OpEntity  `json:"entity_type"`
}

// CollectionOf returns the replica collection an operation entity lives in.
func CollectionOf(e OpEntity) (Collection, bool) {
	switch e {
	case OpEntityRental, OpEntityReturn:
		return CollectionRentals, true
	case OpEntityCustomer:
		return CollectionCustomers, true
	default:
		return "", false
	}
}
