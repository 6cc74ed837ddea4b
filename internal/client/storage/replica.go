package storage

import (
	"context"

	"github.com/iudanet/skirent/internal/models"
)

// CustomerFilter narrows customer reads. Search matches name, DNI or phone prefixes.
type CustomerFilter struct {
	Search string
	Limit  int
}

// ItemFilter narrows item reads by the (status, item type) index or barcode.
type ItemFilter struct {
	Status     string
	ItemTypeID string
	Code       string
}

// RentalFilter narrows rental reads by the (status, customer) index.
type RentalFilter struct {
	Status     string
	CustomerID string
}

// RecordWrite is one upsert into an entity table.
type RecordWrite struct {
	Collection models.Collection
	Record     models.Record
}

// LocalChange groups local writes that must land atomically:
// record upserts, item status transitions and, optionally, a queue entry.
type LocalChange struct {
	ItemStatus map[string]string // ItemStatus item id -> new status
	Op         *models.Operation // Op операция для постановки в очередь (nil для подтверждённых онлайн записей)
	Writes     []RecordWrite
}

// Confirmation describes a server acknowledgement of an entity created or changed locally.
type Confirmation struct {
	Mapping    *models.TempIDMapping // Mapping nil when the entity already had a server id
	Collection models.Collection
	TempID     string
	Record     models.Record // Record пустой, если сервер не вернул сущность и локальной записи нет
	ItemIDs    []string      // ItemIDs items whose queued status change the server has applied
}

//go:generate moq -out replica_mock.go . ReplicaStorage

// ReplicaStorage defines the Local Replica Store: entity tables mirroring the server.
type ReplicaStorage interface {
	// ReplaceAll atomically swaps every server-confirmed row of the given collections.
	// Rows still marked offline (created locally or touched by a queued change) survive the swap.
	ReplaceAll(ctx context.Context, snapshot map[models.Collection][]models.Record) error

	// PutRecord upserts a single record
	PutRecord(ctx context.Context, collection models.Collection, rec models.Record) error

	// GetRecord returns ErrRecordNotFound if the record doesn't exist
	GetRecord(ctx context.Context, collection models.Collection, id string) (models.Record, error)

	// DeleteRecord removes a record; deleting a missing record is not an error
	DeleteRecord(ctx context.Context, collection models.Collection, id string) error

	// ListRecords returns every record of a collection ordered by id
	ListRecords(ctx context.Context, collection models.Collection) ([]models.Record, error)

	// FindCustomers reads customers through the name/DNI/phone index
	FindCustomers(ctx context.Context, filter CustomerFilter) ([]models.Record, error)

	// FindItems reads items through the status/type index
	FindItems(ctx context.Context, filter ItemFilter) ([]models.Record, error)

	// FindRentals reads rentals through the status/customer index
	FindRentals(ctx context.Context, filter RentalFilter) ([]models.Record, error)

	// CommitLocal applies a LocalChange in one transaction and returns the enqueued operation, if any.
	// Returns ErrTempIDReconciled without writing anything when a write still refers to a temp id
	// that has been mapped to a server id.
	CommitLocal(ctx context.Context, change LocalChange) (*models.Operation, error)

	// Confirm records the temp id mapping, drops the temp-keyed row, stores the server row
	// and clears the pending marks it settles, atomically
	Confirm(ctx context.Context, c Confirmation) error
}
