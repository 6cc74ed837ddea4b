package offline

import (
	"context"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

// Чтение всегда идёт только из локальной реплики, независимо от сети

// GetCustomers reads customers by name, DNI or phone prefix
func (f *Facade) GetCustomers(ctx context.Context, filter storage.CustomerFilter) ([]models.Record, error) {
	return f.replica.FindCustomers(ctx, filter)
}

// GetItems reads items by status, type or barcode
func (f *Facade) GetItems(ctx context.Context, filter storage.ItemFilter) ([]models.Record, error) {
	return f.replica.FindItems(ctx, filter)
}

// GetRentals reads rentals by status or customer. A temp customer id that was
// already reconciled is resolved first.
func (f *Facade) GetRentals(ctx context.Context, filter storage.RentalFilter) ([]models.Record, error) {
	if filter.CustomerID != "" {
		id, err := f.resolver.GetRealID(ctx, filter.CustomerID)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = id
	}
	return f.replica.FindRentals(ctx, filter)
}

// GetRecord reads one record, resolving reconciled temp ids
func (f *Facade) GetRecord(ctx context.Context, collection models.Collection, id string) (models.Record, error) {
	resolved, err := f.resolver.GetRealID(ctx, id)
	if err != nil {
		return models.Record{}, err
	}
	return f.replica.GetRecord(ctx, collection, resolved)
}

// GetTariffs returns all tariffs
func (f *Facade) GetTariffs(ctx context.Context) ([]models.Record, error) {
	return f.replica.ListRecords(ctx, models.CollectionTariffs)
}

// GetPacks returns all packs
func (f *Facade) GetPacks(ctx context.Context) ([]models.Record, error) {
	return f.replica.ListRecords(ctx, models.CollectionPacks)
}

// GetSources returns all rental sources
func (f *Facade) GetSources(ctx context.Context) ([]models.Record, error) {
	return f.replica.ListRecords(ctx, models.CollectionSources)
}

// GetItemTypes returns all item types
func (f *Facade) GetItemTypes(ctx context.Context) ([]models.Record, error) {
	return f.replica.ListRecords(ctx, models.CollectionItemTypes)
}

// List returns every record of a collection
func (f *Facade) List(ctx context.Context, collection models.Collection) ([]models.Record, error) {
	return f.replica.ListRecords(ctx, collection)
}
