package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

// listFilter collects the list command flags; each collection uses the ones it supports
type listFilter struct {
	Search     string
	Status     string
	ItemTypeID string
	Code       string
	CustomerID string
	Limit      int
}

func (c *Cli) runList(ctx context.Context, name string, filter listFilter) error {
	collection, err := models.ParseCollection(name)
	if err != nil {
		return fmt.Errorf("%w. Use: customers, items, rentals, tariffs, packs, sources or item-types", err)
	}

	var records []models.Record
	switch collection {
	case models.CollectionCustomers:
		records, err = c.facade.GetCustomers(ctx, storage.CustomerFilter{Search: filter.Search, Limit: filter.Limit})
	case models.CollectionItems:
		records, err = c.facade.GetItems(ctx, storage.ItemFilter{
			Status:     filter.Status,
			ItemTypeID: filter.ItemTypeID,
			Code:       filter.Code,
		})
	case models.CollectionRentals:
		records, err = c.facade.GetRentals(ctx, storage.RentalFilter{Status: filter.Status, CustomerID: filter.CustomerID})
	default:
		records, err = c.facade.List(ctx, collection)
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", collection, err)
	}

	c.io.Printf("=== %s ===\n", strings.ToUpper(string(collection)))
	c.io.Println()

	if len(records) == 0 {
		c.io.Println("Nothing found in the local replica.")
		return nil
	}

	for i, rec := range records {
		marker := ""
		if rec.Offline {
			marker = " [offline, not synced]"
		}
		c.io.Printf("%d. %s%s\n", i+1, rec.ID, marker)
		c.io.Printf("   %s\n", describe(collection, rec))
	}

	c.io.Println()
	c.io.Printf("%d record(s)\n", len(records))
	return nil
}

// describe возвращает короткое описание записи, для прочих коллекций исходный JSON
func describe(collection models.Collection, rec models.Record) string {
	switch collection {
	case models.CollectionCustomers:
		var cust models.Customer
		if rec.Decode(&cust) == nil {
			return joinNonEmpty(cust.Name, cust.DNI, cust.Phone)
		}
	case models.CollectionItems:
		var item models.Item
		if rec.Decode(&item) == nil {
			return joinNonEmpty(item.Code, item.Name, item.Status)
		}
	case models.CollectionRentals:
		var rental models.Rental
		if rec.Decode(&rental) == nil {
			return joinNonEmpty(
				"customer "+rental.CustomerID,
				rental.Status,
				fmt.Sprintf("%d item(s)", len(rental.Items)),
				rental.StartDate,
			)
		}
	}
	return string(rec.Data)
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}
