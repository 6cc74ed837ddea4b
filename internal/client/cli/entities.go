package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/iudanet/skirent/internal/client/offline"
	"github.com/iudanet/skirent/internal/models"
)

func (c *Cli) runSaveCustomer(ctx context.Context, customer models.Customer) error {
	res, err := c.facade.SaveCustomer(ctx, customer)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	c.printResult("Customer", res)
	return nil
}

func (c *Cli) runCreateRental(ctx context.Context, rental models.Rental) error {
	res, err := c.facade.CreateRental(ctx, rental)
	if err != nil {
		return fmt.Errorf("failed to create rental: %w", err)
	}
	c.printResult("Rental", res)
	return nil
}

func (c *Cli) runReturn(ctx context.Context, req models.ReturnRequest) error {
	res, err := c.facade.ProcessReturn(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to process return: %w", err)
	}
	c.printResult("Return", res)
	return nil
}

func (c *Cli) printResult(what string, res *offline.Result) {
	id := res.TempID
	if id == "" {
		id = "-"
		if rec, err := models.RecordFromJSON(res.Data); err == nil {
			id = rec.ID
		}
	}

	if res.Offline {
		c.io.Printf("✓ %s saved locally as %s\n", what, id)
		c.io.Println("  Queued for synchronization, it will be sent when the connection is back.")
		return
	}
	c.io.Printf("✓ %s confirmed by the server: %s\n", what, id)
}

// parseRentalItems разбирает позиции вида "item_id[:tariff_id[:price]]"
func parseRentalItems(specs []string) ([]models.RentalItem, error) {
	items := make([]models.RentalItem, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid item %q, expected item_id[:tariff_id[:price]]", spec)
		}

		item := models.RentalItem{ItemID: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			item.TariffID = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			price, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err != nil || price < 0 {
				return nil, fmt.Errorf("invalid price in item %q", spec)
			}
			item.Price = price
		}
		items = append(items, item)
	}
	return items, nil
}
