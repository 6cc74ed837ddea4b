package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
)

// dispatch routes an operation to its entity handler
func (e *engine) dispatch(ctx context.Context, token string, op *models.Operation) error {
	switch op.Entity {
	case models.OpEntityRental:
		if op.Kind != models.OpCreate {
			return fmt.Errorf("%w: %s %s", ErrUnknownOperation, op.Kind, op.Entity)
		}
		return e.syncRentalCreate(ctx, token, op)
	case models.OpEntityReturn:
		return e.syncReturn(ctx, token, op)
	case models.OpEntityCustomer:
		return e.syncCustomer(ctx, token, op)
	default:
		return fmt.Errorf("%w: %s %s", ErrUnknownOperation, op.Kind, op.Entity)
	}
}

// syncRentalCreate отправляет договор, созданный офлайн, без временного id
func (e *engine) syncRentalCreate(ctx context.Context, token string, op *models.Operation) error {
	var rental models.Rental
	if err := json.Unmarshal(op.Payload, &rental); err != nil {
		return fmt.Errorf("invalid rental payload: %w", err)
	}

	rental.Offline = false
	if op.HasTempID() || models.IsTempID(rental.ID) {
		rental.ID = ""
	}

	customerID, err := e.resolveParent(ctx, rental.CustomerID)
	if err != nil {
		return err
	}
	rental.CustomerID = customerID

	rec, err := e.api.CreateRental(ctx, token, &rental)
	if err != nil {
		return err
	}

	return e.confirm(ctx, op, models.CollectionRentals, rec, rental.ItemIDs())
}

// syncReturn отправляет возврат; договор должен быть уже подтверждён сервером
func (e *engine) syncReturn(ctx context.Context, token string, op *models.Operation) error {
	var ret models.ReturnRequest
	if err := json.Unmarshal(op.Payload, &ret); err != nil {
		return fmt.Errorf("invalid return payload: %w", err)
	}

	rentalID, err := e.resolveParent(ctx, ret.RentalID)
	if err != nil {
		return err
	}
	ret.RentalID = rentalID

	rec, err := e.api.ReturnRental(ctx, token, rentalID, &ret)
	if err != nil {
		return err
	}

	if rec.ID == "" {
		// Сервер не вернул договор: локальное состояние уже отражает возврат, подтверждаем его
		local, err := e.replica.GetRecord(ctx, models.CollectionRentals, rentalID)
		switch {
		case err == nil:
			rec = local
		case !errors.Is(err, storage.ErrRecordNotFound):
			return fatal(fmt.Errorf("failed to read rental %s: %w", rentalID, err))
		}
	}

	return e.confirm(ctx, op, models.CollectionRentals, rec, ret.ItemIDs)
}

// syncCustomer создаёт или обновляет клиента
func (e *engine) syncCustomer(ctx context.Context, token string, op *models.Operation) error {
	var customer models.Customer
	if err := json.Unmarshal(op.Payload, &customer); err != nil {
		return fmt.Errorf("invalid customer payload: %w", err)
	}
	customer.Offline = false

	var (
		rec models.Record
		err error
	)

	switch op.Kind {
	case models.OpCreate:
		if op.HasTempID() || models.IsTempID(customer.ID) {
			customer.ID = ""
		}
		rec, err = e.api.CreateCustomer(ctx, token, &customer)

	case models.OpUpdate:
		id, rerr := e.resolveParent(ctx, customer.ID)
		if rerr != nil {
			return rerr
		}
		customer.ID = id
		rec, err = e.api.UpdateCustomer(ctx, token, id, &customer)

	default:
		return fmt.Errorf("%w: %s %s", ErrUnknownOperation, op.Kind, op.Entity)
	}

	if err != nil {
		return err
	}

	return e.confirm(ctx, op, models.CollectionCustomers, rec, nil)
}

// resolveParent maps a referenced id to its server id, failing while it is still temporary
func (e *engine) resolveParent(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("missing reference id")
	}

	resolved, err := e.GetRealID(ctx, id)
	if err != nil {
		return "", fatal(err)
	}

	if models.IsTempID(resolved) {
		return "", fmt.Errorf("%w: %s", ErrParentNotSynced, id)
	}

	return resolved, nil
}

// confirm applies reconciliation: mapping, temp row swap and reference rewrite in one transaction
func (e *engine) confirm(ctx context.Context, op *models.Operation, collection models.Collection, rec models.Record, itemIDs []string) error {
	c := storage.Confirmation{
		Collection: collection,
		Record:     rec,
		ItemIDs:    itemIDs,
	}

	if op.HasTempID() {
		c.TempID = *op.TempID
		c.Mapping = &models.TempIDMapping{
			TempID: *op.TempID,
			RealID: rec.ID,
			Entity: op.Entity,
		}
	}

	if err := e.replica.Confirm(ctx, c); err != nil {
		return fatal(fmt.Errorf("failed to confirm %s %s: %w", op.Entity, rec.ID, err))
	}

	if c.Mapping != nil {
		e.realIDs.Add(c.Mapping.TempID, c.Mapping.RealID)
		e.logger.Info("Temp id reconciled", "temp_id", c.Mapping.TempID, "real_id", c.Mapping.RealID, "entity", op.Entity)
	}

	return nil
}
