// Package offline exposes the point-of-sale operations that keep working without a network.
package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/skirent/internal/client/api"
	"github.com/iudanet/skirent/internal/client/auth"
	"github.com/iudanet/skirent/internal/client/connectivity"
	"github.com/iudanet/skirent/internal/client/queue"
	"github.com/iudanet/skirent/internal/client/storage"
	"github.com/iudanet/skirent/internal/models"
	"github.com/iudanet/skirent/internal/validation"
)

// IDResolver maps temp ids to server ids once reconciled.
type IDResolver interface {
	GetRealID(ctx context.Context, id string) (string, error)
}

// Result is the outcome of a mutation. Offline is true when the change was
// stored locally and queued rather than confirmed by the server.
type Result struct {
	Data    json.RawMessage `json:"data"`
	TempID  string          `json:"temp_id,omitempty"`
	Success bool            `json:"success"`
	Offline bool            `json:"offline"`
}

// Facade chooses between a direct backend call and the local write + queue path.
type Facade struct {
	api      api.ClientAPI
	replica  storage.ReplicaStorage
	queue    *queue.Queue
	resolver IDResolver
	tokens   auth.TokenProvider
	monitor  *connectivity.Monitor
	logger   *slog.Logger
	now      func() time.Time
}

// NewFacade creates a new offline-aware facade
func NewFacade(
	apiClient api.ClientAPI,
	replica storage.ReplicaStorage,
	q *queue.Queue,
	resolver IDResolver,
	tokens auth.TokenProvider,
	monitor *connectivity.Monitor,
	logger *slog.Logger,
) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		api:      apiClient,
		replica:  replica,
		queue:    q,
		resolver: resolver,
		tokens:   tokens,
		monitor:  monitor,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRental creates a rental and marks its items rented
func (f *Facade) CreateRental(ctx context.Context, rental models.Rental) (*Result, error) {
	if err := validation.ValidateRental(&rental); err != nil {
		return nil, fmt.Errorf("invalid rental: %w", err)
	}

	return f.retryReconciled(ctx, "create rental", func() (*Result, error) {
		return f.createRental(ctx, rental)
	})
}

func (f *Facade) createRental(ctx context.Context, rental models.Rental) (*Result, error) {
	customerID, err := f.resolver.GetRealID(ctx, rental.CustomerID)
	if err != nil {
		return nil, err
	}
	rental.CustomerID = customerID
	if rental.Status == "" {
		rental.Status = models.RentalStatusActive
	}
	if rental.StartDate == "" {
		rental.StartDate = f.now().UTC().Format(time.RFC3339)
	}

	itemStatus := statusFor(rental.ItemIDs(), models.ItemStatusRented)

	// Клиент ещё не подтверждён сервером: договор должен встать в очередь после него
	if !models.IsTempID(customerID) {
		if token, ok := f.onlineToken(ctx); ok {
			online := rental
			online.ID = ""
			online.Offline = false

			rec, err := f.api.CreateRental(ctx, token, &online)
			if err == nil {
				if _, err := f.replica.CommitLocal(ctx, storage.LocalChange{
					Writes:     []storage.RecordWrite{{Collection: models.CollectionRentals, Record: rec}},
					ItemStatus: itemStatus,
				}); err != nil {
					return nil, fmt.Errorf("failed to store confirmed rental: %w", err)
				}
				return &Result{Success: true, Data: rec.Data}, nil
			}
			if err := f.fallback("create rental", err); err != nil {
				return nil, err
			}
		}
	}

	tempID := models.NewTempID(models.TempPrefixRental)
	rental.ID = tempID
	rental.Offline = true

	rec, err := models.RecordOf(tempID, true, rental)
	if err != nil {
		return nil, err
	}

	if _, err := f.queue.EnqueueWith(ctx, storage.LocalChange{
		Writes:     []storage.RecordWrite{{Collection: models.CollectionRentals, Record: rec}},
		ItemStatus: itemStatus,
	}, models.OpCreate, models.OpEntityRental, rental, tempID); err != nil {
		return nil, err
	}

	return &Result{Success: true, Data: rec.Data, Offline: true, TempID: tempID}, nil
}

// ProcessReturn returns some or all items of a rental and frees them
func (f *Facade) ProcessReturn(ctx context.Context, req models.ReturnRequest) (*Result, error) {
	if err := validation.ValidateReturn(&req); err != nil {
		return nil, fmt.Errorf("invalid return: %w", err)
	}

	return f.retryReconciled(ctx, "process return", func() (*Result, error) {
		return f.processReturn(ctx, req)
	})
}

func (f *Facade) processReturn(ctx context.Context, req models.ReturnRequest) (*Result, error) {
	rentalID, err := f.resolver.GetRealID(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	req.RentalID = rentalID
	if req.ReturnedAt == "" {
		req.ReturnedAt = f.now().UTC().Format(time.RFC3339)
	}

	local, err := f.replica.GetRecord(ctx, models.CollectionRentals, rentalID)
	hasLocal := err == nil
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if !hasLocal && models.IsTempID(rentalID) {
		// Временная строка исчезает при подтверждении договора
		if realID, err := f.resolver.GetRealID(ctx, rentalID); err == nil && realID != rentalID {
			return nil, fmt.Errorf("%w: %s", storage.ErrTempIDReconciled, rentalID)
		}
	}

	var change storage.LocalChange
	if hasLocal {
		patched, freed, err := applyReturn(local, &req)
		if err != nil {
			return nil, err
		}
		change.Writes = []storage.RecordWrite{{Collection: models.CollectionRentals, Record: patched}}
		change.ItemStatus = statusFor(freed, models.ItemStatusAvailable)
	} else {
		change.ItemStatus = statusFor(req.ItemIDs, models.ItemStatusAvailable)
	}

	if !models.IsTempID(rentalID) {
		if token, ok := f.onlineToken(ctx); ok {
			rec, err := f.api.ReturnRental(ctx, token, rentalID, &req)
			if err == nil {
				if rec.ID != "" {
					change.Writes = []storage.RecordWrite{{Collection: models.CollectionRentals, Record: rec}}
				}
				if _, err := f.replica.CommitLocal(ctx, change); err != nil {
					return nil, fmt.Errorf("failed to store confirmed return: %w", err)
				}
				return &Result{Success: true, Data: resultData(rec, change)}, nil
			}
			if err := f.fallback("process return", err); err != nil {
				return nil, err
			}
		}
	}

	// Договор с изменением в очереди не должен перезаписываться загрузкой
	for i := range change.Writes {
		change.Writes[i].Record.Offline = true
	}

	if _, err := f.queue.EnqueueWith(ctx, change, models.OpCreate, models.OpEntityReturn, req, ""); err != nil {
		return nil, err
	}

	return &Result{Success: true, Data: resultData(models.Record{}, change), Offline: true}, nil
}

// SaveCustomer creates a customer when ID is empty and updates it otherwise
func (f *Facade) SaveCustomer(ctx context.Context, customer models.Customer) (*Result, error) {
	if err := validation.ValidateCustomer(&customer); err != nil {
		return nil, fmt.Errorf("invalid customer: %w", err)
	}
	customer.DNI = validation.NormalizeDNI(customer.DNI)
	customer.Offline = false

	return f.retryReconciled(ctx, "save customer", func() (*Result, error) {
		return f.saveCustomer(ctx, customer)
	})
}

func (f *Facade) saveCustomer(ctx context.Context, customer models.Customer) (*Result, error) {
	isNew := customer.ID == ""
	if !isNew {
		id, err := f.resolver.GetRealID(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		customer.ID = id
	}

	if isNew || !models.IsTempID(customer.ID) {
		if token, ok := f.onlineToken(ctx); ok {
			var (
				rec models.Record
				err error
			)
			if isNew {
				rec, err = f.api.CreateCustomer(ctx, token, &customer)
			} else {
				rec, err = f.api.UpdateCustomer(ctx, token, customer.ID, &customer)
			}
			if err == nil {
				if err := f.replica.PutRecord(ctx, models.CollectionCustomers, rec); err != nil {
					return nil, fmt.Errorf("failed to store confirmed customer: %w", err)
				}
				return &Result{Success: true, Data: rec.Data}, nil
			}
			if err := f.fallback("save customer", err); err != nil {
				return nil, err
			}
		}
	}

	if isNew {
		tempID := models.NewTempID(models.TempPrefixCustomer)
		customer.ID = tempID
		customer.Offline = true

		rec, err := models.RecordOf(tempID, true, customer)
		if err != nil {
			return nil, err
		}

		if _, err := f.queue.EnqueueWith(ctx, storage.LocalChange{
			Writes: []storage.RecordWrite{{Collection: models.CollectionCustomers, Record: rec}},
		}, models.OpCreate, models.OpEntityCustomer, customer, tempID); err != nil {
			return nil, err
		}

		return &Result{Success: true, Data: rec.Data, Offline: true, TempID: tempID}, nil
	}

	// Обновление: в данных маркер офлайн только у ещё не созданных на сервере записей,
	// строка же помечена до подтверждения изменения
	customer.Offline = models.IsTempID(customer.ID)
	rec, err := models.RecordOf(customer.ID, true, customer)
	if err != nil {
		return nil, err
	}

	if _, err := f.queue.EnqueueWith(ctx, storage.LocalChange{
		Writes: []storage.RecordWrite{{Collection: models.CollectionCustomers, Record: rec}},
	}, models.OpUpdate, models.OpEntityCustomer, customer, ""); err != nil {
		return nil, err
	}

	return &Result{Success: true, Data: rec.Data, Offline: true}, nil
}

// onlineToken возвращает токен, если стоит пробовать прямой вызов бэкенда
func (f *Facade) onlineToken(ctx context.Context) (string, bool) {
	if !f.monitor.Online() {
		return "", false
	}

	token, err := f.tokens.Token(ctx)
	if err != nil {
		f.logger.Warn("No usable session, queuing locally", "error", err)
		return "", false
	}

	return token, true
}

// fallback решает, можно ли после ошибки бэкенда уйти в очередь.
// Ответ 2xx с непригодным телом означает, что сервер уже применил запрос.
func (f *Facade) fallback(op string, err error) error {
	if errors.Is(err, api.ErrInvalidResponse) {
		f.logger.Error("Server accepted the request but the response is unusable", "operation", op, "error", err)
		return fmt.Errorf("%s: server accepted the request, refresh before retrying: %w", op, err)
	}

	f.logger.Warn("Backend call failed, falling back to offline queue", "operation", op, "error", err)
	return nil
}

// maxReconcileRetries bounds re-runs of an operation whose temp id was reconciled mid-write.
const maxReconcileRetries = 3

// retryReconciled повторяет операцию, если подтверждение сервера успело прийти
// между чтением реплики и локальной записью
func (f *Facade) retryReconciled(ctx context.Context, op string, run func() (*Result, error)) (*Result, error) {
	for attempt := 1; ; attempt++ {
		res, err := run()
		if !errors.Is(err, storage.ErrTempIDReconciled) || attempt == maxReconcileRetries {
			return res, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Debug("Temp id reconciled during local write, retrying", "operation", op, "attempt", attempt)
	}
}

func statusFor(ids []string, status string) map[string]string {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		out[id] = status
	}
	return out
}

func resultData(rec models.Record, change storage.LocalChange) json.RawMessage {
	if rec.ID != "" {
		return rec.Data
	}
	if len(change.Writes) > 0 {
		return change.Writes[0].Record.Data
	}
	return nil
}
