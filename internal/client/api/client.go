package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"

	"github.com/iudanet/skirent/internal/models"
	"github.com/iudanet/skirent/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ErrTransport marks failures where no HTTP response was received
// (DNS, refused connection, timeout, cancelled context).
var ErrTransport = errors.New("transport error")

// ErrInvalidResponse marks a 2xx response whose body could not be used.
// The server has applied the request, so it must not be replayed.
var ErrInvalidResponse = errors.New("invalid response")

// APIError is returned when the backend answered with a non-2xx status.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// ClientAPI is the backend surface used by the sync engine and the offline facade.
type ClientAPI interface {
	// ListCollection returns every record of a mirrored collection
	ListCollection(ctx context.Context, token string, collection models.Collection) ([]models.Record, error)

	// CreateRental posts a new rental and returns the server-confirmed record
	CreateRental(ctx context.Context, token string, rental *models.Rental) (models.Record, error)

	// ReturnRental posts a return for rentalID, which must be a server id.
	// The returned record has an empty ID when the server does not echo the rental.
	ReturnRental(ctx context.Context, token, rentalID string, ret *models.ReturnRequest) (models.Record, error)

	// CreateCustomer posts a new customer
	CreateCustomer(ctx context.Context, token string, customer *models.Customer) (models.Record, error)

	// UpdateCustomer replaces the customer with server id id
	UpdateCustomer(ctx context.Context, token, id string, customer *models.Customer) (models.Record, error)
}

var collectionPaths = map[models.Collection]string{
	models.CollectionCustomers: api.PathCustomers,
	models.CollectionItems:     api.PathItems,
	models.CollectionRentals:   api.PathRentals,
	models.CollectionTariffs:   api.PathTariffs,
	models.CollectionPacks:     api.PathPacks,
	models.CollectionSources:   api.PathSources,
	models.CollectionItemTypes: api.PathItemTypes,
}

// Client представляет HTTP клиент для взаимодействия с бэкендом проката
type Client struct {
	httpClient *req.Client
	observer   func(online bool)
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithConnectivityObserver registers a callback receiving the outcome of every request:
// false when no response arrived, true when the server answered with any status.
func WithConnectivityObserver(fn func(online bool)) Option {
	return func(c *Client) {
		c.observer = fn
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.SetTimeout(d)
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: req.C().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetUserAgent("skirent-pos").
			SetJsonMarshal(json.Marshal).
			SetJsonUnmarshal(json.Unmarshal),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListCollection fetches a full collection; rentals include returned ones.
func (c *Client) ListCollection(ctx context.Context, token string, collection models.Collection) ([]models.Record, error) {
	path, ok := collectionPaths[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", collection)
	}

	body, err := c.doRequest(ctx, "list "+string(collection), http.MethodGet, path, token, nil, func(r *req.Request) {
		if collection == models.CollectionRentals {
			r.SetQueryParam(api.QueryIncludeAll, "true")
		}
	})
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}

	records := make([]models.Record, 0, len(items))
	for i, item := range items {
		rec, err := models.RecordFromJSON([]byte(item))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", collection, i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// CreateRental создает договор проката на сервере
func (c *Client) CreateRental(ctx context.Context, token string, rental *models.Rental) (models.Record, error) {
	body, err := c.doRequest(ctx, "create rental", http.MethodPost, api.PathRentals, token, rental, nil)
	if err != nil {
		return models.Record{}, err
	}
	return decodeRecord(body)
}

// ReturnRental оформляет возврат по договору
func (c *Client) ReturnRental(ctx context.Context, token, rentalID string, ret *models.ReturnRequest) (models.Record, error) {
	body, err := c.doRequest(ctx, "return rental", http.MethodPost, api.PathRentalReturn, token, ret, func(r *req.Request) {
		r.SetPathParam("id", rentalID)
	})
	if err != nil {
		return models.Record{}, err
	}

	// Ответ без сущности (например {"success":true}) означает, что возврат принят,
	// но обновлённый договор сервер не вернул
	rec, err := models.RecordFromJSON(body)
	if err != nil {
		return models.Record{}, nil
	}
	return rec, nil
}

// CreateCustomer создает клиента на сервере
func (c *Client) CreateCustomer(ctx context.Context, token string, customer *models.Customer) (models.Record, error) {
	body, err := c.doRequest(ctx, "create customer", http.MethodPost, api.PathCustomers, token, customer, nil)
	if err != nil {
		return models.Record{}, err
	}
	return decodeRecord(body)
}

// UpdateCustomer обновляет клиента на сервере
func (c *Client) UpdateCustomer(ctx context.Context, token, id string, customer *models.Customer) (models.Record, error) {
	body, err := c.doRequest(ctx, "update customer", http.MethodPut, api.PathCustomer, token, customer, func(r *req.Request) {
		r.SetPathParam("id", id)
	})
	if err != nil {
		return models.Record{}, err
	}
	return decodeRecord(body)
}

func decodeRecord(body []byte) (models.Record, error) {
	rec, err := models.RecordFromJSON(body)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return rec, nil
}

// doRequest выполняет HTTP запрос и возвращает тело успешного ответа
func (c *Client) doRequest(ctx context.Context, op, method, path, token string, body any, prepare func(*req.Request)) ([]byte, error) {
	r := c.httpClient.R().SetContext(ctx)

	if token != "" {
		r.SetBearerAuthToken(token)
	}
	if body != nil {
		r.SetBodyJsonMarshal(body)
	}
	if prepare != nil {
		prepare(r)
	}

	resp, err := r.Send(method, path)
	if err != nil {
		c.report(false)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	c.report(true)

	respBody := resp.Bytes()

	// Проверяем статус код
	if !resp.IsSuccessState() {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Text()
		} else {
			apiErr.Message = string(respBody)
		}
		return nil, fmt.Errorf("%s: %w", op, apiErr)
	}

	return respBody, nil
}

func (c *Client) report(online bool) {
	if c.observer != nil {
		c.observer(online)
	}
}
