package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/skirent/internal/models"
	"github.com/iudanet/skirent/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.GetClient().Timeout)
}

func TestClient_ListCollection(t *testing.T) {
	tests := []struct {
		collection models.Collection
		path       string
		query      string
	}{
		{collection: models.CollectionCustomers, path: "/api/customers"},
		{collection: models.CollectionItems, path: "/api/items"},
		{collection: models.CollectionRentals, path: "/api/rentals", query: "include_all=true"},
		{collection: models.CollectionTariffs, path: "/api/tariffs"},
		{collection: models.CollectionPacks, path: "/api/packs"},
		{collection: models.CollectionSources, path: "/api/sources"},
		{collection: models.CollectionItemTypes, path: "/api/item-types"},
	}

	for _, tt := range tests {
		t.Run(string(tt.collection), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, tt.query, r.URL.RawQuery)
				assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[{"id":"a","name":"first"},{"id":2}]`))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			items, err := client.ListCollection(context.Background(), "token-abc", tt.collection)

			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, "a", items[0].ID)
			assert.JSONEq(t, `{"id":"a","name":"first"}`, string(items[0].Data))
			assert.Equal(t, "2", items[1].ID)
			assert.False(t, items[1].Offline)
		})
	}
}

func TestClient_ListCollection_RecordWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a"},{"name":"no id"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListCollection(context.Background(), "t", models.CollectionTariffs)
	assert.Error(t, err)
}

func TestClient_ListCollection_UnknownCollection(t *testing.T) {
	client := NewClient("http://localhost:1")
	_, err := client.ListCollection(context.Background(), "t", models.Collection("bikes"))
	assert.Error(t, err)
}

// TestClient_CreateRental проверяет отправку договора
func TestClient_CreateRental(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/rentals", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		assert.False(t, hasID, "empty id must be omitted")
		assert.Equal(t, "c_1", body["customer_id"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"r_77","customer_id":"c_1","status":"active"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.CreateRental(context.Background(), "tok", &models.Rental{
		CustomerID: "c_1",
		Items:      []models.RentalItem{{ItemID: "i_1", Price: 10}},
		Status:     models.RentalStatusActive,
	})

	require.NoError(t, err)
	assert.Equal(t, "r_77", rec.ID)
	assert.False(t, rec.Offline)
}

func TestClient_CreateRental_SuccessWithoutID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateRental(context.Background(), "tok", &models.Rental{CustomerID: "c_1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.NotErrorIs(t, err, ErrTransport)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_ReturnRental(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/rentals/r_77/return", r.URL.Path)

		var ret models.ReturnRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ret))
		assert.Equal(t, "r_77", ret.RentalID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"r_77","status":"returned"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.ReturnRental(context.Background(), "tok", "r_77", &models.ReturnRequest{RentalID: "r_77"})

	require.NoError(t, err)
	assert.Equal(t, "r_77", rec.ID)
}

func TestClient_ReturnRental_AckWithoutEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	rec, err := client.ReturnRental(context.Background(), "tok", "r_77", &models.ReturnRequest{RentalID: "r_77"})

	require.NoError(t, err)
	assert.Empty(t, rec.ID)
}

func TestClient_Customers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/customers":
			_, _ = w.Write([]byte(`{"id":"c_9001","name":"Jane Doe"}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/customers/c_9001":
			body, _ := io.ReadAll(r.Body)
			_, _ = w.Write(body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	created, err := client.CreateCustomer(ctx, "tok", &models.Customer{Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, "c_9001", created.ID)

	updated, err := client.UpdateCustomer(ctx, "tok", "c_9001", &models.Customer{ID: "c_9001", Name: "Jane Roe"})
	require.NoError(t, err)
	var c models.Customer
	require.NoError(t, updated.Decode(&c))
	assert.Equal(t, "Jane Roe", c.Name)
}

// TestClient_ErrorResponses проверяет обработку ошибок сервера
func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		responseBody   any
		name           string
		expectedErrMsg string
		statusCode     int
	}{
		{
			name:           "Validation error",
			statusCode:     http.StatusBadRequest,
			responseBody:   api.ErrorResponse{Error: "bad request", Message: "item i_1 is already rented"},
			expectedErrMsg: "server error (400): item i_1 is already rented",
		},
		{
			name:           "Unauthorized",
			statusCode:     http.StatusUnauthorized,
			responseBody:   api.ErrorResponse{Error: "invalid token"},
			expectedErrMsg: "server error (401): invalid token",
		},
		{
			name:           "Plain text",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "server error (500): Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if errResp, ok := tt.responseBody.(api.ErrorResponse); ok {
					_ = json.NewEncoder(w).Encode(errResp)
				} else {
					_, _ = w.Write([]byte(tt.responseBody.(string)))
				}
			}))
			defer server.Close()

			var observed []bool
			client := NewClient(server.URL, WithConnectivityObserver(func(online bool) {
				observed = append(observed, online)
			}))

			_, err := client.CreateCustomer(context.Background(), "tok", &models.Customer{Name: "x"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.False(t, errors.Is(err, ErrTransport))
			assert.Equal(t, []bool{true}, observed)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var mu sync.Mutex
	var observed []bool
	client := NewClient(url,
		WithTimeout(2*time.Second),
		WithConnectivityObserver(func(online bool) {
			mu.Lock()
			defer mu.Unlock()
			observed = append(observed, online)
		}),
	)

	_, err := client.CreateRental(context.Background(), "tok", &models.Rental{CustomerID: "c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false}, observed)
}
