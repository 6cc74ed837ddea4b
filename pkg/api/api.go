// Package api содержит описание REST поверхности бэкенда проката,
// которую использует клиент точки продаж.
package api

// Endpoint paths consumed by the client.
const (
	PathCustomers    = "/api/customers"
	PathCustomer     = "/api/customers/{id}"
	PathItems        = "/api/items"
	PathRentals      = "/api/rentals"
	PathRentalReturn = "/api/rentals/{id}/return"
	PathTariffs      = "/api/tariffs"
	PathPacks        = "/api/packs"
	PathSources      = "/api/sources"
	PathItemTypes    = "/api/item-types"
)

// QueryIncludeAll asks the rentals endpoint for returned rentals too.
const QueryIncludeAll = "include_all"

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// Text returns the most specific message carried by the response.
func (e *ErrorResponse) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
