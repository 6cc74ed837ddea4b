package models

// Item statuses the point of sale transitions locally.
const (
	ItemStatusAvailable   = "available"
	ItemStatusRented      = "rented"
	ItemStatusMaintenance = "maintenance"
)

// Rental statuses.
const (
	RentalStatusActive   = "active"
	RentalStatusReturned = "returned"
)

// Customer представляет клиента проката.
type Customer struct {
	ID        string `json:"id,omitempty"`         // ID серверный id либо временный id, выданный офлайн
	Name      string `json:"name"`                 // Name имя и фамилия
	DNI       string `json:"dni,omitempty"`        // DNI номер документа
	Phone     string `json:"phone,omitempty"`      // Phone телефон
	Email     string `json:"email,omitempty"`      // Email адрес почты
	Address   string `json:"address,omitempty"`    // Address адрес проживания
	Notes     string `json:"notes,omitempty"`      // Notes заметки продавца
	CreatedAt string `json:"created_at,omitempty"` // CreatedAt время создания на сервере (RFC3339)
	Offline   bool   `json:"_offline,omitempty"`   // Offline клиентский маркер, на сервер не отправляется
}

// Item is a piece of rentable equipment (skis, boots, helmets...).
type Item struct {
	ID         string  `json:"id"`
	Code       string  `json:"code,omitempty"` // Code штрихкод
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	ItemTypeID string  `json:"item_type_id,omitempty"`
	Size       string  `json:"size,omitempty"`
	Brand      string  `json:"brand,omitempty"`
	Price      float64 `json:"price,omitempty"`
}

// RentalItem is one line of a rental.
type RentalItem struct {
	ItemID   string  `json:"item_id"`
	TariffID string  `json:"tariff_id,omitempty"`
	PackID   string  `json:"pack_id,omitempty"`
	Price    float64 `json:"price"`
	Returned bool    `json:"returned,omitempty"`
}

// Rental представляет договор проката.
type Rental struct {
	ID              string       `json:"id,omitempty"`
	CustomerID      string       `json:"customer_id"`
	CustomerName    string       `json:"customer_name,omitempty"`
	Items           []RentalItem `json:"items"`
	Status          string       `json:"status"`
	StartDate       string       `json:"start_date,omitempty"`
	ExpectedEndDate string       `json:"expected_end_date,omitempty"`
	ReturnedAt      string       `json:"returned_at,omitempty"`
	SourceID        string       `json:"source_id,omitempty"`
	PaymentMethod   string       `json:"payment_method,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Deposit         float64      `json:"deposit,omitempty"`
	Total           float64      `json:"total,omitempty"`
	Offline         bool         `json:"_offline,omitempty"`
}

// ItemIDs returns the ids of every item in the rental.
func (r *Rental) ItemIDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		ids = append(ids, it.ItemID)
	}
	return ids
}

// ReturnRequest описывает возврат оборудования по договору.
// Пустой ItemIDs означает возврат всех позиций.
type ReturnRequest struct {
	RentalID     string   `json:"rental_id"`
	ItemIDs      []string `json:"item_ids,omitempty"`
	ReturnedAt   string   `json:"returned_at,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	ExtraCharges float64  `json:"extra_charges,omitempty"`
}
