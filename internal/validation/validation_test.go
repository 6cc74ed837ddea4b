package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/skirent/internal/models"
)

func TestValidateCustomer(t *testing.T) {
	tests := []struct {
		customer *models.Customer
		name     string
		errMsg   string
		wantErr  bool
	}{
		{
			name:     "valid - name only",
			customer: &models.Customer{Name: "Jane Doe"},
			wantErr:  false,
		},
		{
			name:     "valid - full",
			customer: &models.Customer{Name: "Jane Doe", DNI: "12345678z", Phone: "+34 600-123-456"},
			wantErr:  false,
		},
		{
			name:     "invalid - nil",
			customer: nil,
			wantErr:  true,
			errMsg:   "customer cannot be nil",
		},
		{
			name:     "invalid - empty name",
			customer: &models.Customer{Name: "   "},
			wantErr:  true,
			errMsg:   "customer name cannot be empty",
		},
		{
			name:     "invalid - dni with symbols",
			customer: &models.Customer{Name: "Jane", DNI: "12-34"},
			wantErr:  true,
			errMsg:   "dni can only contain",
		},
		{
			name:     "invalid - phone with letters",
			customer: &models.Customer{Name: "Jane", Phone: "call me"},
			wantErr:  true,
			errMsg:   "phone can only contain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustomer(tt.customer)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateRental(t *testing.T) {
	tests := []struct {
		rental  *models.Rental
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name: "valid",
			rental: &models.Rental{
				CustomerID: "c_1",
				Items:      []models.RentalItem{{ItemID: "i_1", Price: 20}, {ItemID: "i_2"}},
			},
		},
		{
			name:    "missing customer",
			rental:  &models.Rental{Items: []models.RentalItem{{ItemID: "i_1"}}},
			wantErr: true,
			errMsg:  "must reference a customer",
		},
		{
			name:    "no items",
			rental:  &models.Rental{CustomerID: "c_1"},
			wantErr: true,
			errMsg:  "at least one item",
		},
		{
			name: "duplicate item",
			rental: &models.Rental{
				CustomerID: "c_1",
				Items:      []models.RentalItem{{ItemID: "i_1"}, {ItemID: "i_1"}},
			},
			wantErr: true,
			errMsg:  "listed twice",
		},
		{
			name: "negative price",
			rental: &models.Rental{
				CustomerID: "c_1",
				Items:      []models.RentalItem{{ItemID: "i_1", Price: -1}},
			},
			wantErr: true,
			errMsg:  "negative price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRental(tt.rental)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateReturn(t *testing.T) {
	assert.NoError(t, ValidateReturn(&models.ReturnRequest{RentalID: "r_1"}))
	assert.Error(t, ValidateReturn(&models.ReturnRequest{}))
	assert.Error(t, ValidateReturn(&models.ReturnRequest{RentalID: "r_1", ExtraCharges: -5}))
	assert.Error(t, ValidateReturn(nil))
}

func TestNormalizeDNI(t *testing.T) {
	assert.Equal(t, "12345678Z", NormalizeDNI(" 12345678z "))
}
