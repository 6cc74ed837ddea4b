package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iudanet/skirent/internal/models"
)

// DNIPattern определяет допустимый формат номера документа после приведения к верхнему регистру
// Только латинские буквы (A-Z) и цифры (0-9)
// Длина: 5-15 символов
var DNIPattern = regexp.MustCompile(`^[0-9A-Z]{5,15}$`)

// PhonePattern допускает цифры, пробелы, '+' и '-'
var PhonePattern = regexp.MustCompile(`^[0-9+\- ]{6,20}$`)

const (
	// MaxNameLen максимальная длина имени клиента
	MaxNameLen = 120
)

// NormalizeDNI приводит номер документа к каноническому виду
func NormalizeDNI(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}

// ValidateCustomer проверяет обязательные поля клиента перед сохранением
func ValidateCustomer(c *models.Customer) error {
	if c == nil {
		return fmt.Errorf("customer cannot be nil")
	}

	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("customer name cannot be empty")
	}

	if len(name) > MaxNameLen {
		return fmt.Errorf("customer name must not exceed %d characters", MaxNameLen)
	}

	if c.DNI != "" && !DNIPattern.MatchString(NormalizeDNI(c.DNI)) {
		return fmt.Errorf("dni can only contain letters (A-Z) and numbers (0-9), 5-15 characters")
	}

	if c.Phone != "" && !PhonePattern.MatchString(strings.TrimSpace(c.Phone)) {
		return fmt.Errorf("phone can only contain digits, spaces, '+' and '-', 6-20 characters")
	}

	return nil
}

// ValidateRental проверяет, что договор ссылается на клиента и содержит хотя бы одну позицию
func ValidateRental(r *models.Rental) error {
	if r == nil {
		return fmt.Errorf("rental cannot be nil")
	}

	if strings.TrimSpace(r.CustomerID) == "" {
		return fmt.Errorf("rental must reference a customer")
	}

	if len(r.Items) == 0 {
		return fmt.Errorf("rental must contain at least one item")
	}

	seen := make(map[string]struct{}, len(r.Items))
	for _, it := range r.Items {
		if it.ItemID == "" {
			return fmt.Errorf("rental item must reference an item")
		}
		if _, dup := seen[it.ItemID]; dup {
			return fmt.Errorf("item %s is listed twice", it.ItemID)
		}
		seen[it.ItemID] = struct{}{}
		if it.Price < 0 {
			return fmt.Errorf("item %s has negative price", it.ItemID)
		}
	}

	return nil
}

// ValidateReturn проверяет запрос на возврат
func ValidateReturn(r *models.ReturnRequest) error {
	if r == nil {
		return fmt.Errorf("return request cannot be nil")
	}

	if strings.TrimSpace(r.RentalID) == "" {
		return fmt.Errorf("return must reference a rental")
	}

	if r.ExtraCharges < 0 {
		return fmt.Errorf("extra charges cannot be negative")
	}

	return nil
}
