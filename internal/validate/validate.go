// Package validate holds the pure data-entry validators. They are invoked on
// every field change and once more in full on submit; they never touch the
// store and never panic on malformed input.
package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"cyclebay/backend/internal/domain"
)

var phoneDisplayFormat = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

// digitsOnly strips every non-digit rune so phones compare by their canonical
// 10-digit form regardless of punctuation.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneFormat returns an empty string when the phone is valid, otherwise a
// message naming the specific failure mode (missing, wrong length, wrong
// display format).
func PhoneFormat(phone string) string {
	cleaned := digitsOnly(phone)
	if cleaned == "" {
		return "Phone number is required"
	}
	if len(cleaned) != 10 {
		return "Phone number must be 10 digits in length"
	}
	if !phoneDisplayFormat.MatchString(phone) {
		return "Phone number must be in xxx-xxx-xxxx format"
	}
	return ""
}

func Customer(in domain.CustomerInput) domain.ValidationResult {
	result := domain.NewValidationResult()

	if strings.TrimSpace(in.FirstName) == "" {
		result.Add("firstName", "First name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		result.Add("lastName", "Last name is required")
	}
	if msg := PhoneFormat(in.Phone); msg != "" {
		result.Add("phone", msg)
	}
	if strings.TrimSpace(in.Address) == "" {
		result.Add("address", "Address is required")
	}
	if in.StartDate.IsZero() {
		result.Add("startDate", "Start date is required")
	} else if in.StartDate.After(domain.Today()) {
		result.Add("startDate", "Start date cannot be in the future")
	}

	return result
}

// Salesperson checks the candidate against the existing collection for
// duplicate names and duplicate phone numbers. currentID excludes the record
// being edited from the duplicate checks; pass 0 when creating.
func Salesperson(in domain.SalespersonInput, existing []domain.Salesperson, currentID int64) domain.ValidationResult {
	result := domain.NewValidationResult()

	if strings.TrimSpace(in.FirstName) == "" {
		result.Add("firstName", "First name is required")
	} else if len(in.FirstName) < 2 {
		result.Add("firstName", "First name must be at least 2 characters")
	}
	if strings.TrimSpace(in.LastName) == "" {
		result.Add("lastName", "Last name is required")
	} else if len(in.LastName) < 2 {
		result.Add("lastName", "Last name must be at least 2 characters")
	}
	if msg := PhoneFormat(in.Phone); msg != "" {
		result.Add("phone", msg)
	}

	if in.FirstName != "" && in.LastName != "" && in.Phone != "" {
		candidatePhone := digitsOnly(in.Phone)
		for _, sp := range existing {
			if sp.ID == currentID {
				continue
			}
			if digitsOnly(sp.Phone) == candidatePhone {
				result.Add("phone", "Phone number already exists")
			}
			if sp.FirstName == in.FirstName && sp.LastName == in.LastName {
				result.Add("duplicateName", "Salesperson with this first and last name already exists")
			}
		}
	}

	if strings.TrimSpace(in.Address) == "" {
		result.Add("address", "Address is required")
	}

	if in.StartDate.IsZero() {
		result.Add("startDate", "Start date is required")
	} else if in.StartDate.After(domain.Today()) {
		result.Add("startDate", "Start date cannot be in the future")
	}

	if in.TerminationDate != nil && !in.TerminationDate.IsZero() {
		if in.TerminationDate.Before(in.StartDate) {
			result.Add("terminationDate", "Termination date cannot be before start date")
		}
		if in.TerminationDate.After(domain.Today()) {
			result.Add("terminationDate", "Termination date cannot be in the future")
		}
	}

	if strings.TrimSpace(in.Manager) == "" {
		result.Add("manager", "Manager name is required")
	} else if len(in.Manager) < 2 {
		result.Add("manager", "Manager name must be at least 2 characters")
	}

	return result
}

// Product checks prices, stock and commission bounds, plus the
// case-insensitive (name, manufacturer) duplicate rule.
func Product(in domain.ProductInput, existing []domain.Product, currentID int64) domain.ValidationResult {
	result := domain.NewValidationResult()
	zero := decimal.Zero

	if strings.TrimSpace(in.Name) == "" {
		result.Add("name", "Name is required")
	}
	if strings.TrimSpace(in.Manufacturer) == "" {
		result.Add("manufacturer", "Manufacturer is required")
	}
	if strings.TrimSpace(in.Style) == "" {
		result.Add("style", "Style is required")
	}

	if !in.PurchasePrice.GreaterThan(zero) {
		result.Add("purchasePrice", "Purchase price must be greater than 0")
	}
	if !in.SalePrice.GreaterThan(zero) {
		result.Add("salePrice", "Sale price must be greater than 0")
	} else if !in.SalePrice.GreaterThan(in.PurchasePrice) {
		result.Add("salePrice", "Sale price must be greater than purchase price")
	}

	if in.QtyOnHand < 0 {
		result.Add("qtyOnHand", "Quantity cannot be negative")
	}

	if in.CommissionPercentage.IsNegative() {
		result.Add("commissionPercentage", "Commission percentage cannot be negative")
	} else if in.CommissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		result.Add("commissionPercentage", "Commission percentage cannot exceed 100%")
	}

	if in.Name != "" && in.Manufacturer != "" {
		for _, p := range existing {
			if p.ID == currentID {
				continue
			}
			if strings.EqualFold(p.Name, in.Name) && strings.EqualFold(p.Manufacturer, in.Manufacturer) {
				result.Add("duplicateProduct", "A product with this name and manufacturer already exists")
				break
			}
		}
	}

	return result
}

// Sale requires all three reference selections (non-zero ids) and a
// non-future sale date.
func Sale(in domain.SaleInput) domain.ValidationResult {
	result := domain.NewValidationResult()

	if in.ProductID == 0 {
		result.Add("productId", "Product selection is required")
	}
	if in.SalesPersonID == 0 {
		result.Add("salesPersonId", "Salesperson selection is required")
	}
	if in.CustomerID == 0 {
		result.Add("customerId", "Customer selection is required")
	}
	if in.Date.IsZero() {
		result.Add("date", "Sale date is required")
	} else if in.Date.After(domain.Today()) {
		result.Add("date", "Sale date cannot be in the future")
	}

	return result
}
