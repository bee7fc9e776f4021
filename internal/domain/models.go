package domain

import "github.com/shopspring/decimal"

type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	StartDate Date   `json:"startDate"`
}

func (c Customer) DisplayName() string {
	return c.FirstName + " " + c.LastName
}

type Product struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Manufacturer         string          `json:"manufacturer"`
	Style                string          `json:"style"`
	PurchasePrice        decimal.Decimal `json:"purchasePrice"`
	SalePrice            decimal.Decimal `json:"salePrice"`
	QtyOnHand            int             `json:"qtyOnHand"`
	CommissionPercentage decimal.Decimal `json:"commissionPercentage"`
}

type Salesperson struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	StartDate       Date   `json:"startDate"`
	TerminationDate *Date  `json:"terminationDate"`
	Manager         string `json:"manager"`
}

func (s Salesperson) DisplayName() string {
	return s.FirstName + " " + s.LastName
}

// Sale embeds copies of the referenced Product, Salesperson and Customer as
// they existed when the sale was read. Sales are immutable once created:
// the store exposes no update or delete for them.
type Sale struct {
	ID            int64       `json:"id"`
	ProductID     int64       `json:"productId"`
	SalesPersonID int64       `json:"salesPersonId"`
	CustomerID    int64       `json:"customerId"`
	Date          Date        `json:"date"`
	Product       Product     `json:"product"`
	SalesPerson   Salesperson `json:"salesPerson"`
	Customer      Customer    `json:"customer"`
}

// Commission is the per-sale commission amount: salePrice * percentage / 100,
// kept at full precision. Rounding happens only at the display boundary.
func (s Sale) Commission() decimal.Decimal {
	return s.Product.SalePrice.Mul(s.Product.CommissionPercentage).Div(decimal.NewFromInt(100))
}

// CommissionReport is one salesperson's aggregated activity within a
// reporting period. It is derived on every computation and never persisted.
type CommissionReport struct {
	SalespersonID   int64           `json:"salespersonId"`
	SalespersonName string          `json:"salespersonName"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	NumberOfSales   int             `json:"numberOfSales"`
	SalesDetails    []Sale          `json:"salesDetails"`
}

type CustomerInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	StartDate Date   `json:"startDate"`
}

type SalespersonInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	StartDate       Date   `json:"startDate"`
	TerminationDate *Date  `json:"terminationDate"`
	Manager         string `json:"manager"`
}

type ProductInput struct {
	Name                 string          `json:"name"`
	Manufacturer         string          `json:"manufacturer"`
	Style                string          `json:"style"`
	PurchasePrice        decimal.Decimal `json:"purchasePrice"`
	SalePrice            decimal.Decimal `json:"salePrice"`
	QtyOnHand            int             `json:"qtyOnHand"`
	CommissionPercentage decimal.Decimal `json:"commissionPercentage"`
}

type SaleInput struct {
	ProductID     int64 `json:"productId"`
	SalesPersonID int64 `json:"salesPersonId"`
	CustomerID    int64 `json:"customerId"`
	Date          Date  `json:"date"`
}
