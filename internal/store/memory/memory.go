// Package memory is the in-memory Repository used for development mode and
// tests. It enforces the same duplicate rules the postgres schema enforces
// with unique indexes, so service behavior matches across both stores.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"cyclebay/backend/internal/domain"
	"cyclebay/backend/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	nextID       int64
	customers    map[int64]domain.Customer
	products     map[int64]domain.Product
	salespersons map[int64]domain.Salesperson
	sales        map[int64]domain.Sale
}

func New() *Store {
	return &Store{
		nextID:       1,
		customers:    make(map[int64]domain.Customer),
		products:     make(map[int64]domain.Product),
		salespersons: make(map[int64]domain.Salesperson),
		sales:        make(map[int64]domain.Sale),
	}
}

// NewSeeded returns a store pre-loaded with a small bicycle-shop dataset so
// the backend is usable out of the box without postgres.
func NewSeeded() *Store {
	s := New()
	ctx := context.Background()

	price := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }
	date := domain.NewDate

	products := []domain.Product{
		{Name: "Trailblazer 29", Manufacturer: "Summit Cycles", Style: "Mountain", PurchasePrice: price("850"), SalePrice: price("1399.99"), QtyOnHand: 6, CommissionPercentage: price("10")},
		{Name: "Aero Road Elite", Manufacturer: "Velocity Works", Style: "Road", PurchasePrice: price("1200"), SalePrice: price("2150"), QtyOnHand: 4, CommissionPercentage: price("12.5")},
		{Name: "City Cruiser", Manufacturer: "Harbor Bikes", Style: "Hybrid", PurchasePrice: price("310"), SalePrice: price("499.95"), QtyOnHand: 12, CommissionPercentage: price("8")},
		{Name: "Gravel Grinder GX", Manufacturer: "Summit Cycles", Style: "Gravel", PurchasePrice: price("900"), SalePrice: price("1575"), QtyOnHand: 5, CommissionPercentage: price("11")},
	}
	salespersons := []domain.Salesperson{
		{FirstName: "Jane", LastName: "Smith", Address: "12 Harbor Ln", Phone: "555-201-3344", StartDate: date(2022, 3, 14), Manager: "Pat Douglas"},
		{FirstName: "Carlos", LastName: "Rivera", Address: "88 Summit Ave", Phone: "555-417-9021", StartDate: date(2023, 6, 1), Manager: "Pat Douglas"},
		{FirstName: "Amy", LastName: "Chen", Address: "5 Creekside Ct", Phone: "555-830-1167", StartDate: date(2021, 11, 8), Manager: "Lee Armstrong"},
	}
	customers := []domain.Customer{
		{FirstName: "Marcus", LastName: "Webb", Address: "301 Elm St", Phone: "555-662-0918", StartDate: date(2023, 1, 20)},
		{FirstName: "Dana", LastName: "Ortiz", Address: "47 Birch Rd", Phone: "555-118-4452", StartDate: date(2024, 2, 9)},
		{FirstName: "Priya", LastName: "Natarajan", Address: "9 Lakeview Dr", Phone: "555-905-7733", StartDate: date(2022, 8, 30)},
	}

	for i := range products {
		created, _ := s.CreateProduct(ctx, products[i])
		products[i] = *created
	}
	for i := range salespersons {
		created, _ := s.CreateSalesperson(ctx, salespersons[i])
		salespersons[i] = *created
	}
	for i := range customers {
		created, _ := s.CreateCustomer(ctx, customers[i])
		customers[i] = *created
	}

	seedSales := []struct {
		product, salesperson, customer int
		date                           domain.Date
	}{
		{0, 0, 0, date(2025, 10, 3)},
		{1, 0, 1, date(2025, 11, 18)},
		{2, 1, 2, date(2025, 11, 2)},
		{3, 2, 0, date(2025, 12, 27)},
		{1, 1, 1, date(2026, 1, 15)},
		{0, 2, 2, date(2026, 2, 6)},
		{2, 0, 0, date(2026, 4, 11)},
		{3, 1, 2, date(2026, 5, 29)},
	}
	for _, seed := range seedSales {
		_, _ = s.CreateSale(ctx, domain.Sale{
			ProductID:     products[seed.product].ID,
			SalesPersonID: salespersons[seed.salesperson].ID,
			CustomerID:    customers[seed.customer].ID,
			Date:          seed.date,
		})
	}

	return s
}

func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// --- Customers ---

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &customer, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer.ID = s.allocateID()
	s.customers[customer.ID] = customer
	return &customer, nil
}

func (s *Store) UpdateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customer.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.customers[customer.ID] = customer
	return &customer, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return store.ErrNotFound
	}
	if s.referencedBySale(func(sale domain.Sale) bool { return sale.CustomerID == id }) {
		return store.ErrInvalidInput
	}
	delete(s.customers, id)
	return nil
}

// referencedBySale mirrors the RESTRICT foreign keys of the postgres store:
// records that contributed to a sale cannot be deleted.
func (s *Store) referencedBySale(match func(domain.Sale) bool) bool {
	for _, sale := range s.sales {
		if match(sale) {
			return true
		}
	}
	return false
}

// --- Products ---

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.productNameTaken(product.Name, product.Manufacturer, 0) {
		return nil, store.ErrDuplicate
	}

	product.ID = s.allocateID()
	s.products[product.ID] = product
	return &product, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return nil, store.ErrNotFound
	}
	if s.productNameTaken(product.Name, product.Manufacturer, product.ID) {
		return nil, store.ErrDuplicate
	}
	s.products[product.ID] = product
	return &product, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	if s.referencedBySale(func(sale domain.Sale) bool { return sale.ProductID == id }) {
		return store.ErrInvalidInput
	}
	delete(s.products, id)
	return nil
}

func (s *Store) productNameTaken(name, manufacturer string, excludeID int64) bool {
	for _, p := range s.products {
		if p.ID == excludeID {
			continue
		}
		if strings.EqualFold(p.Name, name) && strings.EqualFold(p.Manufacturer, manufacturer) {
			return true
		}
	}
	return false
}

// --- Salespersons ---

func (s *Store) ListSalespersons(_ context.Context) ([]domain.Salesperson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	salespersons := make([]domain.Salesperson, 0, len(s.salespersons))
	for _, sp := range s.salespersons {
		salespersons = append(salespersons, sp)
	}
	sort.Slice(salespersons, func(i, j int) bool { return salespersons[i].ID < salespersons[j].ID })
	return salespersons, nil
}

func (s *Store) GetSalesperson(_ context.Context, id int64) (*domain.Salesperson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	salesperson, ok := s.salespersons[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &salesperson, nil
}

func (s *Store) CreateSalesperson(_ context.Context, salesperson domain.Salesperson) (*domain.Salesperson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.salespersonTaken(salesperson, 0) {
		return nil, store.ErrDuplicate
	}

	salesperson.ID = s.allocateID()
	s.salespersons[salesperson.ID] = salesperson
	return &salesperson, nil
}

func (s *Store) UpdateSalesperson(_ context.Context, salesperson domain.Salesperson) (*domain.Salesperson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salespersons[salesperson.ID]; !ok {
		return nil, store.ErrNotFound
	}
	if s.salespersonTaken(salesperson, salesperson.ID) {
		return nil, store.ErrDuplicate
	}
	s.salespersons[salesperson.ID] = salesperson
	return &salesperson, nil
}

func (s *Store) DeleteSalesperson(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.salespersons[id]; !ok {
		return store.ErrNotFound
	}
	if s.referencedBySale(func(sale domain.Sale) bool { return sale.SalesPersonID == id }) {
		return store.ErrInvalidInput
	}
	delete(s.salespersons, id)
	return nil
}

func (s *Store) salespersonTaken(candidate domain.Salesperson, excludeID int64) bool {
	candidatePhone := digits(candidate.Phone)
	for _, sp := range s.salespersons {
		if sp.ID == excludeID {
			continue
		}
		if sp.FirstName == candidate.FirstName && sp.LastName == candidate.LastName {
			return true
		}
		if digits(sp.Phone) == candidatePhone {
			return true
		}
	}
	return false
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// --- Sales ---

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		sales = append(sales, s.withEmbedded(sale))
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID < sales[j].ID })
	return sales, nil
}

func (s *Store) GetSale(_ context.Context, id int64) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.sales[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	hydrated := s.withEmbedded(sale)
	return &hydrated, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[sale.ProductID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.salespersons[sale.SalesPersonID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if _, ok := s.customers[sale.CustomerID]; !ok {
		return nil, store.ErrInvalidInput
	}

	sale.ID = s.allocateID()
	s.sales[sale.ID] = sale
	hydrated := s.withEmbedded(sale)
	return &hydrated, nil
}

// withEmbedded fills the denormalized reference copies from the current
// records. If a referenced record was deleted after the sale was made, the
// embedded copy is left zero-valued; the reference id itself stays intact so
// report aggregation can still classify the sale.
func (s *Store) withEmbedded(sale domain.Sale) domain.Sale {
	sale.Product = s.products[sale.ProductID]
	sale.SalesPerson = s.salespersons[sale.SalesPersonID]
	sale.Customer = s.customers[sale.CustomerID]
	return sale
}
