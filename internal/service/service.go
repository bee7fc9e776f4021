// Package service orchestrates the back-office operations: validated writes
// through the store, cached collection reads, and the quarterly commission
// report computation.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cyclebay/backend/internal/cache"
	"cyclebay/backend/internal/commission"
	"cyclebay/backend/internal/domain"
	"cyclebay/backend/internal/store"
	"cyclebay/backend/internal/validate"
)

// Collection cache keys. Every mutation invalidates the touched collection
// so the next read goes back to the store; nothing is patched in place.
const (
	cacheKeyCustomers    = "collections:customers"
	cacheKeyProducts     = "collections:products"
	cacheKeySalespersons = "collections:salespersons"
	cacheKeySales        = "collections:sales"
)

type Service struct {
	repo     store.Repository
	cache    cache.CollectionCache
	cacheTTL time.Duration
	periods  *commission.Selector
}

func New(repo store.Repository, collectionCache cache.CollectionCache, cacheTTL time.Duration) *Service {
	if collectionCache == nil {
		collectionCache = cache.NoopCollectionCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	return &Service{
		repo:     repo,
		cache:    collectionCache,
		cacheTTL: cacheTTL,
		periods:  commission.NewSelector(),
	}
}

// listThrough reads a collection through the cache. Cache failures are
// logged and degrade to a store read; only the store can fail the call.
func listThrough[T any](ctx context.Context, s *Service, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if payload, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		var items []T
		if err := json.Unmarshal(payload, &items); err == nil {
			return items, nil
		}
		log.Warn().Str("key", key).Msg("cache payload unreadable, refetching")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return items, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// --- Customers ---

func (s *Service) Customers(ctx context.Context) ([]domain.Customer, error) {
	return listThrough(ctx, s, cacheKeyCustomers, s.repo.ListCustomers)
}

func (s *Service) Customer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	if result := validate.Customer(in); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	created, err := s.repo.CreateCustomer(ctx, customerFromInput(0, in))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyCustomers)
	return created, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in domain.CustomerInput) (*domain.Customer, error) {
	if result := validate.Customer(in); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	updated, err := s.repo.UpdateCustomer(ctx, customerFromInput(id, in))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyCustomers, cacheKeySales)
	return updated, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeyCustomers, cacheKeySales)
	return nil
}

// --- Products ---

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	return listThrough(ctx, s, cacheKeyProducts, s.repo.ListProducts)
}

func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	existing, err := s.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products for validation: %w", err)
	}
	if result := validate.Product(in, existing, 0); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	created, err := s.repo.CreateProduct(ctx, productFromInput(0, in))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyProducts)
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	existing, err := s.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products for validation: %w", err)
	}
	if result := validate.Product(in, existing, id); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	updated, err := s.repo.UpdateProduct(ctx, productFromInput(id, in))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeyProducts, cacheKeySales)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeyProducts, cacheKeySales)
	return nil
}

// --- Salespersons ---

func (s *Service) Salespersons(ctx context.Context) ([]domain.Salesperson, error) {
	return listThrough(ctx, s, cacheKeySalespersons, s.repo.ListSalespersons)
}

func (s *Service) Salesperson(ctx context.Context, id int64) (*domain.Salesperson, error) {
	return s.repo.GetSalesperson(ctx, id)
}

func (s *Service) CreateSalesperson(ctx context.Context, in domain.SalespersonInput) (*domain.Salesperson, error) {
	existing, err := s.Salespersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load salespersons for validation: %w", err)
	}
	if result := validate.Salesperson(in, existing, 0); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	created, err := s.repo.CreateSalesperson(ctx, salespersonFromInput(0, in))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySalespersons)
	return created, nil
}

func (s *Service) UpdateSalesperson(ctx context.Context, id int64, in domain.SalespersonInput) (*domain.Salesperson, error) {
	existing, err := s.Salespersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load salespersons for validation: %w", err)
	}
	if result := validate.Salesperson(in, existing, id); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	updated, err := s.repo.UpdateSalesperson(ctx, salespersonFromInput(id, in))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySalespersons, cacheKeySales)
	return updated, nil
}

func (s *Service) DeleteSalesperson(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSalesperson(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cacheKeySalespersons, cacheKeySales)
	return nil
}

// --- Sales ---

// Sales lists sales, optionally restricted to a closed calendar-date range.
// Zero-valued bounds are open ends.
func (s *Service) Sales(ctx context.Context, from, to domain.Date) ([]domain.Sale, error) {
	sales, err := listThrough(ctx, s, cacheKeySales, s.repo.ListSales)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return sales, nil
	}

	filtered := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if !from.IsZero() && sale.Date.Before(from) {
			continue
		}
		if !to.IsZero() && sale.Date.After(to) {
			continue
		}
		filtered = append(filtered, sale)
	}
	return filtered, nil
}

func (s *Service) Sale(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) CreateSale(ctx context.Context, in domain.SaleInput) (*domain.Sale, error) {
	if result := validate.Sale(in); !result.IsValid {
		return nil, &domain.ValidationError{Result: result}
	}

	created, err := s.repo.CreateSale(ctx, domain.Sale{
		ProductID:     in.ProductID,
		SalesPersonID: in.SalesPersonID,
		CustomerID:    in.CustomerID,
		Date:          in.Date,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cacheKeySales)
	return created, nil
}

// --- Commission reports ---

// fetchReportInputs loads salespersons and sales concurrently; the two
// fetches have no ordering requirement between each other, but aggregation
// must not run unless both succeed.
func (s *Service) fetchReportInputs(ctx context.Context) ([]domain.Salesperson, []domain.Sale, error) {
	type salespersonsResult struct {
		items []domain.Salesperson
		err   error
	}
	type salesResult struct {
		items []domain.Sale
		err   error
	}

	salespersonsCh := make(chan salespersonsResult, 1)
	salesCh := make(chan salesResult, 1)

	go func() {
		items, err := s.Salespersons(ctx)
		salespersonsCh <- salespersonsResult{items, err}
	}()
	go func() {
		items, err := s.Sales(ctx, domain.Date{}, domain.Date{})
		salesCh <- salesResult{items, err}
	}()

	salespersons := <-salespersonsCh
	sales := <-salesCh

	if salespersons.err != nil {
		return nil, nil, fmt.Errorf("fetch salespersons: %w", salespersons.err)
	}
	if sales.err != nil {
		return nil, nil, fmt.Errorf("fetch sales: %w", sales.err)
	}
	return salespersons.items, sales.items, nil
}

func (s *Service) commissionReports(ctx context.Context, period commission.Period) ([]domain.CommissionReport, error) {
	salespersons, sales, err := s.fetchReportInputs(ctx)
	if err != nil {
		return nil, err
	}

	reports, orphaned := commission.Aggregate(salespersons, sales, period)
	if len(orphaned) > 0 {
		// Policy: sales pointing at a missing salesperson are skipped, not
		// fatal, but they are worth an operator's attention.
		ids := make([]int64, 0, len(orphaned))
		for _, sale := range orphaned {
			ids = append(ids, sale.ID)
		}
		log.Warn().Ints64("saleIds", ids).Stringer("period", period).
			Msg("skipping sales that reference an unknown salesperson")
	}
	return reports, nil
}

func (s *Service) resolvePeriod(period *commission.Period) (commission.Period, error) {
	if period == nil {
		return s.periods.Applied(), nil
	}
	if err := period.Validate(); err != nil {
		return commission.Period{}, fmt.Errorf("%w: %s", store.ErrInvalidInput, err)
	}
	return *period, nil
}

// CommissionReportRows computes the summary rows for the given period, or
// for the currently applied period when period is nil.
func (s *Service) CommissionReportRows(ctx context.Context, period *commission.Period) ([]commission.ReportRow, commission.Period, error) {
	resolved, err := s.resolvePeriod(period)
	if err != nil {
		return nil, commission.Period{}, err
	}

	reports, err := s.commissionReports(ctx, resolved)
	if err != nil {
		return nil, commission.Period{}, err
	}
	return commission.Summarize(reports), resolved, nil
}

// CommissionDetails is the drill-down for a single salesperson.
func (s *Service) CommissionDetails(ctx context.Context, salespersonID int64, period *commission.Period) (*commission.DetailView, commission.Period, error) {
	resolved, err := s.resolvePeriod(period)
	if err != nil {
		return nil, commission.Period{}, err
	}

	reports, err := s.commissionReports(ctx, resolved)
	if err != nil {
		return nil, commission.Period{}, err
	}

	for _, report := range reports {
		if report.SalespersonID == salespersonID {
			view := commission.Details(report)
			return &view, resolved, nil
		}
	}
	return nil, resolved, fmt.Errorf("%w: no commission activity for salesperson %d in %s", store.ErrNotFound, salespersonID, resolved)
}

// --- Report period selection ---

func (s *Service) StageReportPeriod(period commission.Period) error {
	if err := s.periods.Stage(period); err != nil {
		return fmt.Errorf("%w: %s", store.ErrInvalidInput, err)
	}
	return nil
}

func (s *Service) ApplyReportPeriod() commission.Period {
	return s.periods.Apply()
}

func (s *Service) ClearReportPeriod() commission.Period {
	return s.periods.Clear()
}

func (s *Service) ReportPeriods() (pending, applied commission.Period) {
	return s.periods.Pending(), s.periods.Applied()
}

// --- input mapping ---

func customerFromInput(id int64, in domain.CustomerInput) domain.Customer {
	return domain.Customer{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Address:   in.Address,
		Phone:     in.Phone,
		StartDate: in.StartDate,
	}
}

func salespersonFromInput(id int64, in domain.SalespersonInput) domain.Salesperson {
	return domain.Salesperson{
		ID:              id,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Address:         in.Address,
		Phone:           in.Phone,
		StartDate:       in.StartDate,
		TerminationDate: in.TerminationDate,
		Manager:         in.Manager,
	}
}

func productFromInput(id int64, in domain.ProductInput) domain.Product {
	return domain.Product{
		ID:                   id,
		Name:                 in.Name,
		Manufacturer:         in.Manufacturer,
		Style:                in.Style,
		PurchasePrice:        in.PurchasePrice,
		SalePrice:            in.SalePrice,
		QtyOnHand:            in.QtyOnHand,
		CommissionPercentage: in.CommissionPercentage,
	}
}
