// Package store defines the contract of the external persistence
// collaborator. The core never reaches past this interface; durable record
// layout belongs entirely to the implementations.
package store

import (
	"context"
	"errors"

	"cyclebay/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrInvalidInput = errors.New("invalid input")
)

type Repository interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListSalespersons(ctx context.Context) ([]domain.Salesperson, error)
	GetSalesperson(ctx context.Context, id int64) (*domain.Salesperson, error)
	CreateSalesperson(ctx context.Context, salesperson domain.Salesperson) (*domain.Salesperson, error)
	UpdateSalesperson(ctx context.Context, salesperson domain.Salesperson) (*domain.Salesperson, error)
	DeleteSalesperson(ctx context.Context, id int64) error

	// Sales are immutable once created: no update or delete is exposed.
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
}
