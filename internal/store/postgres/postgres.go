package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"cyclebay/backend/internal/domain"
	"cyclebay/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			address TEXT NOT NULL,
			phone TEXT NOT NULL,
			start_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			manufacturer TEXT NOT NULL,
			style TEXT NOT NULL,
			purchase_price NUMERIC(12,2) NOT NULL,
			sale_price NUMERIC(12,2) NOT NULL,
			qty_on_hand INTEGER NOT NULL DEFAULT 0,
			commission_percentage NUMERIC(5,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS products_name_manufacturer_idx
			ON products (lower(name), lower(manufacturer))`,
		`CREATE TABLE IF NOT EXISTS salespersons (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			address TEXT NOT NULL,
			phone TEXT NOT NULL,
			start_date DATE NOT NULL,
			termination_date DATE,
			manager TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS salespersons_name_idx
			ON salespersons (first_name, last_name)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS salespersons_phone_idx
			ON salespersons (phone)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id),
			sales_person_id BIGINT NOT NULL REFERENCES salespersons(id),
			customer_id BIGINT NOT NULL REFERENCES customers(id),
			sale_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// --- Customers ---

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, address, phone, start_date
		FROM customers
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 64)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.Phone, &c.StartDate); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Store) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, address, phone, start_date
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.Phone, &c.StartDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customers (first_name, last_name, address, phone, start_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, customer.FirstName, customer.LastName, customer.Address, customer.Phone, customer.StartDate).Scan(&customer.ID)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET first_name = $2, last_name = $3, address = $4, phone = $5, start_date = $6, updated_at = now()
		WHERE id = $1
	`, customer.ID, customer.FirstName, customer.LastName, customer.Address, customer.Phone, customer.StartDate)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &customer, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Products ---

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, manufacturer, style, purchase_price, sale_price, qty_on_hand, commission_percentage
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Style, &p.PurchasePrice, &p.SalePrice, &p.QtyOnHand, &p.CommissionPercentage); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, manufacturer, style, purchase_price, sale_price, qty_on_hand, commission_percentage
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Style, &p.PurchasePrice, &p.SalePrice, &p.QtyOnHand, &p.CommissionPercentage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, manufacturer, style, purchase_price, sale_price, qty_on_hand, commission_percentage)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, product.Name, product.Manufacturer, product.Style, product.PurchasePrice, product.SalePrice, product.QtyOnHand, product.CommissionPercentage).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, manufacturer = $3, style = $4, purchase_price = $5, sale_price = $6,
		    qty_on_hand = $7, commission_percentage = $8, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Manufacturer, product.Style, product.PurchasePrice, product.SalePrice, product.QtyOnHand, product.CommissionPercentage)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Salespersons ---

func (s *Store) ListSalespersons(ctx context.Context) ([]domain.Salesperson, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, address, phone, start_date, termination_date, manager
		FROM salespersons
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	salespersons := make([]domain.Salesperson, 0, 32)
	for rows.Next() {
		sp, err := scanSalesperson(rows.Scan)
		if err != nil {
			return nil, err
		}
		salespersons = append(salespersons, sp)
	}
	return salespersons, rows.Err()
}

func scanSalesperson(scan func(...any) error) (domain.Salesperson, error) {
	var sp domain.Salesperson
	var termination sql.NullTime
	err := scan(&sp.ID, &sp.FirstName, &sp.LastName, &sp.Address, &sp.Phone, &sp.StartDate, &termination, &sp.Manager)
	if err != nil {
		return domain.Salesperson{}, err
	}
	if termination.Valid {
		d := domain.DateOf(termination.Time)
		sp.TerminationDate = &d
	}
	return sp, nil
}

func (s *Store) GetSalesperson(ctx context.Context, id int64) (*domain.Salesperson, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, address, phone, start_date, termination_date, manager
		FROM salespersons
		WHERE id = $1
	`, id)
	sp, err := scanSalesperson(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

func terminationValue(sp domain.Salesperson) any {
	if sp.TerminationDate == nil || sp.TerminationDate.IsZero() {
		return nil
	}
	return *sp.TerminationDate
}

func (s *Store) CreateSalesperson(ctx context.Context, salesperson domain.Salesperson) (*domain.Salesperson, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO salespersons (first_name, last_name, address, phone, start_date, termination_date, manager)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, salesperson.FirstName, salesperson.LastName, salesperson.Address, salesperson.Phone,
		salesperson.StartDate, terminationValue(salesperson), salesperson.Manager).Scan(&salesperson.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	return &salesperson, nil
}

func (s *Store) UpdateSalesperson(ctx context.Context, salesperson domain.Salesperson) (*domain.Salesperson, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE salespersons
		SET first_name = $2, last_name = $3, address = $4, phone = $5,
		    start_date = $6, termination_date = $7, manager = $8, updated_at = now()
		WHERE id = $1
	`, salesperson.ID, salesperson.FirstName, salesperson.LastName, salesperson.Address,
		salesperson.Phone, salesperson.StartDate, terminationValue(salesperson), salesperson.Manager)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &salesperson, nil
}

func (s *Store) DeleteSalesperson(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM salespersons WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Sales ---

// saleColumns joins the three referenced tables so each Sale carries
// embedded copies of its product, salesperson and customer as they exist at
// read time.
const saleColumns = `
	s.id, s.product_id, s.sales_person_id, s.customer_id, s.sale_date,
	p.id, p.name, p.manufacturer, p.style, p.purchase_price, p.sale_price, p.qty_on_hand, p.commission_percentage,
	sp.id, sp.first_name, sp.last_name, sp.address, sp.phone, sp.start_date, sp.termination_date, sp.manager,
	c.id, c.first_name, c.last_name, c.address, c.phone, c.start_date
`

const saleJoins = `
	FROM sales s
	JOIN products p ON p.id = s.product_id
	JOIN salespersons sp ON sp.id = s.sales_person_id
	JOIN customers c ON c.id = s.customer_id
`

func scanSale(scan func(...any) error) (domain.Sale, error) {
	var sale domain.Sale
	var termination sql.NullTime
	err := scan(
		&sale.ID, &sale.ProductID, &sale.SalesPersonID, &sale.CustomerID, &sale.Date,
		&sale.Product.ID, &sale.Product.Name, &sale.Product.Manufacturer, &sale.Product.Style,
		&sale.Product.PurchasePrice, &sale.Product.SalePrice, &sale.Product.QtyOnHand, &sale.Product.CommissionPercentage,
		&sale.SalesPerson.ID, &sale.SalesPerson.FirstName, &sale.SalesPerson.LastName, &sale.SalesPerson.Address,
		&sale.SalesPerson.Phone, &sale.SalesPerson.StartDate, &termination, &sale.SalesPerson.Manager,
		&sale.Customer.ID, &sale.Customer.FirstName, &sale.Customer.LastName, &sale.Customer.Address,
		&sale.Customer.Phone, &sale.Customer.StartDate,
	)
	if err != nil {
		return domain.Sale{}, err
	}
	if termination.Valid {
		d := domain.DateOf(termination.Time)
		sale.SalesPerson.TerminationDate = &d
	}
	return sale, nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+saleColumns+saleJoins+` ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 128)
	for rows.Next() {
		sale, err := scanSale(rows.Scan)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (s *Store) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+saleColumns+saleJoins+` WHERE s.id = $1`, id)
	sale, err := scanSale(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sales (product_id, sales_person_id, customer_id, sale_date)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, sale.ProductID, sale.SalesPersonID, sale.CustomerID, sale.Date).Scan(&sale.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	return s.GetSale(ctx, sale.ID)
}
