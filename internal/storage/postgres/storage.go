package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/ordernum"
)

// pgxPool is the subset of pgxpool.Pool the storage uses; it lets tests swap
// in a pgxmock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type catalogRepository struct {
	storage *Storage
}

type stockRepository struct {
	storage *Storage
}

// New creates storage with schema initialization. Decimal codecs are
// registered per connection so NUMERIC columns scan into decimal.Decimal.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Catalog() repository.ProductCatalog {
	return &catalogRepository{storage: s}
}

func (s *Storage) Stock() repository.StockLedger {
	return &stockRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'customer',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id SERIAL PRIMARY KEY,
            vendor_id BIGINT NOT NULL,
            name TEXT NOT NULL,
            sku TEXT NOT NULL,
            image_url TEXT NOT NULL DEFAULT '',
            price NUMERIC(12,2) NOT NULL,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            track_quantity BOOLEAN NOT NULL DEFAULT TRUE,
            allow_backorder BOOLEAN NOT NULL DEFAULT FALSE,
            quantity INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS product_variants (
            id SERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL REFERENCES products(id),
            name TEXT NOT NULL,
            price_adjustment NUMERIC(12,2) NOT NULL DEFAULT 0,
            active BOOLEAN NOT NULL DEFAULT TRUE,
            quantity INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            customer_id BIGINT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL,
            payment_status TEXT NOT NULL DEFAULT 'PENDING',
            subtotal NUMERIC(12,2) NOT NULL,
            shipping_cost NUMERIC(12,2) NOT NULL,
            tax_amount NUMERIC(12,2) NOT NULL,
            discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            total_amount NUMERIC(12,2) NOT NULL,
            shipping_address TEXT NOT NULL,
            billing_address TEXT NOT NULL,
            shipping_method TEXT NOT NULL,
            tracking_number TEXT,
            notes TEXT NOT NULL DEFAULT '',
            cancellation_reason TEXT,
            cancelled_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL,
            variant_id BIGINT,
            vendor_id BIGINT NOT NULL,
            product_name TEXT NOT NULL,
            product_sku TEXT NOT NULL,
            variant_name TEXT NOT NULL DEFAULT '',
            image_url TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL,
            total_price NUMERIC(12,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_tracking (
            id SERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            status TEXT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            tracking_number TEXT,
            location TEXT,
            actor_id BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_sequences (
            day DATE PRIMARY KEY,
            value INT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_vendor ON order_items(vendor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_tracking_order ON order_tracking(order_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

const maxTxAttempts = 3

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure / deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// withRetry re-runs a transactional unit a bounded number of times on
// serialization or deadlock failures. Business errors pass through untouched.
func (s *Storage) withRetry(ctx context.Context, fn func(pgx.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.WithinTransaction(ctx, fn)
		if err == nil || !isTransient(err) {
			return err
		}
		s.logger.Warn("transient transaction failure, retrying",
			slog.Int("attempt", attempt), slog.String("error", err.Error()))
	}
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, string(role)).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- ProductCatalog implementation ---

func (r *catalogRepository) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	const query = `SELECT id, vendor_id, name, sku, image_url, price, active, track_quantity, allow_backorder, quantity
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.VendorID, &p.Name, &p.SKU, &p.ImageURL, &p.Price,
		&p.Active, &p.TrackQuantity, &p.AllowBackorder, &p.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainErrors.ProductNotFoundError{ProductID: productID}
		}
		return nil, err
	}
	if !p.Active {
		return nil, &domainErrors.ProductNotFoundError{ProductID: productID}
	}
	return &p, nil
}

func (r *catalogRepository) GetVariant(ctx context.Context, productID, variantID int64) (*model.Variant, error) {
	const query = `SELECT id, product_id, name, price_adjustment, active, quantity
                   FROM product_variants WHERE id=$1 AND product_id=$2`
	var v model.Variant
	err := r.storage.pool.QueryRow(ctx, query, variantID, productID).Scan(
		&v.ID, &v.ProductID, &v.Name, &v.PriceAdjustment, &v.Active, &v.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainErrors.VariantNotFoundError{ProductID: productID, VariantID: variantID}
		}
		return nil, err
	}
	if !v.Active {
		return nil, &domainErrors.VariantNotFoundError{ProductID: productID, VariantID: variantID}
	}
	return &v, nil
}

// --- StockLedger implementation ---

func (r *stockRepository) Availability(ctx context.Context, productID int64, variantID *int64) (model.StockInfo, error) {
	if variantID != nil {
		const query = `SELECT v.quantity, p.track_quantity, p.allow_backorder
                       FROM product_variants v JOIN products p ON p.id = v.product_id
                       WHERE v.id=$1 AND v.product_id=$2`
		var info model.StockInfo
		err := r.storage.pool.QueryRow(ctx, query, *variantID, productID).Scan(
			&info.Quantity, &info.TrackQuantity, &info.AllowBackorder)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.StockInfo{}, &domainErrors.VariantNotFoundError{ProductID: productID, VariantID: *variantID}
			}
			return model.StockInfo{}, err
		}
		return info, nil
	}

	const query = `SELECT quantity, track_quantity, allow_backorder FROM products WHERE id=$1`
	var info model.StockInfo
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(
		&info.Quantity, &info.TrackQuantity, &info.AllowBackorder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StockInfo{}, &domainErrors.ProductNotFoundError{ProductID: productID}
		}
		return model.StockInfo{}, err
	}
	return info, nil
}

// Tx-scoped stock mutations. The decrement is a single conditional write:
// zero rows affected means the remaining stock cannot cover the amount.

func (s *Storage) decrementStockTx(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, amount int32) error {
	const decProduct = `UPDATE products SET quantity = quantity - $1
                        WHERE id = $2 AND (NOT track_quantity OR allow_backorder OR quantity >= $1)`
	tag, err := tx.Exec(ctx, decProduct, amount, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.stockShortageTx(ctx, tx, productID, nil, amount)
	}

	if variantID == nil {
		return nil
	}

	const decVariant = `UPDATE product_variants v SET quantity = v.quantity - $1
                        FROM products p
                        WHERE v.id = $2 AND v.product_id = p.id
                          AND (NOT p.track_quantity OR p.allow_backorder OR v.quantity >= $1)`
	tag, err = tx.Exec(ctx, decVariant, amount, *variantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.stockShortageTx(ctx, tx, productID, variantID, amount)
	}
	return nil
}

// stockShortageTx reads the counter back to build a precise shortage error.
func (s *Storage) stockShortageTx(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, amount int32) error {
	var available int32
	var err error
	if variantID != nil {
		err = tx.QueryRow(ctx, `SELECT quantity FROM product_variants WHERE id=$1`, *variantID).Scan(&available)
	} else {
		err = tx.QueryRow(ctx, `SELECT quantity FROM products WHERE id=$1`, productID).Scan(&available)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domainErrors.ProductNotFoundError{ProductID: productID}
		}
		return err
	}
	return &domainErrors.InsufficientStockError{
		ProductID: productID,
		VariantID: variantID,
		Requested: amount,
		Available: available,
	}
}

// restoreStockTx mirrors decrementStockTx exactly: every counter the
// decrement touched gets the same amount back, tracked or not.
func (s *Storage) restoreStockTx(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, amount int32) error {
	const incProduct = `UPDATE products SET quantity = quantity + $1 WHERE id = $2`
	if _, err := tx.Exec(ctx, incProduct, amount, productID); err != nil {
		return err
	}
	if variantID == nil {
		return nil
	}
	const incVariant = `UPDATE product_variants SET quantity = quantity + $1 WHERE id = $2`
	_, err := tx.Exec(ctx, incVariant, amount, *variantID)
	return err
}

// nextSequenceTx allocates the next per-day counter value. The upsert holds a
// row lock on the day until commit, serializing same-day order creation.
func (s *Storage) nextSequenceTx(ctx context.Context, tx pgx.Tx, day time.Time) (int, error) {
	const query = `INSERT INTO order_sequences (day, value) VALUES ($1, 1)
                   ON CONFLICT (day) DO UPDATE SET value = order_sequences.value + 1
                   RETURNING value`
	var value int
	if err := tx.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&value); err != nil {
		return 0, err
	}
	if value > ordernum.MaxPerDay {
		return 0, domainErrors.ErrSequenceExhausted
	}
	return value, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, draft *model.Order) (*model.Order, error) {
	var orderID int64
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		seq, err := r.storage.nextSequenceTx(ctx, tx, now)
		if err != nil {
			return err
		}
		number, err := ordernum.Format(now, seq)
		if err != nil {
			return err
		}

		const insertOrder = `INSERT INTO orders
            (number, customer_id, status, payment_status, subtotal, shipping_cost, tax_amount,
             discount_amount, total_amount, shipping_address, billing_address, shipping_method, notes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
            RETURNING id`
		err = tx.QueryRow(ctx, insertOrder,
			number, draft.CustomerID, string(model.OrderStatusPending), string(model.PaymentStatusPending),
			draft.Subtotal, draft.ShippingCost, draft.TaxAmount, draft.DiscountAmount, draft.TotalAmount,
			draft.ShippingAddress, draft.BillingAddress, string(draft.ShippingMethod), draft.Notes,
		).Scan(&orderID)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items
            (order_id, product_id, variant_id, vendor_id, product_name, product_sku,
             variant_name, image_url, quantity, unit_price, total_price)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		for _, item := range draft.Items {
			if _, err := tx.Exec(ctx, insertItem,
				orderID, item.ProductID, item.VariantID, item.VendorID, item.ProductName,
				item.ProductSKU, item.VariantName, item.ImageURL, item.Quantity,
				item.UnitPrice, item.TotalPrice); err != nil {
				return err
			}
			if err := r.storage.decrementStockTx(ctx, tx, item.ProductID, item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		const insertTracking = `INSERT INTO order_tracking (order_id, status, note, actor_id)
                                VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(ctx, insertTracking, orderID, string(model.OrderStatusPending), "Order created", draft.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, orderID)
}

const orderColumns = `id, number, customer_id, status, payment_status, subtotal, shipping_cost, tax_amount, discount_amount, total_amount, shipping_address, billing_address, shipping_method, tracking_number, notes, cancellation_reason, cancelled_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.ShippingCost, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.ShippingAddress, &o.BillingAddress, &o.ShippingMethod, &o.TrackingNumber,
		&o.Notes, &o.CancelReason, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if order.Items, err = r.itemsFor(ctx, order.ID); err != nil {
		return nil, err
	}
	if order.Tracking, err = r.trackingFor(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	const query = `SELECT id FROM orders WHERE number=$1`
	var id int64
	if err := r.storage.pool.QueryRow(ctx, query, number).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepository) itemsFor(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, variant_id, vendor_id, product_name,
                          product_sku, variant_name, image_url, quantity, unit_price, total_price
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.VendorID,
			&it.ProductName, &it.ProductSKU, &it.VariantName, &it.ImageURL,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) trackingFor(ctx context.Context, orderID int64) ([]model.TrackingEntry, error) {
	const query = `SELECT id, order_id, status, note, tracking_number, location, actor_id, created_at
                   FROM order_tracking WHERE order_id=$1 ORDER BY created_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TrackingEntry
	for rows.Next() {
		var e model.TrackingEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Note, &e.TrackingNumber,
			&e.Location, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *orderRepository) Search(ctx context.Context, filter repository.SearchFilter) ([]model.Order, int64, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.NumberContains != "" {
		conds = append(conds, "o.number ILIKE "+arg("%"+filter.NumberContains+"%"))
	}
	if filter.Status != nil {
		conds = append(conds, "o.status = "+arg(string(*filter.Status)))
	}
	if filter.CustomerID != nil {
		conds = append(conds, "o.customer_id = "+arg(*filter.CustomerID))
	}
	if filter.VendorID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.vendor_id = "+arg(*filter.VendorID)+")")
	}
	if filter.From != nil {
		conds = append(conds, "o.created_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "o.created_at <= "+arg(*filter.To))
	}
	if filter.MinTotal != nil {
		conds = append(conds, "o.total_amount >= "+arg(*filter.MinTotal))
	}
	if filter.MaxTotal != nil {
		conds = append(conds, "o.total_amount <= "+arg(*filter.MaxTotal))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM orders o" + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := "o.created_at"
	switch filter.SortBy {
	case repository.SortByTotal:
		sortColumn = "o.total_amount"
	case repository.SortByStatus:
		sortColumn = "o.status"
	}
	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	query := "SELECT " + qualifyOrderColumns("o") + " FROM orders o" + where +
		fmt.Sprintf(" ORDER BY %s %s, o.id %s", sortColumn, direction, direction) +
		" LIMIT " + arg(size) + " OFFSET " + arg((page-1)*size)

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func qualifyOrderColumns(alias string) string {
	cols := strings.Split(orderColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, next model.OrderStatus, entry model.TrackingEntry) (*model.Order, error) {
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var current model.OrderStatus
		if err := tx.QueryRow(ctx, lockQuery, orderID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if err := current.CanTransition(next); err != nil {
			return err
		}

		const updateQuery = `UPDATE orders SET status=$1,
                             tracking_number=COALESCE($2, tracking_number),
                             updated_at=NOW()
                             WHERE id=$3`
		if _, err := tx.Exec(ctx, updateQuery, string(next), entry.TrackingNumber, orderID); err != nil {
			return err
		}

		const insertTracking = `INSERT INTO order_tracking
            (order_id, status, note, tracking_number, location, actor_id)
            VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := tx.Exec(ctx, insertTracking, orderID, string(next), entry.Note,
			entry.TrackingNumber, entry.Location, entry.ActorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) Cancel(ctx context.Context, orderID, customerID int64, reason string) error {
	return r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		const lockQuery = `SELECT customer_id, status FROM orders WHERE id=$1 FOR UPDATE`
		var (
			owner  int64
			status model.OrderStatus
		)
		if err := tx.QueryRow(ctx, lockQuery, orderID).Scan(&owner, &status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if owner != customerID {
			return domainErrors.ErrForbidden
		}
		if status.Terminal() {
			return domainErrors.ErrOrderNotCancellable
		}

		const updateQuery = `UPDATE orders SET status=$1, cancellation_reason=$2,
                             cancelled_at=NOW(), updated_at=NOW() WHERE id=$3`
		if _, err := tx.Exec(ctx, updateQuery, string(model.OrderStatusCancelled), reason, orderID); err != nil {
			return err
		}

		const insertTracking = `INSERT INTO order_tracking (order_id, status, note, actor_id)
                                VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, insertTracking, orderID, string(model.OrderStatusCancelled), reason, customerID); err != nil {
			return err
		}

		const itemsQuery = `SELECT product_id, variant_id, quantity FROM order_items WHERE order_id=$1`
		rows, err := tx.Query(ctx, itemsQuery, orderID)
		if err != nil {
			return err
		}
		type line struct {
			productID int64
			variantID *int64
			quantity  int32
		}
		var lines []line
		for rows.Next() {
			var l line
			if err := rows.Scan(&l.productID, &l.variantID, &l.quantity); err != nil {
				rows.Close()
				return err
			}
			lines = append(lines, l)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, l := range lines {
			if err := r.storage.restoreStockTx(ctx, tx, l.productID, l.variantID, l.quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) Stats(ctx context.Context, vendorID *int64, from, to *time.Time) (*model.OrderStats, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if vendorID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id AND oi.vendor_id = "+arg(*vendorID)+")")
	}
	if from != nil {
		conds = append(conds, "o.created_at >= "+arg(*from))
	}
	if to != nil {
		conds = append(conds, "o.created_at <= "+arg(*to))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	notCancelled := " WHERE o.status <> 'CANCELLED'"
	if len(conds) > 0 {
		notCancelled = where + " AND o.status <> 'CANCELLED'"
	}

	stats := &model.OrderStats{
		StatusCounts:      make(map[model.OrderStatus]int64),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	countQuery := "SELECT o.status, COUNT(*) FROM orders o" + where + " GROUP BY o.status"
	rows, err := r.storage.pool.Query(ctx, countQuery, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			status model.OrderStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.StatusCounts[status] = count
		stats.TotalOrders += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	revenueQuery := "SELECT COALESCE(SUM(o.total_amount), 0), COALESCE(AVG(o.total_amount), 0) FROM orders o" + notCancelled
	if err := r.storage.pool.QueryRow(ctx, revenueQuery, args...).Scan(&stats.TotalRevenue, &stats.AverageOrderValue); err != nil {
		return nil, err
	}

	dailyQuery := "SELECT DATE(o.created_at), COUNT(*), COALESCE(SUM(o.total_amount), 0) FROM orders o" +
		notCancelled + " AND o.created_at >= NOW() - INTERVAL '30 days' GROUP BY 1 ORDER BY 1"
	rows, err = r.storage.pool.Query(ctx, dailyQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var day model.DailyStat
		if err := rows.Scan(&day.Day, &day.Orders, &day.Revenue); err != nil {
			return nil, err
		}
		stats.Daily = append(stats.Daily, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	const query = `UPDATE orders SET payment_status=$1, updated_at=NOW() WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, string(status), orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SelectPaymentPending(ctx context.Context, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE payment_status=$1 AND status <> $2
              ORDER BY created_at LIMIT $3`
	rows, err := r.storage.pool.Query(ctx, query,
		string(model.PaymentStatusPending), string(model.OrderStatusCancelled), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}
