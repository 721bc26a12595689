package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context, filter ListFilter) ([]*Order, int, error)
	// GetByID returns nil, nil when the order does not exist.
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) (bool, error)
	Summary(ctx context.Context) (*Summary, error)
	WithTx(tx *sql.Tx) Repository
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: tx}
}

const orderColumns = `
	o.id, o.order_number, o.user_id, o.customer_info, o.items,
	o.total_amount, o.shipping_cost, o.payment_method, o.payment_status,
	o.status, o.notes, o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var (
		o        Order
		userID   sql.NullInt64
		customer []byte
		items    []byte
	)
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&userID,
		&customer,
		&items,
		&o.TotalAmount,
		&o.ShippingCost,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.Status,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		uid := uint(userID.Int64)
		o.UserID = &uid
	}
	if err := json.Unmarshal(customer, &o.CustomerInfo); err != nil {
		return nil, fmt.Errorf("decode customer info: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if o.Items == nil {
		o.Items = []Item{}
	}
	return &o, nil
}

// Create inserts o and fills in its id and timestamps.
func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("order_number", o.OrderNumber),
	)

	customer, err := json.Marshal(o.CustomerInfo)
	if err != nil {
		return fmt.Errorf("encode customer info: %w", err)
	}

	// Product refs are resolved on read and never stored.
	snapshot := make([]Item, len(o.Items))
	for i, it := range o.Items {
		it.Product = nil
		snapshot[i] = it
	}
	items, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}

	var userID any
	if o.UserID != nil {
		userID = int64(*o.UserID)
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, user_id, customer_info, items,
			total_amount, shipping_cost, payment_method, payment_status,
			status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber,
		userID,
		customer,
		items,
		o.TotalAmount,
		o.ShippingCost,
		o.PaymentMethod,
		o.PaymentStatus,
		o.Status,
		o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("insert order failed", zap.Error(err))
		return err
	}

	log.Info("order inserted", zap.String("order_id", o.ID))
	return nil
}

// List searches customer name, phone and order number, newest first.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Order, int, error) {
	page, limit := utils.NormalizePage(filter.Page, filter.Limit)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.String("search", filter.Search),
		zap.Int("page", page),
		zap.Int("limit", limit),
	)

	where := []string{}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(o.customer_info->>'name' ILIKE $%d OR o.customer_info->>'phone' ILIKE $%d OR o.order_number ILIKE $%d)",
			n, n, n,
		))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders o"+whereSQL, args...).Scan(&total); err != nil {
		log.Error("count orders failed", zap.Error(err))
		return nil, 0, err
	}

	query := "SELECT" + orderColumns + " FROM orders o" + whereSQL +
		fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, utils.Offset(page, limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query orders failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, 0, err
	}

	log.Debug("list orders success", zap.Int("count", len(orders)), zap.Int("total", total))
	return orders, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+orderColumns+" FROM orders o WHERE o.id = $1", id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get order failed",
			zap.String("layer", "repository"),
			zap.String("order_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

// UpdateStatus writes the status and payment status of o.
func (r *repository) UpdateStatus(ctx context.Context, o *Order) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, o.ID, o.Status, o.PaymentStatus).Scan(&o.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Summary counts orders per status. Revenue excludes cancelled orders.
func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s := &Summary{Revenue: decimal.Zero, ByStatus: map[Status]int{}}
	for rows.Next() {
		var (
			status Status
			count  int
			amount decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, err
		}
		s.ByStatus[status] = count
		s.TotalOrders += count
		if status != StatusCancelled {
			s.Revenue = s.Revenue.Add(amount)
		}
	}
	return s, rows.Err()
}
