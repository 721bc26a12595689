package checkout

import (
	"context"
	"fmt"
	"strings"

	"storefront-be/internal/apperr"
	"storefront-be/internal/cart"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductReader interface {
	GetMany(ctx context.Context, ids []string) (map[string]*product.Product, error)
}

type Service interface {
	Checkout(ctx context.Context, ownerID uint, in Input) (*order.Order, error)
}

type service struct {
	db       db.TxBeginner
	carts    cart.Repository
	orders   order.Repository
	orderSvc order.Service
	products ProductReader
	shipping decimal.Decimal
	metrics  *metrics.Business
}

func NewService(
	conn db.TxBeginner,
	carts cart.Repository,
	orders order.Repository,
	orderSvc order.Service,
	products ProductReader,
	shipping decimal.Decimal,
	m *metrics.Business,
) Service {
	return &service{
		db:       conn,
		carts:    carts,
		orders:   orders,
		orderSvc: orderSvc,
		products: products,
		shipping: shipping,
		metrics:  m,
	}
}

// Checkout turns the owner's cart into an order in one transaction: the cart
// row is locked, snapshotted into the order and cleared before commit.
func (s *service) Checkout(ctx context.Context, ownerID uint, in Input) (o *order.Order, err error) {
	const op = "checkout"
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Uint("owner_id", ownerID),
	)

	defer func() {
		s.metrics.Observe(op, timer)
		s.metrics.Checkout(apperr.Code(err))
	}()

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to start checkout")
	}
	defer tx.Rollback()

	carts := s.carts.WithTx(tx)

	c, err := carts.GetByOwnerForUpdate(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to load cart")
	}
	if c == nil || c.IsEmpty() {
		return nil, apperr.Validation(op, map[string]string{"cart": "must contain at least 1 item(s)"})
	}
	if in.CartVersion != nil && *in.CartVersion != c.Version {
		log.Warn("stale cart version",
			zap.Int("expected", *in.CartVersion),
			zap.Int("actual", c.Version),
		)
		return nil, apperr.Conflict(op, "cart has changed since it was last read")
	}

	products, err := s.products.GetMany(ctx, c.ProductIDs())
	if err != nil {
		return nil, apperr.Wrap(err, op, "failed to load cart products")
	}
	if missing := missingProducts(c, products); len(missing) > 0 {
		return nil, apperr.Conflict(op, fmt.Sprintf("products no longer available: %s", strings.Join(missing, ", ")))
	}

	o, err = s.orderSvc.Build(
		BuildOrderInput(c, products, in.CustomerInfo, s.shipping, in.PaymentMethod, in.Notes),
		&ownerID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.orders.WithTx(tx).Create(ctx, o); err != nil {
		return nil, apperr.Internal(err, op, "failed to create order")
	}

	c.Clear()
	if err := carts.Save(ctx, c); err != nil {
		return nil, apperr.Internal(err, op, "failed to clear cart")
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.Error(err))
		return nil, apperr.Internal(err, op, "failed to complete checkout")
	}

	s.orderSvc.NotifyCreated(ctx, o, order.SourceCheckout)
	return o, nil
}

func missingProducts(c *cart.Cart, products map[string]*product.Product) []string {
	var missing []string
	for _, id := range c.ProductIDs() {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
