package order

import (
	"context"
	"errors"

	"storefront-be/internal/apperr"
	"storefront-be/internal/events"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"
	"storefront-be/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// totalTolerance is how far a client total may drift from the recomputed one
// when totals are verified.
var totalTolerance = decimal.New(1, -2)

// Order sources, used for metrics and events.
const (
	SourceAPI      = "api"
	SourceCheckout = "checkout"
)

// Policy holds the configurable order rules.
type Policy struct {
	// VerifyTotal recomputes items plus shipping and rejects a client total
	// that differs by more than 0.01. Off by default: the total is stored as sent.
	VerifyTotal bool
	// StrictTransitions enforces CanTransition on status updates. Off by
	// default: any status may be set from any other.
	StrictTransitions bool
	// DefaultShipping is used when an order omits shippingCost.
	DefaultShipping decimal.Decimal
}

type ProductReader interface {
	GetMany(ctx context.Context, ids []string) (map[string]*product.Product, error)
}

type Service interface {
	// Build validates in and returns the order it describes without storing it.
	Build(in CreateInput, userID *uint) (*Order, error)
	Create(ctx context.Context, in CreateInput, userID *uint) (*Order, error)
	// NotifyCreated records metrics and publishes the created event for an
	// order stored outside Create.
	NotifyCreated(ctx context.Context, o *Order, source string)
	List(ctx context.Context, filter ListFilter) ([]*Order, int, error)
	Get(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, in UpdateStatusInput) (*Order, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo      Repository
	products  ProductReader
	publisher events.Publisher
	metrics   *metrics.Business
	policy    Policy
}

func NewService(repo Repository, products ProductReader, publisher events.Publisher, m *metrics.Business, policy Policy) Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{
		repo:      repo,
		products:  products,
		publisher: publisher,
		metrics:   m,
		policy:    policy,
	}
}

func (s *service) Build(in CreateInput, userID *uint) (*Order, error) {
	const op = "order.create"

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	shipping := s.policy.DefaultShipping
	if in.ShippingCost != nil {
		shipping = *in.ShippingCost
	}

	items := make([]Item, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		items = append(items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if s.policy.VerifyTotal {
		expected := subtotal.Add(shipping)
		if expected.Sub(*in.TotalAmount).Abs().GreaterThan(totalTolerance) {
			return nil, apperr.Validation(op, map[string]string{
				"totalAmount": "must equal items plus shipping (" + expected.StringFixed(2) + ")",
			})
		}
	}

	return &Order{
		OrderNumber:   utils.GenerateOrderNumber(),
		UserID:        userID,
		CustomerInfo:  in.CustomerInfo,
		Items:         items,
		TotalAmount:   *in.TotalAmount,
		ShippingCost:  shipping,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: PaymentPending,
		Status:        StatusPending,
		Notes:         in.Notes,
	}, nil
}

// Create stores a new order. It never touches the caller's cart.
func (s *service) Create(ctx context.Context, in CreateInput, userID *uint) (*Order, error) {
	const op = "order.create"
	timer := metrics.StartTimer()
	defer s.metrics.Observe(op, timer)

	o, err := s.Build(in, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, apperr.Internal(err, op, "failed to create order")
	}

	s.NotifyCreated(ctx, o, SourceAPI)
	return o, nil
}

func (s *service) NotifyCreated(ctx context.Context, o *Order, source string) {
	s.metrics.OrderCreated(string(o.PaymentMethod), source, o.TotalAmount, o.ItemCount())

	logger.FromCtx(ctx).Info("order created",
		zap.String("layer", "service"),
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Bool("guest", o.UserID == nil),
		zap.String("source", source),
		zap.String("total", o.TotalAmount.String()),
	)

	s.publish(ctx, events.SubjectOrderCreated, events.OrderCreated{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount.String(),
		PaymentMethod: string(o.PaymentMethod),
		ItemCount:     o.ItemCount(),
		Source:        source,
		CreatedAt:     o.CreatedAt,
	})
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Order, int, error) {
	const op = "order.list"

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Validation(op, map[string]string{
			"status": "must be one of Pending Processing Shipped Delivered Cancelled",
		})
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, op, "failed to list orders")
	}
	return orders, total, nil
}

// Get returns the order with each line's live product attached. Lines whose
// product was deleted keep only their snapshot.
func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	const op = "order.get"

	o, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if s.products != nil && len(o.Items) > 0 {
		products, err := s.products.GetMany(ctx, o.ProductIDs())
		if err != nil {
			return nil, apperr.Wrap(err, op, "failed to load order products")
		}
		for i := range o.Items {
			if p, ok := products[o.Items[i].ProductID]; ok {
				o.Items[i].Product = &ProductRef{
					ID:       p.ID,
					Name:     p.Name,
					ImageURL: p.ImageURL,
					Price:    p.Price,
					Status:   string(p.Status),
				}
			}
		}
	}
	return o, nil
}

// UpdateStatus sets the status. Delivered always forces the payment status
// to Paid.
func (s *service) UpdateStatus(ctx context.Context, id string, in UpdateStatusInput) (*Order, error) {
	const op = "order.update_status"
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id),
	)

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	o, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}

	from := o.Status
	if s.policy.StrictTransitions && !CanTransition(from, in.Status) {
		log.Warn("rejected status transition",
			zap.String("from", string(from)),
			zap.String("to", string(in.Status)),
		)
		return nil, apperr.Conflict(op, "cannot change status from "+string(from)+" to "+string(in.Status))
	}

	o.Status = in.Status
	if in.Status == StatusDelivered {
		o.PaymentStatus = PaymentPaid
	}

	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, apperr.NotFound(op, "order", id)
		}
		log.Error("update status failed", zap.Error(err))
		return nil, apperr.Internal(err, op, "failed to update order status")
	}

	s.metrics.StatusChanged(string(from), string(o.Status))
	log.Info("order status updated",
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
		zap.String("payment_status", string(o.PaymentStatus)),
	)

	s.publish(ctx, events.SubjectOrderStatusChanged, events.OrderStatusChanged{
		OrderID:       o.ID,
		From:          string(from),
		To:            string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		ChangedAt:     o.UpdatedAt,
	})
	return o, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	const op = "order.delete"

	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(op, "order", id)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err, op, "failed to delete order")
	}
	if !deleted {
		return apperr.NotFound(op, "order", id)
	}

	logger.FromCtx(ctx).Info("order deleted", zap.String("layer", "service"), zap.String("order_id", id))
	return nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	sum, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "order.summary", "failed to summarize orders")
	}
	return sum, nil
}

func (s *service) find(ctx context.Context, op, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(op, "order", id)
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to load order")
	}
	if o == nil {
		return nil, apperr.NotFound(op, "order", id)
	}
	return o, nil
}

func (s *service) publish(ctx context.Context, subject string, event any) {
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		logger.FromCtx(ctx).Warn("event publish failed",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
