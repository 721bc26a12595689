package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-be/internal/logger"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects published by the storefront.
const (
	SubjectOrderCreated       = "orders.created"
	SubjectOrderStatusChanged = "orders.status_changed"
)

type OrderCreated struct {
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	UserID        *uint     `json:"userId"`
	TotalAmount   string    `json:"totalAmount"`
	PaymentMethod string    `json:"paymentMethod"`
	ItemCount     int       `json:"itemCount"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}

type OrderStatusChanged struct {
	OrderID       string    `json:"orderId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	PaymentStatus string    `json:"paymentStatus"`
	ChangedAt     time.Time `json:"changedAt"`
}

// Publisher sends domain events. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close()
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	Close()
}

type natsPublisher struct {
	nc conn
}

// NewNATSPublisher connects to url. The connection reconnects forever so a
// NATS restart does not need a storefront restart.
func NewNATSPublisher(url string) (Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("storefront-be"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.L().Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.L().Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &natsPublisher{nc: nc}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	logger.FromCtx(ctx).Debug("event published",
		zap.String("subject", subject),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

// Noop is used when NATS_URL is not configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close()                                     {}

// New returns a NATS publisher for url, or Noop when url is empty.
func New(url string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(url)
}
