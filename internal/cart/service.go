package cart

import (
	"context"
	"errors"
	"time"

	"storefront-be/internal/apperr"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"
	"storefront-be/internal/validation"

	"go.uber.org/zap"
)

// ProductReader is the catalog lookup the cart needs. product.Service
// implements it.
type ProductReader interface {
	Get(ctx context.Context, id string) (*product.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*product.Product, error)
}

type Service interface {
	GetOrCreate(ctx context.Context, ownerID uint) (*Cart, error)
	Get(ctx context.Context, ownerID uint) (*View, error)
	AddItem(ctx context.Context, ownerID uint, in AddItemInput) (*View, error)
	RemoveItem(ctx context.Context, ownerID uint, in RemoveItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, ownerID uint, in UpdateQuantityInput) (*View, error)
	Clear(ctx context.Context, ownerID uint) (*View, error)
	Populate(ctx context.Context, c *Cart) (*View, error)
}

type service struct {
	repo     Repository
	products ProductReader
	metrics  *metrics.Business
	now      func() time.Time
}

func NewService(repo Repository, products ProductReader, m *metrics.Business) Service {
	return &service{
		repo:     repo,
		products: products,
		metrics:  m,
		now:      time.Now,
	}
}

// GetOrCreate returns the owner's cart, creating an empty one on first use.
func (s *service) GetOrCreate(ctx context.Context, ownerID uint) (*Cart, error) {
	const op = "cart.get_or_create"

	c, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to load cart")
	}
	if c != nil {
		return c, nil
	}

	c, err = s.repo.Create(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to create cart")
	}

	logger.FromCtx(ctx).Info("cart created",
		zap.String("layer", "service"),
		zap.Uint("owner_id", ownerID),
		zap.String("cart_id", c.ID),
	)
	return c, nil
}

func (s *service) Get(ctx context.Context, ownerID uint) (*View, error) {
	c, err := s.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Populate(ctx, c)
}

func (s *service) AddItem(ctx context.Context, ownerID uint, in AddItemInput) (*View, error) {
	const op = "cart.add_item"
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("owner_id", ownerID),
		zap.String("product_id", in.ProductID),
	)

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}

	p, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return nil, apperr.Wrap(err, op, "failed to load product")
	}

	c, err := s.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.Add(p.ID, quantity, p.Price, s.now())

	if err := s.save(ctx, op, c); err != nil {
		return nil, err
	}

	s.metrics.CartMutation("add_item")
	log.Info("item added", zap.Int("quantity", quantity), zap.Int("total_items", c.TotalItems))
	return s.Populate(ctx, c)
}

// RemoveItem is a no-op for products that are not in the cart.
func (s *service) RemoveItem(ctx context.Context, ownerID uint, in RemoveItemInput) (*View, error) {
	const op = "cart.remove_item"

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	c, err := s.existing(ctx, op, ownerID)
	if err != nil {
		return nil, err
	}

	removed := c.Remove(in.ProductID)
	if err := s.save(ctx, op, c); err != nil {
		return nil, err
	}

	s.metrics.CartMutation("remove_item")
	logger.FromCtx(ctx).Info("item removed",
		zap.String("layer", "service"),
		zap.Uint("owner_id", ownerID),
		zap.String("product_id", in.ProductID),
		zap.Bool("was_present", removed),
	)
	return s.Populate(ctx, c)
}

func (s *service) UpdateQuantity(ctx context.Context, ownerID uint, in UpdateQuantityInput) (*View, error) {
	const op = "cart.update_quantity"

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	c, err := s.existing(ctx, op, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.Step(in.ProductID, in.Type); err != nil {
		switch {
		case errors.Is(err, ErrCartItemNotFound):
			return nil, apperr.NotFound(op, "cart item", in.ProductID)
		case errors.Is(err, ErrInvalidDirection):
			return nil, apperr.Validation(op, map[string]string{"type": "must be one of increment decrement"})
		}
		return nil, apperr.Internal(err, op, "failed to update quantity")
	}

	if err := s.save(ctx, op, c); err != nil {
		return nil, err
	}

	s.metrics.CartMutation(string(in.Type))
	return s.Populate(ctx, c)
}

func (s *service) Clear(ctx context.Context, ownerID uint) (*View, error) {
	const op = "cart.clear"

	c, err := s.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.Clear()
	if err := s.save(ctx, op, c); err != nil {
		return nil, err
	}

	s.metrics.CartMutation("clear")
	return s.Populate(ctx, c)
}

// Populate resolves every line against the live catalog.
func (s *service) Populate(ctx context.Context, c *Cart) (*View, error) {
	products, err := s.products.GetMany(ctx, c.ProductIDs())
	if err != nil {
		return nil, apperr.Wrap(err, "cart.populate", "failed to load cart products")
	}
	return toView(c, products), nil
}

func (s *service) existing(ctx context.Context, op string, ownerID uint) (*Cart, error) {
	c, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to load cart")
	}
	if c == nil {
		return nil, apperr.NotFound(op, "cart", "for current user")
	}
	return c, nil
}

func (s *service) save(ctx context.Context, op string, c *Cart) error {
	if err := s.repo.Save(ctx, c); err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return apperr.NotFound(op, "cart", c.ID)
		}
		logger.FromCtx(ctx).Error("failed to save cart",
			zap.String("layer", "service"),
			zap.String("cart_id", c.ID),
			zap.Error(err),
		)
		return apperr.Internal(err, op, "failed to save cart")
	}
	return nil
}
