package product

import (
	"context"
	"errors"

	"storefront-be/internal/apperr"
	"storefront-be/internal/logger"
	"storefront-be/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]*Product, int, error)
	Get(ctx context.Context, id string) (*Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Product, error)
	Create(ctx context.Context, in CreateInput) (*Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Product, int, error) {
	const op = "product.list"

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperr.Validation(op, map[string]string{"status": "must be one of Active Draft OutOfStock"})
	}
	if filter.CategoryID != "" {
		if _, err := uuid.Parse(filter.CategoryID); err != nil {
			return nil, 0, apperr.Validation(op, map[string]string{"categoryId": "must be a valid id"})
		}
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, op, "failed to list products")
	}
	return products, total, nil
}

// Get returns the product or a not found error. Malformed ids cannot exist
// and are reported as not found.
func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	const op = "product.get"

	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(op, "product", id)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to get product")
	}
	if p == nil {
		return nil, apperr.NotFound(op, "product", id)
	}
	return p, nil
}

// GetMany resolves ids in one query. Malformed ids are skipped.
func (s *service) GetMany(ctx context.Context, ids []string) (map[string]*Product, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}

	products, err := s.repo.GetByIDs(ctx, valid)
	if err != nil {
		return nil, apperr.Internal(err, "product.get_many", "failed to load products")
	}
	return products, nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	const op = "product.create"
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	p := newProduct(in)
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, apperr.Validation(op, map[string]string{"categoryId": err.Error()})
		}
		log.Error("failed to create product", zap.Error(err))
		return nil, apperr.Internal(err, op, "failed to create product")
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, in UpdateInput) (*Product, error) {
	const op = "product.update"

	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}
	if in.empty() {
		return nil, apperr.Invalid(op, "no fields to update")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(p, in)

	if err := s.repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			return nil, apperr.NotFound(op, "product", id)
		case errors.Is(err, ErrCategoryNotFound):
			return nil, apperr.Validation(op, map[string]string{"categoryId": err.Error()})
		}
		return nil, apperr.Internal(err, op, "failed to update product")
	}

	logger.FromCtx(ctx).Info("product updated",
		zap.String("layer", "service"),
		zap.String("product_id", id),
	)
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	const op = "product.delete"

	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(op, "product", id)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err, op, "failed to delete product")
	}
	if !deleted {
		return apperr.NotFound(op, "product", id)
	}
	return nil
}
