package category

import (
	"context"
	"errors"
	"strings"

	"storefront-be/internal/apperr"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"
	"storefront-be/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, search string) ([]*Category, error)
	Create(ctx context.Context, in CreateInput) (*Category, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, search string) ([]*Category, error) {
	categories, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Internal(err, "category.list", "failed to list categories")
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Category, error) {
	const op = "category.create"
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.String("name", in.Name),
	)

	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	slug := utils.Slugify(in.Name)
	if slug == "" {
		return nil, apperr.Validation(op, map[string]string{"name": "must contain letters or digits"})
	}

	c := &Category{Name: in.Name, Slug: slug}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrDuplicateCategory) {
			return nil, apperr.Conflict(op, "category already exists")
		}
		log.Error("failed to create category", zap.Error(err))
		return nil, apperr.Internal(err, op, "failed to create category")
	}

	log.Info("category created", zap.String("category_id", c.ID))
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	const op = "category.delete"

	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(op, "category", id)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(err, op, "failed to delete category")
	}
	if !deleted {
		return apperr.NotFound(op, "category", id)
	}
	return nil
}
