package user

import (
	"context"
	"errors"
	"strings"

	"storefront-be/internal/apperr"
	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/validation"

	"go.uber.org/zap"
)

// TokenIssuer signs access tokens. *auth.Manager implements it.
type TokenIssuer interface {
	Generate(userID uint, email string, role auth.Role) (string, error)
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]*User, int, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "user.register"
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperr.Internal(err, op, "failed to register")
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         auth.RoleUser,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, apperr.Conflict(op, ErrEmailExists.Error())
		}
		return nil, apperr.Internal(err, op, "failed to register")
	}

	token, err := s.tokens.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, apperr.Internal(err, op, "failed to issue token")
	}

	log.Info("user registered", zap.Uint("user_id", u.ID))
	return &AuthResult{Token: token, User: u}, nil
}

func (s *service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	const op = "user.login"

	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(op, in); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to login")
	}
	if u == nil || !CheckPasswordHash(in.Password, u.PasswordHash) {
		logger.FromCtx(ctx).Info("login rejected", zap.String("layer", "service"))
		return nil, apperr.Unauthorized(op, "invalid email or password")
	}

	token, err := s.tokens.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Internal(err, op, "failed to issue token")
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *service) ListCustomers(ctx context.Context, filter ListFilter) ([]*User, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	users, total, err := s.repo.ListCustomers(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Internal(err, "user.list_customers", "failed to list customers")
	}
	return users, total, nil
}

// EnsureAdmin creates the bootstrap admin account if it does not exist yet.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	const op = "user.ensure_admin"
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return apperr.Internal(err, op, "failed to look up admin")
	}
	if existing != nil {
		return nil
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return apperr.Internal(err, op, "failed to hash admin password")
	}

	u := &User{Name: "Administrator", Email: email, Role: auth.RoleAdmin, PasswordHash: hashed}
	if err := s.repo.Create(ctx, u); err != nil && !errors.Is(err, ErrEmailExists) {
		return apperr.Internal(err, op, "failed to create admin")
	}

	logger.FromCtx(ctx).Info("bootstrap admin created", zap.String("email", email))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
