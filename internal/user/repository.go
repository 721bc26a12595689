package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/auth"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]*User, int, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		logger.FromCtx(ctx).Error("db: failed to insert user",
			zap.String("layer", "repository"),
			zap.String("email", u.Email),
			zap.Error(err),
		)
	}
	return err
}

// FindByEmail returns nil, nil when no user has the email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password, role, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ListCustomers(ctx context.Context, filter ListFilter) ([]*User, int, error) {
	page, limit := utils.NormalizePage(filter.Page, filter.Limit)

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCustomers"),
		zap.String("search", filter.Search),
	)

	args := []any{auth.RoleUser}
	where := " WHERE u.role = $1"
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += " AND (u.name ILIKE $2 OR u.email ILIKE $2 OR u.phone ILIKE $2)"
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users u"+where, args...).Scan(&total); err != nil {
		log.Error("count customers failed", zap.Error(err))
		return nil, 0, err
	}

	query := "SELECT u.id, u.name, u.email, u.phone, u.role, u.created_at FROM users u" + where +
		fmt.Sprintf(" ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, utils.Offset(page, limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query customers failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, &u)
	}
	return users, total, rows.Err()
}
