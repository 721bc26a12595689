package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// Repository stores one row per cart with the lines as a JSONB document.
type Repository interface {
	GetByOwner(ctx context.Context, ownerID uint) (*Cart, error)
	// GetByOwnerForUpdate locks the cart row; only meaningful inside a transaction.
	GetByOwnerForUpdate(ctx context.Context, ownerID uint) (*Cart, error)
	Create(ctx context.Context, ownerID uint) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
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

const cartColumns = `id, owner_id, items, total_items, total_price, version, created_at, updated_at`

func scanCart(row interface{ Scan(...any) error }) (*Cart, error) {
	var (
		c     Cart
		items []byte
	)
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&items,
		&c.TotalItems,
		&c.TotalPrice,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &c.Items); err != nil {
			return nil, fmt.Errorf("decode cart items: %w", err)
		}
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

// GetByOwner returns nil, nil when the owner has no cart yet.
func (r *repository) GetByOwner(ctx context.Context, ownerID uint) (*Cart, error) {
	return r.getByOwner(ctx, ownerID, "")
}

func (r *repository) GetByOwnerForUpdate(ctx context.Context, ownerID uint) (*Cart, error) {
	return r.getByOwner(ctx, ownerID, " FOR UPDATE")
}

func (r *repository) getByOwner(ctx context.Context, ownerID uint, lock string) (*Cart, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+cartColumns+" FROM carts WHERE owner_id = $1"+lock,
		ownerID,
	)

	c, err := scanCart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("get cart failed",
			zap.String("layer", "repository"),
			zap.Uint("owner_id", ownerID),
			zap.Error(err),
		)
		return nil, err
	}
	return c, nil
}

// Create inserts an empty cart for ownerID, or returns the existing one.
func (r *repository) Create(ctx context.Context, ownerID uint) (*Cart, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (owner_id)
		VALUES ($1)
		ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
		RETURNING `+cartColumns,
		ownerID,
	)
	return scanCart(row)
}

// Save writes the full cart document. Writes are last-write-wins; the version
// is bumped so checkout can detect a cart that changed under it.
func (r *repository) Save(ctx context.Context, c *Cart) error {
	if c.Items == nil {
		c.Items = []Item{}
	}
	items, err := json.Marshal(c.Items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}

	err = r.db.QueryRowContext(ctx, `
		UPDATE carts SET
			items = $2,
			total_items = $3,
			total_price = $4,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1
		RETURNING version, updated_at
	`, c.ID, items, c.TotalItems, c.TotalPrice).Scan(&c.Version, &c.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartNotFound
	}
	return err
}
