package cart

import (
	"time"

	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Increment Direction = "increment"
	Decrement Direction = "decrement"
)

// Item is one cart line. Price is the product price captured when the line
// was last added to.
type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	AddedAt   time.Time       `json:"addedAt"`
}

// Cart belongs to exactly one owner. TotalItems and TotalPrice are derived
// from Items and only ever set by recompute.
type Cart struct {
	ID         string          `json:"id"`
	OwnerID    uint            `json:"ownerId"`
	Items      []Item          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Version    int             `json:"version"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// RecomputeTotals returns the item count and price of items.
func RecomputeTotals(items []Item) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, it := range items {
		count += it.Quantity
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return count, total
}

func (c *Cart) recompute() {
	c.TotalItems, c.TotalPrice = RecomputeTotals(c.Items)
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add merges quantity into the product's line, refreshing its price, or
// appends a new line.
func (c *Cart) Add(productID string, quantity int, price decimal.Decimal, now time.Time) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].Price = price
	} else {
		c.Items = append(c.Items, Item{
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
			AddedAt:   now,
		})
	}
	c.recompute()
}

// Remove drops the product's line. It reports whether a line was removed.
func (c *Cart) Remove(productID string) bool {
	i := c.indexOf(productID)
	if i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.recompute()
	return i >= 0
}

// Step moves a line's quantity by one. Decrementing a line of one removes it.
func (c *Cart) Step(productID string, dir Direction) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrCartItemNotFound
	}

	switch dir {
	case Increment:
		c.Items[i].Quantity++
	case Decrement:
		if c.Items[i].Quantity <= 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity--
		}
	default:
		return ErrInvalidDirection
	}

	c.recompute()
	return nil
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.recompute()
}

func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

type AddItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity" validate:"omitempty,gte=1"`
}

type RemoveItemInput struct {
	ProductID string `json:"productId" validate:"required"`
}

type UpdateQuantityInput struct {
	ProductID string    `json:"productId" validate:"required"`
	Type      Direction `json:"type" validate:"required,oneof=increment decrement"`
}

// ProductSummary is the live product data shown next to a cart line.
type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"imageUrl"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Status   product.Status  `json:"status"`
}

type ItemView struct {
	ProductID string `json:"productId"`
	// Product is nil when the product has been deleted since it was added.
	Product  *ProductSummary `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
	AddedAt  time.Time       `json:"addedAt"`
}

// View is the populated cart returned to clients.
type View struct {
	ID         string          `json:"id"`
	OwnerID    uint            `json:"ownerId"`
	Items      []ItemView      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Version    int             `json:"version"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
