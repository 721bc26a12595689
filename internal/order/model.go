package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// transitions is the strict lifecycle. Delivered and Cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether the strict lifecycle allows from -> to.
// Re-applying the current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "Online"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentFailed  PaymentStatus = "Failed"
)

type CustomerInfo struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=32"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"omitempty,max=16"`
}

// ProductRef is the live product behind an order line, resolved on read.
type ProductRef struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"imageUrl"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

// Item is a denormalized snapshot of a product at order time.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	Product   *ProductRef     `json:"product,omitempty"`
}

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	UserID        *uint           `json:"userId"`
	CustomerInfo  CustomerInfo    `json:"customerInfo"`
	Items         []Item          `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Status        Status          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (o *Order) ProductIDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

type ItemInput struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Image     string          `json:"image"`
}

type CreateInput struct {
	CustomerInfo CustomerInfo     `json:"customerInfo" validate:"required"`
	Items        []ItemInput      `json:"items" validate:"required,min=1,dive"`
	TotalAmount  *decimal.Decimal `json:"totalAmount" validate:"required,gte=0"`
	// ShippingCost falls back to the configured flat rate when omitted.
	ShippingCost  *decimal.Decimal `json:"shippingCost" validate:"omitempty,gte=0"`
	PaymentMethod PaymentMethod    `json:"paymentMethod" validate:"required,oneof=COD Online"`
	Notes         string           `json:"notes" validate:"max=500"`
}

type UpdateStatusInput struct {
	Status Status `json:"status" validate:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}

type ListFilter struct {
	Search string
	Status Status
	Page   int
	Limit  int
}

// Summary is the admin dashboard view of all orders.
type Summary struct {
	TotalOrders int             `json:"totalOrders"`
	Revenue     decimal.Decimal `json:"revenue"`
	ByStatus    map[Status]int  `json:"byStatus"`
}
