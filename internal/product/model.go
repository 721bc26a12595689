package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "Active"
	StatusDraft      Status = "Draft"
	StatusOutOfStock Status = "OutOfStock"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID          string           `json:"id"`
	CategoryID  *string          `json:"categoryId"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"oldPrice,omitempty"`
	Stock       int              `json:"stock"`
	Status      Status           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ListFilter struct {
	Search     string
	CategoryID string
	Status     Status
	Page       int
	Limit      int
}

type CreateInput struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=5000"`
	ImageURL    string           `json:"imageUrl" validate:"omitempty,url"`
	CategoryID  *string          `json:"categoryId" validate:"omitempty,uuid"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0"`
	OldPrice    *decimal.Decimal `json:"oldPrice" validate:"omitempty,gte=0"`
	Stock       int              `json:"stock" validate:"gte=0"`
	Status      Status           `json:"status" validate:"omitempty,oneof=Active Draft OutOfStock"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
	CategoryID  *string          `json:"categoryId" validate:"omitempty,uuid"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	OldPrice    *decimal.Decimal `json:"oldPrice" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Status      *Status          `json:"status" validate:"omitempty,oneof=Active Draft OutOfStock"`
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.ImageURL == nil &&
		in.CategoryID == nil && in.Price == nil && in.OldPrice == nil &&
		in.Stock == nil && in.Status == nil
}
