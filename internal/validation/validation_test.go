package validation

import (
	"testing"

	"storefront-be/internal/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type line struct {
	SKU      string          `json:"sku" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gte=1"`
}

type payload struct {
	Email  string `json:"email" validate:"required,email"`
	Method string `json:"method" validate:"required,oneof=COD Online"`
	Lines  []line `json:"lines" validate:"required,min=1,dive"`
}

func TestStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p := payload{
			Email:  "a@b.co",
			Method: "COD",
			Lines:  []line{{SKU: "x", Price: decimal.NewFromInt(10), Quantity: 1}},
		}
		assert.NoError(t, Struct("test.op", p))
	})

	t.Run("FieldErrorsUseJSONPaths", func(t *testing.T) {
		p := payload{
			Email:  "nope",
			Method: "Card",
			Lines:  []line{{SKU: "", Price: decimal.NewFromInt(-1), Quantity: 0}},
		}

		err := Struct("test.op", p)
		assert.True(t, apperr.Is(err, apperr.EINVALID))

		fields := apperr.Fields(err)
		assert.Equal(t, "must be a valid email address", fields["email"])
		assert.Equal(t, "must be one of COD Online", fields["method"])
		assert.Equal(t, "is required", fields["lines[0].sku"])
		assert.Equal(t, "must be greater than or equal to 0", fields["lines[0].price"])
		assert.Equal(t, "must be greater than or equal to 1", fields["lines[0].quantity"])
	})

	t.Run("EmptySlice", func(t *testing.T) {
		p := payload{Email: "a@b.co", Method: "Online", Lines: []line{}}

		err := Struct("test.op", p)
		assert.Equal(t, "must contain at least 1 item(s)", apperr.Fields(err)["lines"])
	})

	t.Run("NilSlice", func(t *testing.T) {
		p := payload{Email: "a@b.co", Method: "Online"}

		err := Struct("test.op", p)
		assert.Equal(t, "is required", apperr.Fields(err)["lines"])
	})
}
