package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"foreign error", errors.New("boom"), EINTERNAL},
		{"not found", NotFound("order.get", "order", "42"), ENOTFOUND},
		{"wrapped invalid", fmt.Errorf("outer: %w", Invalid("cart.add_item", "bad")), EINVALID},
		{"conflict", Conflict("category.create", "exists"), ECONFLICT},
		{"unauthorized", Unauthorized("auth", "no token"), EUNAUTHORIZED},
		{"forbidden", Forbidden("auth", "admin only"), EFORBIDDEN},
		{"rate limited", RateLimited("ratelimit", "slow down"), ERATELIMIT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: connection refused"), "order.create", "failed to save order")

	assert.Equal(t, internalMessage, Message(err))
	assert.Equal(t, internalMessage, Message(errors.New("raw")))
	assert.Equal(t, "order not found: 1", Message(NotFound("order.get", "order", "1")))
	assert.Contains(t, err.Error(), "pq: connection refused")
	assert.ErrorIs(t, err, errors.Unwrap(err))
}

func TestValidation(t *testing.T) {
	err := Validation("order.create", map[string]string{
		"items":         "must contain at least one item",
		"paymentMethod": "must be one of COD Online",
	})

	assert.True(t, Is(err, EINVALID))
	assert.Equal(t, "validation failed", Message(err))
	assert.Len(t, Fields(err), 2)
	assert.Equal(t,
		"order.create: validation failed (items: must contain at least one item; paymentMethod: must be one of COD Online)",
		err.Error(),
	)
	assert.Nil(t, Fields(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "op", "msg"))

	nf := NotFound("cart.get", "cart", "7")
	assert.Same(t, nf, Wrap(nf, "other", "ignored"))

	wrapped := Wrap(errors.New("db down"), "cart.save", "failed to save cart")
	assert.Equal(t, EINTERNAL, Code(wrapped))
	assert.Equal(t, "cart.save", Op(wrapped))
}
