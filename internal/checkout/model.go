package checkout

import "storefront-be/internal/order"

// Input is the checkout request. Items and totals come from the stored cart,
// never from the client.
type Input struct {
	CustomerInfo  order.CustomerInfo  `json:"customerInfo" validate:"required"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod" validate:"required,oneof=COD Online"`
	Notes         string              `json:"notes" validate:"max=500"`
	// CartVersion is the version the client last saw. When set, checkout
	// fails if the cart has changed since.
	CartVersion *int `json:"cartVersion"`
}
