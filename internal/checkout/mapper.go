package checkout

import (
	"storefront-be/internal/cart"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

// BuildOrderInput maps each cart line to an order line at its cart price and
// sets the total to the cart total plus shipping.
func BuildOrderInput(
	c *cart.Cart,
	products map[string]*product.Product,
	info order.CustomerInfo,
	shipping decimal.Decimal,
	method order.PaymentMethod,
	notes string,
) order.CreateInput {
	items := make([]order.ItemInput, 0, len(c.Items))
	for _, it := range c.Items {
		line := order.ItemInput{
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
		if p, ok := products[it.ProductID]; ok {
			line.Name = p.Name
			line.Image = p.ImageURL
		}
		items = append(items, line)
	}

	_, subtotal := cart.RecomputeTotals(c.Items)
	total := subtotal.Add(shipping)

	return order.CreateInput{
		CustomerInfo:  info,
		Items:         items,
		TotalAmount:   &total,
		ShippingCost:  &shipping,
		PaymentMethod: method,
		Notes:         notes,
	}
}
