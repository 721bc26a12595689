package cart

import (
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

func toProductSummary(p *product.Product) *ProductSummary {
	if p == nil {
		return nil
	}
	return &ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		ImageURL: p.ImageURL,
		Price:    p.Price,
		Stock:    p.Stock,
		Status:   p.Status,
	}
}

// toView resolves each line against products. Lines whose product is gone
// keep their snapshot with a nil product.
func toView(c *Cart, products map[string]*product.Product) *View {
	items := make([]ItemView, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, ItemView{
			ProductID: it.ProductID,
			Product:   toProductSummary(products[it.ProductID]),
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
			AddedAt:   it.AddedAt,
		})
	}

	return &View{
		ID:         c.ID,
		OwnerID:    c.OwnerID,
		Items:      items,
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
		Version:    c.Version,
		UpdatedAt:  c.UpdatedAt,
	}
}
