package product

func newProduct(in CreateInput) *Product {
	status := in.Status
	if status == "" {
		status = StatusActive
	}

	return &Product{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Price:       in.Price,
		OldPrice:    in.OldPrice,
		Stock:       in.Stock,
		Status:      status,
	}
}

func applyUpdate(p *Product, in UpdateInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OldPrice != nil {
		p.OldPrice = in.OldPrice
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}
