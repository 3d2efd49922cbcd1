package models

// Product is a catalog record. ID is assigned by the repository and never
// changes afterwards.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    Category `json:"category"`
	Vendor      string   `json:"vendor"`
	Image       string   `json:"image,omitempty"`
	IsActive    bool     `json:"isActive"`
}

// ProductDraft is the payload for adding a product. It has no ID field: the
// repository assigns one.
type ProductDraft struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Category    Category `json:"category" validate:"required,category"`
	Vendor      string   `json:"vendor" validate:"required"`
	Image       string   `json:"image"`
	IsActive    bool     `json:"isActive"`
}

// ToProduct builds a record from the draft with the given id.
func (d ProductDraft) ToProduct(id string) Product {
	return Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
		Category:    d.Category,
		Vendor:      d.Vendor,
		Image:       d.Image,
		IsActive:    d.IsActive,
	}
}

// ProductPatch is a partial update. Nil fields are left untouched. There is
// deliberately no ID field, so an update can never rewrite a product's id.
type ProductPatch struct {
	Name        *string   `json:"name,omitempty" validate:"omitnil,min=1"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitnil,gte=0"`
	Stock       *int      `json:"stock,omitempty" validate:"omitnil,gte=0"`
	Category    *Category `json:"category,omitempty" validate:"omitnil,category"`
	Vendor      *string   `json:"vendor,omitempty" validate:"omitnil,min=1"`
	Image       *string   `json:"image,omitempty"`
	IsActive    *bool     `json:"isActive,omitempty"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil &&
		p.Category == nil && p.Vendor == nil && p.Image == nil && p.IsActive == nil
}

// Apply assigns every non-nil field of the patch onto dst.
func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Vendor != nil {
		dst.Vendor = *p.Vendor
	}
	if p.Image != nil {
		dst.Image = *p.Image
	}
	if p.IsActive != nil {
		dst.IsActive = *p.IsActive
	}
}
