package models

// PriceRange bounds a price filter. Either side may be nil.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ProductFilters narrows a product query. Zero values mean "no constraint".
type ProductFilters struct {
	SearchTerm string      `json:"searchTerm,omitempty"`
	Category   *Category   `json:"category,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
}

// IsEmpty reports whether the filters constrain nothing.
func (f ProductFilters) IsEmpty() bool {
	return f.SearchTerm == "" && f.Category == nil && f.PriceRange == nil
}

// Pagination selects a 1-based page of a given size.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PaginatedResponse is one page of a filtered product query.
type PaginatedResponse struct {
	Products        []Product `json:"products"`
	TotalCount      int       `json:"totalCount"`
	CurrentPage     int       `json:"currentPage"`
	TotalPages      int       `json:"totalPages"`
	HasNextPage     bool      `json:"hasNextPage"`
	HasPreviousPage bool      `json:"hasPreviousPage"`
}
