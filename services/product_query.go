package services

import (
	"math"
	"strings"

	"product-catalog/models"
)

const (
	// DefaultPageLimit is the page size used when a query does not set one.
	DefaultPageLimit = 5
	// ListPageLimit is the page size the product list view asks for.
	ListPageLimit = 7
)

// QueryProducts filters collection and returns the requested page of the
// result. It never fails: ambiguous input degrades to "no constraint" and a
// page past the end yields an empty product list.
func QueryProducts(collection []models.Product, filters *models.ProductFilters, pagination *models.Pagination) models.PaginatedResponse {
	page, limit := normalizePagination(pagination)
	match := newMatcher(filters)

	filtered := make([]models.Product, 0, len(collection))
	for _, p := range collection {
		if match(p) {
			filtered = append(filtered, p)
		}
	}

	total := len(filtered)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	products := []models.Product{}
	// page-1 < totalPages keeps (page-1)*limit below total, so nothing overflows
	if page-1 < totalPages {
		start := (page - 1) * limit
		end := total
		if limit < total-start {
			end = start + limit
		}
		products = append(products, filtered[start:end]...)
	}

	return models.PaginatedResponse{
		Products:        products,
		TotalCount:      total,
		CurrentPage:     page,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

func normalizePagination(p *models.Pagination) (page, limit int) {
	page, limit = 1, DefaultPageLimit
	if p == nil {
		return page, limit
	}
	if p.Page > 0 {
		page = p.Page
	}
	if p.Limit > 0 {
		limit = p.Limit
	}
	return page, limit
}

// newMatcher compiles filters into a conjunctive predicate.
func newMatcher(f *models.ProductFilters) func(models.Product) bool {
	if f == nil {
		return func(models.Product) bool { return true }
	}

	var category *models.Category
	if f.Category != nil && *f.Category != "" {
		category = f.Category
	}
	min, max := normalizePriceRange(f.PriceRange)
	term := strings.ToLower(f.SearchTerm)

	return func(p models.Product) bool {
		if category != nil && p.Category != *category {
			return false
		}
		if min != nil && p.Price < *min {
			return false
		}
		if max != nil && p.Price > *max {
			return false
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			return false
		}
		return true
	}
}

// normalizePriceRange drops NaN bounds and swaps a reversed pair.
func normalizePriceRange(r *models.PriceRange) (min, max *float64) {
	if r == nil {
		return nil, nil
	}
	if r.Min != nil && !math.IsNaN(*r.Min) {
		v := *r.Min
		min = &v
	}
	if r.Max != nil && !math.IsNaN(*r.Max) {
		v := *r.Max
		max = &v
	}
	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}
	return min, max
}
