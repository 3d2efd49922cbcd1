package controllers

import (
	"errors"
	"strconv"
	"strings"

	"product-catalog/models"
	"product-catalog/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation constants
const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
)

var errEmptyPatch = errors.New("no update fields provided")

// RequestValidator parses and validates request input. Query parsing is
// permissive: malformed values fall back to "no constraint" instead of
// failing the request.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: services.NewValidator(),
	}
}

// ParsePagination reads page and limit, falling back to defaults. perPage is
// accepted as an alias of limit.
func (rv *RequestValidator) ParsePagination(c *gin.Context) models.Pagination {
	p := models.Pagination{Page: 1, Limit: services.DefaultPageLimit}

	if page, err := strconv.Atoi(strings.TrimSpace(c.Query("page"))); err == nil && page > 0 {
		p.Page = page
	}
	if p.Page > MaxPageNumber {
		p.Page = MaxPageNumber
	}

	limitStr := c.Query("limit")
	if limitStr == "" {
		limitStr = c.Query("perPage")
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(limitStr)); err == nil && limit > 0 {
		p.Limit = limit
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// ParseFilters reads search, category, minPrice and maxPrice.
func (rv *RequestValidator) ParseFilters(c *gin.Context) models.ProductFilters {
	var f models.ProductFilters

	f.SearchTerm = strings.TrimSpace(c.Query("search"))
	if f.SearchTerm == "" {
		f.SearchTerm = strings.TrimSpace(c.Query("searchTerm"))
	}

	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		cat, ok := models.ParseCategory(raw)
		if !ok {
			// unknown tags still filter by exact match, so they select nothing
			cat = models.Category(raw)
		}
		f.Category = &cat
	}

	min := parseOptionalFloat(c.Query("minPrice"))
	max := parseOptionalFloat(c.Query("maxPrice"))
	if min != nil || max != nil {
		f.PriceRange = &models.PriceRange{Min: min, Max: max}
	}
	return f
}

// ParseDraft binds and validates a product creation body.
func (rv *RequestValidator) ParseDraft(c *gin.Context) (models.ProductDraft, error) {
	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		return models.ProductDraft{}, err
	}
	if cat, ok := models.ParseCategory(string(draft.Category)); ok {
		draft.Category = cat
	}
	if err := rv.validate.Struct(&draft); err != nil {
		return models.ProductDraft{}, err
	}
	return draft, nil
}

// ParsePatch binds and validates a partial update body. Any id in the body
// is dropped: ProductPatch has nowhere to put it.
func (rv *RequestValidator) ParsePatch(c *gin.Context) (models.ProductPatch, error) {
	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		return models.ProductPatch{}, err
	}
	if patch.IsEmpty() {
		return models.ProductPatch{}, errEmptyPatch
	}
	if patch.Category != nil {
		if cat, ok := models.ParseCategory(string(*patch.Category)); ok {
			patch.Category = &cat
		}
	}
	if err := rv.validate.Struct(&patch); err != nil {
		return models.ProductPatch{}, err
	}
	return patch, nil
}

// parseOptionalFloat returns nil for an empty or non-numeric value.
func parseOptionalFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
