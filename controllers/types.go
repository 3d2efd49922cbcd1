package controllers

import (
	"context"
	"time"

	"product-catalog/events"
	"product-catalog/models"
)

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
)

// ProductServiceAPI defines the interface for product service operations
type ProductServiceAPI interface {
	QueryProducts(ctx context.Context, filters *models.ProductFilters, pagination *models.Pagination) (models.PaginatedResponse, error)
	GetProduct(ctx context.Context, id string) (*models.Product, bool)
	AddProduct(ctx context.Context, draft models.ProductDraft) (string, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (bool, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

// EventSource is where the events stream subscribes for catalog changes.
type EventSource interface {
	Subscribe(h events.Handler) func()
}
