package repository

import (
	"context"
	"errors"

	"product-catalog/models"
)

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = errors.New("product not found")

// ProductRepo is the storage capability set used by the catalog. It uses
// plain model types so a persistent adapter can replace the in-memory one.
type ProductRepo interface {
	// List returns a snapshot of every product in insertion order.
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Count(ctx context.Context) (int, error)
	// Add stores a new product and assigns its id.
	Add(ctx context.Context, draft models.ProductDraft) (*models.Product, error)
	// Update merges the patch over the stored product and returns the result.
	Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
