package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/events"
	"product-catalog/models"
	"product-catalog/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Options tunes the catalog service.
type Options struct {
	// QueryLatency and MutationLatency simulate a remote backend. Zero disables.
	QueryLatency    time.Duration
	MutationLatency time.Duration
}

// ProductService exposes the catalog operations used by the list view and
// the product forms.
type ProductService struct {
	repo     repository.ProductRepo
	bus      *events.Bus
	validate *validator.Validate
	opts     Options
}

func NewProductService(repo repository.ProductRepo, bus *events.Bus, opts Options) *ProductService {
	if bus == nil {
		bus = events.NewBus()
	}
	return &ProductService{
		repo:     repo,
		bus:      bus,
		validate: NewValidator(),
		opts:     opts,
	}
}

// Bus returns the bus mutations are announced on.
func (s *ProductService) Bus() *events.Bus {
	return s.bus
}

// QueryProducts returns one page of the filtered catalog. It fails only when
// ctx is done or the repository cannot be read.
func (s *ProductService) QueryProducts(ctx context.Context, filters *models.ProductFilters, pagination *models.Pagination) (models.PaginatedResponse, error) {
	if err := wait(ctx, s.opts.QueryLatency); err != nil {
		return models.PaginatedResponse{}, err
	}

	snapshot, err := s.repo.List(ctx)
	if err != nil {
		return models.PaginatedResponse{}, fmt.Errorf("failed to list products: %w", err)
	}
	return QueryProducts(snapshot, filters, pagination), nil
}

// GetProduct looks a product up by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrProductNotFound) {
			zap.L().Warn("Failed to fetch product", zap.String("product_id", id), zap.Error(err))
		}
		return nil, false
	}
	return p, true
}

// AddProduct validates and stores draft, returning the assigned id. On any
// failure the catalog is left unchanged.
func (s *ProductService) AddProduct(ctx context.Context, draft models.ProductDraft) (id string, err error) {
	defer recoverMutation("add", &err)

	if err := s.validate.Struct(&draft); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if err := wait(ctx, s.opts.MutationLatency); err != nil {
		return "", err
	}

	p, err := s.repo.Add(ctx, draft)
	if err != nil {
		zap.L().Error("Failed to add product", zap.Error(err))
		return "", fmt.Errorf("failed to add product: %w", err)
	}

	zap.L().Info("Product added", zap.String("product_id", p.ID), zap.String("name", p.Name))
	s.bus.Publish(events.Event{Type: events.ProductCreated, ProductID: p.ID})
	return p.ID, nil
}

// UpdateProduct merges patch over the product with the given id. A missing
// product reports (false, nil) and nothing is changed.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (ok bool, err error) {
	defer recoverMutation("update", &err)

	if err := s.validate.Struct(&patch); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidProduct, err)
	}
	if err := wait(ctx, s.opts.MutationLatency); err != nil {
		return false, err
	}

	if _, err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			zap.L().Info("Product not found for update", zap.String("product_id", id))
			return false, nil
		}
		zap.L().Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	zap.L().Info("Product updated", zap.String("product_id", id))
	s.bus.Publish(events.Event{Type: events.ProductUpdated, ProductID: id})
	return true, nil
}

// DeleteProduct removes the product with the given id. A missing product
// reports (false, nil).
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (ok bool, err error) {
	defer recoverMutation("delete", &err)

	if err := wait(ctx, s.opts.MutationLatency); err != nil {
		return false, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			zap.L().Info("Product not found for delete", zap.String("product_id", id))
			return false, nil
		}
		zap.L().Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	zap.L().Info("Product deleted", zap.String("product_id", id))
	s.bus.Publish(events.Event{Type: events.ProductDeleted, ProductID: id})
	return true, nil
}

// ErrInvalidProduct wraps validation failures of a draft or patch.
var ErrInvalidProduct = errors.New("validation failed")

// ErrMutationPanicked wraps a runtime fault caught at the mutation boundary.
var ErrMutationPanicked = errors.New("mutation aborted by runtime fault")

func recoverMutation(op string, err *error) {
	if r := recover(); r != nil {
		zap.L().Error("Recovered from panic during product mutation",
			zap.String("op", op),
			zap.Any("panic", r),
		)
		*err = fmt.Errorf("%w: %v", ErrMutationPanicked, r)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
