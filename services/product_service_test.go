package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-catalog/events"
	"product-catalog/models"
	"product-catalog/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(name string, price float64) models.ProductDraft {
	return models.ProductDraft{
		Name:     name,
		Price:    price,
		Stock:    3,
		Category: models.CategoryHome,
		Vendor:   "HomeNest",
		IsActive: true,
	}
}

func newTestService(t *testing.T, drafts ...models.ProductDraft) (*ProductService, *repository.MemoryAdapter, *[]events.Event) {
	t.Helper()
	repo := repository.NewMemoryAdapter()
	for _, d := range drafts {
		_, err := repo.Add(context.Background(), d)
		require.NoError(t, err)
	}

	bus := events.NewBus()
	var published []events.Event
	bus.Subscribe(func(e events.Event) { published = append(published, e) })

	return NewProductService(repo, bus, Options{}), repo, &published
}

func TestAddProduct_AssignsNextID(t *testing.T) {
	svc, _, published := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, newDraft("Lamp", 20))
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	for i := 0; i < 4; i++ {
		_, err = svc.AddProduct(ctx, newDraft("Chair", 45))
		require.NoError(t, err)
	}
	id, err = svc.AddProduct(ctx, newDraft("Table", 120))
	require.NoError(t, err)
	assert.Equal(t, "6", id)

	require.Len(t, *published, 6)
	assert.Equal(t, events.ProductCreated, (*published)[5].Type)
	assert.Equal(t, "6", (*published)[5].ProductID)
}

func TestAddProduct_RejectsInvalidDraftWithoutMutation(t *testing.T) {
	svc, repo, published := newTestService(t, newDraft("Lamp", 20))
	ctx := context.Background()

	bad := []models.ProductDraft{
		{Price: 1, Category: models.CategoryHome, Vendor: "v"},
		{Name: "n", Price: -1, Category: models.CategoryHome, Vendor: "v"},
		{Name: "n", Stock: -2, Category: models.CategoryHome, Vendor: "v"},
		{Name: "n", Category: "garden", Vendor: "v"},
		{Name: "n", Category: models.CategoryHome},
	}
	for _, d := range bad {
		id, err := svc.AddProduct(ctx, d)
		assert.ErrorIs(t, err, ErrInvalidProduct)
		assert.Empty(t, id)
	}

	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
	assert.Empty(t, *published)
}

func TestUpdateProduct_ChangesOnlyPatchedFields(t *testing.T) {
	svc, repo, published := newTestService(t, newDraft("Lamp", 20), newDraft("Chair", 45))
	ctx := context.Background()
	before, err := repo.FindByID(ctx, "2")
	require.NoError(t, err)

	price := 50.0
	ok, err := svc.UpdateProduct(ctx, "2", models.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, ok)

	after, err := repo.FindByID(ctx, "2")
	require.NoError(t, err)
	expected := *before
	expected.Price = 50
	assert.Equal(t, expected, *after)

	require.Len(t, *published, 1)
	assert.Equal(t, events.Event{Type: events.ProductUpdated, ProductID: "2", At: (*published)[0].At}, (*published)[0])
}

func TestUpdateProduct_UnknownIDLeavesCollectionUnchanged(t *testing.T) {
	svc, repo, published := newTestService(t, newDraft("Lamp", 20), newDraft("Chair", 45))
	ctx := context.Background()
	before, _ := repo.List(ctx)

	price := 1.0
	ok, err := svc.UpdateProduct(ctx, "42", models.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.False(t, ok)

	after, _ := repo.List(ctx)
	assert.Equal(t, before, after)
	assert.Empty(t, *published)
}

func TestUpdateProduct_RejectsInvalidPatch(t *testing.T) {
	svc, repo, _ := newTestService(t, newDraft("Lamp", 20))
	ctx := context.Background()

	negative := -5.0
	ok, err := svc.UpdateProduct(ctx, "1", models.ProductPatch{Price: &negative})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	empty := ""
	ok, err = svc.UpdateProduct(ctx, "1", models.ProductPatch{Name: &empty})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	p, _ := repo.FindByID(ctx, "1")
	assert.Equal(t, 20.0, p.Price)
	assert.Equal(t, "Lamp", p.Name)
}

func TestDeleteProduct(t *testing.T) {
	svc, repo, published := newTestService(t, newDraft("Lamp", 20), newDraft("Chair", 45), newDraft("Table", 120))
	ctx := context.Background()

	ok, err := svc.DeleteProduct(ctx, "2")
	require.NoError(t, err)
	assert.True(t, ok)

	remaining, _ := repo.List(ctx)
	assert.Equal(t, []string{"1", "3"}, ids(remaining))
	require.Len(t, *published, 1)
	assert.Equal(t, events.ProductDeleted, (*published)[0].Type)

	ok, err = svc.DeleteProduct(ctx, "2")
	require.NoError(t, err)
	assert.False(t, ok)

	n, _ := repo.Count(ctx)
	assert.Equal(t, 2, n)
}

func TestQueryProductsSeesMutationsImmediately(t *testing.T) {
	svc, _, _ := newTestService(t, newDraft("Lamp", 20))
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, newDraft("Desk Lamp", 35))
	require.NoError(t, err)

	resp, err := svc.QueryProducts(ctx, &models.ProductFilters{SearchTerm: "lamp"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)

	_, err = svc.DeleteProduct(ctx, "1")
	require.NoError(t, err)

	resp, err = svc.QueryProducts(ctx, &models.ProductFilters{SearchTerm: "lamp"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(resp.Products))
}

func TestQueryProducts_LatencyHonoursContext(t *testing.T) {
	repo := repository.NewMemoryAdapter()
	svc := NewProductService(repo, nil, Options{QueryLatency: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.QueryProducts(ctx, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetProduct(t *testing.T) {
	svc, _, _ := newTestService(t, newDraft("Lamp", 20))

	p, ok := svc.GetProduct(context.Background(), "1")
	require.True(t, ok)
	assert.Equal(t, "Lamp", p.Name)

	_, ok = svc.GetProduct(context.Background(), "nope")
	assert.False(t, ok)
}

type panickingRepo struct {
	*repository.MemoryAdapter
}

func (panickingRepo) Add(context.Context, models.ProductDraft) (*models.Product, error) {
	panic("arena corrupted")
}

func (panickingRepo) Delete(context.Context, string) error {
	panic("arena corrupted")
}

func TestMutationsRecoverFromRuntimeFaults(t *testing.T) {
	svc := NewProductService(panickingRepo{repository.NewMemoryAdapter()}, nil, Options{})
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, newDraft("Lamp", 20))
	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrMutationPanicked)

	ok, err := svc.DeleteProduct(ctx, "1")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMutationPanicked)
}

type failingRepo struct {
	*repository.MemoryAdapter
}

var errStorage = errors.New("storage offline")

func (failingRepo) List(context.Context) ([]models.Product, error) {
	return nil, errStorage
}

func TestQueryProducts_RepositoryFailure(t *testing.T) {
	svc := NewProductService(failingRepo{repository.NewMemoryAdapter()}, nil, Options{})

	_, err := svc.QueryProducts(context.Background(), nil, nil)
	assert.ErrorIs(t, err, errStorage)
}
