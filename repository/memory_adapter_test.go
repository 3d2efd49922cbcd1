package repository

import (
	"context"
	"strconv"
	"testing"

	"product-catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draft(name string) models.ProductDraft {
	return models.ProductDraft{Name: name, Price: 1, Category: models.CategoryBooks, Vendor: "v"}
}

func TestMemoryAdapter_AddAssignsMonotonicIDs(t *testing.T) {
	repo := NewMemoryAdapter()
	ctx := context.Background()

	p, err := repo.Add(ctx, draft("a"))
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)

	p, err = repo.Add(ctx, draft("b"))
	require.NoError(t, err)
	assert.Equal(t, "2", p.ID)

	// only the highest remaining id counts
	require.NoError(t, repo.Delete(ctx, "1"))
	p, err = repo.Add(ctx, draft("c"))
	require.NoError(t, err)
	assert.Equal(t, "3", p.ID)
}

func TestMemoryAdapter_NextIDUsesHighestNumericID(t *testing.T) {
	repo := NewMemoryAdapter()
	repo.order = []string{"5", "abc", "2"}
	repo.items = map[string]*models.Product{
		"5":   {ID: "5"},
		"abc": {ID: "abc"},
		"2":   {ID: "2"},
	}

	p, err := repo.Add(context.Background(), draft("x"))
	require.NoError(t, err)
	assert.Equal(t, "6", p.ID)
}

func TestMemoryAdapter_NextIDWithoutNumericIDs(t *testing.T) {
	repo := NewMemoryAdapter()
	repo.order = []string{"sku-a"}
	repo.items = map[string]*models.Product{"sku-a": {ID: "sku-a"}}

	p, err := repo.Add(context.Background(), draft("x"))
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
}

func TestMemoryAdapter_ListPreservesInsertionOrderAndCopies(t *testing.T) {
	repo := NewMemoryAdapter()
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c"} {
		_, err := repo.Add(ctx, draft(n))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[2].Name)

	list[0].Name = "mutated"
	again, _ := repo.List(ctx)
	assert.Equal(t, "a", again[0].Name)
}

func TestMemoryAdapter_UpdateMergesAndKeepsID(t *testing.T) {
	repo := NewMemoryAdapter()
	ctx := context.Background()
	_, err := repo.Add(ctx, models.ProductDraft{Name: "Lamp", Description: "desk", Price: 20, Stock: 4, Category: models.CategoryHome, Vendor: "HomeNest", IsActive: true})
	require.NoError(t, err)

	stock := 9
	updated, err := repo.Update(ctx, "1", models.ProductPatch{Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, models.Product{ID: "1", Name: "Lamp", Description: "desk", Price: 20, Stock: 9, Category: models.CategoryHome, Vendor: "HomeNest", IsActive: true}, *updated)

	_, err = repo.Update(ctx, "7", models.ProductPatch{Stock: &stock})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryAdapter_DeleteShiftsLaterItems(t *testing.T) {
	repo := NewMemoryAdapter()
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c", "d"} {
		_, err := repo.Add(ctx, draft(n))
		require.NoError(t, err)
	}

	require.NoError(t, repo.Delete(ctx, "2"))

	list, _ := repo.List(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "c", "d"}, []string{list[0].Name, list[1].Name, list[2].Name})

	assert.ErrorIs(t, repo.Delete(ctx, "2"), ErrProductNotFound)
	n, _ := repo.Count(ctx)
	assert.Equal(t, 3, n)

	_, err := repo.FindByID(ctx, "2")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryAdapter_CancelledContext(t *testing.T) {
	repo := NewMemoryAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Add(ctx, draft("a"))
	assert.ErrorIs(t, err, context.Canceled)

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}

func TestSeed(t *testing.T) {
	repo := NewMemoryAdapter()

	n, err := Seed(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, len(SeedProducts()), n)

	list, _ := repo.List(context.Background())
	seen := map[models.Category]bool{}
	for i, p := range list {
		assert.Equal(t, i+1, mustAtoi(t, p.ID))
		assert.True(t, p.Category.Valid(), p.Name)
		assert.GreaterOrEqual(t, p.Price, 0.0)
		assert.GreaterOrEqual(t, p.Stock, 0)
		seen[p.Category] = true
	}
	assert.Len(t, seen, len(models.AllCategories()))
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
