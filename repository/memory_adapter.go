package repository

import (
	"context"
	"strconv"
	"sync"

	"product-catalog/models"
)

// MemoryAdapter keeps the catalog in process memory. Products are held in an
// ordered map: ids in insertion order plus an index by id.
type MemoryAdapter struct {
	mu    sync.RWMutex
	order []string
	items map[string]*models.Product
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items: make(map[string]*models.Product),
	}
}

func (r *MemoryAdapter) List(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out, nil
}

func (r *MemoryAdapter) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryAdapter) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

func (r *MemoryAdapter) Add(ctx context.Context, draft models.ProductDraft) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := draft.ToProduct(r.nextID())
	r.items[p.ID] = &p
	r.order = append(r.order, p.ID)

	cp := p
	return &cp, nil
}

func (r *MemoryAdapter) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	updated := *p
	patch.Apply(&updated)
	updated.ID = id
	r.items[id] = &updated

	cp := updated
	return &cp, nil
}

func (r *MemoryAdapter) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// nextID returns the highest numeric id plus one, or "1" when no stored id is
// numeric. Callers must hold the write lock.
func (r *MemoryAdapter) nextID() string {
	var max int64
	for _, id := range r.order {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}
