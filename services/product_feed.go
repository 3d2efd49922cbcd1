package services

import (
	"context"
	"sync"

	"product-catalog/events"
	"product-catalog/models"

	"go.uber.org/zap"
)

// Querier is the part of the catalog the feed reads from.
type Querier interface {
	QueryProducts(ctx context.Context, filters *models.ProductFilters, pagination *models.Pagination) (models.PaginatedResponse, error)
}

// Ticket identifies one in-flight page load.
type Ticket struct {
	Generation uint64
	Page       int
	Filters    models.ProductFilters
}

// FeedState is the pagination metadata of the accumulated list.
type FeedState struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
}

// ProductFeed accumulates successive pages for a list view. Loading page 1
// replaces the list and loading a later page appends to it. Changing filters
// starts a new generation: responses for older tickets are discarded.
type ProductFeed struct {
	source Querier
	limit  int

	mu         sync.Mutex
	generation uint64
	filters    models.ProductFilters
	items      []models.Product
	state      FeedState

	// loadingMore is set while a LoadMore is in flight.
	loadingMore bool
}

func NewProductFeed(source Querier, limit int) *ProductFeed {
	if limit <= 0 {
		limit = ListPageLimit
	}
	return &ProductFeed{
		source: source,
		limit:  limit,
		state:  FeedState{HasNextPage: true},
	}
}

// Reset installs new filters and empties the list. Pending loads for the
// previous filters will be ignored when they complete, and LoadMore does
// nothing until LoadFirst has run again.
func (f *ProductFeed) Reset(filters models.ProductFilters) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.filters = filters
	f.items = nil
	f.state = FeedState{HasNextPage: true}
}

// Begin registers a load of page and returns its ticket.
func (f *ProductFeed) Begin(page int) Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()

	if page <= 1 {
		// a fresh first page supersedes anything still loading
		f.generation++
		page = 1
	}
	return Ticket{Generation: f.generation, Page: page, Filters: f.filters}
}

// Apply merges resp into the list. It reports false, leaving the list as it
// was, when a newer load has started since t was issued or when t is not
// for the page right after the last one applied.
func (f *ProductFeed) Apply(t Ticket, resp models.PaginatedResponse) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.Generation != f.generation {
		return false
	}
	if t.Page > 1 && t.Page != f.state.CurrentPage+1 {
		return false
	}

	if t.Page <= 1 {
		f.items = append([]models.Product(nil), resp.Products...)
	} else {
		f.items = append(f.items, resp.Products...)
	}
	f.state = FeedState{
		CurrentPage: resp.CurrentPage,
		TotalPages:  resp.TotalPages,
		TotalCount:  resp.TotalCount,
		HasNextPage: resp.HasNextPage,
	}
	return true
}

// LoadFirst loads page 1 for the current filters, replacing the list.
func (f *ProductFeed) LoadFirst(ctx context.Context) error {
	return f.load(ctx, f.Begin(1))
}

// LoadMore appends the next page. It does nothing when the last load
// reported no further page, when nothing has been loaded yet, or while
// another LoadMore is still running.
func (f *ProductFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loadingMore || !f.state.HasNextPage || f.state.CurrentPage == 0 {
		f.mu.Unlock()
		return nil
	}
	f.loadingMore = true
	next := f.state.CurrentPage + 1
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loadingMore = false
		f.mu.Unlock()
	}()
	return f.load(ctx, f.Begin(next))
}

func (f *ProductFeed) load(ctx context.Context, t Ticket) error {
	filters := t.Filters
	resp, err := f.source.QueryProducts(ctx, &filters, &models.Pagination{Page: t.Page, Limit: f.limit})
	if err != nil {
		return err
	}
	if !f.Apply(t, resp) {
		zap.L().Debug("Discarded stale product page", zap.Int("page", t.Page), zap.Uint64("generation", t.Generation))
	}
	return nil
}

// Items returns a copy of the accumulated products.
func (f *ProductFeed) Items() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.items...)
}

// State returns the metadata of the last applied page.
func (f *ProductFeed) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Filters returns the active filters.
func (f *ProductFeed) Filters() models.ProductFilters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

// Watch refreshes the feed whenever the catalog changes: filters are cleared
// and page 1 is reloaded. The reload runs on its own goroutine so publishers
// are not held up; if several overlap, the last one started wins. Cancelling
// ctx aborts pending reloads. The returned function stops watching.
func (f *ProductFeed) Watch(ctx context.Context, bus *events.Bus) func() {
	return bus.Subscribe(func(e events.Event) {
		f.Reset(models.ProductFilters{})
		t := f.Begin(1)
		go func() {
			if err := f.load(ctx, t); err != nil {
				zap.L().Warn("Failed to refresh product feed",
					zap.String("type", string(e.Type)),
					zap.Error(err),
				)
			}
		}()
	})
}
