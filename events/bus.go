package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Type identifies what happened to a product.
type Type string

const (
	ProductCreated Type = "product.created"
	ProductUpdated Type = "product.updated"
	ProductDeleted Type = "product.deleted"
)

// Event is published after a successful catalog mutation.
type Event struct {
	Type      Type      `json:"type"`
	ProductID string    `json:"product_id"`
	At        time.Time `json:"at"`
}

// Handler receives published events.
type Handler func(Event)

// Bus is a small in-process publish/subscribe registry. Handlers run
// synchronously, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every subscriber. A panicking handler is logged and
// skipped; the remaining handlers still run.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, e)
	}
}

// Subscribers returns the number of registered handlers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("Event handler panicked",
				zap.String("type", string(e.Type)),
				zap.String("product_id", e.ProductID),
				zap.Any("panic", r),
			)
		}
	}()
	h(e)
}
