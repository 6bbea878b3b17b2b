// Package state holds the in-memory mirrors of the server-owned collections.
//
// Refreshes replace the whole collection. Because list responses can resolve
// out of order, every refresh is stamped with a monotonically increasing
// counter and a response older than the latest applied one is discarded
// instead of overwriting newer state.
package state

import (
	"context"
	"sync"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/ports"
)

// CategoryCache mirrors the category collection.
type CategoryCache struct {
	gw ports.CategoryGateway

	mu      sync.Mutex
	seq     uint64
	applied uint64
	items   []domain.Category
}

// NewCategoryCache returns an empty cache over gw.
func NewCategoryCache(gw ports.CategoryGateway) *CategoryCache {
	return &CategoryCache{gw: gw}
}

// Refresh replaces the cached collection with the latest list result.
// A response that lost the race against a newer refresh is dropped.
func (c *CategoryCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	list, err := c.gw.ListCategories(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		return nil
	}
	c.applied = seq
	c.items = list
	return nil
}

// Categories returns a snapshot of the cached collection.
func (c *CategoryCache) Categories() []domain.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Category, len(c.items))
	copy(out, c.items)
	return out
}

// Category returns the cached category with the given id.
func (c *CategoryCache) Category(id string) (domain.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range c.items {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}
