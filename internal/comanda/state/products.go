package state

import (
	"context"
	"sync"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/ports"
)

// ProductCache mirrors the products of the currently selected category.
// Changing the selection invalidates the previous list immediately and
// triggers exactly one refresh scoped to the new category.
type ProductCache struct {
	gw ports.ProductGateway

	mu         sync.Mutex
	seq        uint64
	applied    uint64
	categoryID string
	items      []domain.Product
}

// NewProductCache returns a cache with no category selected.
func NewProductCache(gw ports.ProductGateway) *ProductCache {
	return &ProductCache{gw: gw}
}

// SelectCategory switches the cache to a new category. Re-selecting the
// current category is a no-op.
func (c *ProductCache) SelectCategory(ctx context.Context, categoryID string) error {
	c.mu.Lock()
	if categoryID == c.categoryID {
		c.mu.Unlock()
		return nil
	}
	c.categoryID = categoryID
	c.items = nil
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// SelectedCategory returns the id of the currently selected category.
func (c *ProductCache) SelectedCategory() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.categoryID
}

// Refresh reloads the product list for the selected category. Does nothing
// when no category is selected. Stale responses, from an older refresh or
// for a category that is no longer selected, are discarded.
func (c *ProductCache) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	categoryID := c.categoryID
	c.mu.Unlock()

	if categoryID == "" {
		return nil
	}

	list, err := c.gw.ListProducts(ctx, categoryID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied || categoryID != c.categoryID {
		return nil
	}
	c.applied = seq
	c.items = list
	return nil
}

// Products returns a snapshot of the cached product list.
func (c *ProductCache) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.items))
	copy(out, c.items)
	return out
}

// Product returns the cached product with the given id.
func (c *ProductCache) Product(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
