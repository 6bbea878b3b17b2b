package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/ports"
)

var (
	_ ports.CategoryGateway = (*stubCatalog)(nil)
	_ ports.ProductGateway  = (*stubCatalog)(nil)
)

type stubCatalog struct {
	categories func(ctx context.Context) ([]domain.Category, error)
	products   func(ctx context.Context, categoryID string) ([]domain.Product, error)
	created    []string
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories(ctx)
}

func (s *stubCatalog) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	s.created = append(s.created, name)
	return domain.Category{ID: "new", Name: name}, nil
}

func (s *stubCatalog) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return s.products(ctx, categoryID)
}

func (s *stubCatalog) CreateProduct(ctx context.Context, p ports.NewProduct) (domain.Product, error) {
	return domain.Product{ID: "new", Name: p.Name, CategoryID: p.CategoryID}, nil
}

func TestCategoryRefreshReplacesCollection(t *testing.T) {
	gw := &stubCatalog{categories: func(context.Context) ([]domain.Category, error) {
		return []domain.Category{{ID: "c1", Name: "Bebidas"}}, nil
	}}
	cache := NewCategoryCache(gw)

	require.NoError(t, cache.Refresh(context.Background()))
	got := cache.Categories()
	require.Len(t, got, 1)
	assert.Equal(t, "Bebidas", got[0].Name)

	cat, ok := cache.Category("c1")
	assert.True(t, ok)
	assert.Equal(t, "Bebidas", cat.Name)
}

func TestCategoryStaleRefreshDiscarded(t *testing.T) {
	// Two refreshes race. The older request resolves after the newer one and
	// must not overwrite its result.
	gw := &stubCatalog{}
	cache := NewCategoryCache(gw)

	release := make(chan struct{})
	responses := [][]domain.Category{
		{{ID: "c1", Name: "old"}},
		{{ID: "c1", Name: "new"}},
	}
	call := 0
	started := make(chan struct{}, 2)
	gw.categories = func(context.Context) ([]domain.Category, error) {
		i := call
		call++
		started <- struct{}{}
		if i == 0 {
			<-release
		}
		return responses[i], nil
	}

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_ = cache.Refresh(context.Background())
	}()
	<-started

	require.NoError(t, cache.Refresh(context.Background()))
	<-started

	close(release)
	<-firstDone

	got := cache.Categories()
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Name, "stale response must not clobber the newer one")
}

func TestSelectCategoryInvalidatesAndRefreshesOnce(t *testing.T) {
	calls := 0
	gw := &stubCatalog{products: func(_ context.Context, categoryID string) ([]domain.Product, error) {
		calls++
		return []domain.Product{{ID: "p-" + categoryID, CategoryID: categoryID}}, nil
	}}
	cache := NewProductCache(gw)

	require.NoError(t, cache.SelectCategory(context.Background(), "c1"))
	assert.Equal(t, 1, calls)
	require.Len(t, cache.Products(), 1)
	assert.Equal(t, "p-c1", cache.Products()[0].ID)

	// Re-selecting the same category does not refetch.
	require.NoError(t, cache.SelectCategory(context.Background(), "c1"))
	assert.Equal(t, 1, calls)

	require.NoError(t, cache.SelectCategory(context.Background(), "c2"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "c2", cache.SelectedCategory())
	assert.Equal(t, "p-c2", cache.Products()[0].ID)
}

func TestProductRefreshForSupersededCategoryDiscarded(t *testing.T) {
	// A slow list response for the previously selected category must not land
	// in the cache after the selection moved on.
	gw := &stubCatalog{}
	cache := NewProductCache(gw)

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	gw.products = func(_ context.Context, categoryID string) ([]domain.Product, error) {
		started <- struct{}{}
		if categoryID == "c1" {
			<-release
		}
		return []domain.Product{{ID: "p-" + categoryID, CategoryID: categoryID}}, nil
	}

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_ = cache.SelectCategory(context.Background(), "c1")
	}()
	<-started

	require.NoError(t, cache.SelectCategory(context.Background(), "c2"))
	<-started

	close(release)
	<-firstDone

	got := cache.Products()
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].CategoryID)
}

func TestProductRefreshWithoutSelectionIsNoop(t *testing.T) {
	gw := &stubCatalog{products: func(context.Context, string) ([]domain.Product, error) {
		t.Fatal("no request should be issued without a selected category")
		return nil, nil
	}}
	cache := NewProductCache(gw)

	require.NoError(t, cache.Refresh(context.Background()))
	assert.Empty(t, cache.Products())
}

func TestProductLookup(t *testing.T) {
	gw := &stubCatalog{products: func(context.Context, string) ([]domain.Product, error) {
		return []domain.Product{{ID: "p1", Name: "Pizza"}}, nil
	}}
	cache := NewProductCache(gw)
	require.NoError(t, cache.SelectCategory(context.Background(), "c1"))

	p, ok := cache.Product("p1")
	assert.True(t, ok)
	assert.Equal(t, "Pizza", p.Name)

	_, ok = cache.Product("missing")
	assert.False(t, ok)
}
