package gateway

import (
	"context"
	"net/http"

	"github.com/comandaapp/comanda/internal/comanda/domain"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns every category on the menu.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var resp []categoryResponse
	if err := c.do(ctx, http.MethodGet, "/listCategory", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(resp))
	for _, r := range resp {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreateCategory creates a category and returns it with its server id.
func (c *Client) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	var resp categoryResponse
	err := c.do(ctx, http.MethodPost, "/category", createCategoryRequest{Name: name}, &resp)
	if err != nil {
		return domain.Category{}, err
	}
	return resp.toDomain(), nil
}
