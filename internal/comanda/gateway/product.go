package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/ports"
)

// ListProducts returns the products of a single category.
func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	path := "/category/product?category_id=" + url.QueryEscape(categoryID)
	var resp []productResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(resp))
	for _, r := range resp {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreateProduct uploads a product as multipart form data. The banner part is
// written only when a banner reader is attached.
func (c *Client) CreateProduct(ctx context.Context, p ports.NewProduct) (domain.Product, error) {
	op := "POST /product"

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"category_id": p.CategoryID,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return domain.Product{}, fmt.Errorf("gateway: write %s field: %w", name, err)
		}
	}
	if p.Banner != nil {
		part, err := form.CreateFormFile("banner", p.BannerName)
		if err != nil {
			return domain.Product{}, fmt.Errorf("gateway: create banner part: %w", err)
		}
		if _, err := io.Copy(part, p.Banner); err != nil {
			return domain.Product{}, fmt.Errorf("gateway: copy banner: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return domain.Product{}, fmt.Errorf("gateway: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/product", &buf)
	if err != nil {
		return domain.Product{}, fmt.Errorf("gateway: build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.decorate(ctx, req)

	var resp productResponse
	if err := c.send(req, op, &resp); err != nil {
		return domain.Product{}, err
	}
	return resp.toDomain(), nil
}
