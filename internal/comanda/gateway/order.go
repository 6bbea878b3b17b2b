package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/comandaapp/comanda/internal/comanda/domain"
)

type createOrderRequest struct {
	Name  string `json:"name"`
	Table int    `json:"table"`
}

type addItemRequest struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
}

type updateItemRequest struct {
	ProductID string `json:"product_id"`
	NewAmount int    `json:"newAmount"`
}

type orderIDRequest struct {
	OrderID string `json:"order_id"`
}

// ListOrders returns every active (non-finished) order.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var resp []orderResponse
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(resp))
	for _, r := range resp {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// OrderDetail returns a single order with its items.
func (c *Client) OrderDetail(ctx context.Context, orderID string) (domain.Order, error) {
	path := "/order/detail?order_id=" + url.QueryEscape(orderID)
	var resp orderResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return domain.Order{}, err
	}
	return resp.toDomain(), nil
}

// CreateOrder opens a new draft order for a table.
func (c *Client) CreateOrder(ctx context.Context, name string, table int) (domain.Order, error) {
	var resp orderResponse
	err := c.do(ctx, http.MethodPost, "/order", createOrderRequest{Name: name, Table: table}, &resp)
	if err != nil {
		return domain.Order{}, err
	}
	return resp.toDomain(), nil
}

// AddItem appends a product to an order and returns the created item.
func (c *Client) AddItem(ctx context.Context, orderID, productID string, amount int) (domain.OrderItem, error) {
	body := addItemRequest{OrderID: orderID, ProductID: productID, Amount: amount}
	var resp orderItemResponse
	if err := c.do(ctx, http.MethodPost, "/order/add", body, &resp); err != nil {
		return domain.OrderItem{}, err
	}
	return resp.toDomain(), nil
}

// UpdateItem sets a new amount for the item referencing productID.
func (c *Client) UpdateItem(ctx context.Context, productID string, newAmount int) error {
	body := updateItemRequest{ProductID: productID, NewAmount: newAmount}
	return c.do(ctx, http.MethodPut, "/order/update", body, nil)
}

// SendOrder transitions an order out of draft.
func (c *Client) SendOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPut, "/order/send", orderIDRequest{OrderID: orderID}, nil)
}

// FinishOrder closes an order.
func (c *Client) FinishOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPut, "/order/finish", orderIDRequest{OrderID: orderID}, nil)
}

// DeleteOrder removes an order entirely.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	path := "/order/delete?order_id=" + url.QueryEscape(orderID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// DeleteItem removes a single item by its id.
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	path := "/order/delete?item_id=" + url.QueryEscape(itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
