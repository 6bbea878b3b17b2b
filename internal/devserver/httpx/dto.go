package httpx

import (
	"time"

	"github.com/comandaapp/comanda/internal/devserver/store"
	"github.com/shopspring/decimal"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Banner      string          `json:"banner"`
}

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

type orderItemResponse struct {
	ID      string          `json:"id"`
	Amount  int             `json:"amount"`
	Product productResponse `json:"product"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Table     int                 `json:"table"`
	Name      string              `json:"name"`
	Draft     bool                `json:"draft"`
	Status    bool                `json:"status"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt string              `json:"created_at"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapCategory(c store.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name}
}

func mapProduct(p store.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Banner:      p.Banner,
	}
}

// mapOrder renders an order with its items' products resolved against the
// store, which is what the front-end expects from the list endpoints.
func mapOrder(s *store.Store, o store.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		resp := orderItemResponse{ID: it.ID, Amount: it.Amount}
		if p, ok := s.Product(it.ProductID); ok {
			resp.Product = mapProduct(p)
		}
		items = append(items, resp)
	}
	return orderResponse{
		ID:        o.ID,
		Table:     o.Table,
		Name:      o.Name,
		Draft:     o.Draft,
		Status:    !o.Draft && !o.Finished,
		Items:     items,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}
