package gateway

import (
	"strconv"
	"time"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/shopspring/decimal"
)

type sessionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
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

func (r categoryResponse) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name}
}

func (r productResponse) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Banner:      r.Banner,
	}
}

func (r orderItemResponse) toDomain() domain.OrderItem {
	return domain.OrderItem{
		ID:      r.ID,
		Amount:  r.Amount,
		Product: r.Product.toDomain(),
	}
}

func (r orderResponse) toDomain() domain.Order {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.toDomain())
	}
	// Timestamps arrive as RFC3339 text; a missing or malformed value maps
	// to the zero time rather than failing the whole list.
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	table := ""
	if r.Table != 0 {
		table = strconv.Itoa(r.Table)
	}
	return domain.Order{
		ID:        r.ID,
		Table:     table,
		Name:      r.Name,
		Draft:     r.Draft,
		Items:     items,
		CreatedAt: createdAt,
	}
}
