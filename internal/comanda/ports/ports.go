// Package ports declares the interfaces between the client core and its
// adapters. Components depend on these abstractions, not on the HTTP
// implementation, so tests can swap in in-memory fakes.
package ports

import (
	"context"
	"io"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/shopspring/decimal"
)

// SessionGateway covers the unauthenticated sign-in call and the user
// rehydration call used when restoring a persisted token.
type SessionGateway interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	DetailUser(ctx context.Context) (domain.User, error)
}

// CategoryGateway lists and creates menu categories.
type CategoryGateway interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
}

// NewProduct is the payload for product creation. Banner may be nil when no
// image is attached; the upload is multipart either way.
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	BannerName  string
	Banner      io.Reader
}

// ProductGateway lists products scoped to a category and creates products.
type ProductGateway interface {
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p NewProduct) (domain.Product, error)
}

// OrderGateway is the remote surface the synchronizer drives. Every call
// attaches the bearer token read from the TokenStore at call time.
type OrderGateway interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	OrderDetail(ctx context.Context, orderID string) (domain.Order, error)
	CreateOrder(ctx context.Context, name string, table int) (domain.Order, error)
	AddItem(ctx context.Context, orderID, productID string, amount int) (domain.OrderItem, error)
	UpdateItem(ctx context.Context, productID string, newAmount int) error
	SendOrder(ctx context.Context, orderID string) error
	FinishOrder(ctx context.Context, orderID string) error
	DeleteOrder(ctx context.Context, orderID string) error
	DeleteItem(ctx context.Context, itemID string) error
}

// TokenStore persists the bearer token between runs. Absence of a token is
// reported as an empty string, not an error.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
