// Package store holds the dev server's data. Everything lives in process
// memory behind a mutex; the dev server exists for local development and
// tests, not for production traffic.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a menu category row.
type Category struct {
	ID   string
	Name string
}

// Product is a menu product row.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	Banner      string
}

// Item is one order line.
type Item struct {
	ID        string
	ProductID string
	Amount    int
}

// Order is an order row with its items.
type Order struct {
	ID        string
	Table     int
	Name      string
	Draft     bool
	Finished  bool
	Items     []Item
	CreatedAt time.Time
}

// Store is the in-memory database.
type Store struct {
	mu         sync.Mutex
	categories []Category
	products   []Product
	orders     []Order
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// CreateCategory adds a category.
func (s *Store) CreateCategory(name string) (Category, error) {
	if name == "" {
		return Category{}, errors.New("category name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Category{ID: uuid.NewString(), Name: name}
	s.categories = append(s.categories, c)
	return c, nil
}

// ListCategories returns every category in creation order.
func (s *Store) ListCategories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// CreateProduct adds a product to an existing category.
func (s *Store) CreateProduct(p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, errors.New("product name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.categoryExists(p.CategoryID) {
		return Product{}, errors.New("category not found")
	}
	p.ID = uuid.NewString()
	s.products = append(s.products, p)
	return p, nil
}

// ProductsByCategory returns the products of one category.
func (s *Store) ProductsByCategory(categoryID string) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.categoryExists(categoryID) {
		return nil, errors.New("category not found")
	}
	var out []Product
	for _, p := range s.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Product returns a product by id.
func (s *Store) Product(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// CreateOrder opens a draft order.
func (s *Store) CreateOrder(name string, table int) (Order, error) {
	if table < 1 {
		return Order{}, errors.New("table number must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o := Order{
		ID:        uuid.NewString(),
		Table:     table,
		Name:      name,
		Draft:     true,
		CreatedAt: time.Now().UTC(),
	}
	s.orders = append(s.orders, o)
	return o, nil
}

// ListOrders returns every non-finished order.
func (s *Store) ListOrders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if !o.Finished {
			out = append(out, copyOrder(o))
		}
	}
	return out
}

// Order returns one order by id.
func (s *Store) Order(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(id); i >= 0 {
		return copyOrder(s.orders[i]), true
	}
	return Order{}, false
}

// AddItem appends a product to an order.
func (s *Store) AddItem(orderID, productID string, amount int) (Item, error) {
	if amount < 1 {
		return Item{}, errors.New("amount must be at least 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(orderID)
	if i < 0 {
		return Item{}, errors.New("order not found")
	}
	if s.orders[i].Finished {
		return Item{}, errors.New("order already finished")
	}
	if !s.productExists(productID) {
		return Item{}, errors.New("product not found")
	}
	item := Item{ID: uuid.NewString(), ProductID: productID, Amount: amount}
	s.orders[i].Items = append(s.orders[i].Items, item)
	return item, nil
}

// UpdateItemAmount sets a new amount on the first item referencing the
// product. Zero removes the item.
func (s *Store) UpdateItemAmount(productID string, newAmount int) error {
	if newAmount < 0 {
		return errors.New("amount must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].Finished {
			continue
		}
		for j := range s.orders[i].Items {
			if s.orders[i].Items[j].ProductID != productID {
				continue
			}
			if newAmount == 0 {
				s.orders[i].Items = append(s.orders[i].Items[:j], s.orders[i].Items[j+1:]...)
			} else {
				s.orders[i].Items[j].Amount = newAmount
			}
			return nil
		}
	}
	return errors.New("item not found")
}

// SendOrder moves an order out of draft.
func (s *Store) SendOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(orderID)
	if i < 0 {
		return errors.New("order not found")
	}
	if !s.orders[i].Draft {
		return errors.New("order already sent")
	}
	s.orders[i].Draft = false
	return nil
}

// FinishOrder closes an order.
func (s *Store) FinishOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(orderID)
	if i < 0 {
		return errors.New("order not found")
	}
	if s.orders[i].Finished {
		return errors.New("order already finished")
	}
	s.orders[i].Finished = true
	return nil
}

// DeleteOrder removes an order entirely.
func (s *Store) DeleteOrder(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(orderID)
	if i < 0 {
		return errors.New("order not found")
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	return nil
}

// DeleteItem removes one item by id from whichever order holds it.
func (s *Store) DeleteItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		for j := range s.orders[i].Items {
			if s.orders[i].Items[j].ID == itemID {
				s.orders[i].Items = append(s.orders[i].Items[:j], s.orders[i].Items[j+1:]...)
				return nil
			}
		}
	}
	return errors.New("item not found")
}

func (s *Store) find(orderID string) int {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func (s *Store) categoryExists(id string) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) productExists(id string) bool {
	for _, p := range s.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func copyOrder(o Order) Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}
