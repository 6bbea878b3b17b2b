package domain

import (
	"fmt"
	"time"
)

// OrderStatus is derived from (draft, finished) and never stored on its own.
// A finished order leaves the active set entirely, so an Order held in a
// cache is always Open or Pending.
type OrderStatus string

const (
	StatusOpen     OrderStatus = "OPEN"
	StatusPending  OrderStatus = "PENDING"
	StatusFinished OrderStatus = "FINISHED"
)

// String returns the label shown to the waiter.
func (s OrderStatus) String() string {
	switch s {
	case StatusOpen:
		return "Aberta"
	case StatusPending:
		return "Pendente"
	case StatusFinished:
		return "Finalizado"
	}
	return string(s)
}

// DeriveStatus is the single source of truth for order status.
func DeriveStatus(draft, finished bool) OrderStatus {
	switch {
	case finished:
		return StatusFinished
	case draft:
		return StatusOpen
	default:
		return StatusPending
	}
}

// Order is a single table order. Items are owned exclusively by their order.
type Order struct {
	ID        string
	Table     string
	Name      string
	Draft     bool
	Items     []OrderItem
	CreatedAt time.Time
}

// Status reports the derived status of an order still in the active set.
func (o Order) Status() OrderStatus {
	return DeriveStatus(o.Draft, false)
}

// Label renders the list label shown for an order, e.g. "Ana - Mesa 5".
func (o Order) Label() string {
	return fmt.Sprintf("%s - Mesa %s", o.Name, o.Table)
}

// Item returns the item with the given id, if present.
func (o Order) Item(itemID string) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return OrderItem{}, false
}

// OrderItem is one line of an order. Amount is always >= 1; an edit down to
// zero removes the item instead of storing zero.
type OrderItem struct {
	ID      string
	Product Product
	Amount  int
}
