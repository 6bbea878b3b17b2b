// Package orders reconciles the local view of in-flight orders with the
// backend.
//
// Every mutating operation follows the same protocol:
//
//  1. validate preconditions locally and fail fast with a ValidationError,
//     making no network call for input the server would reject anyway;
//  2. issue the gateway call;
//  3. branch on the typed error; a rejection leaves the cache untouched;
//  4. on success, apply the minimal local patch implied by the operation.
//     The collection is never re-fetched as confirmation.
//
// The transition table per order is Draft -> Sent -> Finished. One transition
// is domain policy rather than user action: the first item added to a draft
// order sends it, because an order with items is no longer a draft.
package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/oplog"
	"github.com/comandaapp/comanda/internal/comanda/ports"
	"github.com/comandaapp/comanda/internal/pkg/requestid"
	"github.com/google/uuid"
)

// ProductFinder resolves product ids against the locally cached catalog.
// *state.ProductCache satisfies it.
type ProductFinder interface {
	Product(id string) (domain.Product, bool)
}

// Synchronizer owns the active-order cache and the displayed-order pointer.
type Synchronizer struct {
	gw      ports.OrderGateway
	catalog ProductFinder
	journal oplog.Repository // nil-safe: journaling skipped if nil

	mu       sync.Mutex
	seq      uint64
	applied  uint64
	orders   []domain.Order
	selected string
}

// NewSynchronizer returns an empty synchronizer. journal may be nil.
func NewSynchronizer(gw ports.OrderGateway, catalog ProductFinder, journal oplog.Repository) *Synchronizer {
	return &Synchronizer{gw: gw, catalog: catalog, journal: journal}
}

// Refresh replaces the active-order cache with the server's list. Stale
// responses (an older refresh resolving late) are discarded. The selection
// is cleared when the selected order is no longer in the list.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	list, err := s.gw.ListOrders(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		return nil
	}
	s.applied = seq
	s.orders = list
	if s.selected != "" && s.find(s.selected) < 0 {
		s.selected = ""
	}
	return nil
}

// Orders returns a snapshot of the active orders. Item slices are copied so
// callers cannot alias cache state.
func (s *Synchronizer) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, copyOrder(o))
	}
	return out
}

// Order returns a snapshot of a single cached order.
func (s *Synchronizer) Order(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(orderID); i >= 0 {
		return copyOrder(s.orders[i]), true
	}
	return domain.Order{}, false
}

// Select marks an order as the displayed one.
func (s *Synchronizer) Select(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(orderID)
	if i < 0 {
		return domain.Order{}, false
	}
	s.selected = orderID
	return copyOrder(s.orders[i]), true
}

// Selected returns the displayed order, if any.
func (s *Synchronizer) Selected() (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return domain.Order{}, false
	}
	if i := s.find(s.selected); i >= 0 {
		return copyOrder(s.orders[i]), true
	}
	return domain.Order{}, false
}

// ClearSelection drops the displayed-order pointer.
func (s *Synchronizer) ClearSelection() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

// Create opens a new order. Nothing is added to the cache until the server
// confirms; on success the cache gains exactly one Draft order carrying the
// server-assigned id.
func (s *Synchronizer) Create(ctx context.Context, name string, table int) (domain.Order, error) {
	if name == "" {
		return domain.Order{}, &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if table < 1 {
		return domain.Order{}, &domain.ValidationError{Field: "table", Message: "must be a positive table number"}
	}

	ctx, _ = requestid.Ensure(ctx)
	s.record(ctx, "", "create_order", oplog.StatusStarted, detail(map[string]any{"name": name, "table": table}), nil)

	created, err := s.gw.CreateOrder(ctx, name, table)
	if err != nil {
		s.record(ctx, "", "create_order", oplog.StatusRejected, "", err)
		return domain.Order{}, err
	}

	// The create response may carry only the id; fill the rest from the
	// operation input.
	if created.Name == "" {
		created.Name = name
	}
	if created.Table == "" {
		created.Table = strconv.Itoa(table)
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	created.Draft = true
	created.Items = nil

	s.mu.Lock()
	if i := s.find(created.ID); i >= 0 {
		s.orders[i] = created
	} else {
		s.orders = append(s.orders, created)
	}
	s.mu.Unlock()

	s.record(ctx, created.ID, "create_order", oplog.StatusConfirmed, "", nil)
	return copyOrder(created), nil
}

// AddItem appends a product to a cached order. The amount must be at least 1
// and the product must be resolvable in the loaded catalog, both checked
// before any network traffic. When the order was still a draft, the first
// confirmed item triggers the send transition.
func (s *Synchronizer) AddItem(ctx context.Context, orderID, productID string, amount int) (domain.Order, error) {
	if amount < 1 {
		return domain.Order{}, &domain.ValidationError{Field: "amount", Message: "must be at least 1"}
	}

	s.mu.Lock()
	i := s.find(orderID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Order{}, &domain.ValidationError{Field: "order_id", Message: "order is not in the active list"}
	}
	wasDraft := s.orders[i].Draft
	s.mu.Unlock()

	product, ok := s.catalog.Product(productID)
	if !ok {
		return domain.Order{}, &domain.ValidationError{Field: "product_id", Message: "product is not in the loaded catalog"}
	}

	ctx, _ = requestid.Ensure(ctx)
	s.record(ctx, orderID, "add_item", oplog.StatusStarted,
		detail(map[string]any{"product_id": productID, "amount": amount}), nil)

	item, err := s.gw.AddItem(ctx, orderID, productID, amount)
	if err != nil {
		s.record(ctx, orderID, "add_item", oplog.StatusRejected, "", err)
		return domain.Order{}, err
	}
	s.record(ctx, orderID, "add_item", oplog.StatusConfirmed, "", nil)

	// Server-confirmed fields win; anything the response omitted comes from
	// the operation input.
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Amount == 0 {
		item.Amount = amount
	}
	if item.Product.ID == "" {
		item.Product = product
	}

	s.mu.Lock()
	i = s.find(orderID)
	if i < 0 {
		// The order disappeared while the request was in flight. Nothing
		// left to patch.
		s.mu.Unlock()
		slog.DebugContext(ctx, "order gone before add_item patch", "order_id", orderID)
		return domain.Order{}, nil
	}
	s.orders[i].Items = append(s.orders[i].Items, item)
	updated := copyOrder(s.orders[i])
	s.mu.Unlock()

	if wasDraft {
		if err := s.Send(ctx, orderID); err != nil {
			// The item is confirmed; only the transition failed.
			return updated, err
		}
		if o, ok := s.Order(orderID); ok {
			return o, nil
		}
	}
	return updated, nil
}

// SetItemAmount sets a new amount for an existing item. A new amount of zero
// deletes the item; zero is never stored.
func (s *Synchronizer) SetItemAmount(ctx context.Context, orderID, itemID string, newAmount int) (domain.Order, error) {
	if newAmount < 0 {
		return domain.Order{}, &domain.ValidationError{Field: "amount", Message: "must not be negative"}
	}

	s.mu.Lock()
	i := s.find(orderID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Order{}, &domain.ValidationError{Field: "order_id", Message: "order is not in the active list"}
	}
	item, ok := s.orders[i].Item(itemID)
	s.mu.Unlock()
	if !ok {
		return domain.Order{}, &domain.ValidationError{Field: "item_id", Message: "item is not on the order"}
	}

	ctx, _ = requestid.Ensure(ctx)
	s.record(ctx, orderID, "set_amount", oplog.StatusStarted,
		detail(map[string]any{"item_id": itemID, "new_amount": newAmount}), nil)

	if err := s.gw.UpdateItem(ctx, item.Product.ID, newAmount); err != nil {
		s.record(ctx, orderID, "set_amount", oplog.StatusRejected, "", err)
		return domain.Order{}, err
	}
	s.record(ctx, orderID, "set_amount", oplog.StatusConfirmed, "", nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	i = s.find(orderID)
	if i < 0 {
		slog.DebugContext(ctx, "order gone before set_amount patch", "order_id", orderID)
		return domain.Order{}, nil
	}
	if newAmount == 0 {
		s.orders[i].Items = dropItem(s.orders[i].Items, itemID)
	} else {
		for j := range s.orders[i].Items {
			if s.orders[i].Items[j].ID == itemID {
				s.orders[i].Items[j].Amount = newAmount
			}
		}
	}
	return copyOrder(s.orders[i]), nil
}

// RemoveItem drops an item from the local cache only. The removal is not
// reconciled with the server, so the next full refresh may bring the item
// back.
func (s *Synchronizer) RemoveItem(ctx context.Context, orderID, itemID string) (domain.Order, error) {
	ctx, _ = requestid.Ensure(ctx)

	s.mu.Lock()
	i := s.find(orderID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Order{}, &domain.ValidationError{Field: "order_id", Message: "order is not in the active list"}
	}
	s.orders[i].Items = dropItem(s.orders[i].Items, itemID)
	updated := copyOrder(s.orders[i])
	s.mu.Unlock()

	s.record(ctx, orderID, "remove_item", oplog.StatusStarted,
		detail(map[string]any{"item_id": itemID, "local_only": true}), nil)
	s.record(ctx, orderID, "remove_item", oplog.StatusConfirmed, "", nil)
	return updated, nil
}

// Send transitions a draft order to sent. The local state changes only after
// the server confirms.
func (s *Synchronizer) Send(ctx context.Context, orderID string) error {
	s.mu.Lock()
	i := s.find(orderID)
	if i < 0 {
		s.mu.Unlock()
		return &domain.ValidationError{Field: "order_id", Message: "order is not in the active list"}
	}
	if !s.orders[i].Draft {
		s.mu.Unlock()
		return &domain.ValidationError{Field: "order_id", Message: "order was already sent"}
	}
	s.mu.Unlock()

	ctx, _ = requestid.Ensure(ctx)
	s.record(ctx, orderID, "send", oplog.StatusStarted, "", nil)

	if err := s.gw.SendOrder(ctx, orderID); err != nil {
		s.record(ctx, orderID, "send", oplog.StatusRejected, "", err)
		return err
	}
	s.record(ctx, orderID, "send", oplog.StatusConfirmed, "", nil)

	s.mu.Lock()
	if i := s.find(orderID); i >= 0 {
		s.orders[i].Draft = false
	}
	s.mu.Unlock()
	return nil
}

// Finish closes an order and removes it from the active cache, clearing the
// displayed-order pointer when it referenced the order. Finishing an order
// that is already gone is a no-op.
func (s *Synchronizer) Finish(ctx context.Context, orderID string) error {
	s.mu.Lock()
	present := s.find(orderID) >= 0
	s.mu.Unlock()
	if !present {
		return nil
	}

	ctx, _ = requestid.Ensure(ctx)
	s.record(ctx, orderID, "finish", oplog.StatusStarted, "", nil)

	if err := s.gw.FinishOrder(ctx, orderID); err != nil {
		s.record(ctx, orderID, "finish", oplog.StatusRejected, "", err)
		return err
	}
	s.record(ctx, orderID, "finish", oplog.StatusConfirmed, "", nil)

	s.mu.Lock()
	if i := s.find(orderID); i >= 0 {
		s.orders = append(s.orders[:i], s.orders[i+1:]...)
	}
	if s.selected == orderID {
		s.selected = ""
	}
	s.mu.Unlock()
	return nil
}

// find returns the index of an order by id. Caller holds s.mu.
func (s *Synchronizer) find(orderID string) int {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

// record appends a journal row. A nil journal or a failed save never blocks
// the operation itself.
func (s *Synchronizer) record(ctx context.Context, orderID, op string, status oplog.Status, detail string, opErr error) {
	if s.journal == nil {
		return
	}
	entry := oplog.NewEntry(ctx, orderID, op, status, detail, opErr)
	if err := s.journal.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to journal operation", "op", op, "order_id", orderID, "error", err)
	}
}

func copyOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

func dropItem(items []domain.OrderItem, itemID string) []domain.OrderItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	return out
}

func detail(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
