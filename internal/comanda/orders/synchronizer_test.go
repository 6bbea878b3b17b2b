package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandaapp/comanda/internal/comanda/domain"
	"github.com/comandaapp/comanda/internal/comanda/oplog"
	"github.com/comandaapp/comanda/internal/comanda/ports"
)

// fakeGateway programs each call's response and counts invocations.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	listOrders  func(ctx context.Context) ([]domain.Order, error)
	createOrder func(ctx context.Context, name string, table int) (domain.Order, error)
	addItem     func(ctx context.Context, orderID, productID string, amount int) (domain.OrderItem, error)
	updateItem  func(ctx context.Context, productID string, newAmount int) error
	sendOrder   func(ctx context.Context, orderID string) error
	finishOrder func(ctx context.Context, orderID string) error
}

var _ ports.OrderGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}}
}

func (f *fakeGateway) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeGateway) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	f.count("ListOrders")
	if f.listOrders == nil {
		return nil, nil
	}
	return f.listOrders(ctx)
}

func (f *fakeGateway) OrderDetail(ctx context.Context, orderID string) (domain.Order, error) {
	f.count("OrderDetail")
	return domain.Order{}, nil
}

func (f *fakeGateway) CreateOrder(ctx context.Context, name string, table int) (domain.Order, error) {
	f.count("CreateOrder")
	if f.createOrder == nil {
		return domain.Order{ID: "o-new"}, nil
	}
	return f.createOrder(ctx, name, table)
}

func (f *fakeGateway) AddItem(ctx context.Context, orderID, productID string, amount int) (domain.OrderItem, error) {
	f.count("AddItem")
	if f.addItem == nil {
		return domain.OrderItem{}, nil
	}
	return f.addItem(ctx, orderID, productID, amount)
}

func (f *fakeGateway) UpdateItem(ctx context.Context, productID string, newAmount int) error {
	f.count("UpdateItem")
	if f.updateItem == nil {
		return nil
	}
	return f.updateItem(ctx, productID, newAmount)
}

func (f *fakeGateway) SendOrder(ctx context.Context, orderID string) error {
	f.count("SendOrder")
	if f.sendOrder == nil {
		return nil
	}
	return f.sendOrder(ctx, orderID)
}

func (f *fakeGateway) FinishOrder(ctx context.Context, orderID string) error {
	f.count("FinishOrder")
	if f.finishOrder == nil {
		return nil
	}
	return f.finishOrder(ctx, orderID)
}

func (f *fakeGateway) DeleteOrder(ctx context.Context, orderID string) error {
	f.count("DeleteOrder")
	return nil
}

func (f *fakeGateway) DeleteItem(ctx context.Context, itemID string) error {
	f.count("DeleteItem")
	return nil
}

// fakeCatalog resolves product ids against a fixed map.
type fakeCatalog map[string]domain.Product

func (f fakeCatalog) Product(id string) (domain.Product, bool) {
	p, ok := f[id]
	return p, ok
}

// memJournal collects entries in memory.
type memJournal struct {
	mu      sync.Mutex
	entries []oplog.Entry
}

var _ oplog.Repository = (*memJournal)(nil)

func (m *memJournal) Save(ctx context.Context, e *oplog.Entry) error {
	m.mu.Lock()
	m.entries = append(m.entries, *e)
	m.mu.Unlock()
	return nil
}

func (m *memJournal) ListByOrder(ctx context.Context, orderID string) ([]oplog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []oplog.Entry
	for _, e := range m.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memJournal) statuses(orderID, op string) []oplog.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []oplog.Status
	for _, e := range m.entries {
		if e.OrderID == orderID && e.Op == op {
			out = append(out, e.Status)
		}
	}
	return out
}

func seed(t *testing.T, s *Synchronizer, gw *fakeGateway, orders ...domain.Order) {
	t.Helper()
	gw.listOrders = func(context.Context) ([]domain.Order, error) {
		return append([]domain.Order(nil), orders...), nil
	}
	require.NoError(t, s.Refresh(context.Background()))
}

func TestAddItemInvalidAmountNeverHitsGateway(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: true})

	for _, amount := range []int{0, -3} {
		_, err := s.AddItem(context.Background(), "o1", "p1", amount)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "amount", validationErr.Field)
	}
	assert.Zero(t, gw.callCount("AddItem"))
}

func TestCreateAppearsExactlyOnceAsDraft(t *testing.T) {
	gw := newFakeGateway()
	gw.createOrder = func(_ context.Context, name string, table int) (domain.Order, error) {
		return domain.Order{ID: "o-77"}, nil
	}
	s := NewSynchronizer(gw, fakeCatalog{}, nil)

	created, err := s.Create(context.Background(), "Ana", 5)
	require.NoError(t, err)

	assert.Equal(t, "o-77", created.ID)
	assert.True(t, created.Draft)
	assert.Empty(t, created.Items)
	assert.Equal(t, "Ana", created.Name)
	assert.Equal(t, "5", created.Table)
	assert.False(t, created.CreatedAt.IsZero())

	all := s.Orders()
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusOpen, all[0].Status())
}

func TestCreateValidatesBeforeNetwork(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)

	_, err := s.Create(context.Background(), "", 5)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = s.Create(context.Background(), "Ana", 0)
	require.ErrorAs(t, err, &validationErr)

	assert.Zero(t, gw.callCount("CreateOrder"))
	assert.Empty(t, s.Orders())
}

func TestFirstItemLeavesDraft(t *testing.T) {
	gw := newFakeGateway()
	gw.addItem = func(_ context.Context, orderID, productID string, amount int) (domain.OrderItem, error) {
		return domain.OrderItem{ID: "i1", Amount: amount}, nil
	}
	catalog := fakeCatalog{"p1": {ID: "p1", Name: "Pizza"}}
	s := NewSynchronizer(gw, catalog, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: true})

	updated, err := s.AddItem(context.Background(), "o1", "p1", 2)
	require.NoError(t, err)

	assert.False(t, updated.Draft)
	assert.Equal(t, domain.StatusPending, updated.Status())
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Pizza", updated.Items[0].Product.Name)
	assert.Equal(t, 1, gw.callCount("SendOrder"))
}

func TestSecondItemDoesNotResend(t *testing.T) {
	gw := newFakeGateway()
	gw.addItem = func(_ context.Context, orderID, productID string, amount int) (domain.OrderItem, error) {
		return domain.OrderItem{Amount: amount}, nil
	}
	catalog := fakeCatalog{"p1": {ID: "p1"}}
	s := NewSynchronizer(gw, catalog, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: false, Items: []domain.OrderItem{{ID: "i0"}}})

	updated, err := s.AddItem(context.Background(), "o1", "p1", 1)
	require.NoError(t, err)

	assert.Len(t, updated.Items, 2)
	assert.Zero(t, gw.callCount("SendOrder"))
}

func TestItemKeptWhenSendTransitionFails(t *testing.T) {
	gw := newFakeGateway()
	gw.addItem = func(_ context.Context, orderID, productID string, amount int) (domain.OrderItem, error) {
		return domain.OrderItem{ID: "i1", Amount: amount}, nil
	}
	gw.sendOrder = func(context.Context, string) error {
		return &domain.RequestError{StatusCode: 400, Message: "cannot send"}
	}
	catalog := fakeCatalog{"p1": {ID: "p1"}}
	s := NewSynchronizer(gw, catalog, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: true})

	updated, err := s.AddItem(context.Background(), "o1", "p1", 1)

	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Len(t, updated.Items, 1, "confirmed item survives the failed transition")

	cached, ok := s.Order("o1")
	require.True(t, ok)
	assert.True(t, cached.Draft, "draft flag untouched when send was rejected")
	assert.Len(t, cached.Items, 1)
}

func TestRejectionLeavesCacheUntouched(t *testing.T) {
	gw := newFakeGateway()
	gw.addItem = func(context.Context, string, string, int) (domain.OrderItem, error) {
		return domain.OrderItem{}, &domain.RequestError{StatusCode: 400, Message: "product out of stock"}
	}
	catalog := fakeCatalog{"p1": {ID: "p1"}}
	s := NewSynchronizer(gw, catalog, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: false, Items: []domain.OrderItem{{ID: "i0", Amount: 1}}})

	before := s.Orders()

	_, err := s.AddItem(context.Background(), "o1", "p1", 3)
	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "product out of stock", reqErr.Message)

	assert.Equal(t, before, s.Orders(), "rejected operation must not mutate the cache")
}

func TestFinishRemovesOrderAndClearsSelection(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1"}, domain.Order{ID: "o2"})

	_, ok := s.Select("o1")
	require.True(t, ok)

	require.NoError(t, s.Finish(context.Background(), "o1"))

	_, ok = s.Order("o1")
	assert.False(t, ok)
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Len(t, s.Orders(), 1)

	// Finishing again is a no-op, not an error, and issues no network call.
	require.NoError(t, s.Finish(context.Background(), "o1"))
	assert.Equal(t, 1, gw.callCount("FinishOrder"))
}

func TestFinishRejectionKeepsOrder(t *testing.T) {
	gw := newFakeGateway()
	gw.finishOrder = func(context.Context, string) error {
		return &domain.RequestError{StatusCode: 400, Message: "order not sent yet"}
	}
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1"})

	err := s.Finish(context.Background(), "o1")
	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)

	_, ok := s.Order("o1")
	assert.True(t, ok)
}

func TestSendRequiresDraft(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: false})

	err := s.Send(context.Background(), "o1")
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, gw.callCount("SendOrder"))
}

func TestSetItemAmountZeroDeletesItem(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Items: []domain.OrderItem{
		{ID: "i1", Product: domain.Product{ID: "p1"}, Amount: 2},
		{ID: "i2", Product: domain.Product{ID: "p2"}, Amount: 1},
	}})

	updated, err := s.SetItemAmount(context.Background(), "o1", "i1", 0)
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "i2", updated.Items[0].ID)
	assert.Equal(t, 1, gw.callCount("UpdateItem"))
}

func TestSetItemAmountPatchesAmount(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Items: []domain.OrderItem{
		{ID: "i1", Product: domain.Product{ID: "p1"}, Amount: 2},
	}})

	updated, err := s.SetItemAmount(context.Background(), "o1", "i1", 5)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Amount)
}

func TestRemoveItemIsLocalOnly(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Items: []domain.OrderItem{{ID: "i1"}}})

	updated, err := s.RemoveItem(context.Background(), "o1", "i1")
	require.NoError(t, err)
	assert.Empty(t, updated.Items)

	assert.Zero(t, gw.callCount("DeleteItem"))
	assert.Zero(t, gw.callCount("UpdateItem"))
}

func TestStaleListResponseDiscarded(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	responses := [][]domain.Order{
		{{ID: "stale"}},
		{{ID: "fresh"}},
	}
	call := 0
	gw.listOrders = func(context.Context) ([]domain.Order, error) {
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
		_ = s.Refresh(context.Background())
	}()
	<-started

	require.NoError(t, s.Refresh(context.Background()))
	<-started

	close(release)
	<-firstDone

	all := s.Orders()
	require.Len(t, all, 1)
	assert.Equal(t, "fresh", all[0].ID)
}

func TestLateConfirmationForVanishedOrder(t *testing.T) {
	// The order is finished (removed from the cache) while an add-item
	// request is in flight. The late confirmation has nothing to patch and
	// must not fail.
	gw := newFakeGateway()
	inFlight := make(chan struct{})
	release := make(chan struct{})
	gw.addItem = func(context.Context, string, string, int) (domain.OrderItem, error) {
		close(inFlight)
		<-release
		return domain.OrderItem{ID: "i1", Amount: 1}, nil
	}
	catalog := fakeCatalog{"p1": {ID: "p1"}}
	s := NewSynchronizer(gw, catalog, nil)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: false})

	done := make(chan struct{})
	var got domain.Order
	var gotErr error
	go func() {
		defer close(done)
		got, gotErr = s.AddItem(context.Background(), "o1", "p1", 1)
	}()
	<-inFlight

	require.NoError(t, s.Finish(context.Background(), "o1"))

	close(release)
	<-done

	require.NoError(t, gotErr)
	assert.Empty(t, got.ID, "nothing to patch once the order is gone")
	_, ok := s.Order("o1")
	assert.False(t, ok)
}

func TestRefreshClearsDanglingSelection(t *testing.T) {
	gw := newFakeGateway()
	s := NewSynchronizer(gw, fakeCatalog{}, nil)
	seed(t, s, gw, domain.Order{ID: "o1"})

	_, ok := s.Select("o1")
	require.True(t, ok)

	gw.listOrders = func(context.Context) ([]domain.Order, error) {
		return []domain.Order{{ID: "o2"}}, nil
	}
	require.NoError(t, s.Refresh(context.Background()))

	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestJournalRecordsLifecycle(t *testing.T) {
	gw := newFakeGateway()
	gw.addItem = func(context.Context, string, string, int) (domain.OrderItem, error) {
		return domain.OrderItem{}, &domain.RequestError{StatusCode: 400, Message: "nope"}
	}
	journal := &memJournal{}
	catalog := fakeCatalog{"p1": {ID: "p1"}}
	s := NewSynchronizer(gw, catalog, journal)
	seed(t, s, gw, domain.Order{ID: "o1", Draft: false})

	_, err := s.AddItem(context.Background(), "o1", "p1", 1)
	require.Error(t, err)

	assert.Equal(t, []oplog.Status{oplog.StatusStarted, oplog.StatusRejected}, journal.statuses("o1", "add_item"))

	gw.addItem = func(context.Context, string, string, int) (domain.OrderItem, error) {
		return domain.OrderItem{ID: "i1", Amount: 1}, nil
	}
	_, err = s.AddItem(context.Background(), "o1", "p1", 1)
	require.NoError(t, err)

	assert.Equal(t,
		[]oplog.Status{oplog.StatusStarted, oplog.StatusRejected, oplog.StatusStarted, oplog.StatusConfirmed},
		journal.statuses("o1", "add_item"))
}

// TestTableServiceScenario runs the full flow: open an order for Ana at
// table 5, add the first item (which sends the order), add a second item,
// then finish.
func TestTableServiceScenario(t *testing.T) {
	gw := newFakeGateway()
	gw.createOrder = func(_ context.Context, name string, table int) (domain.Order, error) {
		return domain.Order{ID: "o-ana"}, nil
	}
	next := 0
	gw.addItem = func(_ context.Context, orderID, productID string, amount int) (domain.OrderItem, error) {
		next++
		return domain.OrderItem{ID: "i" + string(rune('0'+next)), Amount: amount}, nil
	}
	catalog := fakeCatalog{
		"p-pizza": {ID: "p-pizza", Name: "Pizza"},
		"p-suco":  {ID: "p-suco", Name: "Suco"},
	}
	s := NewSynchronizer(gw, catalog, &memJournal{})

	o, err := s.Create(context.Background(), "Ana", 5)
	require.NoError(t, err)
	assert.Equal(t, "Ana - Mesa 5", o.Label())
	assert.Equal(t, domain.StatusOpen, o.Status())

	o, err = s.AddItem(context.Background(), o.ID, "p-pizza", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, o.Status())
	assert.Equal(t, 1, gw.callCount("SendOrder"))

	o, err = s.AddItem(context.Background(), o.ID, "p-suco", 2)
	require.NoError(t, err)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, 1, gw.callCount("SendOrder"), "only the first item sends")

	require.NoError(t, s.Finish(context.Background(), o.ID))
	assert.Empty(t, s.Orders())
}
