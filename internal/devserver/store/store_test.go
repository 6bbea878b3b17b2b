package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRequiresExistingCategory(t *testing.T) {
	s := New()

	_, err := s.CreateProduct(Product{Name: "Pizza", CategoryID: "missing"})
	require.EqualError(t, err, "category not found")

	c, err := s.CreateCategory("Massas")
	require.NoError(t, err)

	p, err := s.CreateProduct(Product{Name: "Pizza", CategoryID: c.ID, Price: decimal.RequireFromString("39.90")})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	list, err := s.ProductsByCategory(c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderLifecycle(t *testing.T) {
	s := New()
	c, _ := s.CreateCategory("Massas")
	p, _ := s.CreateProduct(Product{Name: "Pizza", CategoryID: c.ID})

	o, err := s.CreateOrder("Ana", 5)
	require.NoError(t, err)
	assert.True(t, o.Draft)

	item, err := s.AddItem(o.ID, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Amount)

	require.NoError(t, s.SendOrder(o.ID))
	require.EqualError(t, s.SendOrder(o.ID), "order already sent")

	require.NoError(t, s.FinishOrder(o.ID))
	require.EqualError(t, s.FinishOrder(o.ID), "order already finished")

	assert.Empty(t, s.ListOrders(), "finished orders leave the active list")

	got, ok := s.Order(o.ID)
	assert.True(t, ok, "finished orders stay addressable by id")
	assert.True(t, got.Finished)
}

func TestCreateOrderValidatesTable(t *testing.T) {
	s := New()
	_, err := s.CreateOrder("Ana", 0)
	require.EqualError(t, err, "table number must be positive")
}

func TestAddItemErrors(t *testing.T) {
	s := New()
	c, _ := s.CreateCategory("Massas")
	p, _ := s.CreateProduct(Product{Name: "Pizza", CategoryID: c.ID})
	o, _ := s.CreateOrder("Ana", 5)

	_, err := s.AddItem(o.ID, p.ID, 0)
	require.EqualError(t, err, "amount must be at least 1")

	_, err = s.AddItem("missing", p.ID, 1)
	require.EqualError(t, err, "order not found")

	_, err = s.AddItem(o.ID, "missing", 1)
	require.EqualError(t, err, "product not found")

	require.NoError(t, s.FinishOrder(o.ID))
	_, err = s.AddItem(o.ID, p.ID, 1)
	require.EqualError(t, err, "order already finished")
}

func TestUpdateItemAmount(t *testing.T) {
	s := New()
	c, _ := s.CreateCategory("Massas")
	p, _ := s.CreateProduct(Product{Name: "Pizza", CategoryID: c.ID})
	o, _ := s.CreateOrder("Ana", 5)
	_, err := s.AddItem(o.ID, p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, s.UpdateItemAmount(p.ID, 4))
	got, _ := s.Order(o.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Amount)

	// Zero removes the item.
	require.NoError(t, s.UpdateItemAmount(p.ID, 0))
	got, _ = s.Order(o.ID)
	assert.Empty(t, got.Items)

	require.EqualError(t, s.UpdateItemAmount(p.ID, 1), "item not found")
}

func TestDeleteOrderAndItem(t *testing.T) {
	s := New()
	c, _ := s.CreateCategory("Massas")
	p, _ := s.CreateProduct(Product{Name: "Pizza", CategoryID: c.ID})
	o, _ := s.CreateOrder("Ana", 5)
	item, _ := s.AddItem(o.ID, p.ID, 1)

	require.NoError(t, s.DeleteItem(item.ID))
	require.EqualError(t, s.DeleteItem(item.ID), "item not found")

	require.NoError(t, s.DeleteOrder(o.ID))
	require.EqualError(t, s.DeleteOrder(o.ID), "order not found")
}
