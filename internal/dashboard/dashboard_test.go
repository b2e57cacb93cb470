package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/client"
	"github.com/MrJamesThe3rd/remito/internal/dashboard"
	"github.com/MrJamesThe3rd/remito/internal/order"
)

type fakeCatalog struct{ snap catalog.Snapshot }

func (f fakeCatalog) Load(context.Context) catalog.Snapshot { return f.snap }

type fakeClients struct {
	clients []*client.Client
	err     error
}

func (f fakeClients) List(context.Context) ([]*client.Client, error) { return f.clients, f.err }

type fakeOrders struct{ orders []*order.Order }

func (f fakeOrders) List(context.Context, order.ListFilter) ([]*order.Order, error) {
	return f.orders, nil
}

func TestService_Stats(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local)

	margin := func(m int64) cart.Line { return cart.Line{Margin: decimal.NewFromInt(m)} }

	orders := fakeOrders{orders: []*order.Order{
		{ID: "a", CreatedAt: now.Add(-time.Hour), Total: decimal.RequireFromString("100.50"), Items: []cart.Line{margin(20), margin(30)}},
		{ID: "b", CreatedAt: now.Add(-2 * time.Hour), Total: decimal.RequireFromString("50"), Items: []cart.Line{margin(25)}},
		{ID: "c", CreatedAt: now.AddDate(0, 0, -1), Total: decimal.RequireFromString("999"), Items: []cart.Line{margin(90)}},
		{ID: "d", Total: decimal.RequireFromString("1")},
	}}

	svc := dashboard.NewService(
		fakeCatalog{snap: catalog.Snapshot{Products: make([]catalog.Product, 7), Rejected: make([]catalog.Rejection, 2)}},
		fakeClients{clients: make([]*client.Client, 3)},
		orders,
	).WithClock(func() time.Time { return now })

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, st.Products)
	assert.Equal(t, 2, st.Rejected)
	assert.Equal(t, 3, st.Clients)
	assert.Equal(t, 2, st.OrdersToday)
	assert.True(t, st.SalesToday.Equal(decimal.RequireFromString("150.5")))
	assert.True(t, st.AverageMarginToday.Equal(decimal.NewFromInt(25)))
}

func TestService_Stats_ClientError(t *testing.T) {
	svc := dashboard.NewService(fakeCatalog{}, fakeClients{err: errors.New("db")}, fakeOrders{})

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}
