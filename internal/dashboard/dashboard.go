// Package dashboard computes the figures shown on the landing screen.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/client"
	"github.com/MrJamesThe3rd/remito/internal/order"
)

type Catalog interface {
	Load(ctx context.Context) catalog.Snapshot
}

type Clients interface {
	List(ctx context.Context) ([]*client.Client, error)
}

type Orders interface {
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
}

type Stats struct {
	Products    int
	Rejected    int
	Clients     int
	OrdersToday int
	SalesToday  decimal.Decimal
	// AverageMarginToday is the mean margin over the lines of today's orders.
	AverageMarginToday decimal.Decimal
}

type Service struct {
	catalog Catalog
	clients Clients
	orders  Orders
	now     func() time.Time
}

func NewService(catalog Catalog, clients Clients, orders Orders) *Service {
	return &Service{catalog: catalog, clients: clients, orders: orders, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	snap := s.catalog.Load(ctx)

	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	orders, err := s.orders.List(ctx, order.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	st := &Stats{
		Products:           len(snap.Products),
		Rejected:           len(snap.Rejected),
		Clients:            len(clients),
		SalesToday:         decimal.Zero,
		AverageMarginToday: decimal.Zero,
	}

	today := s.now().Format(time.DateOnly)
	margins := decimal.Zero
	lines := 0

	for _, o := range orders {
		if o.CreatedAt.IsZero() || o.CreatedAt.Format(time.DateOnly) != today {
			continue
		}

		st.OrdersToday++
		st.SalesToday = st.SalesToday.Add(o.Total)

		for _, it := range o.Items {
			margins = margins.Add(it.Margin)
			lines++
		}
	}

	if lines > 0 {
		st.AverageMarginToday = margins.Div(decimal.NewFromInt(int64(lines))).Round(2)
	}

	return st, nil
}
