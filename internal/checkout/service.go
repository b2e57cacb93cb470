// Package checkout turns a session's cart into a stored order with its remito.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/notify"
	"github.com/MrJamesThe3rd/remito/internal/order"
	"github.com/MrJamesThe3rd/remito/internal/session"
)

// DefaultClientName is used when neither the request nor the session names a client.
const DefaultClientName = "Cliente"

//go:generate mockgen -source=service.go -destination=service_mock.go -package=checkout
type Orders interface {
	Create(ctx context.Context, p order.Params) (*order.Order, error)
	Update(ctx context.Context, id string, p order.Params) (*order.Order, error)
	SetDocument(ctx context.Context, id, name string) error
}

type Renderer interface {
	RenderOrder(o *order.Order) ([]byte, error)
}

type Documents interface {
	Put(ctx context.Context, name string, data []byte) error
}

type Notifier interface {
	Send(ctx context.Context, msg notify.Message) error
}

type Service struct {
	orders    Orders
	renderer  Renderer
	documents Documents
	notifier  Notifier
	company   string
}

func NewService(orders Orders, renderer Renderer, documents Documents, notifier Notifier, company string) *Service {
	return &Service{
		orders:    orders,
		renderer:  renderer,
		documents: documents,
		notifier:  notifier,
		company:   company,
	}
}

type Params struct {
	ClientName  string
	ClientEmail string
	Responsible string
}

type Result struct {
	Order        *order.Order
	DocumentName string
	Updated      bool
	Notified     bool
}

// Checkout stores the cart of sess as an order, or updates the order being
// edited, renders and stores its remito and mails it when the client has an
// address. The cart is cleared only once the order and its remito are stored.
// A failed notification is logged and does not fail the checkout.
func (s *Service) Checkout(ctx context.Context, sess *session.Session, p Params) (*Result, error) {
	if sess.Cart.Empty() {
		return nil, apperr.Validation("items", "cart is empty")
	}

	if strings.TrimSpace(p.Responsible) == "" {
		return nil, apperr.Validation("responsible", "responsible is required")
	}

	params := order.Params{
		Items:       sess.Cart.Lines(),
		ClientName:  firstNonBlank(p.ClientName, sess.EditingClientName, sess.ClientName(), DefaultClientName),
		ClientEmail: firstNonBlank(p.ClientEmail, sess.EditingClientEmail, sess.ClientEmail()),
		Responsible: p.Responsible,
	}

	var (
		o   *order.Order
		err error
	)

	updated := sess.EditingOrderID != ""
	if updated {
		o, err = s.orders.Update(ctx, sess.EditingOrderID, params)
	} else {
		o, err = s.orders.Create(ctx, params)
	}

	if err != nil {
		return nil, fmt.Errorf("storing order: %w", err)
	}

	// a retry after a document failure must update this order, not create another
	sess.Track(o.ID, o.ClientName, o.ClientEmail)

	name := order.DocumentName(o.ID)

	pdf, err := s.renderer.RenderOrder(o)
	if err != nil {
		return nil, fmt.Errorf("rendering remito %s: %w", o.ID, err)
	}

	if err := s.documents.Put(ctx, name, pdf); err != nil {
		return nil, apperr.Persistence("storing remito "+name, err)
	}

	if err := s.orders.SetDocument(ctx, o.ID, name); err != nil {
		return nil, fmt.Errorf("linking remito %s: %w", name, err)
	}

	o.DocumentFilename = name

	res := &Result{Order: o, DocumentName: name, Updated: updated}

	if o.ClientEmail != "" {
		if err := s.notifier.Send(ctx, notify.OrderMessage(o, s.company, name, pdf)); err != nil {
			slog.Warn("remito stored but not sent", "order_id", o.ID, "to", o.ClientEmail, "error", err)
		} else {
			res.Notified = true
		}
	}

	sess.Reset()

	slog.Info("checkout completed", "order_id", o.ID, "items", len(o.Items), "total", o.Total.StringFixed(2), "updated", updated)

	return res, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
