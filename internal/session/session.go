// Package session holds the per-operator state that every cart and checkout
// operation receives explicitly: the active client, the margin basis, the cart
// and the order being edited.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/client"
)

type Session struct {
	ID        uuid.UUID
	Client    *client.Client
	Margin    decimal.Decimal
	Cart      *cart.Cart
	CreatedAt time.Time
	LastSeen  time.Time

	// EditingOrderID is set while a stored order is reopened in the cart;
	// checkout then updates that order instead of creating a new one.
	EditingOrderID string
	// EditingClientName and EditingClientEmail are the reopened order's own
	// client details. Checkout prefers them over the active client.
	EditingClientName  string
	EditingClientEmail string

	mu sync.Mutex
}

// Lock serializes requests that share a session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

func New(defaultMargin decimal.Decimal, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Margin:    defaultMargin,
		Cart:      cart.New(),
		CreatedAt: now,
		LastSeen:  now,
	}
}

// SetClient makes c the active client. A different identity invalidates the
// margin basis of every line in the cart, so the cart is cleared and the
// client's default margin adopted.
func (s *Session) SetClient(c *client.Client) {
	if s.Client != nil && c != nil && s.Client.ID == c.ID {
		s.Client = c
		return
	}

	s.Client = c
	s.Reset()

	if c != nil {
		s.Margin = c.DefaultMargin
	}
}

// ClearClient drops the active client, clearing the cart if one was set.
func (s *Session) ClearClient(defaultMargin decimal.Decimal) {
	if s.Client == nil {
		return
	}

	s.Client = nil
	s.Margin = defaultMargin
	s.Reset()
}

func (s *Session) SetMargin(m decimal.Decimal) error {
	if m.LessThan(decimal.NewFromInt(-100)) {
		return apperr.Validation("margin", "margin must not be below -100")
	}

	s.Margin = m

	return nil
}

// Edit reopens a stored order: its lines replace the cart and checkout will
// update orderID, keeping the order's client unless told otherwise.
func (s *Session) Edit(orderID, clientName, clientEmail string, lines []cart.Line) {
	s.Cart = cart.FromLines(lines)
	s.Track(orderID, clientName, clientEmail)
}

// Track points the next checkout at an already stored order without touching
// the cart.
func (s *Session) Track(orderID, clientName, clientEmail string) {
	s.EditingOrderID = orderID
	s.EditingClientName = clientName
	s.EditingClientEmail = clientEmail
}

// Reset clears the cart and the editing state after a checkout or a cart-clear action.
func (s *Session) Reset() {
	s.Cart.Clear()
	s.Track("", "", "")
}

// ClientName is the active client's name, or "" with no active client.
func (s *Session) ClientName() string {
	if s.Client == nil {
		return ""
	}

	return s.Client.Name
}

func (s *Session) ClientEmail() string {
	if s.Client == nil {
		return ""
	}

	return s.Client.Email
}
