// Package cart holds the per-session cart and its merge and pricing rules.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/money"
)

var (
	ErrNotFound        = fmt.Errorf("product %w", apperr.ErrNotFound)
	ErrOutOfRange      = fmt.Errorf("cart line %w", apperr.ErrNotFound)
	ErrInvalidQuantity = apperr.Validation("qty", "quantity must be at least 1")
	ErrInvalidMargin   = apperr.Validation("margin", "margin must not be below -100")
)

// Line is one product at one margin. UnitPrice is fixed when the line is added.
type Line struct {
	ProductID int
	Name      string
	Cost      decimal.Decimal
	Expiry    string
	Margin    decimal.Decimal
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is owned by a single session and is not safe for concurrent use.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// FromLines builds a cart holding a copy of lines, as when an order is reopened.
func FromLines(lines []Line) *Cart {
	return &Cart{lines: append([]Line(nil), lines...)}
}

// Add prices a product from snap and merges it into an existing line with the
// same product and margin, or appends a new line.
func (c *Cart) Add(snap catalog.Snapshot, productID, quantity int, margin decimal.Decimal) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if margin.LessThan(decimal.NewFromInt(-100)) {
		return ErrInvalidMargin
	}

	p, ok := snap.Find(productID)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, productID)
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID && money.SameMargin(c.lines[i].Margin, margin) {
			c.lines[i].Quantity += quantity
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Cost:      p.Cost,
		Expiry:    p.Expiry,
		Margin:    margin,
		UnitPrice: money.UnitPrice(p.Cost, margin),
		Quantity:  quantity,
	})

	return nil
}

// Update sets the quantity of a line; a quantity of zero or less removes it.
func (c *Cart) Update(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}

	if quantity <= 0 {
		return c.Remove(index)
	}

	c.lines[index].Quantity = quantity

	return nil
}

func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: index %d", ErrOutOfRange, index)
	}

	c.lines = append(c.lines[:index], c.lines[index+1:]...)

	return nil
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Total() decimal.Decimal {
	return money.Total(c.lines)
}
