// Package pipeline tracks an order from the moment it is taken until it is paid.
//
// Any state may be set from any other: operators use this to correct mistakes,
// so the store never rejects a label. Readers normalize whatever they find.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

type State string

const (
	StatePedido    State = "Pedido"
	StateEnviado   State = "Enviado"
	StateEntregado State = "Entregado (A cobrar)"
	StateCobrado   State = "Cobrado"
)

// States lists the board columns in display order.
var States = []State{StatePedido, StateEnviado, StateEntregado, StateCobrado}

// Normalize maps a stored label to one of the four states. Labels must match
// exactly, surrounding whitespace aside; legacy and unknown labels land in
// Pedido.
func Normalize(label string) State {
	label = strings.TrimSpace(label)

	for _, s := range States {
		if string(s) == label {
			return s
		}
	}

	return StatePedido
}

// Next returns the forward transition offered for s. Cobrado has none.
func Next(s State) (State, bool) {
	switch Normalize(string(s)) {
	case StatePedido:
		return StateEnviado, true
	case StateEnviado:
		return StateEntregado, true
	case StateEntregado:
		return StateCobrado, true
	default:
		return "", false
	}
}

// Card is the part of an order the board shows.
type Card struct {
	OrderID    string
	ClientName string
	Total      decimal.Decimal
	CreatedAt  time.Time
	State      State
}

// Filter narrows the Cobrado column to a month (YYYY-MM) or a day
// (YYYY-MM-DD). Day wins when both are set.
type Filter struct {
	Month string
	Day   string
}

const monthLayout = "2006-01"

func (f Filter) Validate() error {
	if f.Month != "" {
		if _, err := time.Parse(monthLayout, f.Month); err != nil {
			return apperr.Validation("month", fmt.Sprintf("month %q is not YYYY-MM", f.Month))
		}
	}

	if f.Day != "" {
		if _, err := time.Parse(time.DateOnly, f.Day); err != nil {
			return apperr.Validation("day", fmt.Sprintf("day %q is not YYYY-MM-DD", f.Day))
		}
	}

	return nil
}

func (f Filter) Active() bool {
	return f.Month != "" || f.Day != ""
}

// match is false for a zero time: an order without a readable date cannot be
// placed in a period.
func (f Filter) match(t time.Time) bool {
	if t.IsZero() {
		return false
	}

	if f.Day != "" {
		return t.Format(time.DateOnly) == f.Day
	}

	return t.Format(monthLayout) == f.Month
}

type Column struct {
	State State
	Cards []Card
	Total decimal.Decimal
}

type Board struct {
	Columns []Column
	Filter  Filter
}

// NewBoard groups cards into the four columns, keeping their input order.
// The filter only applies to Cobrado.
func NewBoard(cards []Card, f Filter) Board {
	idx := make(map[State]int, len(States))
	cols := make([]Column, len(States))

	for i, s := range States {
		idx[s] = i
		cols[i] = Column{State: s, Total: decimal.Zero}
	}

	for _, c := range cards {
		c.State = Normalize(string(c.State))

		if c.State == StateCobrado && f.Active() && !f.match(c.CreatedAt) {
			continue
		}

		col := &cols[idx[c.State]]
		col.Cards = append(col.Cards, c)
		col.Total = col.Total.Add(c.Total)
	}

	return Board{Columns: cols, Filter: f}
}

func (b Board) Column(s State) Column {
	for _, c := range b.Columns {
		if c.State == s {
			return c
		}
	}

	return Column{State: s}
}
