package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

var ErrNotFound = fmt.Errorf("client %w", apperr.ErrNotFound)

// Client is a customer the sales team prices for. DefaultMargin seeds the
// session margin when the client becomes active.
type Client struct {
	ID            uuid.UUID
	Name          string
	Email         string
	DefaultMargin decimal.Decimal
	Zone          string
	Notes         string
	CreatedAt     time.Time
}
