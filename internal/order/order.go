// Package order persists checked-out carts and the pipeline state of each one.
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

var ErrNotFound = fmt.Errorf("order %w", apperr.ErrNotFound)

// IDLayout formats the creation second into an order id. Two checkouts in the
// same second share an id and the later one wins.
const IDLayout = "20060102-150405"

type Order struct {
	ID          string
	ClientName  string
	ClientEmail string
	Responsible string
	// CreatedAt is zero when the stored timestamp could not be read.
	CreatedAt        time.Time
	Items            []cart.Line
	Total            decimal.Decimal
	State            pipeline.State
	DocumentFilename string
}

func (o *Order) Card() pipeline.Card {
	return pipeline.Card{
		OrderID:    o.ID,
		ClientName: o.ClientName,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
		State:      o.State,
	}
}

// DocumentName is the name the remito of this order is stored under.
func DocumentName(id string) string {
	return "remito-" + id + ".pdf"
}
