package view

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/money"
)

const storeTimeout = 5 * time.Second

var formatter = money.DefaultFormatter()

// FormatMoney renders an amount the way the sales team reads it, e.g. $ 1.234,50.
func FormatMoney(d decimal.Decimal) string {
	return formatter.Format(d)
}

// FormatAge renders how long ago t was, or "-" when unknown.
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return humanize.Time(t)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format(time.DateTime)
}

// StoreCtx returns a context with a standard timeout for store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
