// Package money holds the decimal arithmetic and formatting rules used for prices.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MarginTolerance is the distance under which two margins are considered equal.
var MarginTolerance = decimal.New(1, -6)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

var errEmptyAmount = errors.New("empty amount")

// ParseLocalized parses an amount written either as "1234.56" or in the
// Spanish style "$ 1.234,56". Everything except digits, ',', '.' and '-' is
// dropped first. When a comma is present periods are thousands separators
// and the comma is the decimal point.
func ParseLocalized(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}

		return -1
	}, s)

	if clean == "" {
		return decimal.Zero, errEmptyAmount
	}

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

// UnitPrice applies a percentage markup to cost, rounded to cents.
func UnitPrice(cost, marginPercent decimal.Decimal) decimal.Decimal {
	return cost.Mul(one.Add(marginPercent.Div(hundred))).Round(2)
}

// SameMargin reports whether two margins are within MarginTolerance.
func SameMargin(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(MarginTolerance)
}

// Line is anything that contributes unit price times quantity to a total.
type Line interface {
	Subtotal() decimal.Decimal
}

// Total sums the lines and rounds to cents.
func Total[L Line](lines []L) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}

	return sum.Round(2)
}

// Fixed2 renders d with exactly two decimals and a period separator.
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Formatter renders amounts for people, using one locale's separators.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

func NewFormatter(tag language.Tag, symbol string) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// DefaultFormatter formats Argentine pesos.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.MustParse("es-AR"), "$")
}

func (f *Formatter) Format(d decimal.Decimal) string {
	return f.symbol + " " + f.printer.Sprintf("%.2f", d.InexactFloat64())
}
