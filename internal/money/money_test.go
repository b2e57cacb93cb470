package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/remito/internal/money"
)

func TestParseLocalized(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "Spanish with symbol", in: "$ 1.234,56", want: "1234.56"},
		{name: "Plain period decimal", in: "1234.56", want: "1234.56"},
		{name: "Comma wins over period", in: "1,234.56", want: "1.23456"},
		{name: "Comma decimal only", in: "10,5", want: "10.5"},
		{name: "Millions", in: "1.234.567,89", want: "1234567.89"},
		{name: "Negative", in: "-588,74", want: "-588.74"},
		{name: "Integer", in: "42", want: "42"},
		{name: "Surrounding text", in: "ARS 99,90 c/u", want: "99.90"},
		{name: "Empty", in: "", wantErr: true},
		{name: "No digits", in: "n/a", wantErr: true},
		{name: "Two commas", in: "1,2,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseLocalized(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Sub(want).Abs().LessThan(decimal.New(1, -9)), "got %s want %s", got, want)
		})
	}
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		cost, margin, want string
	}{
		{cost: "100", margin: "20", want: "120.00"},
		{cost: "10.01", margin: "33.3", want: "13.34"},
		{cost: "0", margin: "50", want: "0.00"},
		{cost: "99.99", margin: "0", want: "99.99"},
	}

	for _, tt := range tests {
		got := money.UnitPrice(decimal.RequireFromString(tt.cost), decimal.RequireFromString(tt.margin))
		assert.Equal(t, tt.want, money.Fixed2(got))
	}
}

func TestSameMargin(t *testing.T) {
	assert.True(t, money.SameMargin(decimal.NewFromFloat(20), decimal.NewFromFloat(20.0000001)))
	assert.False(t, money.SameMargin(decimal.NewFromFloat(20), decimal.NewFromFloat(20.00001)))
}

type line struct{ price, qty int64 }

func (l line) Subtotal() decimal.Decimal {
	return decimal.NewFromInt(l.price).Mul(decimal.NewFromInt(l.qty))
}

func TestTotal(t *testing.T) {
	assert.True(t, money.Total([]line{{price: 10, qty: 2}, {price: 5, qty: 3}}).Equal(decimal.NewFromInt(35)))
	assert.True(t, money.Total([]line{}).IsZero())
}

func TestFormatter_Format(t *testing.T) {
	f := money.NewFormatter(language.English, "$")
	assert.Equal(t, "$ 1,234.50", f.Format(decimal.RequireFromString("1234.5")))
}
