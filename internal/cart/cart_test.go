package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
)

func snapshot() catalog.Snapshot {
	return catalog.Snapshot{Products: []catalog.Product{
		{ID: 0, Name: "Yerba", Cost: decimal.NewFromInt(100), Expiry: "10/2026"},
		{ID: 1, Name: "Azúcar", Cost: decimal.RequireFromString("10.01")},
	}}
}

func TestCart_Add(t *testing.T) {
	type step struct {
		productID int
		qty       int
		margin    float64
	}

	type testCase struct {
		name    string
		steps   []step
		wantErr error
		verify  func(t *testing.T, c *cart.Cart)
	}

	tests := []testCase{
		{
			name:  "Same product and margin merges",
			steps: []step{{0, 2, 20}, {0, 3, 20.0000001}},
			verify: func(t *testing.T, c *cart.Cart) {
				lines := c.Lines()
				require.Len(t, lines, 1)
				assert.Equal(t, 5, lines[0].Quantity)
				assert.Equal(t, "120.00", lines[0].UnitPrice.StringFixed(2))
				assert.Equal(t, "600.00", c.Total().StringFixed(2))
			},
		},
		{
			name:  "Different margin keeps separate lines",
			steps: []step{{0, 1, 20}, {0, 1, 30}},
			verify: func(t *testing.T, c *cart.Cart) {
				lines := c.Lines()
				require.Len(t, lines, 2)
				assert.Equal(t, "120.00", lines[0].UnitPrice.StringFixed(2))
				assert.Equal(t, "130.00", lines[1].UnitPrice.StringFixed(2))
				assert.Equal(t, "250.00", c.Total().StringFixed(2))
			},
		},
		{
			name:  "Different products keep separate lines",
			steps: []step{{0, 1, 20}, {1, 3, 20}},
			verify: func(t *testing.T, c *cart.Cart) {
				lines := c.Lines()
				require.Len(t, lines, 2)
				assert.Equal(t, "Azúcar", lines[1].Name)
				assert.Equal(t, "12.01", lines[1].UnitPrice.StringFixed(2))
				assert.Equal(t, "156.03", c.Total().StringFixed(2))
			},
		},
		{
			name:    "Unknown product",
			steps:   []step{{7, 1, 20}},
			wantErr: cart.ErrNotFound,
		},
		{
			name:    "Zero quantity",
			steps:   []step{{0, 0, 20}},
			wantErr: cart.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.New()

			var err error
			for _, s := range tt.steps {
				err = c.Add(snapshot(), s.productID, s.qty, decimal.NewFromFloat(s.margin))
				if err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, c.Empty())

				return
			}

			require.NoError(t, err)
			tt.verify(t, c)
		})
	}
}

func TestCart_NotFoundIsTaxonomy(t *testing.T) {
	err := cart.New().Add(snapshot(), 99, 1, decimal.Zero)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = cart.New().Add(snapshot(), 0, 0, decimal.Zero)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCart_UpdateRemoveClear(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(snapshot(), 0, 1, decimal.NewFromInt(20)))
	require.NoError(t, c.Add(snapshot(), 1, 1, decimal.NewFromInt(20)))

	require.NoError(t, c.Update(0, 4))
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	require.NoError(t, c.Update(0, 0))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "Azúcar", c.Lines()[0].Name)

	assert.ErrorIs(t, c.Update(5, 1), cart.ErrOutOfRange)
	assert.ErrorIs(t, c.Update(-1, 1), cart.ErrOutOfRange)
	assert.ErrorIs(t, c.Remove(1), cart.ErrOutOfRange)

	require.NoError(t, c.Remove(0))
	assert.True(t, c.Empty())

	require.NoError(t, c.Add(snapshot(), 0, 2, decimal.NewFromInt(20)))
	c.Clear()
	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(snapshot(), 0, 1, decimal.NewFromInt(20)))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
