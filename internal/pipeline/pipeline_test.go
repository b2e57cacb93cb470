package pipeline_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		label string
		want  pipeline.State
	}{
		{"Pedido", pipeline.StatePedido},
		{"Enviado", pipeline.StateEnviado},
		{"Entregado (A cobrar)", pipeline.StateEntregado},
		{"Cobrado", pipeline.StateCobrado},
		{" Cobrado ", pipeline.StateCobrado},
		{"cobrado", pipeline.StatePedido},
		{"ENVIADO", pipeline.StatePedido},
		{"Entregado", pipeline.StatePedido},
		{"a cobrar", pipeline.StatePedido},
		{"Oportunidad", pipeline.StatePedido},
		{"Remito", pipeline.StatePedido},
		{"", pipeline.StatePedido},
		{"Cancelado", pipeline.StatePedido},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.Normalize(tt.label))
		})
	}
}

func TestNext(t *testing.T) {
	next, ok := pipeline.Next(pipeline.StatePedido)
	assert.True(t, ok)
	assert.Equal(t, pipeline.StateEnviado, next)

	next, ok = pipeline.Next(pipeline.StateEnviado)
	assert.True(t, ok)
	assert.Equal(t, pipeline.StateEntregado, next)

	next, ok = pipeline.Next(pipeline.StateEntregado)
	assert.True(t, ok)
	assert.Equal(t, pipeline.StateCobrado, next)

	_, ok = pipeline.Next(pipeline.StateCobrado)
	assert.False(t, ok)
}

func card(id string, state pipeline.State, created time.Time, total int64) pipeline.Card {
	return pipeline.Card{OrderID: id, State: state, CreatedAt: created, Total: decimal.NewFromInt(total)}
}

func TestNewBoard(t *testing.T) {
	march := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	april := time.Date(2026, 4, 2, 9, 30, 0, 0, time.Local)

	cards := []pipeline.Card{
		card("a", pipeline.StatePedido, march, 100),
		card("b", "Reservado", march, 50),
		card("c", pipeline.StateEnviado, april, 10),
		card("d", pipeline.StateCobrado, march, 300),
		card("e", pipeline.StateCobrado, april, 200),
		card("f", pipeline.StateCobrado, time.Time{}, 1),
		card("g", "Oportunidad", april, 5),
	}

	t.Run("Unfiltered", func(t *testing.T) {
		b := pipeline.NewBoard(cards, pipeline.Filter{})

		require.Len(t, b.Columns, 4)
		for i, s := range pipeline.States {
			assert.Equal(t, s, b.Columns[i].State)
		}

		pedido := b.Column(pipeline.StatePedido)
		assert.Len(t, pedido.Cards, 3)
		assert.True(t, pedido.Total.Equal(decimal.NewFromInt(155)))
		assert.Equal(t, pipeline.StatePedido, pedido.Cards[1].State)

		cobrado := b.Column(pipeline.StateCobrado)
		assert.Len(t, cobrado.Cards, 3)
		assert.True(t, cobrado.Total.Equal(decimal.NewFromInt(501)))
		assert.Empty(t, b.Column(pipeline.StateEntregado).Cards)
	})

	t.Run("Month filter applies to Cobrado only", func(t *testing.T) {
		b := pipeline.NewBoard(cards, pipeline.Filter{Month: "2026-03"})

		cobrado := b.Column(pipeline.StateCobrado)
		require.Len(t, cobrado.Cards, 1)
		assert.Equal(t, "d", cobrado.Cards[0].OrderID)
		assert.Len(t, b.Column(pipeline.StateEnviado).Cards, 1)
		assert.Len(t, b.Column(pipeline.StatePedido).Cards, 3)
	})

	t.Run("Day filter", func(t *testing.T) {
		b := pipeline.NewBoard(cards, pipeline.Filter{Month: "2026-03", Day: "2026-04-02"})

		cobrado := b.Column(pipeline.StateCobrado)
		require.Len(t, cobrado.Cards, 1)
		assert.Equal(t, "e", cobrado.Cards[0].OrderID)
		assert.True(t, cobrado.Total.Equal(decimal.NewFromInt(200)))
	})
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, pipeline.Filter{}.Validate())
	assert.NoError(t, pipeline.Filter{Month: "2026-01", Day: "2026-01-31"}.Validate())
	assert.ErrorIs(t, pipeline.Filter{Month: "01/2026"}.Validate(), apperr.ErrValidation)
	assert.ErrorIs(t, pipeline.Filter{Day: "2026-13-01"}.Validate(), apperr.ErrValidation)
}
