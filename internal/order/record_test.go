package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/remito/internal/order"
)

func TestDecodeRecord_Legacy(t *testing.T) {
	legacy := []byte(`{
  "client_name": "Cliente",
  "client_email": "",
  "created_at": "2024-05-01T10:20:30.123456",
  "items": [
    {"id": 3, "name": "Yerba", "cost": 1000.0, "vencimiento": null, "margin": 20.0, "final_price": 1200.0, "qty": 2},
    {"id": 4, "name": "Azúcar", "cost": 500, "vencimiento": 45123, "margin": 20, "final_price": 600, "qty": 1}
  ],
  "total": 3000.0,
  "state": "Oportunidad"
}`)

	rec, err := order.DecodeRecord("20240501-102030", legacy)
	require.NoError(t, err)

	assert.Equal(t, order.RecordVersion, rec.Version)
	assert.Equal(t, "20240501-102030", rec.OrderID)
	assert.Equal(t, "Oportunidad", rec.State)
	require.Len(t, rec.Items, 2)
	assert.Equal(t, order.Label(""), rec.Items[0].Vencimiento)
	assert.Equal(t, order.Label("45123"), rec.Items[1].Vencimiento)
}

func TestDecodeRecord_Defaults(t *testing.T) {
	rec, err := order.DecodeRecord("k", []byte(`{"items": null}`))
	require.NoError(t, err)

	assert.Equal(t, "k", rec.OrderID)
	assert.Equal(t, "Pedido", rec.State)
	assert.NotNil(t, rec.Items)
}

func TestDecodeRecord_Corrupt(t *testing.T) {
	_, err := order.DecodeRecord("k", []byte(`{"items": [`))
	assert.Error(t, err)

	_, err = order.DecodeRecord("k", []byte(`{"items": [{"vencimiento": true}]}`))
	assert.Error(t, err)
}
