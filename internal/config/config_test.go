package config_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/remito/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.App.DefaultMargin.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "data/orders", cfg.OrdersDir())
	assert.Equal(t, "data/pdfs", cfg.DocumentsDir())
	assert.Equal(t, "data/products.csv", cfg.CatalogPath())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.Catalog.Timeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DEFAULT_MARGIN", "35.5")
	t.Setenv("PRODUCTS_CSV", "/srv/productos.csv")
	t.Setenv("CORS_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("DB_NAME", "ventas")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.DefaultMargin.Equal(decimal.RequireFromString("35.5")))
	assert.Equal(t, "/srv/productos.csv", cfg.CatalogPath())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres://postgres:@localhost:5432/ventas?sslmode=disable", cfg.ConnectionString())
	assert.True(t, cfg.Logger().Enabled(context.Background(), slog.LevelDebug))
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("DEFAULT_MARGIN", "-150")

	_, err = config.Load()
	assert.Error(t, err)
}
