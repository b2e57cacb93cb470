package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestService_Load_File(t *testing.T) {
	path := writeCatalog(t, "producto;precio;vencimiento\nYerba;1.500,00;10/2026\n;5;\nAzúcar;850;\n")

	snap := catalog.NewService(catalog.NewFileSource(path)).Load(context.Background())

	require.Len(t, snap.Products, 2)
	assert.Equal(t, "Yerba", snap.Products[0].Name)
	assert.True(t, snap.Products[0].Cost.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "Azúcar", snap.Products[1].Name)
	assert.Equal(t, 1, snap.Products[1].ID)
	require.Len(t, snap.Rejected, 1)
	assert.Equal(t, 2, snap.Rejected[0].Row)
	assert.Equal(t, "UTF-8", snap.Charset)
}

func TestService_Load_Windows1252File(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().String("producto;precio\nCafé molido;10,00\n")
	require.NoError(t, err)

	path := writeCatalog(t, latin)

	snap := catalog.NewService(catalog.NewFileSource(path)).Load(context.Background())

	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Café molido", snap.Products[0].Name)
	assert.NotEqual(t, "UTF-8", snap.Charset)
}

func TestService_Load_MissingFileIsEmpty(t *testing.T) {
	src := catalog.NewFileSource(filepath.Join(t.TempDir(), "nope.csv"))

	snap := catalog.NewService(src).Load(context.Background())
	assert.Empty(t, snap.Products)
}

func TestService_Load_BadStructureIsEmpty(t *testing.T) {
	path := writeCatalog(t, "foo,bar\n1,2\n")

	snap := catalog.NewService(catalog.NewFileSource(path)).Load(context.Background())
	assert.Empty(t, snap.Products)
}

func TestService_Load_URL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("name,cost,vto\nCafé,\"1.234,56\",12/2026\n"))
	}))
	defer ts.Close()

	svc := catalog.NewService(catalog.NewURLSource(ts.URL+"/export.csv", time.Second))
	snap := svc.Load(context.Background())

	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Café", snap.Products[0].Name)
	assert.True(t, snap.Products[0].Cost.Equal(decimal.RequireFromString("1234.56")))

	missing := catalog.NewService(catalog.NewURLSource(ts.URL+"/missing.csv", time.Second))
	assert.Empty(t, missing.Load(context.Background()).Products)
}

func TestService_Query(t *testing.T) {
	path := writeCatalog(t, "name,cost\nYerba Mate,100\nMate cocido,50\nAzúcar,10\n")

	priced := catalog.NewService(catalog.NewFileSource(path)).Query(context.Background(), "mate", decimal.NewFromInt(10))

	require.Len(t, priced, 2)
	assert.Equal(t, "110.00", priced[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "55.00", priced[1].UnitPrice.StringFixed(2))
}

func TestService_Import(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "products.csv")
	svc := catalog.NewService(catalog.NewFileSource(path))

	res, err := svc.Import(context.Background(), strings.NewReader("Producto;Costo;Vto\nArroz;1.000,50;\nsin precio;;\n"))
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	assert.Len(t, res.Rejected, 1)

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,cost,vencimiento\nArroz,1000.5,\n", string(stored))

	snap := svc.Load(context.Background())
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Arroz", snap.Products[0].Name)
}

func TestService_Import_Rejected(t *testing.T) {
	path := writeCatalog(t, "name,cost\nKeep,1\n")
	svc := catalog.NewService(catalog.NewFileSource(path))

	_, err := svc.Import(context.Background(), strings.NewReader("name,cost\n,\n"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Import(context.Background(), strings.NewReader("a,b\n1,2\n"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,cost\nKeep,1\n", string(stored))
}

func TestService_Import_RemoteSource(t *testing.T) {
	svc := catalog.NewService(catalog.NewURLSource("http://127.0.0.1:1/x.csv", time.Second))

	_, err := svc.Import(context.Background(), strings.NewReader("name,cost\nA,1\n"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
