package document

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/order"
)

// Renderer turns orders and catalog listings into PDF bytes on A4 pages.
type Renderer struct {
	geometry Geometry
	measurer Measurer
	backend  *PDF
	company  string
}

func NewRenderer(company string) *Renderer {
	return &Renderer{
		geometry: A4,
		measurer: NewHelveticaMeasurer(),
		backend:  NewPDF(company),
		company:  company,
	}
}

func (r *Renderer) RenderOrder(o *order.Order) ([]byte, error) {
	return r.render(OrderDocument(o, r.company))
}

func (r *Renderer) RenderCatalog(products []catalog.PricedProduct, margin decimal.Decimal, at time.Time) ([]byte, error) {
	return r.render(CatalogDocument(products, margin, at, r.company))
}

func (r *Renderer) render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.backend.Render(Build(doc, r.geometry, r.measurer), &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
