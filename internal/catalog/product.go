package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/money"
)

// Product is one normalized catalog row. ID is its position in the load that
// produced it and is not stable across reloads.
type Product struct {
	ID     int
	Name   string
	Cost   decimal.Decimal
	Expiry string
}

// PricedProduct is a product with a markup applied.
type PricedProduct struct {
	Product
	Margin    decimal.Decimal
	UnitPrice decimal.Decimal
}

// Rejection explains why a source row did not become a product.
// Row is the 1-based data row number, header excluded.
type Rejection struct {
	Row    int
	Reason string
}

// Snapshot is the catalog as seen by one load.
type Snapshot struct {
	Products []Product
	Rejected []Rejection
	Charset  string
	LoadedAt time.Time
}

// Find returns the product with the given id in this snapshot.
func (s Snapshot) Find(id int) (Product, bool) {
	if id < 0 || id >= len(s.Products) {
		return Product{}, false
	}

	return s.Products[id], true
}

// FindByName re-resolves a product across reloads, case-insensitively.
func (s Snapshot) FindByName(name string) (Product, bool) {
	for _, p := range s.Products {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}

	return Product{}, false
}

// Resolve maps a client-held product reference onto this snapshot. Ids are
// positional, so when name is given and the product at id no longer carries
// it, the product is looked up by name. It returns -1 when name matches
// nothing.
func (s Snapshot) Resolve(id int, name string) int {
	if strings.TrimSpace(name) == "" {
		return id
	}

	if p, ok := s.Find(id); ok && strings.EqualFold(p.Name, strings.TrimSpace(name)) {
		return id
	}

	if p, ok := s.FindByName(name); ok {
		return p.ID
	}

	return -1
}

// Price applies margin to every product whose name contains q (case-insensitive).
func (s Snapshot) Price(q string, margin decimal.Decimal) []PricedProduct {
	q = strings.ToLower(strings.TrimSpace(q))

	priced := make([]PricedProduct, 0, len(s.Products))

	for _, p := range s.Products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}

		priced = append(priced, PricedProduct{
			Product:   p,
			Margin:    margin,
			UnitPrice: money.UnitPrice(p.Cost, margin),
		})
	}

	return priced
}
