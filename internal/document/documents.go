package document

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/money"
	"github.com/MrJamesThe3rd/remito/internal/order"
)

var orderColumns = []Column{
	{Title: "Cant", Right: 0, Width: 40},
	{Title: "P.Unit", Right: 50, Width: 60},
	{Title: "Venc.", Right: 120, Width: 60},
}

var catalogColumns = []Column{
	{Title: "P.Unit", Right: 0, Width: 60},
	{Title: "Costo", Right: 70, Width: 60},
	{Title: "Venc.", Right: 140, Width: 60},
}

func OrderDocument(o *order.Order, company string) Document {
	date := "-"
	if !o.CreatedAt.IsZero() {
		date = o.CreatedAt.Format(time.DateTime)
	}

	rows := make([]Row, len(o.Items))
	for i, it := range o.Items {
		rows[i] = Row{
			Name:  it.Name,
			Cells: []string{strconv.Itoa(it.Quantity), money.Fixed2(it.UnitPrice), it.Expiry},
		}
	}

	return Document{
		Title: title("Remito / Presupuesto", company),
		Info: []string{
			"Nº: " + o.ID,
			"Fecha: " + date,
			"Cliente: " + o.ClientName,
		},
		NameTitle: "Producto",
		Columns:   orderColumns,
		Rows:      rows,
		Total:     "TOTAL: $" + money.Fixed2(o.Total),
	}
}

func CatalogDocument(products []catalog.PricedProduct, margin decimal.Decimal, at time.Time, company string) Document {
	rows := make([]Row, len(products))
	for i, p := range products {
		rows[i] = Row{
			Name:  p.Name,
			Cells: []string{money.Fixed2(p.UnitPrice), money.Fixed2(p.Cost), p.Expiry},
		}
	}

	return Document{
		Title: title("Lista de precios", company),
		Info: []string{
			"Fecha: " + at.Format(time.DateTime),
			fmt.Sprintf("Margen: %s%%", margin.String()),
			fmt.Sprintf("Productos: %d", len(products)),
		},
		NameTitle: "Producto",
		Columns:   catalogColumns,
		Rows:      rows,
	}
}

func title(kind, company string) string {
	if company == "" {
		return kind
	}

	return kind + " - " + company
}
