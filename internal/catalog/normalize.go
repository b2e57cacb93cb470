package catalog

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/remito/internal/money"
)

// Table is a loosely structured tabular source: a header row and data rows.
type Table struct {
	Header  []string
	Rows    [][]string
	Charset string
}

// Synonyms are tried in order; the first header present wins.
var (
	nameSynonyms   = []string{"name", "producto"}
	costSynonyms   = []string{"cost", "precio", "costo"}
	expirySynonyms = []string{"vencimiento", "vto", "fecha vencimiento", "fecha_vencimiento"}

	// expiryFragments are searched inside headers when no expiry synonym matched.
	expiryFragments = []string{"venc", "vto"}
)

// MissingColumnError reports a source without a required semantic column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing %s column", e.Column)
}

// Result is the output of Normalize. Rejected lists rows that were dropped.
type Result struct {
	Products []Product
	Rejected []Rejection
	Charset  string
}

type columns struct {
	name, cost, expiry int
}

// Normalize turns a raw table into products. Bad rows never fail the batch;
// they are reported in Result.Rejected. Only a source lacking a name or cost
// column is an error.
func Normalize(t Table) (Result, error) {
	cols, err := resolveColumns(t.Header)
	if err != nil {
		return Result{}, err
	}

	res := Result{Charset: t.Charset}

	for i, row := range t.Rows {
		rowNum := i + 1

		name := cell(row, cols.name)
		if name == "" {
			res.Rejected = append(res.Rejected, Rejection{Row: rowNum, Reason: "missing name"})
			continue
		}

		rawCost := cell(row, cols.cost)
		if rawCost == "" {
			res.Rejected = append(res.Rejected, Rejection{Row: rowNum, Reason: "missing cost"})
			continue
		}

		cost, err := money.ParseLocalized(rawCost)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Row: rowNum, Reason: fmt.Sprintf("unparseable cost %q", rawCost)})
			continue
		}

		if cost.IsNegative() {
			res.Rejected = append(res.Rejected, Rejection{Row: rowNum, Reason: fmt.Sprintf("negative cost %q", rawCost)})
			continue
		}

		res.Products = append(res.Products, Product{
			ID:     len(res.Products),
			Name:   name,
			Cost:   cost,
			Expiry: expiry(row, cols.expiry),
		})
	}

	return res, nil
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))

	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	cols := columns{
		name:   lookup(index, nameSynonyms),
		cost:   lookup(index, costSynonyms),
		expiry: lookup(index, expirySynonyms),
	}

	if cols.name < 0 {
		return cols, &MissingColumnError{Column: "name"}
	}

	if cols.cost < 0 {
		return cols, &MissingColumnError{Column: "cost"}
	}

	if cols.expiry < 0 {
		cols.expiry = findFragment(header, expiryFragments)
	}

	return cols, nil
}

func lookup(index map[string]int, synonyms []string) int {
	for _, s := range synonyms {
		if i, ok := index[s]; ok {
			return i
		}
	}

	return -1
}

func findFragment(header []string, fragments []string) int {
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, f := range fragments {
			if strings.Contains(key, f) {
				return i
			}
		}
	}

	return -1
}

// expiry returns the expiry label, treating spreadsheet nulls as empty.
func expiry(row []string, idx int) string {
	v := cell(row, idx)

	switch strings.ToLower(v) {
	case "nan", "null", "none":
		return ""
	}

	return v
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
