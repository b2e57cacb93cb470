package catalog

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/remito/internal/encoding"
)

// ReadTable reads a CSV export into a Table. The charset is detected and the
// delimiter is sniffed from the header line, since spreadsheets configured for
// Spanish write ';'.
func ReadTable(r io.Reader) (Table, error) {
	decoded, err := enc.Decode(r)
	if err != nil {
		return Table{}, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(decoded)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}

	t := Table{Charset: decoded.Charset}

	for _, row := range rows {
		if blank(row) {
			continue
		}

		if t.Header == nil {
			t.Header = row
			continue
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// WriteTable writes products back as a canonical name,cost,vencimiento CSV.
func WriteTable(w io.Writer, products []Product) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"name", "cost", "vencimiento"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range products {
		if err := cw.Write([]string{p.Name, p.Cost.String(), p.Expiry}); err != nil {
			return fmt.Errorf("write product %q: %w", p.Name, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(br.Size())

	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
