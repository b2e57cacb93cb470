package document_test

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/remito/internal/document"
)

const mm = 72 / 25.4

// monoMeasurer gives every character half the font size.
type monoMeasurer struct{}

func (monoMeasurer) Width(f document.Font, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * f.Size / 2
}

func rows(n int) []document.Row {
	out := make([]document.Row, n)
	for i := range out {
		out[i] = document.Row{Name: fmt.Sprintf("Producto %d", i), Cells: []string{"1", "10.00", "12/2026"}}
	}

	return out
}

func orderDoc(n int) document.Document {
	return document.Document{
		Title:     "Remito",
		Info:      []string{"Nº: 1", "Fecha: hoy", "Cliente: Acme"},
		NameTitle: "Producto",
		Columns: []document.Column{
			{Title: "Cant", Right: 0, Width: 40},
			{Title: "P.Unit", Right: 50, Width: 60},
			{Title: "Venc.", Right: 120, Width: 60},
		},
		Rows:  rows(n),
		Total: "TOTAL: $10.00",
	}
}

func capacities(g document.Geometry) (int, int) {
	top := g.Height - g.Margin
	firstStart := top - 10*mm - 6*mm - 6*mm - 10*mm - 10*mm
	nextStart := top - 10*mm

	first := int(math.Floor((firstStart-g.Bottom)/g.RowHeight)) + 1
	next := int(math.Floor((nextStart-g.Bottom)/g.RowHeight)) + 1

	return first, next
}

func itemPages(n, first, next int) int {
	if n <= first {
		return 1
	}

	return int(math.Ceil(float64(n-first)/float64(next))) + 1
}

func countHeaders(p document.Page) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == document.OpText && op.Text == "Producto" {
			n++
		}
	}

	return n
}

func TestBuild_Capacities(t *testing.T) {
	first, next := capacities(document.A4)

	assert.Equal(t, 31, first)
	assert.Equal(t, 35, next)
	assert.Equal(t, next, document.A4.Capacity(document.A4.Height-document.A4.Margin-10*mm))
}

func TestBuild_Pagination(t *testing.T) {
	first, next := capacities(document.A4)

	tests := []struct {
		items     int
		wantPages int
		spill     bool
	}{
		{items: 1, wantPages: 1},
		{items: 28, wantPages: 1},
		{items: 29, wantPages: 2, spill: true},
		{items: first, wantPages: 2, spill: true},
		{items: first + 1, wantPages: 2},
		{items: first + next, wantPages: 3, spill: true},
		{items: first + next + 1, wantPages: 3},
		{items: 90, wantPages: itemPages(90, first, next)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d items", tt.items), func(t *testing.T) {
			l := document.Build(orderDoc(tt.items), document.A4, monoMeasurer{})

			require.Len(t, l.Pages, tt.wantPages)

			pages := itemPages(tt.items, first, next)
			if tt.spill {
				assert.Equal(t, pages+1, len(l.Pages))
			} else {
				assert.Equal(t, pages, len(l.Pages))
			}

			placed := 0
			for i := 0; i < pages; i++ {
				p := l.Pages[i]
				assert.True(t, p.Header)
				assert.Equal(t, 1, countHeaders(p), "page %d", i)

				want := next
				if i == 0 {
					want = first
				}

				if i == pages-1 {
					want = tt.items - placed
				}

				assert.Len(t, p.Rows, want, "page %d", i)

				for _, idx := range p.Rows {
					assert.Equal(t, placed, idx)
					placed++
				}
			}

			assert.Equal(t, tt.items, placed)

			last := l.Pages[len(l.Pages)-1]
			if tt.spill {
				assert.False(t, last.Header)
				assert.Empty(t, last.Rows)
				assert.Zero(t, countHeaders(last))
			}

			assert.Equal(t, "TOTAL: $10.00", last.Ops[len(last.Ops)-1].Text)
		})
	}
}

func TestBuild_RowsStayAboveBottom(t *testing.T) {
	l := document.Build(orderDoc(120), document.A4, monoMeasurer{})

	for _, p := range l.Pages {
		for _, op := range p.Ops {
			if op.Font.Size == 9 {
				assert.GreaterOrEqual(t, op.Y, document.A4.Bottom-1e-6)
			}
		}
	}
}

func TestBuild_NoTotal(t *testing.T) {
	doc := orderDoc(3)
	doc.Total = ""

	l := document.Build(doc, document.A4, monoMeasurer{})
	require.Len(t, l.Pages, 1)

	for _, op := range l.Pages[0].Ops {
		assert.NotContains(t, op.Text, "TOTAL")
	}
}

func TestBuild_Cells(t *testing.T) {
	doc := orderDoc(1)
	doc.Rows[0] = document.Row{
		Name:  strings.Repeat("Fideos tirabuzón ", 20),
		Cells: []string{"3", "99.90", ""},
	}

	l := document.Build(doc, document.A4, monoMeasurer{})

	right := document.A4.Width - document.A4.Margin

	var texts []document.Op
	for _, op := range l.Pages[0].Ops {
		if op.Kind == document.OpText && op.Font.Size == 9 {
			texts = append(texts, op)
		}
	}

	require.Len(t, texts, 4)

	name := texts[0]
	assert.True(t, strings.HasSuffix(name.Text, document.Ellipsis))
	assert.Equal(t, document.AlignLeft, name.Align)

	nameWidth := right - 120 - 60 - document.A4.Margin - 6
	assert.LessOrEqual(t, monoMeasurer{}.Width(name.Font, name.Text), nameWidth)

	assert.Equal(t, "3", texts[1].Text)
	assert.InDelta(t, right, texts[1].X, 1e-9)
	assert.Equal(t, "99.90", texts[2].Text)
	assert.InDelta(t, right-50, texts[2].X, 1e-9)
	assert.Equal(t, "-", texts[3].Text)
	assert.InDelta(t, right-120, texts[3].X, 1e-9)
	assert.Equal(t, document.AlignRight, texts[3].Align)
}

func TestFit(t *testing.T) {
	m := monoMeasurer{}
	f := document.Font{Size: 10}

	assert.Equal(t, "corto", document.Fit(m, f, "corto", 100))
	assert.Equal(t, "abcdefghi…", document.Fit(m, f, "abcdefghijklmnop", 50))
	assert.Equal(t, "ñandú…", document.Fit(m, f, "ñandú grande", 30))
	assert.Equal(t, document.Ellipsis, document.Fit(m, f, "abc", 2))
}

func TestFit_HelveticaMetrics(t *testing.T) {
	m := document.NewHelveticaMeasurer()
	f := document.Font{Size: 9}

	names := []string{
		"Aceite de girasol refinado botella PET x 1,5 litros pack económico",
		"WWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWW",
		"iiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiiii",
	}

	for _, width := range []float64{40, 120, 200} {
		for _, name := range names {
			got := document.Fit(m, f, name, width)

			if m.Width(f, name) <= width {
				assert.Equal(t, name, got)
				continue
			}

			assert.True(t, strings.HasSuffix(got, document.Ellipsis), got)
			assert.LessOrEqual(t, m.Width(f, got), width, got)
		}
	}
}
