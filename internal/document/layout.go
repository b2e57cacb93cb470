// Package document lays out remitos and catalog listings on fixed-size pages
// and renders them to PDF.
//
// Layout is independent of the PDF backend: it produces pages of drawing
// operations in points with the origin at the bottom-left corner, measuring
// text through a Measurer.
package document

import (
	"math"
	"strings"
	"unicode/utf8"
)

const mm = 72 / 25.4

// Ellipsis marks a cell whose text was cut to fit.
const Ellipsis = "…"

const (
	titleGap    = 10 * mm
	infoGap     = 6 * mm
	headerGap   = 5 * mm
	totalGap    = 6 * mm
	totalRule   = 8 * mm
	namePadding = 6.0
	eps         = 1e-9
)

// Geometry fixes the page size and the vertical rhythm of the item rows.
// Rows are placed while the cursor stays at or above Bottom.
type Geometry struct {
	Width     float64
	Height    float64
	Margin    float64
	RowHeight float64
	Bottom    float64
}

var A4 = Geometry{
	Width:     595.28,
	Height:    841.89,
	Margin:    15 * mm,
	RowHeight: 7 * mm,
	Bottom:    30 * mm,
}

// Capacity is the number of rows that fit when the first one is drawn at y.
func (g Geometry) Capacity(y float64) int {
	if y < g.Bottom-eps {
		return 0
	}

	return int(math.Floor((y-g.Bottom)/g.RowHeight+eps)) + 1
}

type Font struct {
	Bold bool
	Size float64
}

var (
	fontTitle  = Font{Bold: true, Size: 14}
	fontInfo   = Font{Size: 10}
	fontHeader = Font{Bold: true, Size: 10}
	fontRow    = Font{Size: 9}
	fontTotal  = Font{Bold: true, Size: 12}
)

// Measurer returns the advance width of s in points.
type Measurer interface {
	Width(f Font, s string) float64
}

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

type OpKind int

const (
	OpText OpKind = iota
	OpRule
)

// Op is one drawing operation. A right-aligned text ends at X. A rule runs
// horizontally from X to X2 at Y.
type Op struct {
	Kind  OpKind
	X     float64
	X2    float64
	Y     float64
	Font  Font
	Align Align
	Text  string
}

type Page struct {
	Ops []Op
	// Header is false only on a page holding nothing but the total.
	Header bool
	// Rows holds the indices of the document rows drawn on this page.
	Rows []int
}

type Layout struct {
	Geometry Geometry
	Title    string
	Pages    []Page
}

// Column is a right-aligned column. Right is the distance of its right edge
// from the page's right margin.
type Column struct {
	Title string
	Right float64
	Width float64
}

type Row struct {
	Name  string
	Cells []string
}

// Document is what a layout is built from. Columns are listed right to left
// and Cells in each row follow the same order. An empty Total omits the
// total block.
type Document struct {
	Title     string
	Info      []string
	NameTitle string
	Columns   []Column
	Rows      []Row
	Total     string
}

// Fit trims s one character at a time until s plus the ellipsis fits width.
// Text that already fits is returned unchanged.
func Fit(m Measurer, f Font, s string, width float64) string {
	if m.Width(f, s) <= width+eps {
		return s
	}

	for s != "" && m.Width(f, s+Ellipsis) > width+eps {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}

	return s + Ellipsis
}

type builder struct {
	g     Geometry
	m     Measurer
	doc   Document
	pages []Page
}

// Build lays doc out on pages of g.
func Build(doc Document, g Geometry, m Measurer) Layout {
	b := &builder{g: g, m: m, doc: doc}
	b.newPage(true)

	y := b.top()
	b.text(g.Margin, y, fontTitle, AlignLeft, Fit(m, fontTitle, doc.Title, g.Width-2*g.Margin))
	y -= titleGap

	for i, line := range doc.Info {
		b.text(g.Margin, y, fontInfo, AlignLeft, Fit(m, fontInfo, line, g.Width-2*g.Margin))

		if i < len(doc.Info)-1 {
			y -= infoGap
		} else {
			y -= titleGap
		}
	}

	y = b.header(y)

	for i, row := range doc.Rows {
		if y < g.Bottom-eps {
			b.newPage(true)
			y = b.header(b.top())
		}

		b.row(y, row)
		b.current().Rows = append(b.current().Rows, i)
		y -= g.RowHeight
	}

	if doc.Total != "" {
		b.total(y)
	}

	return Layout{Geometry: g, Title: doc.Title, Pages: b.pages}
}

func (b *builder) top() float64 {
	return b.g.Height - b.g.Margin
}

func (b *builder) right() float64 {
	return b.g.Width - b.g.Margin
}

func (b *builder) newPage(header bool) {
	b.pages = append(b.pages, Page{Header: header})
}

func (b *builder) current() *Page {
	return &b.pages[len(b.pages)-1]
}

func (b *builder) text(x, y float64, f Font, a Align, s string) {
	p := b.current()
	p.Ops = append(p.Ops, Op{Kind: OpText, X: x, Y: y, Font: f, Align: a, Text: s})
}

func (b *builder) rule(y float64) {
	p := b.current()
	p.Ops = append(p.Ops, Op{Kind: OpRule, X: b.g.Margin, X2: b.right(), Y: y})
}

func (b *builder) header(y float64) float64 {
	b.text(b.g.Margin, y, fontHeader, AlignLeft, b.doc.NameTitle)

	for _, c := range b.doc.Columns {
		b.text(b.right()-c.Right, y, fontHeader, AlignRight, Fit(b.m, fontHeader, c.Title, c.Width))
	}

	y -= headerGap
	b.rule(y)

	return y - headerGap
}

// nameWidth is the room left of the leftmost column.
func (b *builder) nameWidth() float64 {
	left := b.right()
	for _, c := range b.doc.Columns {
		left = math.Min(left, b.right()-c.Right-c.Width)
	}

	return left - b.g.Margin - namePadding
}

func (b *builder) row(y float64, r Row) {
	b.text(b.g.Margin, y, fontRow, AlignLeft, Fit(b.m, fontRow, r.Name, b.nameWidth()))

	for i, c := range b.doc.Columns {
		cell := ""
		if i < len(r.Cells) {
			cell = r.Cells[i]
		}

		if strings.TrimSpace(cell) == "" {
			cell = "-"
		}

		b.text(b.right()-c.Right, y, fontRow, AlignRight, Fit(b.m, fontRow, cell, c.Width))
	}
}

// total draws the divider and the total under the last row. When the total
// would fall below Bottom both go to a new page without a header.
func (b *builder) total(y float64) {
	y -= totalGap
	if y-totalRule < b.g.Bottom-eps {
		b.newPage(false)
		y = b.top()
	}

	b.rule(y)
	y -= totalRule
	b.text(b.right(), y, fontTotal, AlignRight, b.doc.Total)
}
