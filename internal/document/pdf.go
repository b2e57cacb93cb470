package document

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

func fontStyle(f Font) string {
	if f.Bold {
		return "B"
	}

	return ""
}

// HelveticaMeasurer measures text with the core Helvetica metrics the PDF
// backend draws with. It is safe for concurrent use.
type HelveticaMeasurer struct {
	mu  sync.Mutex
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func NewHelveticaMeasurer() *HelveticaMeasurer {
	pdf := fpdf.New("P", "pt", "A4", "")

	return &HelveticaMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *HelveticaMeasurer) Width(f Font, s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(fontFamily, fontStyle(f), f.Size)

	return m.pdf.GetStringWidth(m.tr(s))
}

// PDF draws layouts with fpdf using the core Helvetica font, so text is
// limited to the Windows-1252 repertoire.
type PDF struct {
	creator string
	now     func() time.Time
}

func NewPDF(creator string) *PDF {
	return &PDF{creator: creator, now: time.Now}
}

func (p *PDF) Render(l Layout, w io.Writer) error {
	g := l.Geometry

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(g.Margin, g.Margin, g.Margin)
	pdf.SetTitle(l.Title, true)
	pdf.SetCreator(p.creator, true)
	pdf.SetCreationDate(p.now())

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range l.Pages {
		pdf.AddPage()

		for _, op := range page.Ops {
			// fpdf measures y from the top edge
			y := g.Height - op.Y

			switch op.Kind {
			case OpRule:
				pdf.Line(op.X, y, op.X2, y)
			case OpText:
				pdf.SetFont(fontFamily, fontStyle(op.Font), op.Font.Size)

				s := tr(op.Text)
				x := op.X

				if op.Align == AlignRight {
					x -= pdf.GetStringWidth(s)
				}

				pdf.Text(x, y, s)
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}
