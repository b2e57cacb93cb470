package catalog

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
	httpsession "github.com/MrJamesThe3rd/remito/internal/http/session"
)

const maxUpload = 10 << 20

type Service interface {
	Query(ctx context.Context, q string, margin decimal.Decimal) []catalog.PricedProduct
	Import(ctx context.Context, r io.Reader) (catalog.Result, error)
}

type Renderer interface {
	RenderCatalog(products []catalog.PricedProduct, margin decimal.Decimal, at time.Time) ([]byte, error)
}

type Handler struct {
	svc           Service
	renderer      Renderer
	defaultMargin decimal.Decimal
}

func NewHandler(svc Service, renderer Renderer, defaultMargin decimal.Decimal) *Handler {
	return &Handler{svc: svc, renderer: renderer, defaultMargin: defaultMargin}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/document", h.document)
	r.Post("/import", h.importCatalog)
}

type productResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Expiry    string `json:"vencimiento"`
	Margin    string `json:"margin"`
	UnitPrice string `json:"final_price"`
}

type listResponse struct {
	Query    string            `json:"q"`
	Margin   string            `json:"margin"`
	Products []productResponse `json:"products"`
}

// margin reads ?margin=, falling back to the session's margin and then the
// configured default.
func (h *Handler) margin(r *http.Request) (decimal.Decimal, error) {
	if raw := r.URL.Query().Get("margin"); raw != "" {
		m, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, apperr.Validation("margin", "margin must be a number")
		}

		if m.LessThan(decimal.NewFromInt(-100)) {
			return decimal.Zero, apperr.Validation("margin", "margin must not be below -100")
		}

		return m, nil
	}

	if s, ok := httpsession.FromContext(r.Context()); ok {
		return s.Margin, nil
	}

	return h.defaultMargin, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	margin, err := h.margin(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	q := r.URL.Query().Get("q")
	products := h.svc.Query(r.Context(), q, margin)

	resp := listResponse{Query: q, Margin: margin.String(), Products: make([]productResponse, len(products))}
	for i, p := range products {
		resp.Products[i] = productResponse{
			ID:        p.ID,
			Name:      p.Name,
			Cost:      p.Cost.StringFixed(2),
			Expiry:    p.Expiry,
			Margin:    p.Margin.String(),
			UnitPrice: p.UnitPrice.StringFixed(2),
		}
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	margin, err := h.margin(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	now := time.Now()

	pdf, err := h.renderer.RenderCatalog(h.svc.Query(r.Context(), r.URL.Query().Get("q"), margin), margin, now)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="catalogo-`+now.Format("20060102")+`.pdf"`)
	_, _ = w.Write(pdf)
}

type rejectionResponse struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Imported int                 `json:"imported"`
	Rejected []rejectionResponse `json:"rejected"`
}

func (h *Handler) importCatalog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		response.Error(w, r, apperr.Validation("file", "failed to parse form: "+err.Error()))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.Error(w, r, apperr.Validation("file", "file is required"))
		return
	}
	defer file.Close()

	res, err := h.svc.Import(r.Context(), file)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	resp := importResponse{Imported: len(res.Products), Rejected: make([]rejectionResponse, len(res.Rejected))}
	for i, rej := range res.Rejected {
		resp.Rejected[i] = rejectionResponse{Row: rej.Row, Reason: rej.Reason}
	}

	response.JSON(w, http.StatusOK, resp)
}
