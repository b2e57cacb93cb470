package cart

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/cart"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
	httpsession "github.com/MrJamesThe3rd/remito/internal/http/session"
)

type Catalog interface {
	Load(ctx context.Context) catalog.Snapshot
}

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Routes expects a session on the request context.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Delete("/", h.clear)
	r.Post("/items", h.add)
	r.Patch("/items/{index}", h.update)
	r.Delete("/items/{index}", h.remove)
}

type lineResponse struct {
	Index     int    `json:"index"`
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Expiry    string `json:"vencimiento"`
	Margin    string `json:"margin"`
	UnitPrice string `json:"final_price"`
	Quantity  int    `json:"qty"`
	Subtotal  string `json:"subtotal"`
}

type Response struct {
	Lines          []lineResponse `json:"lines"`
	Total          string         `json:"total"`
	EditingOrderID string         `json:"editing_order_id,omitempty"`
}

func ToResponse(c *cart.Cart, editing string) Response {
	lines := c.Lines()

	resp := Response{
		Lines:          make([]lineResponse, len(lines)),
		Total:          c.Total().StringFixed(2),
		EditingOrderID: editing,
	}

	for i, l := range lines {
		resp.Lines[i] = lineResponse{
			Index:     i,
			ProductID: l.ProductID,
			Name:      l.Name,
			Cost:      l.Cost.StringFixed(2),
			Expiry:    l.Expiry,
			Margin:    l.Margin.String(),
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal().StringFixed(2),
		}
	}

	return resp
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, _ := httpsession.FromContext(r.Context())
	response.JSON(w, http.StatusOK, ToResponse(s.Cart, s.EditingOrderID))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	s, _ := httpsession.FromContext(r.Context())
	s.Reset()

	response.JSON(w, http.StatusOK, ToResponse(s.Cart, s.EditingOrderID))
}

type addRequest struct {
	ProductID *int             `json:"product_id" validate:"required,min=0"`
	Name      string           `json:"name,omitempty"`
	Quantity  int              `json:"qty"`
	Margin    *decimal.Decimal `json:"margin,omitempty"`
}

// add uses the session margin when the request carries none and adds a single
// unit when qty is missing or below one. A name, when sent, re-resolves an id
// taken from an older catalog load.
func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	req.Quantity = max(1, req.Quantity)

	s, _ := httpsession.FromContext(r.Context())

	margin := s.Margin
	if req.Margin != nil {
		margin = *req.Margin
	}

	snap := h.catalog.Load(r.Context())

	if err := s.Cart.Add(snap, snap.Resolve(*req.ProductID, req.Name), req.Quantity, margin); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, ToResponse(s.Cart, s.EditingOrderID))
}

type updateRequest struct {
	Quantity *int `json:"qty" validate:"required"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	index, err := lineIndex(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req updateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	s, _ := httpsession.FromContext(r.Context())
	if err := s.Cart.Update(index, *req.Quantity); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(s.Cart, s.EditingOrderID))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	index, err := lineIndex(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	s, _ := httpsession.FromContext(r.Context())
	if err := s.Cart.Remove(index); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(s.Cart, s.EditingOrderID))
}

func lineIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, apperr.Validation("index", "invalid line index")
	}

	return index, nil
}
