package order

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/remito/internal/http/cart"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
	httpsession "github.com/MrJamesThe3rd/remito/internal/http/session"
	"github.com/MrJamesThe3rd/remito/internal/order"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

type Service interface {
	Get(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
	Delete(ctx context.Context, id string) error
	SetState(ctx context.Context, id string, state pipeline.State) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the read and state routes. Edit needs a session and is
// mounted separately through EditRoutes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/state", h.setState)
}

func (h *Handler) EditRoutes(r chi.Router) {
	r.Post("/{id}/edit", h.edit)
}

type itemResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Expiry    string `json:"vencimiento"`
	Margin    string `json:"margin"`
	UnitPrice string `json:"final_price"`
	Quantity  int    `json:"qty"`
}

type orderResponse struct {
	ID               string         `json:"order_id"`
	ClientName       string         `json:"client_name"`
	ClientEmail      string         `json:"client_email"`
	Responsible      string         `json:"responsible"`
	CreatedAt        *time.Time     `json:"created_at"`
	Items            []itemResponse `json:"items,omitempty"`
	Total            string         `json:"total"`
	State            pipeline.State `json:"state"`
	DocumentFilename string         `json:"document_filename,omitempty"`
}

func toResponse(o *order.Order, withItems bool) orderResponse {
	resp := orderResponse{
		ID:               o.ID,
		ClientName:       o.ClientName,
		ClientEmail:      o.ClientEmail,
		Responsible:      o.Responsible,
		Total:            o.Total.StringFixed(2),
		State:            o.State,
		DocumentFilename: o.DocumentFilename,
	}

	if !o.CreatedAt.IsZero() {
		resp.CreatedAt = new(o.CreatedAt)
	}

	if withItems {
		resp.Items = make([]itemResponse, len(o.Items))
		for i, it := range o.Items {
			resp.Items[i] = itemResponse{
				ID:        it.ProductID,
				Name:      it.Name,
				Cost:      it.Cost.StringFixed(2),
				Expiry:    it.Expiry,
				Margin:    it.Margin.String(),
				UnitPrice: it.UnitPrice.StringFixed(2),
				Quantity:  it.Quantity,
			}
		}
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context(), order.ListFilter{Client: r.URL.Query().Get("client")})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toResponse(o, false)
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(o, true))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setStateRequest struct {
	State string `json:"state" validate:"required"`
}

// setState stores any label; unknown ones are shown under Pedido.
func (h *Handler) setState(w http.ResponseWriter, r *http.Request) {
	var req setStateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.SetState(r.Context(), id, pipeline.State(req.State)); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"order_id": id,
		"state":    pipeline.Normalize(req.State),
	})
}

// edit loads the order into the session cart; the next checkout updates it.
func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	s, _ := httpsession.FromContext(r.Context())
	s.Edit(o.ID, o.ClientName, o.ClientEmail, o.Items)

	response.JSON(w, http.StatusOK, cart.ToResponse(s.Cart, s.EditingOrderID))
}
