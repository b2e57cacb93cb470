package checkout

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/remito/internal/checkout"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
	httpsession "github.com/MrJamesThe3rd/remito/internal/http/session"
	"github.com/MrJamesThe3rd/remito/internal/session"
)

type Service interface {
	Checkout(ctx context.Context, sess *session.Session, p checkout.Params) (*checkout.Result, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.checkout)
}

type checkoutRequest struct {
	ClientName  string `json:"client_name" validate:"max=200"`
	ClientEmail string `json:"client_email" validate:"omitempty,email"`
	Responsible string `json:"responsible" validate:"required"`
}

type checkoutResponse struct {
	OrderID     string `json:"order_id"`
	Total       string `json:"total"`
	Document    string `json:"document_filename"`
	DocumentURL string `json:"document_url"`
	Updated     bool   `json:"updated"`
	Notified    bool   `json:"notified"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	s, _ := httpsession.FromContext(r.Context())

	res, err := h.svc.Checkout(r.Context(), s, checkout.Params{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Responsible: req.Responsible,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Updated {
		status = http.StatusOK
	}

	response.JSON(w, status, checkoutResponse{
		OrderID:     res.Order.ID,
		Total:       res.Order.Total.StringFixed(2),
		Document:    res.DocumentName,
		DocumentURL: "/api/v1/remitos/" + res.DocumentName,
		Updated:     res.Updated,
		Notified:    res.Notified,
	})
}
