package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/remito/internal/dashboard"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
)

type Service interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.stats)
}

type statsResponse struct {
	Products           int    `json:"products"`
	RejectedRows       int    `json:"rejected_rows"`
	Clients            int    `json:"clients"`
	OrdersToday        int    `json:"orders_today"`
	SalesToday         string `json:"sales_today"`
	AverageMarginToday string `json:"average_margin_today"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Stats(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, statsResponse{
		Products:           s.Products,
		RejectedRows:       s.Rejected,
		Clients:            s.Clients,
		OrdersToday:        s.OrdersToday,
		SalesToday:         s.SalesToday.StringFixed(2),
		AverageMarginToday: s.AverageMarginToday.StringFixed(2),
	})
}
