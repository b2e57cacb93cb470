package client

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
	"github.com/MrJamesThe3rd/remito/internal/client"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
)

type Service interface {
	Create(ctx context.Context, p client.Params) (*client.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
	List(ctx context.Context) ([]*client.Client, error)
	Update(ctx context.Context, id uuid.UUID, p client.Params) (*client.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type clientRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Email         string           `json:"email" validate:"omitempty,email"`
	DefaultMargin *decimal.Decimal `json:"default_margin"`
	Zone          string           `json:"zone" validate:"max=100"`
	Notes         string           `json:"notes"`
}

func (req clientRequest) params() client.Params {
	p := client.Params{Name: req.Name, Email: req.Email, Zone: req.Zone, Notes: req.Notes}
	if req.DefaultMargin != nil {
		p.DefaultMargin = *req.DefaultMargin
	}

	return p
}

type clientResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	DefaultMargin string    `json:"default_margin"`
	Zone          string    `json:"zone"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		DefaultMargin: c.DefaultMargin.String(),
		Zone:          c.Zone,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("id", "must be a uuid")
	}

	return id, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
		resp[i] = toResponse(c)
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req clientRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
