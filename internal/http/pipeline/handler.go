package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/remito/internal/http/response"
	"github.com/MrJamesThe3rd/remito/internal/order"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

type Orders interface {
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
}

type Handler struct {
	orders Orders
}

func NewHandler(orders Orders) *Handler {
	return &Handler{orders: orders}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.board)
}

type cardResponse struct {
	OrderID    string     `json:"order_id"`
	ClientName string     `json:"client_name"`
	Total      string     `json:"total"`
	CreatedAt  *time.Time `json:"created_at"`
}

type columnResponse struct {
	State pipeline.State  `json:"state"`
	Next  *pipeline.State `json:"next,omitempty"`
	Total string          `json:"total"`
	Cards []cardResponse  `json:"cards"`
}

type boardResponse struct {
	Month   string           `json:"month,omitempty"`
	Day     string           `json:"day,omitempty"`
	Columns []columnResponse `json:"columns"`
}

func (h *Handler) board(w http.ResponseWriter, r *http.Request) {
	filter := pipeline.Filter{
		Month: r.URL.Query().Get("month"),
		Day:   r.URL.Query().Get("day"),
	}

	if err := filter.Validate(); err != nil {
		response.Error(w, r, err)
		return
	}

	orders, err := h.orders.List(r.Context(), order.ListFilter{Client: r.URL.Query().Get("client")})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	cards := make([]pipeline.Card, len(orders))
	for i, o := range orders {
		cards[i] = o.Card()
	}

	board := pipeline.NewBoard(cards, filter)

	resp := boardResponse{Month: filter.Month, Day: filter.Day, Columns: make([]columnResponse, len(board.Columns))}
	for i, col := range board.Columns {
		c := columnResponse{State: col.State, Total: col.Total.StringFixed(2), Cards: make([]cardResponse, len(col.Cards))}

		if next, ok := pipeline.Next(col.State); ok {
			c.Next = new(next)
		}

		for j, card := range col.Cards {
			c.Cards[j] = cardResponse{OrderID: card.OrderID, ClientName: card.ClientName, Total: card.Total.StringFixed(2)}
			if !card.CreatedAt.IsZero() {
				c.Cards[j].CreatedAt = new(card.CreatedAt)
			}
		}

		resp.Columns[i] = c
	}

	response.JSON(w, http.StatusOK, resp)
}
