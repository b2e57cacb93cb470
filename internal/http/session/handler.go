package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/client"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
	"github.com/MrJamesThe3rd/remito/internal/session"
)

// CookieName carries the session token for browser clients. API clients send
// the same token as a bearer token.
const CookieName = "remito_session"

type Clients interface {
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

type Handler struct {
	manager *session.Manager
	tokens  *session.Tokens
	clients Clients
	ttl     time.Duration
}

func NewHandler(manager *session.Manager, tokens *session.Tokens, clients Clients, ttl time.Duration) *Handler {
	return &Handler{manager: manager, tokens: tokens, clients: clients, ttl: ttl}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)

	r.Group(func(r chi.Router) {
		r.Use(h.Require)
		r.Get("/current", h.current)
		r.Delete("/current", h.delete)
		r.Put("/client", h.setClient)
		r.Delete("/client", h.clearClient)
		r.Put("/margin", h.setMargin)
	})
}

type ctxKey struct{}

// FromContext returns the session attached by Require.
func FromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*session.Session)
	return s, ok
}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Require rejects requests without a valid session token with 401.
func (h *Handler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.resolve(r)
		if err != nil {
			response.JSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		s.Lock()
		defer s.Unlock()

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// Optional attaches the session when the request carries a valid token and
// otherwise lets the request through untouched.
func (h *Handler) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.resolve(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		s.Lock()
		defer s.Unlock()

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func (h *Handler) resolve(r *http.Request) (*session.Session, error) {
	token := bearer(r)
	if token == "" {
		if c, err := r.Cookie(CookieName); err == nil {
			token = c.Value
		}
	}

	if token == "" {
		return nil, errors.New("missing session token")
	}

	id, err := h.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	return h.manager.Get(id)
}

func bearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}

	return ""
}

type clientResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type sessionResponse struct {
	ID             uuid.UUID       `json:"id"`
	Token          string          `json:"token,omitempty"`
	Client         *clientResponse `json:"client,omitempty"`
	Margin         string          `json:"margin"`
	CartLines      int             `json:"cart_lines"`
	EditingOrderID string          `json:"editing_order_id,omitempty"`
}

func toResponse(s *session.Session) sessionResponse {
	resp := sessionResponse{
		ID:             s.ID,
		Margin:         s.Margin.String(),
		CartLines:      s.Cart.Len(),
		EditingOrderID: s.EditingOrderID,
	}

	if s.Client != nil {
		resp.Client = &clientResponse{ID: s.Client.ID, Name: s.Client.Name, Email: s.Client.Email}
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()

	token, err := h.tokens.Issue(s.ID)
	if err != nil {
		h.manager.Delete(s.ID)
		response.Error(w, r, err)

		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.ttl.Seconds()),
	})

	resp := toResponse(s)
	resp.Token = token

	response.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	s, _ := FromContext(r.Context())
	response.JSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	s, _ := FromContext(r.Context())
	h.manager.Delete(s.ID)

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

type setClientRequest struct {
	ClientID uuid.UUID `json:"client_id" validate:"required"`
}

func (h *Handler) setClient(w http.ResponseWriter, r *http.Request) {
	var req setClientRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.clients.Get(r.Context(), req.ClientID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	s, _ := FromContext(r.Context())
	s.SetClient(c)

	response.JSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) clearClient(w http.ResponseWriter, r *http.Request) {
	s, _ := FromContext(r.Context())
	s.ClearClient(h.manager.DefaultMargin())

	response.JSON(w, http.StatusOK, toResponse(s))
}

type setMarginRequest struct {
	Margin *decimal.Decimal `json:"margin" validate:"required"`
}

func (h *Handler) setMargin(w http.ResponseWriter, r *http.Request) {
	var req setMarginRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	s, _ := FromContext(r.Context())
	if err := s.SetMargin(*req.Margin); err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(s))
}

