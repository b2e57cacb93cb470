package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/remito/internal/http/cart"
	"github.com/MrJamesThe3rd/remito/internal/http/catalog"
	"github.com/MrJamesThe3rd/remito/internal/http/checkout"
	"github.com/MrJamesThe3rd/remito/internal/http/client"
	"github.com/MrJamesThe3rd/remito/internal/http/dashboard"
	"github.com/MrJamesThe3rd/remito/internal/http/order"
	"github.com/MrJamesThe3rd/remito/internal/http/pipeline"
	"github.com/MrJamesThe3rd/remito/internal/http/remito"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
	"github.com/MrJamesThe3rd/remito/internal/http/session"
)

type Handlers struct {
	Sessions  *session.Handler
	Catalog   *catalog.Handler
	Cart      *cart.Handler
	Checkout  *checkout.Handler
	Orders    *order.Handler
	Pipeline  *pipeline.Handler
	Clients   *client.Handler
	Remitos   *remito.Handler
	Dashboard *dashboard.Handler
}

type Options struct {
	Timeout     time.Duration
	CORSOrigins []string
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", h.Sessions.Routes)
		r.Route("/catalog", func(r chi.Router) {
			r.Use(h.Sessions.Optional)
			h.Catalog.Routes(r)
		})

		r.Route("/pipeline", h.Pipeline.Routes)
		r.Route("/remitos", h.Remitos.Routes)
		r.Route("/dashboard", h.Dashboard.Routes)

		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Clients.Routes(r)
		})

		r.Route("/orders", func(r chi.Router) {
			h.Orders.Routes(r)

			r.Group(func(r chi.Router) {
				r.Use(h.Sessions.Require)
				h.Orders.EditRoutes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Sessions.Require)
			r.Route("/cart", h.Cart.Routes)
			r.Route("/checkout", h.Checkout.Routes)
		})
	})

	return router
}
