package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/checkout"
	"github.com/MrJamesThe3rd/remito/internal/client"
	clientFiles "github.com/MrJamesThe3rd/remito/internal/client/filestore"
	clientStore "github.com/MrJamesThe3rd/remito/internal/client/store"
	"github.com/MrJamesThe3rd/remito/internal/config"
	"github.com/MrJamesThe3rd/remito/internal/dashboard"
	"github.com/MrJamesThe3rd/remito/internal/database"
	"github.com/MrJamesThe3rd/remito/internal/document"
	documentFiles "github.com/MrJamesThe3rd/remito/internal/document/filestore"
	documentStore "github.com/MrJamesThe3rd/remito/internal/document/store"
	remitoHttp "github.com/MrJamesThe3rd/remito/internal/http"
	cartHandler "github.com/MrJamesThe3rd/remito/internal/http/cart"
	catalogHandler "github.com/MrJamesThe3rd/remito/internal/http/catalog"
	checkoutHandler "github.com/MrJamesThe3rd/remito/internal/http/checkout"
	clientHandler "github.com/MrJamesThe3rd/remito/internal/http/client"
	dashboardHandler "github.com/MrJamesThe3rd/remito/internal/http/dashboard"
	orderHandler "github.com/MrJamesThe3rd/remito/internal/http/order"
	pipelineHandler "github.com/MrJamesThe3rd/remito/internal/http/pipeline"
	remitoHandler "github.com/MrJamesThe3rd/remito/internal/http/remito"
	sessionHandler "github.com/MrJamesThe3rd/remito/internal/http/session"
	"github.com/MrJamesThe3rd/remito/internal/notify"
	"github.com/MrJamesThe3rd/remito/internal/order"
	orderFiles "github.com/MrJamesThe3rd/remito/internal/order/filestore"
	orderStore "github.com/MrJamesThe3rd/remito/internal/order/store"
	"github.com/MrJamesThe3rd/remito/internal/session"
)

const shutdownTimeout = 30 * time.Second

type stores struct {
	orders    order.Repository
	clients   client.Repository
	documents document.Sink
	db        *sql.DB
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store.Driver == config.DriverFile {
		return &stores{
			orders:    orderFiles.New(cfg.OrdersDir()),
			clients:   clientFiles.New(cfg.ClientsFile()),
			documents: documentFiles.New(cfg.DocumentsDir()),
		}, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &stores{
		orders:    orderStore.New(db),
		clients:   clientStore.New(db),
		documents: documentStore.New(db),
		db:        db,
	}, nil
}

func catalogSource(cfg *config.Config) catalog.Source {
	if cfg.Catalog.URL != "" {
		return catalog.NewURLSource(cfg.Catalog.URL, cfg.Catalog.Timeout)
	}

	return catalog.NewFileSource(cfg.CatalogPath())
}

func notifier(cfg *config.Config) checkout.Notifier {
	if cfg.SMTP.Host == "" {
		return notify.Log{}
	}

	return notify.NewSMTP(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  cfg.Server.Timeout,
	})
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(cfg.Logger())

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open stores", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	if st.db != nil {
		defer st.db.Close()
	}

	var (
		catalogService  = catalog.NewService(catalogSource(cfg))
		clientService   = client.NewService(st.clients)
		orderService    = order.NewService(st.orders)
		renderer        = document.NewRenderer(cfg.App.Company)
		checkoutService = checkout.NewService(orderService, renderer, st.documents, notifier(cfg), cfg.App.Company)
		dashService     = dashboard.NewService(catalogService, clientService, orderService)
		sessions        = session.NewManager(cfg.Server.SessionTTL, cfg.App.DefaultMargin)
		tokens          = session.NewTokens(cfg.App.Secret, cfg.Server.SessionTTL)
	)

	router := remitoHttp.New(remitoHttp.Handlers{
		Sessions:  sessionHandler.NewHandler(sessions, tokens, clientService, cfg.Server.SessionTTL),
		Catalog:   catalogHandler.NewHandler(catalogService, renderer, cfg.App.DefaultMargin),
		Cart:      cartHandler.NewHandler(catalogService),
		Checkout:  checkoutHandler.NewHandler(checkoutService),
		Orders:    orderHandler.NewHandler(orderService),
		Pipeline:  pipelineHandler.NewHandler(orderService),
		Clients:   clientHandler.NewHandler(clientService),
		Remitos:   remitoHandler.NewHandler(st.documents),
		Dashboard: dashboardHandler.NewHandler(dashService),
	}, remitoHttp.Options{
		Timeout:     cfg.Server.Timeout,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", srv.Addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
