package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/remito/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/remito/internal/catalog"
	"github.com/MrJamesThe3rd/remito/internal/config"
	"github.com/MrJamesThe3rd/remito/internal/database"
	"github.com/MrJamesThe3rd/remito/internal/order"
	orderFiles "github.com/MrJamesThe3rd/remito/internal/order/filestore"
	orderStore "github.com/MrJamesThe3rd/remito/internal/order/store"
)

type model struct {
	cfg            *config.Config
	catalogService *catalog.Service
	orderService   *order.Service

	currentView View
	width       int
	height      int

	catalogView  view.CatalogModel
	ordersView   view.OrdersModel
	pipelineView view.PipelineModel
}

type View int

const (
	ViewMenu     View = 0
	ViewCatalog  View = 1
	ViewOrders   View = 2
	ViewPipeline View = 3
)

func orderRepository(cfg *config.Config) order.Repository {
	if cfg.Store.Driver == config.DriverFile {
		return orderFiles.New(cfg.OrdersDir())
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	return orderStore.New(db)
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var source catalog.Source = catalog.NewFileSource(cfg.CatalogPath())
	if cfg.Catalog.URL != "" {
		source = catalog.NewURLSource(cfg.Catalog.URL, cfg.Catalog.Timeout)
	}

	catalogSvc := catalog.NewService(source)
	orderSvc := order.NewService(orderRepository(cfg))

	return model{
		cfg:            cfg,
		catalogService: catalogSvc,
		orderService:   orderSvc,
		currentView:    ViewMenu,
		catalogView:    view.NewCatalogModel(catalogSvc, cfg.App.DefaultMargin),
		ordersView:     view.NewOrdersModel(orderSvc),
		pipelineView:   view.NewPipelineModel(orderSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// resize replays the last window size to a freshly built view.
func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return func() tea.Msg { return size }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCatalog
				m.catalogView = view.NewCatalogModel(m.catalogService, m.cfg.App.DefaultMargin)

				return m, tea.Batch(m.catalogView.Init(), m.resize())
			case "2":
				m.currentView = ViewOrders
				m.ordersView = view.NewOrdersModel(m.orderService)

				return m, tea.Batch(m.ordersView.Init(), m.resize())
			case "3":
				m.currentView = ViewPipeline
				m.pipelineView = view.NewPipelineModel(m.orderService)

				return m, tea.Batch(m.pipelineView.Init(), m.resize())
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCatalog:
		var newModel tea.Model
		newModel, cmd = m.catalogView.Update(msg)
		m.catalogView = newModel.(view.CatalogModel)
	case ViewOrders:
		var newModel tea.Model
		newModel, cmd = m.ordersView.Update(msg)
		m.ordersView = newModel.(view.OrdersModel)
	case ViewPipeline:
		var newModel tea.Model
		newModel, cmd = m.pipelineView.Update(msg)
		m.pipelineView = newModel.(view.PipelineModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + "\n\n" +
				"1. Catálogo\n" +
				"2. Pedidos\n" +
				"3. Pipeline\n\n" +
				"q. Salir",
		)
	case ViewCatalog:
		return m.catalogView.View()
	case ViewOrders:
		return m.ordersView.View()
	case ViewPipeline:
		return m.pipelineView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
