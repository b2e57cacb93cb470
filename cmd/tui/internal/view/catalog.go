package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/catalog"
)

type CatalogService interface {
	Load(ctx context.Context) catalog.Snapshot
}

type catalogState int

const (
	catalogStateBrowse catalogState = iota
	catalogStateSearch
	catalogStateMargin
)

type CatalogModel struct {
	CommonModel
	svc CatalogService

	state    catalogState
	table    table.Model
	search   textinput.Model
	form     *huh.Form
	snapshot catalog.Snapshot
	products []catalog.PricedProduct

	margin     decimal.Decimal
	formMargin string

	loading bool
	status  string
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func NewCatalogModel(svc CatalogService, margin decimal.Decimal) CatalogModel {
	ti := textinput.New()
	ti.Placeholder = "nombre"
	ti.Prompt = "Buscar: "
	ti.CharLimit = 60

	return CatalogModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Producto", Width: 40},
			{Title: "Costo", Width: 14},
			{Title: "Precio", Width: 14},
			{Title: "Venc.", Width: 12},
		}),
		search:  ti,
		margin:  margin,
		loading: true,
	}
}

func (m CatalogModel) Title() string { return "Catálogo" }
func (m CatalogModel) ShortHelp() string {
	switch m.state {
	case catalogStateSearch, catalogStateMargin:
		return "Enter: apply | Esc: cancel"
	}

	return "Esc: back | /: search | m: margin | r: reload"
}

func (m CatalogModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		m.loading = false
		m.snapshot = msg.snapshot
		m.status = ""

		if len(msg.snapshot.Rejected) > 0 {
			m.status = fmt.Sprintf("%d rows skipped while loading the catalog", len(msg.snapshot.Rejected))
		}

		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil
	}

	switch m.state {
	case catalogStateSearch:
		return m.updateSearch(msg)
	case catalogStateMargin:
		return m.updateMargin(msg)
	}

	return m.updateBrowse(msg)
}

func (m CatalogModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.state = catalogStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "m":
			return m.enterMarginMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CatalogModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.state = catalogStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m CatalogModel) enterMarginMode() (tea.Model, tea.Cmd) {
	m.formMargin = m.margin.String()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("margin").
				Title("Margen %").
				Value(&m.formMargin).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("margin must be a number")
					}

					if d.LessThan(decimal.NewFromInt(-100)) {
						return fmt.Errorf("margin must not be below -100")
					}

					return nil
				}),
		),
	).WithWidth(30).WithShowHelp(false)

	m.state = catalogStateMargin
	m.table.Blur()

	return m, m.form.Init()
}

func (m CatalogModel) updateMargin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = catalogStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.margin = decimal.RequireFromString(strings.TrimSpace(m.formMargin))
	m.state = catalogStateBrowse
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, nil
}

func (m *CatalogModel) refreshTable() {
	m.products = m.snapshot.Price(m.search.Value(), m.margin)

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		expiry := p.Expiry
		if expiry == "" {
			expiry = "-"
		}

		rows = append(rows, table.Row{
			fmt.Sprint(p.ID),
			p.Name,
			FormatMoney(p.Cost),
			FormatMoney(p.UnitPrice),
			expiry,
		})
	}

	m.table.SetRows(rows)
}

func (m CatalogModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading catalog...")
	}

	header := fmt.Sprintf("Margen: %s | Productos: %s",
		activeStyle(m.margin.String()+"%"),
		activeStyle(fmt.Sprint(len(m.products))),
	)

	if q := m.search.Value(); q != "" && m.state != catalogStateSearch {
		header += " | Buscar: " + activeStyle(q)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}
	if m.state == catalogStateSearch {
		parts = append(parts, m.search.View())
	}

	parts = append(parts, tableView)
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.state == catalogStateMargin && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(34).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faint(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faint(m.ShortHelp()))
}

type catalogLoadedMsg struct {
	snapshot catalog.Snapshot
}

func (m CatalogModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return catalogLoadedMsg{snapshot: m.svc.Load(ctx)}
	}
}
