package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/remito/internal/order"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

type OrderService interface {
	List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error)
	SetState(ctx context.Context, id string, state pipeline.State) error
}

type ordersState int

const (
	ordersStateBrowse ordersState = iota
	ordersStateSearch
	ordersStateEdit
)

type OrdersModel struct {
	CommonModel
	svc OrderService

	state  ordersState
	table  table.Model
	search textinput.Model
	form   *huh.Form
	orders []*order.Order

	filter  order.ListFilter
	loading bool
	err     error
	status  string

	formState pipeline.State
}

func NewOrdersModel(svc OrderService) OrdersModel {
	ti := textinput.New()
	ti.Placeholder = "cliente"
	ti.Prompt = "Cliente: "
	ti.CharLimit = 60

	return OrdersModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Pedido", Width: 16},
			{Title: "Cliente", Width: 28},
			{Title: "Responsable", Width: 16},
			{Title: "Total", Width: 16},
			{Title: "Estado", Width: 22},
			{Title: "Creado", Width: 16},
		}),
		search:  ti,
		loading: true,
	}
}

func (m OrdersModel) Title() string { return "Pedidos" }
func (m OrdersModel) ShortHelp() string {
	switch m.state {
	case ordersStateSearch:
		return "Enter: apply | Esc: clear"
	case ordersStateEdit:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | /: filter by client | s: change state | r: refresh"
}

func (m OrdersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OrdersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.orders = msg.orders
		m.refreshTable()

		return m, nil

	case orderSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = ordersStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil
	}

	switch m.state {
	case ordersStateSearch:
		return m.updateSearch(msg)
	case ordersStateEdit:
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m OrdersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "/":
			m.state = ordersStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "s":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m OrdersModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.state = ordersStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.filter.Client = m.search.Value()
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m OrdersModel) selected() *order.Order {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.orders) {
		return nil
	}

	return m.orders[idx]
}

func stateOptions() []huh.Option[pipeline.State] {
	opts := make([]huh.Option[pipeline.State], len(pipeline.States))
	for i, s := range pipeline.States {
		opts[i] = huh.NewOption(string(s), s)
	}

	return opts
}

func (m OrdersModel) enterEditMode() (tea.Model, tea.Cmd) {
	o := m.selected()
	if o == nil {
		return m, nil
	}

	m.formState = o.State

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[pipeline.State]().
				Key("state").
				Title("Estado").
				Options(stateOptions()...).
				Value(&m.formState),
		),
	).WithWidth(32).WithShowHelp(false)

	m.state = ordersStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m OrdersModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ordersStateBrowse
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

	o := m.selected()
	if o == nil {
		return m, nil
	}

	return m, setStateCmd(m.svc, o.ID, m.formState)
}

func (m *OrdersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.orders))
	for _, o := range m.orders {
		rows = append(rows, table.Row{
			o.ID,
			o.ClientName,
			o.Responsible,
			FormatMoney(o.Total),
			string(o.State),
			FormatAge(o.CreatedAt),
		})
	}

	m.table.SetRows(rows)
}

func (m OrdersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading orders...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Pedidos: %s", activeStyle(fmt.Sprint(len(m.orders))))
	if m.filter.Client != "" {
		header += " | Cliente: " + activeStyle(m.filter.Client)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}
	if m.state == ordersStateSearch {
		parts = append(parts, m.search.View())
	}

	parts = append(parts, tableView)
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.state == ordersStateEdit && m.form != nil {
		detail := ""
		if o := m.selected(); o != nil {
			detail = fmt.Sprintf("Pedido %s\n%s\nCreado: %s\n\n", o.ID, o.ClientName, FormatDate(o.CreatedAt))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(36).
			Render(detail + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faint(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faint(m.ShortHelp()))
}

type ordersLoadedMsg struct {
	orders []*order.Order
	err    error
}

func (m OrdersModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		orders, err := m.svc.List(ctx, filter)

		return ordersLoadedMsg{orders: orders, err: err}
	}
}

type orderSavedMsg struct {
	err error
}

func setStateCmd(svc OrderService, id string, state pipeline.State) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return orderSavedMsg{err: svc.SetState(ctx, id, state)}
	}
}
