package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/remito/internal/order"
	"github.com/MrJamesThe3rd/remito/internal/pipeline"
)

const cardWidth = 28

type boardState int

const (
	boardStateBrowse boardState = iota
	boardStateFilter
)

// PipelineModel shows orders as a four-column board. The period filter only
// narrows the collected column.
type PipelineModel struct {
	CommonModel
	svc OrderService

	state  boardState
	board  pipeline.Board
	col    int
	row    int
	period Period
	filter pipeline.Filter
	form   *huh.Form

	formMonth string
	formDay   string

	loading bool
	err     error
	status  string
	now     func() time.Time
}

func NewPipelineModel(svc OrderService) PipelineModel {
	return PipelineModel{
		svc:     svc,
		board:   pipeline.NewBoard(nil, pipeline.Filter{}),
		loading: true,
		now:     time.Now,
	}
}

func (m PipelineModel) Title() string { return "Pipeline" }
func (m PipelineModel) ShortHelp() string {
	if m.state == boardStateFilter {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | ←/→ column | ↑/↓ card | enter: advance | p: period | f: custom filter | r: refresh"
}

func (m PipelineModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m PipelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rebuild(msg.orders)

		return m, nil

	case orderSavedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	if m.state == boardStateFilter {
		return m.updateFilter(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case "right", "l":
		if m.col < len(m.board.Columns)-1 {
			m.col++
			m.clampRow()
		}
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.board.Columns[m.col].Cards)-1 {
			m.row++
		}
	case "enter", "n":
		return m, m.advanceCmd()
	case "p":
		m.period = (m.period + 1) % PeriodCustom
		m.filter = PeriodFilter(m.period, m.now())
		m.loading = true

		return m, m.loadCmd()
	case "f":
		return m.enterFilterMode()
	}

	return m, nil
}

func (m PipelineModel) enterFilterMode() (tea.Model, tea.Cmd) {
	m.formMonth = m.filter.Month
	m.formDay = m.filter.Day

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("month").
				Title("Mes").
				Placeholder("YYYY-MM").
				Value(&m.formMonth).
				Validate(func(s string) error {
					return pipeline.Filter{Month: strings.TrimSpace(s)}.Validate()
				}),
			huh.NewInput().
				Key("day").
				Title("Día").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDay).
				Validate(func(s string) error {
					return pipeline.Filter{Day: strings.TrimSpace(s)}.Validate()
				}),
		),
	).WithWidth(30).WithShowHelp(false)

	m.state = boardStateFilter

	return m, m.form.Init()
}

func (m PipelineModel) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = boardStateBrowse
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.filter = pipeline.Filter{Month: strings.TrimSpace(m.formMonth), Day: strings.TrimSpace(m.formDay)}
	m.period = PeriodCustom
	m.state = boardStateBrowse
	m.form = nil
	m.loading = true

	return m, m.loadCmd()
}

func (m *PipelineModel) rebuild(orders []*order.Order) {
	cards := make([]pipeline.Card, len(orders))
	for i, o := range orders {
		cards[i] = o.Card()
	}

	m.board = pipeline.NewBoard(cards, m.filter)
	m.clampRow()
}

func (m *PipelineModel) clampRow() {
	n := len(m.board.Columns[m.col].Cards)
	if m.row >= n {
		m.row = n - 1
	}

	if m.row < 0 {
		m.row = 0
	}
}

func (m PipelineModel) selected() (pipeline.Card, bool) {
	cards := m.board.Columns[m.col].Cards
	if m.row < 0 || m.row >= len(cards) {
		return pipeline.Card{}, false
	}

	return cards[m.row], true
}

func (m PipelineModel) advanceCmd() tea.Cmd {
	card, ok := m.selected()
	if !ok {
		return nil
	}

	next, ok := pipeline.Next(card.State)
	if !ok {
		return nil
	}

	return setStateCmd(m.svc, card.OrderID, next)
}

func (m PipelineModel) filterLabel() string {
	switch {
	case m.filter.Day != "":
		return m.filter.Day
	case m.filter.Month != "":
		return m.filter.Month
	}

	return m.period.String()
}

func (m PipelineModel) renderColumn(i int, col pipeline.Column) string {
	border := lipgloss.Color("240")
	if i == m.col {
		border = lipgloss.Color("63")
	}

	title := lipgloss.NewStyle().Bold(true).Render(string(col.State))
	lines := []string{title, faint(fmt.Sprintf("%d · %s", len(col.Cards), FormatMoney(col.Total))), ""}

	for j, c := range col.Cards {
		card := fmt.Sprintf("%s\n%s\n%s", c.ClientName, FormatMoney(c.Total), faint(c.OrderID+" · "+FormatAge(c.CreatedAt)))

		style := lipgloss.NewStyle().Width(cardWidth - 4).MarginBottom(1)
		if i == m.col && j == m.row {
			style = style.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
		}

		lines = append(lines, style.Render(card))
	}

	return lipgloss.NewStyle().
		Width(cardWidth).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(strings.Join(lines, "\n"))
}

func (m PipelineModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pipeline...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Cobrado: [p] %s", activeStyle(m.filterLabel()))

	columns := make([]string, len(m.board.Columns))
	for i, col := range m.board.Columns {
		columns[i] = m.renderColumn(i, col)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	)

	if m.state == boardStateFilter && m.form != nil {
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

func (m PipelineModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		orders, err := m.svc.List(ctx, order.ListFilter{})

		return ordersLoadedMsg{orders: orders, err: err}
	}
}
