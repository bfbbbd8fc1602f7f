// Package tui implements the interactive pathway comparison view: a table
// of all pathways ranked by footprint, with a per-stage detail view behind
// each row.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitrify/igucycle/internal/scenario"
)

// viewState is the active screen of the compare view.
type viewState int

const (
	stateList viewState = iota
	stateDetail
	stateQuitting
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	minTableRows  = 4
	footerHeight  = 2
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true)

	tableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// CompareModel is the Bubble Tea model for the pathway comparison view.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type CompareModel struct {
	product string
	results []*scenario.Result

	state    viewState
	table    table.Model
	selected int

	width  int
	height int
}

// NewCompareModel creates the comparison model. Results are ranked by total
// footprint, best first.
func NewCompareModel(product string, results []*scenario.Result) CompareModel {
	sorted := make([]*scenario.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalKgCO2e() < sorted[j].TotalKgCO2e()
	})

	m := CompareModel{
		product: product,
		results: sorted,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.table = m.buildTable()
	return m
}

// Init initializes the model (Bubble Tea interface).
func (m CompareModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m CompareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.table = m.buildTable()
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch m.state {
	case stateList:
		return m.handleListKeypress(keyMsg)
	case stateDetail:
		return m.handleDetailKeypress(keyMsg)
	default:
		return m, nil
	}
}

func (m CompareModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.state = stateQuitting
		return m, tea.Quit
	case "enter":
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.results) {
			m.state = stateDetail
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m CompareModel) handleDetailKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "q", "ctrl+c":
		m.state = stateQuitting
		return m, tea.Quit
	case "esc", "enter":
		m.state = stateList
		m.table.Focus()
		return m, nil
	}
	return m, nil
}

// View renders the active screen (Bubble Tea interface).
func (m CompareModel) View() string {
	switch m.state {
	case stateQuitting:
		return ""
	case stateDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m CompareModel) viewList() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Pathway comparison: "+m.product) + "\n\n")
	b.WriteString(m.table.View() + "\n")
	b.WriteString(helpStyle.Render("enter: stage detail  q: quit"))
	return b.String()
}

func (m CompareModel) viewDetail() string {
	res := m.results[m.selected]

	var b strings.Builder
	b.WriteString(headerStyle.Render(res.Pathway.Title()) + "\n\n")
	b.WriteString(fmt.Sprintf("Total: %.3f kgCO2e  (process %.3f, transport %.3f, embodied %.3f)\n",
		res.TotalKgCO2e(), res.Totals.Process, res.Totals.Transport, res.Totals.EmbodiedNew))
	b.WriteString(fmt.Sprintf("Mass:  %.1f kg -> %.1f kg, waste %.1f kg\n\n",
		res.InitialMassKg, res.FinalMassKg, res.WasteMassKg))

	for _, s := range res.Stages {
		b.WriteString(fmt.Sprintf("  %-44s %12.3f kgCO2e\n", s.Entry.Stage, s.Entry.EmissionKgCO2e))
		if s.Entry.Formula != "" {
			b.WriteString(helpStyle.Render("      "+s.Entry.Formula) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("esc: back  q: quit"))
	return b.String()
}

// buildTable creates the ranking table for the current dimensions.
func (m *CompareModel) buildTable() table.Model {
	columns := []table.Column{
		{Title: "Pathway", Width: 34},
		{Title: "Total kgCO2e", Width: 14},
		{Title: "Process", Width: 12},
		{Title: "Transport", Width: 12},
		{Title: "Embodied", Width: 12},
		{Title: "Yield%", Width: 8},
	}

	rows := make([]table.Row, len(m.results))
	for i, res := range m.results {
		rows[i] = table.Row{
			res.Pathway.Title(),
			fmt.Sprintf("%.3f", res.TotalKgCO2e()),
			fmt.Sprintf("%.3f", res.Totals.Process),
			fmt.Sprintf("%.3f", res.Totals.Transport),
			fmt.Sprintf("%.3f", res.Totals.EmbodiedNew),
			fmt.Sprintf("%.1f", res.YieldPercent()),
		}
	}

	height := m.height - footerHeight - 3
	if height < minTableRows {
		height = minTableRows
	}
	if height > len(rows)+1 {
		height = len(rows) + 1
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = tableSelectedStyle
	t.SetStyles(s)
	return t
}
