package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrify/igucycle/internal/flow"
	"github.com/vitrify/igucycle/internal/scenario"
	"github.com/vitrify/igucycle/internal/stage"
)

func testResults() []*scenario.Result {
	return []*scenario.Result{
		{
			Pathway: scenario.Landfill,
			Totals:  flow.Emissions{Process: 5.6, Transport: 0.6},
			Stages: []scenario.StageResult{
				{Entry: stage.Entry{Stage: "Removal", EmissionKgCO2e: 5.6, Formula: "3.75 m2 * 1.5"}},
			},
			InitialAreaM2: 3.75,
		},
		{
			Pathway: scenario.SystemReuse,
			Totals:  flow.Emissions{Process: 0.6, Transport: 1.2},
			Stages: []scenario.StageResult{
				{Entry: stage.Entry{Stage: "Removal", EmissionKgCO2e: 0.6}},
			},
			InitialAreaM2: 3.75,
			FinalAreaM2:   3.75,
		},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewCompareModelRanksBestFirst(t *testing.T) {
	m := NewCompareModel("office-double", testResults())

	require.Len(t, m.results, 2)
	assert.Equal(t, scenario.SystemReuse, m.results[0].Pathway)
	assert.Equal(t, scenario.Landfill, m.results[1].Pathway)
}

func TestCompareModelListView(t *testing.T) {
	m := NewCompareModel("office-double", testResults())

	view := m.View()
	assert.Contains(t, view, "office-double")
	assert.Contains(t, view, "System Reuse")
	assert.Contains(t, view, "Straight to Landfill")
	assert.Contains(t, view, "q: quit")
}

func TestCompareModelDetailNavigation(t *testing.T) {
	m := NewCompareModel("office-double", testResults())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	dm, ok := next.(CompareModel)
	require.True(t, ok)
	assert.Equal(t, stateDetail, dm.state)

	view := dm.View()
	assert.Contains(t, view, "System Reuse")
	assert.Contains(t, view, "Removal")
	assert.Contains(t, view, "esc: back")

	back, _ := dm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	bm, ok := back.(CompareModel)
	require.True(t, ok)
	assert.Equal(t, stateList, bm.state)
}

func TestCompareModelQuit(t *testing.T) {
	m := NewCompareModel("office-double", testResults())

	next, cmd := m.Update(keyMsg("q"))
	qm, ok := next.(CompareModel)
	require.True(t, ok)
	assert.Equal(t, stateQuitting, qm.state)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCompareModelResize(t *testing.T) {
	m := NewCompareModel("office-double", testResults())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	rm, ok := next.(CompareModel)
	require.True(t, ok)
	assert.Equal(t, 80, rm.width)
	assert.Equal(t, 30, rm.height)
}
