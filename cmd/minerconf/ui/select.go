package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const selectMaxHeight = 20

// SelectRow lets the user pick one row of a table on stderr and returns its
// index. The cursor starts on initial. Esc and ctrl+c return ErrCancelled.
func SelectRow(headers []string, rows [][]string, initial int, bypassHint string) (int, error) {
	if err := RequireInteraction(bypassHint); err != nil {
		return -1, fmt.Errorf("selection required: %w", err)
	}
	if len(rows) == 0 {
		return -1, fmt.Errorf("selection required: nothing to choose from")
	}

	final, err := tea.NewProgram(newSelectModel(headers, rows, initial), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return -1, fmt.Errorf("select prompt: %w", err)
	}
	m := final.(selectModel)
	if m.picked < 0 {
		return -1, ErrCancelled
	}
	return m.picked, nil
}

type selectModel struct {
	grid   table.Model
	total  int
	picked int
	closed bool
}

func newSelectModel(headers []string, rows [][]string, initial int) selectModel {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: lipgloss.Width(h)}
	}
	data := make([]table.Row, len(rows))
	for r, row := range rows {
		data[r] = table.Row(row)
		for i := 0; i < len(row) && i < len(cols); i++ {
			cols[i].Width = max(cols[i].Width, lipgloss.Width(row[i]))
		}
	}
	for i := range cols {
		cols[i].Width += 2
	}

	grid := table.New(
		table.WithColumns(cols),
		table.WithRows(data),
		table.WithHeight(min(len(rows), selectMaxHeight)),
		table.WithFocused(true),
		table.WithStyles(selectStyles()),
	)
	if initial > 0 && initial < len(rows) {
		grid.SetCursor(initial)
	}
	return selectModel{grid: grid, total: len(rows), picked: -1}
}

func selectStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = HeadingStyle.
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(faint)
	s.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(purple)
	return s
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.picked, m.closed = m.grid.Cursor(), true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.picked, m.closed = -1, true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.closed {
		return ""
	}
	hint := fmt.Sprintf("%d/%d  ↑/↓ move  enter choose  esc cancel", m.grid.Cursor()+1, m.total)
	return m.grid.View() + "\n" + Muted(hint) + "\n"
}
