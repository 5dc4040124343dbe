package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Busy runs fn while stderr shows label, an animated indicator and the
// elapsed time. Without a terminal fn runs directly and nothing is drawn.
// Ctrl+c cancels the context given to fn; Busy then waits for fn and
// returns context.Canceled.
func Busy(ctx context.Context, label string, fn func(context.Context) error) error {
	if IsNoInteraction() {
		return fn(ctx)
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		workErr = fn(workCtx)
	}()

	m := newBusyModel(label, time.Now(), finished)
	final, runErr := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithContext(ctx)).Run()
	interrupted := false
	if bm, ok := final.(busyModel); ok {
		interrupted = bm.interrupted
	}
	if runErr != nil || interrupted {
		cancel()
	}
	<-finished

	switch {
	case interrupted:
		return context.Canceled
	case workErr != nil:
		return workErr
	case runErr != nil:
		return fmt.Errorf("busy indicator: %w", runErr)
	}
	return nil
}

type busyFinishedMsg struct{}

type busyModel struct {
	label       string
	started     time.Time
	elapsed     time.Duration
	indicator   spinner.Model
	finished    <-chan struct{}
	done        bool
	interrupted bool
}

func newBusyModel(label string, started time.Time, finished <-chan struct{}) busyModel {
	return busyModel{
		label:     label,
		started:   started,
		indicator: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(AccentStyle)),
		finished:  finished,
	}
}

func (m busyModel) Init() tea.Cmd {
	wait := func() tea.Msg {
		<-m.finished
		return busyFinishedMsg{}
	}
	return tea.Batch(m.indicator.Tick, wait)
}

func (m busyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case busyFinishedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if !msg.Time.IsZero() {
			m.elapsed = msg.Time.Sub(m.started)
		}
		var cmd tea.Cmd
		m.indicator, cmd = m.indicator.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m busyModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	line := m.indicator.View() + " " + m.label
	if m.elapsed >= time.Second {
		line += " " + Muted(m.elapsed.Truncate(time.Second).String())
	}
	return line + "\n"
}
