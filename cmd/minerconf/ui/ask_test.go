package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmAnswers(t *testing.T) {
	testCases := []struct {
		name    string
		key     tea.KeyMsg
		wantYes bool
		want    askState
	}{
		{name: "y", key: runes("y"), wantYes: true, want: askAnswered},
		{name: "upper Y", key: runes("Y"), wantYes: true, want: askAnswered},
		{name: "n", key: runes("n"), want: askAnswered},
		{name: "other letter", key: runes("q"), want: askAnswered},
		{name: "enter defaults to no", key: tea.KeyMsg{Type: tea.KeyEnter}, want: askAnswered},
		{name: "esc", key: tea.KeyMsg{Type: tea.KeyEsc}, want: askAborted},
		{name: "ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}, want: askAborted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &askModel{question: "Save this configuration?"}
			if !strings.Contains(m.View(), "[y/N]") {
				t.Fatalf("View() = %q", m.View())
			}
			_, cmd := m.Update(tc.key)
			if cmd == nil {
				t.Fatal("Update() did not quit")
			}
			if m.yes != tc.wantYes || m.state != tc.want {
				t.Fatalf("yes = %v state = %v, want %v %v", m.yes, m.state, tc.wantYes, tc.want)
			}
			if m.View() != "" {
				t.Fatalf("View() after answer = %q", m.View())
			}
		})
	}
}

func TestTextAskEditsPrefill(t *testing.T) {
	m := newTextAsk(PromptOptions{Label: "Pool URL", Value: "tcp://pool", Error: "port is required"})

	view := m.View()
	if !strings.Contains(view, "? Pool URL") || !strings.Contains(view, "port is required") {
		t.Fatalf("View() = %q", view)
	}

	m.Update(runes(":3333"))
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatal("enter did not quit")
	}
	if m.state != askAnswered {
		t.Fatalf("state = %v", m.state)
	}
	if got := m.input.Value(); got != "tcp://pool:3333" {
		t.Fatalf("Value() = %q", got)
	}
}

func TestTextAskMasksSecret(t *testing.T) {
	m := newTextAsk(PromptOptions{Label: "Worker password", Value: "hunter2", Secret: true})
	if strings.Contains(m.View(), "hunter2") {
		t.Fatalf("secret shown: %q", m.View())
	}
	if m.input.Value() != "hunter2" {
		t.Fatalf("Value() = %q", m.input.Value())
	}
}
