package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Confirm asks a yes/no question on stderr. Anything but y answers no.
// bypassHint names the flag that skips the question when there is no
// terminal, in which case *ErrNoInteraction is returned.
func Confirm(question string, bypassHint string) (bool, error) {
	if err := RequireInteraction(bypassHint); err != nil {
		return false, fmt.Errorf("confirmation required: %w", err)
	}
	m, err := ask(&askModel{question: question})
	if err != nil {
		return false, err
	}
	return m.yes, nil
}

// PromptOptions configures a text prompt.
type PromptOptions struct {
	Label       string
	Placeholder string
	// Value prefills the input.
	Value string
	// Secret masks the typed characters.
	Secret bool
	// Error is shown under the label, typically the previous attempt's
	// validation failure.
	Error string
}

// Prompt reads one line of text on stderr.
func Prompt(opts PromptOptions, bypassHint string) (string, error) {
	if err := RequireInteraction(bypassHint); err != nil {
		return "", fmt.Errorf("input required: %w", err)
	}
	m, err := ask(newTextAsk(opts))
	if err != nil {
		return "", err
	}
	return m.input.Value(), nil
}

func ask(m *askModel) (*askModel, error) {
	if _, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run(); err != nil {
		return nil, fmt.Errorf("prompt %q: %w", m.question, err)
	}
	if m.state == askAborted {
		return nil, ErrCancelled
	}
	return m, nil
}

type askState int

const (
	askOpen askState = iota
	askAnswered
	askAborted
)

// askModel is a yes/no question when input is nil and a text prompt
// otherwise.
type askModel struct {
	question string
	problem  string
	input    *textinput.Model
	yes      bool
	state    askState
}

func newTextAsk(opts PromptOptions) *askModel {
	in := textinput.New()
	in.Placeholder = opts.Placeholder
	in.PromptStyle = AccentStyle
	in.SetValue(opts.Value)
	in.CursorEnd()
	if opts.Secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	in.Focus()
	return &askModel{question: opts.Label, problem: opts.Error, input: &in}
}

func (m *askModel) Init() tea.Cmd {
	if m.input != nil {
		return textinput.Blink
	}
	return nil
}

func (m *askModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.state = askAborted
			return m, tea.Quit
		case tea.KeyEnter:
			m.state = askAnswered
			return m, tea.Quit
		}
	}

	if m.input == nil {
		if isKey && key.Type == tea.KeyRunes {
			m.yes = strings.EqualFold(string(key.Runes), "y")
			m.state = askAnswered
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	*m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *askModel) View() string {
	if m.state != askOpen {
		return ""
	}
	head := Accent("?") + " " + m.question
	if m.input == nil {
		return head + " " + Muted("[y/N]") + " "
	}

	var b strings.Builder
	b.WriteString(head + "\n")
	if m.problem != "" {
		b.WriteString("  " + ErrorStyle.Render(m.problem) + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	return b.String()
}
