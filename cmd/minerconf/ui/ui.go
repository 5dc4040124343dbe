package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette. Tuned for dark terminals.
var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	yellow = lipgloss.Color("214")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	AccentStyle  = lipgloss.NewStyle().Foreground(purple)
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	WarnStyle    = lipgloss.NewStyle().Foreground(yellow)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	LabelStyle   = lipgloss.NewStyle().Foreground(dim)
	HeadingStyle = lipgloss.NewStyle().Foreground(purple).Bold(true)
)

func Accent(s string) string  { return AccentStyle.Render(s) }
func Bold(s string) string    { return BoldStyle.Render(s) }
func Muted(s string) string   { return MutedStyle.Render(s) }
func Success(s string) string { return SuccessStyle.Render(s) }
func Warn(s string) string    { return WarnStyle.Render(s) }

// StepHeading renders the heading of wizard screen n of total, e.g.
// "Step 2/5 · Pool difficulty".
func StepHeading(n, total int, title string) string {
	return HeadingStyle.Render(fmt.Sprintf("Step %d/%d · %s", n, total, title))
}

// Tone classifies a one-line status message.
type Tone int

const (
	ToneInfo Tone = iota
	ToneSuccess
	ToneWarn
	ToneError
)

var marks = map[Tone]struct {
	glyph string
	style lipgloss.Style
}{
	ToneInfo:    {"●", AccentStyle},
	ToneSuccess: {"✓", SuccessStyle},
	ToneWarn:    {"!", WarnStyle},
	ToneError:   {"✗", ErrorStyle},
}

// Message renders a status line prefixed with the tone's mark. No trailing
// newline.
func Message(tone Tone, format string, a ...any) string {
	m := marks[tone]
	return m.style.Render(m.glyph) + " " + fmt.Sprintf(format, a...)
}

func InfoMsg(format string, a ...any) string    { return Message(ToneInfo, format, a...) }
func SuccessMsg(format string, a ...any) string { return Message(ToneSuccess, format, a...) }
func WarnMsg(format string, a ...any) string    { return Message(ToneWarn, format, a...) }
func ErrorMsg(format string, a ...any) string   { return Message(ToneError, format, a...) }

// Pair is one line of KeyValues output.
type Pair struct {
	key   string
	value string
}

func KV(key, value string) Pair {
	return Pair{key: key, value: value}
}

// KeyValues renders aligned "key: value" lines, each ending in a newline.
// Values may carry styling; alignment only depends on the keys.
func KeyValues(indent string, pairs ...Pair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.key)+1)
	}

	var sb strings.Builder
	for _, p := range pairs {
		label := p.key + ":" + strings.Repeat(" ", width-lipgloss.Width(p.key)-1)
		sb.WriteString(indent + LabelStyle.Render(label) + " " + p.value + "\n")
	}
	return sb.String()
}

// Table renders rows under headers with rounded borders and dimmed
// alternate rows.
func Table(headers []string, rows [][]string) string {
	return HighlightTable(headers, rows, -1)
}

// HighlightTable is Table with row index highlight drawn in the accent
// colour. A negative index highlights nothing.
func HighlightTable(headers []string, rows [][]string, highlight int) string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Foreground(purple).Bold(true)
	alternate := cell.Foreground(dim)
	marked := cell.Foreground(purple).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row == highlight:
				return marked
			case row%2 == 1:
				return alternate
			default:
				return cell
			}
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
