package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestMessage(t *testing.T) {
	tests := []struct {
		tone Tone
		want string
	}{
		{ToneInfo, "● reading rig"},
		{ToneSuccess, "✓ reading rig"},
		{ToneWarn, "! reading rig"},
		{ToneError, "✗ reading rig"},
	}
	for _, tt := range tests {
		if got := Message(tt.tone, "reading %s", "rig"); got != tt.want {
			t.Errorf("Message(%d) = %q, want %q", tt.tone, got, tt.want)
		}
	}
}

func TestKeyValuesAligns(t *testing.T) {
	got := KeyValues("  ", KV("Algorithm", "qubit"), KV("Pool", "tcp://pool:3333"))
	want := "  Algorithm: qubit\n  Pool:      tcp://pool:3333\n"
	if got != want {
		t.Fatalf("KeyValues() = %q, want %q", got, want)
	}
}

func TestStepHeading(t *testing.T) {
	if got := StepHeading(2, 5, "Pool difficulty"); got != "Step 2/5 · Pool difficulty" {
		t.Fatalf("StepHeading() = %q", got)
	}
}

func TestHighlightTableKeepsRows(t *testing.T) {
	out := HighlightTable([]string{"CHIP"}, [][]string{{"Tahiti"}, {"Capeverde"}}, 1)
	for _, want := range []string{"CHIP", "Tahiti", "Capeverde"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
