package setup

import (
	"fmt"
	"io"

	"minerconf/cmd/minerconf/ui"
	"minerconf/internal/wizard"
)

// screen is the terminal rendition of the wizard. It remembers what the
// sequencer asked it to prefill and show so the collector can offer those
// values.
type screen struct {
	out     io.Writer
	step    wizard.StepID
	prefill map[wizard.Field]string
	shown   map[wizard.Field]string
	focus   wizard.Field
}

var _ wizard.View = (*screen)(nil)

func newScreen(out io.Writer) *screen {
	return &screen{
		out:     out,
		prefill: make(map[wizard.Field]string),
		shown:   make(map[wizard.Field]string),
	}
}

func (s *screen) Teardown(wizard.StepID) {
	clear(s.prefill)
	clear(s.shown)
	s.focus = 0
}

func (s *screen) Install(step wizard.StepID, _ wizard.State) {
	s.step = step
	fmt.Fprintf(s.out, "\n%s\n", ui.StepHeading(int(step), len(wizard.Steps()), step.Title()))
}

func (s *screen) Prefill(field wizard.Field, value string) {
	s.prefill[field] = value
}

func (s *screen) Show(field wizard.Field, value string) {
	s.shown[field] = value
	fmt.Fprint(s.out, ui.KeyValues("  ", ui.KV(field.Label(), ui.Accent(value))))
}

func (s *screen) Focus(field wizard.Field) {
	s.focus = field
}
