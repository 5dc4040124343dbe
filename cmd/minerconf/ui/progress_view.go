package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// logView prints a line whenever a step starts or finishes.
type logView struct {
	mu      sync.Mutex
	out     io.Writer
	printed map[string]stepState
}

func newLogView(out io.Writer) *logView {
	return &logView{out: out, printed: make(map[string]stepState)}
}

func (v *logView) update(steps []stepState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, s := range steps {
		last, seen := v.printed[s.ID]
		if s.Status == stepPending || (seen && last.Status == s.Status && last.Note == s.Note) {
			continue
		}
		v.printed[s.ID] = s
		fmt.Fprintln(v.out, logLine(s))
	}
}

func (v *logView) finish() {}

var logTags = map[stepStatus]string{
	stepRunning: "run",
	stepDone:    "ok",
	stepFailed:  "FAIL",
}

func logLine(s stepState) string {
	line := fmt.Sprintf("  %-4s %s", logTags[s.Status], s.Title)
	if s.Note != "" {
		line += ": " + s.Note
	}
	return line
}

// liveView redraws the checklist in place and animates running steps.
type liveView struct {
	mu     sync.Mutex
	out    io.Writer
	steps  []stepState
	drawn  int
	frame  int
	anim   spinner.Spinner
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

func newLiveView(out io.Writer) *liveView {
	return &liveView{out: out, anim: spinner.Dot, stop: make(chan struct{})}
}

func (v *liveView) update(steps []stepState) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ticker == nil {
		v.ticker = time.NewTicker(v.anim.FPS)
		go v.animate(v.ticker)
	}
	v.steps = steps
	v.drawLocked()
}

func (v *liveView) finish() {
	v.once.Do(func() { close(v.stop) })
}

func (v *liveView) animate(ticker *time.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-v.stop:
			return
		case <-ticker.C:
			v.mu.Lock()
			v.frame = (v.frame + 1) % len(v.anim.Frames)
			v.drawLocked()
			v.mu.Unlock()
		}
	}
}

func (v *liveView) drawLocked() {
	var b strings.Builder
	if v.drawn > 0 {
		fmt.Fprintf(&b, "\033[%dF", v.drawn)
	}
	for _, s := range v.steps {
		b.WriteString(v.row(s) + "\033[K\n")
	}
	for i := len(v.steps); i < v.drawn; i++ {
		b.WriteString("\033[K\n")
	}
	v.drawn = max(v.drawn, len(v.steps))
	_, _ = io.WriteString(v.out, b.String())
}

func (v *liveView) row(s stepState) string {
	var mark, title string
	switch s.Status {
	case stepRunning:
		mark, title = Accent(v.anim.Frames[v.frame]), s.Title
	case stepDone:
		mark, title = Success("✓"), s.Title
	case stepFailed:
		mark, title = ErrorStyle.Render("✗"), ErrorStyle.Render(s.Title)
	default:
		mark, title = Muted("·"), Muted(s.Title)
	}

	var extra []string
	if s.Note != "" {
		extra = append(extra, s.Note)
	}
	if s.Status == stepDone || s.Status == stepFailed {
		extra = append(extra, s.Took.Round(time.Millisecond).String())
	}
	row := "  " + mark + " " + title
	if len(extra) > 0 {
		row += " " + Muted("("+strings.Join(extra, ", ")+")")
	}
	return row
}
