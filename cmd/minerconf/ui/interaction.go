package ui

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Any of these set to a truthy value disables prompts.
var noInteractionEnv = []string{"MINERCONF_NO_INTERACTION", "NO_INTERACTION", "CI"}

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// ErrNoInteraction is returned when a value must be asked for but there is
// no terminal to ask on. Hint names the flag that supplies it instead.
type ErrNoInteraction struct {
	Hint string
}

func (e *ErrNoInteraction) Error() string {
	msg := "terminal is not interactive"
	if hint := strings.TrimSpace(e.Hint); hint != "" {
		msg += "; " + hint
	}
	return msg
}

// NoInteractionHint formats the bypass hint for a flag.
func NoInteractionHint(flag string) string {
	return fmt.Sprintf("use --%s to provide the value", flag)
}

// RequireInteraction fails with *ErrNoInteraction unless prompts can run.
func RequireInteraction(bypassHint string) error {
	if !IsInteractive() {
		return &ErrNoInteraction{Hint: bypassHint}
	}
	return nil
}

var interaction struct {
	detect sync.Once
	on     atomic.Bool
}

// ConfigureInteraction decides whether prompts and live output are used
// and picks the matching color profile. --no-interaction forces them off.
func ConfigureInteraction(noInteraction bool) {
	interaction.detect.Do(func() {})
	setInteractive(!noInteraction && terminalAttached())
}

// IsInteractive reports the configured mode, detecting it from the
// environment on first use when ConfigureInteraction was never called.
func IsInteractive() bool {
	interaction.detect.Do(func() { setInteractive(terminalAttached()) })
	return interaction.on.Load()
}

func setInteractive(on bool) {
	interaction.on.Store(on)
	profile := termenv.Ascii
	if on {
		profile = termenv.ColorProfile()
	}
	lipgloss.SetColorProfile(profile)
}

func IsNoInteraction() bool {
	return !IsInteractive()
}

func terminalAttached() bool {
	if slices.ContainsFunc(noInteractionEnv, envTruthy) {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	// Prompts read keys from stdin and draw on stderr.
	return isCharDevice(os.Stdin) && isCharDevice(os.Stderr)
}

func isCharDevice(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func envTruthy(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
