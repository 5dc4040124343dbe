package setup

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"minerconf/cmd/minerconf/ui"
	"minerconf/internal/algo"
	"minerconf/internal/wizard"
)

// asker obtains one value from the user.
type asker interface {
	Algorithm(initial string, errMsg string) (string, error)
	Text(field wizard.Field, value string, errMsg string) (string, error)
}

// collector gathers the inputs of the step on screen. Flag values are used
// as given on the first attempt; after a validation failure every field of
// the step is asked again, prefilled with the rejected attempt.
type collector struct {
	flags       map[wizard.Field]string
	interactive bool
	ask         asker
}

func (c *collector) collect(sc *screen, last wizard.Form, failed *wizard.ValidationError) (wizard.Form, error) {
	form := wizard.Form{}
	for _, f := range sc.step.Fields() {
		flagValue, fromFlag := c.flags[f]
		if fromFlag && failed == nil {
			form[f] = flagValue
			continue
		}

		value := sc.prefill[f]
		if failed != nil {
			value = last[f]
		}
		if !c.interactive {
			// Required fields stay empty so the validator names them.
			form[f] = value
			continue
		}

		errMsg := ""
		if failed != nil && failed.Field == f {
			errMsg = failed.Message
		}
		var (
			answer string
			err    error
		)
		if f == wizard.FieldAlgorithm {
			answer, err = c.ask.Algorithm(value, errMsg)
		} else {
			answer, err = c.ask.Text(f, value, errMsg)
		}
		if err != nil {
			return nil, err
		}
		form[f] = answer
	}
	return form, nil
}

// runWizard walks the sequencer to its terminal step.
func runWizard(seq *wizard.Sequencer, sc *screen, c *collector) (wizard.State, error) {
	if err := seq.Start(); err != nil {
		return wizard.State{}, err
	}

	var (
		last   wizard.Form
		failed *wizard.ValidationError
	)
	for !seq.Done() {
		next, _ := seq.Current().Next()
		form, err := c.collect(sc, last, failed)
		if err != nil {
			return wizard.State{}, err
		}

		err = seq.Advance(next, form)
		var verr *wizard.ValidationError
		switch {
		case err == nil:
			last, failed = nil, nil
		case errors.As(err, &verr) && c.interactive:
			last, failed = form, verr
		case errors.As(err, &verr):
			return wizard.State{}, fmt.Errorf("--%s: %w", verr.Field, verr)
		default:
			return wizard.State{}, err
		}
	}
	return seq.State(), nil
}

// uiAsker prompts on the terminal.
type uiAsker struct {
	out io.Writer
}

func (a uiAsker) Algorithm(initial string, errMsg string) (string, error) {
	if errMsg != "" {
		fmt.Fprintln(a.out, ui.ErrorMsg("%s", errMsg))
	}
	infos := algo.All()
	rows := make([][]string, 0, len(infos))
	start := 0
	for i, info := range infos {
		if string(info.ID) == initial {
			start = i
		}
		rows = append(rows, []string{
			string(info.ID),
			strconv.Itoa(info.Profile.Stratum),
			strconv.Itoa(info.Profile.One),
			strconv.Itoa(info.Profile.Share),
		})
	}
	idx, err := ui.SelectRow([]string{"ALGORITHM", "STRATUM", "ONE", "SHARE"}, rows, start,
		ui.NoInteractionHint(wizard.FieldAlgorithm.String()))
	if err != nil {
		return "", err
	}
	return string(infos[idx].ID), nil
}

func (a uiAsker) Text(field wizard.Field, value string, errMsg string) (string, error) {
	return ui.Prompt(ui.PromptOptions{
		Label:  field.Label(),
		Value:  value,
		Secret: field.Secret(),
		Error:  errMsg,
	}, ui.NoInteractionHint(field.String()))
}
