package setup

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"minerconf/internal/algo"
	"minerconf/internal/apply"
	"minerconf/internal/commit"
	"minerconf/internal/hardware"
	"minerconf/internal/wizard"
)

// scriptedAsker answers prompts from queues and records what it was offered.
type scriptedAsker struct {
	algos   []string
	answers map[wizard.Field][]string
	offered map[wizard.Field][]string
	errMsgs []string
}

func (a *scriptedAsker) Algorithm(initial string, errMsg string) (string, error) {
	a.record(wizard.FieldAlgorithm, initial, errMsg)
	if len(a.algos) == 0 {
		return "", errors.New("no algorithm scripted")
	}
	v := a.algos[0]
	a.algos = a.algos[1:]
	return v, nil
}

func (a *scriptedAsker) Text(field wizard.Field, value string, errMsg string) (string, error) {
	a.record(field, value, errMsg)
	queue := a.answers[field]
	if len(queue) == 0 {
		return value, nil
	}
	a.answers[field] = queue[1:]
	return queue[0], nil
}

func (a *scriptedAsker) record(field wizard.Field, value, errMsg string) {
	if a.offered == nil {
		a.offered = make(map[wizard.Field][]string)
	}
	a.offered[field] = append(a.offered[field], value)
	if errMsg != "" {
		a.errMsgs = append(a.errMsgs, errMsg)
	}
}

func walk(t *testing.T, c *collector) (wizard.State, error) {
	t.Helper()
	sc := newScreen(&bytes.Buffer{})
	return runWizard(wizard.NewSequencer(sc, "easy.json"), sc, c)
}

func TestRunWizardInteractive(t *testing.T) {
	ask := &scriptedAsker{
		algos: []string{"neoScrypt"},
		answers: map[wizard.Field][]string{
			wizard.FieldPoolURL:  {"stratum+tcp://pool:3333"},
			wizard.FieldLogin:    {"worker"},
			wizard.FieldPassword: {"x"},
		},
	}
	st, err := walk(t, &collector{flags: map[wizard.Field]string{}, interactive: true, ask: ask})
	if err != nil {
		t.Fatalf("runWizard() error = %v", err)
	}

	if st.Algo != algo.NeoScrypt || st.PoolName != wizard.DefaultPoolName || st.ScaledIntensity != 1 {
		t.Fatalf("state = %+v", st)
	}
	// The pool difficulty prompt offers the algorithm's stratum factor.
	if got := ask.offered[wizard.FieldPoolDiffMultiplier]; len(got) != 1 || got[0] != "1" {
		t.Fatalf("pool diff offered %v, want [1]", got)
	}
	if got := ask.offered[wizard.FieldScaledIntensity]; len(got) != 1 || got[0] != "100" {
		t.Fatalf("intensity offered %v, want [100]", got)
	}
	if st.PoolDiffOverride == nil || *st.PoolDiffOverride != 1 {
		t.Fatalf("pool diff override = %v", st.PoolDiffOverride)
	}
	if st.Destination != "easy.json" {
		t.Fatalf("destination = %q", st.Destination)
	}
}

func TestRunWizardRetriesInvalidStep(t *testing.T) {
	ask := &scriptedAsker{
		algos: []string{"qubit"},
		answers: map[wizard.Field][]string{
			wizard.FieldPoolDiffMultiplier: {"0", "16"},
			wizard.FieldPoolURL:            {"", "tcp://pool:1"},
			wizard.FieldLogin:              {"w", "w"},
			wizard.FieldPassword:           {"p", "p"},
		},
	}
	st, err := walk(t, &collector{flags: map[wizard.Field]string{}, interactive: true, ask: ask})
	if err != nil {
		t.Fatalf("runWizard() error = %v", err)
	}
	if *st.PoolDiffOverride != 16 || st.PoolURL != "tcp://pool:1" {
		t.Fatalf("state = %+v", st)
	}
	// The retry offers the rejected value back.
	if got := ask.offered[wizard.FieldPoolDiffMultiplier]; len(got) != 2 || got[1] != "0" {
		t.Fatalf("pool diff offered %v", got)
	}
	if len(ask.errMsgs) != 2 {
		t.Fatalf("validation messages shown = %v", ask.errMsgs)
	}
}

func TestRunWizardFromFlags(t *testing.T) {
	flags := map[wizard.Field]string{
		wizard.FieldAlgorithm:          "fresh",
		wizard.FieldPoolDiffMultiplier: "4.7",
		wizard.FieldPoolURL:            "stratum+tcp://pool:3333",
		wizard.FieldLogin:              "worker",
		wizard.FieldPassword:           " spaced ",
		wizard.FieldScaledIntensity:    "50",
	}
	st, err := walk(t, &collector{flags: flags, interactive: false, ask: &scriptedAsker{}})
	if err != nil {
		t.Fatalf("runWizard() error = %v", err)
	}
	if st.Algo != algo.Fresh || *st.PoolDiffOverride != 4 || st.WorkerPass != " spaced " || st.ScaledIntensity != 0.5 {
		t.Fatalf("state = %+v", st)
	}
}

func TestRunWizardNonInteractiveDefaults(t *testing.T) {
	flags := map[wizard.Field]string{
		wizard.FieldAlgorithm: "grsmyr",
		wizard.FieldPoolURL:   "tcp://pool:1",
		wizard.FieldLogin:     "w",
		wizard.FieldPassword:  "p",
	}
	st, err := walk(t, &collector{flags: flags, interactive: false, ask: &scriptedAsker{}})
	if err != nil {
		t.Fatalf("runWizard() error = %v", err)
	}
	if *st.PoolDiffOverride != 1 || st.ScaledIntensity != 1 || st.PoolName != wizard.DefaultPoolName {
		t.Fatalf("state = %+v", st)
	}
}

func TestRunWizardNonInteractiveValidationFails(t *testing.T) {
	flags := map[wizard.Field]string{
		wizard.FieldAlgorithm: "qubit",
		wizard.FieldPoolURL:   "tcp://pool:1",
		wizard.FieldLogin:     "w",
	}
	_, err := walk(t, &collector{flags: flags, interactive: false, ask: &scriptedAsker{}})
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("runWizard() error = %v, want ValidationError", err)
	}
	if !strings.HasPrefix(err.Error(), "--") {
		t.Fatalf("error %q does not name the flag", err)
	}
}

func TestScreenTracksPrefills(t *testing.T) {
	var buf bytes.Buffer
	sc := newScreen(&buf)
	sc.Install(wizard.StepPool, wizard.State{})
	sc.Show(wizard.FieldAlgorithm, "qubit")
	sc.Prefill(wizard.FieldPoolURL, "x")
	sc.Focus(wizard.FieldPoolURL)
	if sc.step != wizard.StepPool || sc.prefill[wizard.FieldPoolURL] != "x" || sc.focus != wizard.FieldPoolURL {
		t.Fatalf("screen = %+v", sc)
	}
	if !strings.Contains(buf.String(), "qubit") || !strings.Contains(buf.String(), "Step 3/5") {
		t.Fatalf("output = %q", buf.String())
	}
	sc.Teardown(wizard.StepPool)
	if len(sc.prefill) != 0 || len(sc.shown) != 0 {
		t.Fatal("Teardown() kept the previous step's values")
	}
}

func TestReport(t *testing.T) {
	tests := []struct {
		name     string
		res      apply.Result
		err      error
		contains []string
		absent   []string
	}{
		{
			name:     "restart open",
			res:      apply.Result{Outcome: commit.OutcomeRestartOpen},
			contains: []string{commit.OutcomeRestartOpen.Message(), commit.OutcomeRestartOpen.Detail(), apply.DoneMessage},
		},
		{
			name:     "closed no reply",
			res:      apply.Result{Outcome: commit.OutcomeClosedNoReply},
			contains: []string{"Miner will restart with closed ports.", apply.DoneMessage},
		},
		{
			name:     "rejected",
			res:      apply.Result{Outcome: commit.OutcomeRejected},
			err:      commit.ErrSaveRejected,
			contains: []string{"Miner did not save the given configuration.", "State not changed. Nothing to do."},
		},
		{
			name:     "no devices",
			err:      hardware.ErrNoDevices,
			contains: []string{"No eligible devices found"},
			absent:   []string{apply.DoneMessage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			report(&buf, tt.res, tt.err)
			got := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Fatalf("report missing %q:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(got, unwanted) {
					t.Fatalf("report contains %q:\n%s", unwanted, got)
				}
			}
		})
	}
}
