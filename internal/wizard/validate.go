package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"minerconf/internal/algo"
)

// validate runs the validator registered for target. On success st holds the
// fields declared for the step; on failure st must be discarded by the caller.
func validate(target StepID, in Input, st *State) error {
	switch target {
	case StepAlgorithm:
		// Entry step: nothing precedes it.
		return nil

	case StepPoolDiffMultiplier:
		id := strings.TrimSpace(in.Value(FieldAlgorithm))
		if id == "" {
			return invalid(target, FieldAlgorithm, "An algorithm must be selected.")
		}
		// Only listed algorithms are offered, so anything else is a caller bug.
		if !algo.Known(algo.ID(id)) {
			return &IntegrityError{Op: "select algorithm", Err: fmt.Errorf("%w: %q", algo.ErrUnknown, id)}
		}
		st.Algo = algo.ID(id)
		return nil

	case StepPool:
		v, ok := parseNumber(in.Value(FieldPoolDiffMultiplier))
		floored := math.Floor(v)
		if !ok || floored < 1 {
			return invalid(target, FieldPoolDiffMultiplier, "Pool difficulty factor must be at least 1.")
		}
		if floored > math.MaxInt32 {
			return invalid(target, FieldPoolDiffMultiplier, "Pool difficulty factor is too large.")
		}
		override := int(floored)
		st.PoolDiffOverride = &override
		return nil

	case StepHWIntensity:
		url := strings.TrimSpace(in.Value(FieldPoolURL))
		if url == "" {
			return invalid(target, FieldPoolURL, "Pool URL is empty, this is surely wrong.")
		}
		login := strings.TrimSpace(in.Value(FieldLogin))
		if login == "" {
			return invalid(target, FieldLogin, "No worker login provided.")
		}
		pass := in.Value(FieldPassword)
		if pass == "" {
			return invalid(target, FieldPassword, "A password must be specified.")
		}
		name := strings.TrimSpace(in.Value(FieldPoolName))
		if name == "" {
			name = DefaultPoolName
		}
		st.PoolURL = url
		st.WorkerLogin = login
		st.WorkerPass = pass
		st.PoolName = name
		return nil

	case StepSaveAndReboot:
		// Percent of the reference intensity. Zero and negative values are
		// accepted here; the apply pipeline warns about them.
		v, ok := parseNumber(in.Value(FieldScaledIntensity))
		if !ok {
			return invalid(target, FieldScaledIntensity, "Intensity must be a number.")
		}
		st.ScaledIntensity = v / 100.0
		return nil
	}

	return &IntegrityError{Op: "validate", Err: fmt.Errorf("%w: %d", ErrUnknownStep, uint8(target))}
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
