package wizard

// StepID identifies a wizard step. The set is closed and ordered.
type StepID uint8

const (
	StepAlgorithm StepID = iota + 1
	StepPoolDiffMultiplier
	StepPool
	StepHWIntensity
	StepSaveAndReboot
)

// Steps returns every step in ordinal order.
func Steps() []StepID {
	return []StepID{
		StepAlgorithm,
		StepPoolDiffMultiplier,
		StepPool,
		StepHWIntensity,
		StepSaveAndReboot,
	}
}

func (s StepID) String() string {
	switch s {
	case StepAlgorithm:
		return "algorithm"
	case StepPoolDiffMultiplier:
		return "pool-diff-multiplier"
	case StepPool:
		return "pool"
	case StepHWIntensity:
		return "hw-intensity"
	case StepSaveAndReboot:
		return "save-and-reboot"
	default:
		return "unknown"
	}
}

// Title is the heading shown when the step is installed.
func (s StepID) Title() string {
	switch s {
	case StepAlgorithm:
		return "Select the algorithm to mine"
	case StepPoolDiffMultiplier:
		return "Pool difficulty multiplier"
	case StepPool:
		return "Pool connection"
	case StepHWIntensity:
		return "Hardware intensity"
	case StepSaveAndReboot:
		return "Save and reboot"
	default:
		return "Unknown step"
	}
}

// Valid reports whether s belongs to the step set.
func (s StepID) Valid() bool {
	return s >= StepAlgorithm && s <= StepSaveAndReboot
}

// Next returns the step following s. The last step has no successor.
func (s StepID) Next() (StepID, bool) {
	if !s.Valid() || s == StepSaveAndReboot {
		return 0, false
	}
	return s + 1, true
}

// Fields returns the inputs displayed while s is on screen. Their values are
// read by the validator of the following step.
func (s StepID) Fields() []Field {
	switch s {
	case StepAlgorithm:
		return []Field{FieldAlgorithm}
	case StepPoolDiffMultiplier:
		return []Field{FieldPoolDiffMultiplier}
	case StepPool:
		return []Field{FieldPoolURL, FieldLogin, FieldPassword, FieldPoolName}
	case StepHWIntensity:
		return []Field{FieldScaledIntensity}
	default:
		return nil
	}
}

// Field identifies a single user input.
type Field uint8

const (
	FieldAlgorithm Field = iota + 1
	FieldPoolDiffMultiplier
	FieldPoolURL
	FieldLogin
	FieldPassword
	FieldPoolName
	FieldScaledIntensity
)

// String doubles as the CLI flag name for the field.
func (f Field) String() string {
	switch f {
	case FieldAlgorithm:
		return "algo"
	case FieldPoolDiffMultiplier:
		return "pool-diff"
	case FieldPoolURL:
		return "pool-url"
	case FieldLogin:
		return "login"
	case FieldPassword:
		return "password"
	case FieldPoolName:
		return "pool-name"
	case FieldScaledIntensity:
		return "intensity"
	default:
		return "unknown"
	}
}

func (f Field) Label() string {
	switch f {
	case FieldAlgorithm:
		return "Algorithm"
	case FieldPoolDiffMultiplier:
		return "Pool difficulty factor"
	case FieldPoolURL:
		return "Pool URL"
	case FieldLogin:
		return "Worker login"
	case FieldPassword:
		return "Worker password"
	case FieldPoolName:
		return "Pool name (optional)"
	case FieldScaledIntensity:
		return "Intensity, percent of reference"
	default:
		return "Unknown"
	}
}

// Secret reports whether the field's value must not be echoed.
func (f Field) Secret() bool {
	return f == FieldPassword
}

// Input exposes the raw values currently entered on screen.
type Input interface {
	Value(field Field) string
}

// Form is a map-backed Input.
type Form map[Field]string

func (f Form) Value(field Field) string {
	return f[field]
}
