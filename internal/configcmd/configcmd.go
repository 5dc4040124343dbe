// Package configcmd assembles the configuration the wizard saves on the
// controller.
package configcmd

import (
	"strings"

	"minerconf/internal/algo"
	"minerconf/internal/wizard"
	"minerconf/sdk"
)

const (
	// SaveCommand is the controller command that persists a configuration.
	SaveCommand = "saveRawConfig"
	// Driver selects the controller's OpenCL backend.
	Driver = "OCL"
	// ProtocolStratum is the only pool protocol the wizard configures.
	ProtocolStratum = "stratum"

	stratumPrefix = "stratum+"
)

// ImplParams selects an algorithm implementation and tunes it.
type ImplParams struct {
	Impl            string `json:"impl"`
	LinearIntensity int    `json:"linearIntensity"`
}

// Pool describes the pool the controller connects to.
type Pool struct {
	URL             string        `json:"url"`
	User            string        `json:"user"`
	Pass            string        `json:"pass"`
	DiffMultipliers algo.Profile  `json:"diffMultipliers"`
	Algo            algo.ID       `json:"algo"`
	Protocol        string        `json:"protocol"`
	DiffMode        algo.DiffMode `json:"diffMode,omitempty"`
	Name            string        `json:"name,omitempty"`
}

// Configuration is the document written to the destination file.
type Configuration struct {
	Pools      []Pool                   `json:"pools"`
	Driver     string                   `json:"driver"`
	Algo       algo.ID                  `json:"algo"`
	ImplParams map[algo.ID][]ImplParams `json:"implParams"`
}

// Command is a configuration bound to its destination on the controller.
type Command struct {
	Destination   string
	Configuration Configuration
}

// SaveParams carries the destination and the configuration to save.
type SaveParams struct {
	Destination   string        `json:"destination"`
	Configuration Configuration `json:"configuration"`
}

// Request wraps c as a saveRawConfig request.
func (c Command) Request() sdk.Command {
	return sdk.Command{
		Name: SaveCommand,
		Params: SaveParams{
			Destination:   c.Destination,
			Configuration: c.Configuration,
		},
	}
}

// Build assembles the command for st with the given linear intensity.
//
// linearIntensity is passed through as given, zero or negative included. An
// algorithm missing from the reference table is reported as a
// *wizard.IntegrityError.
func Build(st wizard.State, linearIntensity int) (Command, error) {
	profile, err := algo.ProfileOf(st.Algo)
	if err != nil {
		return Command{}, &wizard.IntegrityError{Op: "build configuration", Err: err}
	}
	impl, err := algo.PreferredImpl(st.Algo)
	if err != nil {
		return Command{}, &wizard.IntegrityError{Op: "build configuration", Err: err}
	}
	if st.PoolDiffOverride != nil {
		profile.Stratum = *st.PoolDiffOverride
	}

	pool := Pool{
		URL:             StripProtocol(st.PoolURL),
		User:            st.WorkerLogin,
		Pass:            st.WorkerPass,
		DiffMultipliers: profile,
		Algo:            st.Algo,
		Protocol:        ProtocolStratum,
		Name:            st.PoolName,
	}
	if mode, ok := algo.DiffModeOf(st.Algo); ok {
		pool.DiffMode = mode
	}

	return Command{
		Destination: st.Destination,
		Configuration: Configuration{
			Pools:  []Pool{pool},
			Driver: Driver,
			Algo:   st.Algo,
			ImplParams: map[algo.ID][]ImplParams{
				st.Algo: {{Impl: impl, LinearIntensity: linearIntensity}},
			},
		},
	}, nil
}

// StripProtocol removes a leading "stratum+" so "stratum+tcp://host:port"
// becomes "tcp://host:port". Other URLs are returned unchanged.
func StripProtocol(url string) string {
	return strings.TrimPrefix(url, stratumPrefix)
}

// RedactedPass replaces pool passwords in Redacted output.
const RedactedPass = "********"

// Redacted returns a copy of c with pool passwords masked.
func (c Configuration) Redacted() Configuration {
	out := c
	out.Pools = make([]Pool, len(c.Pools))
	for i, p := range c.Pools {
		if p.Pass != "" {
			p.Pass = RedactedPass
		}
		out.Pools[i] = p
	}
	return out
}
