package cmdutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"minerconf/config"
	"minerconf/sdk"
)

const (
	EnvAddress = "MINERCONF_ADDRESS"
	EnvContext = "MINERCONF_CONTEXT"
)

// Target is a resolved controller.
type Target struct {
	// Context is the config context the target came from, empty for a
	// direct address.
	Context     string
	Address     string
	Origin      string
	Destination string
}

// Resolve finds the controller to talk to. Resolution order:
//
//  1. addressFlag / MINERCONF_ADDRESS
//  2. contextFlag / MINERCONF_CONTEXT
//  3. current-context from config file
func Resolve(cfg *config.Config, addressFlag, contextFlag string) (Target, error) {
	if addr := firstNonEmpty(addressFlag, os.Getenv(EnvAddress)); addr != "" {
		return Target{Address: addr}, nil
	}

	if name := firstNonEmpty(contextFlag, os.Getenv(EnvContext)); name != "" {
		c, ok := cfg.Contexts[name]
		if !ok {
			return Target{}, fmt.Errorf("context %q not found", name)
		}
		return fromContext(name, c)
	}

	name, c, ok := cfg.Current()
	if !ok {
		return Target{}, fmt.Errorf("no controller configured: pass --address or run 'minerconf context add'")
	}
	return fromContext(name, c)
}

// Connect dials the target.
func Connect(ctx context.Context, t Target) (*sdk.Client, error) {
	return sdk.Dial(ctx, t.Address, t.DialOptions()...)
}

// DialOptions returns the SDK options the target needs.
func (t Target) DialOptions() []sdk.DialOption {
	var opts []sdk.DialOption
	if t.Origin != "" {
		opts = append(opts, sdk.WithOrigin(t.Origin))
	}
	return opts
}

func fromContext(name string, c config.Context) (Target, error) {
	if strings.TrimSpace(c.Address) == "" {
		return Target{}, fmt.Errorf("context %q has no address", name)
	}
	return Target{
		Context:     name,
		Address:     c.Address,
		Origin:      c.Origin,
		Destination: c.Destination,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
