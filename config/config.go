// Package config handles CLI context configuration for reaching controllers.
//
// Config is stored at $XDG_CONFIG_HOME/minerconf/config.yaml (defaults to
// ~/.config/minerconf/config.yaml) and follows the kubeconfig pattern: named
// contexts with a current-context selector. An optional reference block
// replaces the built-in reference device used for intensity scaling.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"minerconf/internal/hardware"
	"minerconf/pkg/sdk/defaults"

	"gopkg.in/yaml.v3"
)

// Context describes how to reach one controller.
type Context struct {
	Address     string `yaml:"address"`
	Origin      string `yaml:"origin,omitempty"`
	Destination string `yaml:"destination,omitempty"`
}

// Reference overrides fields of the reference device. Zero fields keep the
// built-in value.
type Reference struct {
	CoreClock       int64 `yaml:"core-clock,omitempty"`
	Clusters        int64 `yaml:"clusters,omitempty"`
	LinearIntensity int   `yaml:"linear-intensity,omitempty"`
}

// Config holds named controller contexts and the current selection.
type Config struct {
	CurrentContext string             `yaml:"current-context"`
	Contexts       map[string]Context `yaml:"contexts"`
	Reference      *Reference         `yaml:"reference,omitempty"`
}

// Path returns the config file location.
func Path() string {
	return defaults.ConfigPath()
}

// Load reads the config file. If the file does not exist, an empty Config
// is returned (not an error).
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{Contexts: make(map[string]Context)}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]Context)
	}
	if err := cfg.Reference.validate(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Current returns the current context name and value.
// The bool is false when no current context is set.
func (c *Config) Current() (string, Context, bool) {
	if c.CurrentContext == "" {
		return "", Context{}, false
	}
	ctx, ok := c.Contexts[c.CurrentContext]
	if !ok {
		return "", Context{}, false
	}
	return c.CurrentContext, ctx, true
}

// Use sets the current context. It returns an error if the name doesn't exist.
func (c *Config) Use(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return nil
}

// Set adds or updates a named context.
func (c *Config) Set(name string, ctx Context) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("context name is required")
	}
	if strings.TrimSpace(ctx.Address) == "" {
		return fmt.Errorf("context %q: address is required", name)
	}
	c.Contexts[name] = ctx
	return nil
}

// Remove deletes a context. If it was the current context, current-context
// is cleared. Returns an error if the name doesn't exist.
func (c *Config) Remove(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return nil
}

// Names returns the context names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HardwareReference returns the reference device with any overrides applied.
func (c *Config) HardwareReference() hardware.Reference {
	ref := hardware.DefaultReference()
	if c == nil || c.Reference == nil {
		return ref
	}
	if c.Reference.CoreClock > 0 {
		ref.CoreClock = c.Reference.CoreClock
	}
	if c.Reference.Clusters > 0 {
		ref.Clusters = c.Reference.Clusters
	}
	if c.Reference.LinearIntensity > 0 {
		ref.LinearIntensity = c.Reference.LinearIntensity
	}
	return ref
}

func (r *Reference) validate() error {
	if r == nil {
		return nil
	}
	if r.CoreClock < 0 || r.Clusters < 0 || r.LinearIntensity < 0 {
		return fmt.Errorf("reference values must not be negative")
	}
	return nil
}
