// Package press defines the configuration of a single auto-press control:
// which key to press and the range the random gap between presses is drawn
// from.
package press

import (
	"fmt"

	"github.com/entrhq/ftool/pkg/keys"
)

const (
	// DefaultMinIntervalSeconds is the lower bound a new control starts with.
	DefaultMinIntervalSeconds = 3

	// DefaultMaxIntervalSeconds is the upper bound a new control starts with.
	DefaultMaxIntervalSeconds = 6

	// MinIntervalSeconds and MaxIntervalSeconds bound what the panel lets a
	// user enter for either end of the range.
	MinIntervalSeconds = 1
	MaxIntervalSeconds = 9999
)

// Config is the key identity plus the randomized interval range of one
// control. Bounds are whole seconds; they may be given in either order.
type Config struct {
	MinIntervalSeconds int             `json:"min" yaml:"min"`
	MaxIntervalSeconds int             `json:"max" yaml:"max"`
	Key                keys.Descriptor `json:"key" yaml:"key"`
}

// ConfigError reports a configuration that cannot be scheduled.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("press: invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Default returns a config for key with the default interval range.
func Default(key keys.Descriptor) Config {
	return Config{
		MinIntervalSeconds: DefaultMinIntervalSeconds,
		MaxIntervalSeconds: DefaultMaxIntervalSeconds,
		Key:                key,
	}
}

// Build translates panel field values into a Config, resolving keyName
// through the key registry.
func Build(keyName string, minSeconds, maxSeconds int) (Config, error) {
	key, err := keys.Lookup(keyName)
	if err != nil {
		return Config{}, &ConfigError{Field: "key", Err: err}
	}

	cfg := Config{
		MinIntervalSeconds: minSeconds,
		MaxIntervalSeconds: maxSeconds,
		Key:                key,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Bounds returns the normalized range, lo <= hi.
func (c Config) Bounds() (lo, hi int) {
	if c.MinIntervalSeconds > c.MaxIntervalSeconds {
		return c.MaxIntervalSeconds, c.MinIntervalSeconds
	}
	return c.MinIntervalSeconds, c.MaxIntervalSeconds
}

// Validate checks that both bounds are positive and the key is registered.
func (c Config) Validate() error {
	if c.MinIntervalSeconds < 1 {
		return &ConfigError{Field: "min interval", Err: fmt.Errorf("must be at least 1 second, got %d", c.MinIntervalSeconds)}
	}
	if c.MaxIntervalSeconds < 1 {
		return &ConfigError{Field: "max interval", Err: fmt.Errorf("must be at least 1 second, got %d", c.MaxIntervalSeconds)}
	}
	registered, err := keys.Lookup(c.Key.DisplayKey)
	if err != nil {
		return &ConfigError{Field: "key", Err: err}
	}
	if registered != c.Key {
		return &ConfigError{Field: "key", Err: fmt.Errorf("descriptor %+v does not match registry entry %+v", c.Key, registered)}
	}
	return nil
}

// WithBounds returns a copy of c with both bounds clamped to the range the
// panel accepts.
func (c Config) WithBounds(minSeconds, maxSeconds int) Config {
	c.MinIntervalSeconds = clamp(minSeconds)
	c.MaxIntervalSeconds = clamp(maxSeconds)
	return c
}

// String renders the config the way the panel shows it, e.g. "F1 3-6s".
func (c Config) String() string {
	lo, hi := c.Bounds()
	return fmt.Sprintf("%s %d-%ds", c.Key.DisplayKey, lo, hi)
}

func clamp(v int) int {
	if v < MinIntervalSeconds {
		return MinIntervalSeconds
	}
	if v > MaxIntervalSeconds {
		return MaxIntervalSeconds
	}
	return v
}
