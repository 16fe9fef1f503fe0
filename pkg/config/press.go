package config

import (
	"sync"

	"github.com/entrhq/ftool/pkg/keys"
	"github.com/entrhq/ftool/pkg/press"
)

const (
	// SectionIDPress is the identifier for the auto-press defaults section
	SectionIDPress = "press"

	defaultPressKey = "1"
)

// PressSection holds the values a newly added control starts with.
type PressSection struct {
	DefaultKey string `json:"default_key"`
	MinSeconds int    `json:"min_seconds"`
	MaxSeconds int    `json:"max_seconds"`
	mu         sync.RWMutex
}

// NewPressSection returns the section with default settings.
func NewPressSection() *PressSection {
	s := &PressSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *PressSection) ID() string {
	return SectionIDPress
}

// Title returns the section title.
func (s *PressSection) Title() string {
	return "Auto-Press Defaults"
}

// Description returns the section description.
func (s *PressSection) Description() string {
	return "Key and interval range used for newly added auto-press controls."
}

// Data returns the current configuration data.
func (s *PressSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"default_key": s.DefaultKey,
		"min_seconds": s.MinSeconds,
		"max_seconds": s.MaxSeconds,
	}
}

// SetData updates the configuration from the provided data.
func (s *PressSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "default_key":
			s.DefaultKey, err = asString(key, value)
		case "min_seconds":
			s.MinSeconds, err = asInt(key, value)
		case "max_seconds":
			s.MaxSeconds, err = asInt(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the defaults form a valid press config.
func (s *PressSection) Validate() error {
	_, err := s.DefaultConfig()
	return err
}

// Reset restores the defaults.
func (s *PressSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.DefaultKey = defaultPressKey
	s.MinSeconds = press.DefaultMinIntervalSeconds
	s.MaxSeconds = press.DefaultMaxIntervalSeconds
}

// DefaultConfig builds the press config new controls start with.
func (s *PressSection) DefaultConfig() (press.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return press.Build(s.DefaultKey, s.MinSeconds, s.MaxSeconds)
}

// fallbackPressConfig is used when no settings are available.
func fallbackPressConfig() press.Config {
	return press.Default(keys.MustLookup(defaultPressKey))
}
