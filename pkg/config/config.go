// Package config loads ftool's persisted settings and YAML profiles.
//
// Settings live in a JSON file (~/.ftool/config.json by default) organised
// in sections, each owned by a Section implementation. Profiles are
// hand-written YAML files describing which tabs to open and which controls
// to create in them.
package config

import (
	"github.com/entrhq/ftool/pkg/press"
)

// Settings bundles the registered sections of one config file.
type Settings struct {
	*Manager
	Browser *BrowserSection
	Press   *PressSection
}

// Load opens the config file at path (DefaultPath when empty), registers
// the default sections and applies the stored values.
func Load(path string) (*Settings, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return LoadFrom(store)
}

// LoadFrom is Load with an explicit store.
func LoadFrom(store Store) (*Settings, error) {
	s := &Settings{
		Manager: NewManager(store),
		Browser: NewBrowserSection(),
		Press:   NewPressSection(),
	}
	for _, section := range []Section{s.Browser, s.Press} {
		if err := s.RegisterSection(section); err != nil {
			return nil, err
		}
	}
	if err := s.LoadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewControlConfig returns the press config a newly added control starts
// with. Settings that fail validation fall back to the built-in defaults.
func (s *Settings) NewControlConfig() press.Config {
	if s == nil || s.Press == nil {
		return fallbackPressConfig()
	}
	cfg, err := s.Press.DefaultConfig()
	if err != nil {
		return fallbackPressConfig()
	}
	return cfg
}
