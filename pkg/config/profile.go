package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/ftool/pkg/press"
)

// Profile describes tabs to open at startup and controls to add to tabs.
//
//	tabs:
//	  - name: main
//	  - name: alt
//	    url: https://universe.flyff.com/play?server=2
//	presets:
//	  - match: "https://universe.flyff.com/*"
//	    controls:
//	      - {key: F1, min: 3, max: 6, active: true}
type Profile struct {
	Tabs    []TabProfile `yaml:"tabs"`
	Presets []Preset     `yaml:"presets"`

	matchers []glob.Glob
}

// TabProfile is one tab to open. An empty URL means the configured game URL.
type TabProfile struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Preset adds its controls to every tab whose URL matches the glob.
type Preset struct {
	Name     string           `yaml:"name"`
	Match    string           `yaml:"match"`
	Controls []ControlProfile `yaml:"controls"`
}

// ControlProfile is one auto-press control.
type ControlProfile struct {
	Key    string `yaml:"key"`
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	Active bool   `yaml:"active"`
}

// PressConfig builds the control's press config. Zero bounds take the
// package defaults.
func (c ControlProfile) PressConfig() (press.Config, error) {
	lo, hi := c.Min, c.Max
	if lo == 0 {
		lo = press.DefaultMinIntervalSeconds
	}
	if hi == 0 {
		hi = press.DefaultMaxIntervalSeconds
	}
	return press.Build(c.Key, lo, hi)
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates YAML profile data.
func ParseProfile(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks tab names, compiles preset globs and builds every
// control's press config.
func (p *Profile) Validate() error {
	var errs []error

	seen := make(map[string]bool)
	for i, tab := range p.Tabs {
		if tab.Name == "" {
			errs = append(errs, fmt.Errorf("tabs[%d]: name is required", i))
			continue
		}
		if seen[tab.Name] {
			errs = append(errs, fmt.Errorf("tabs[%d]: duplicate name %q", i, tab.Name))
		}
		seen[tab.Name] = true
	}

	p.matchers = make([]glob.Glob, len(p.Presets))
	for i, preset := range p.Presets {
		pattern := preset.Match
		if pattern == "" {
			pattern = "*"
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("presets[%d]: invalid match pattern '%s': %w", i, preset.Match, err))
		}
		p.matchers[i] = g

		for j, control := range preset.Controls {
			if _, err := control.PressConfig(); err != nil {
				errs = append(errs, fmt.Errorf("presets[%d].controls[%d]: %w", i, j, err))
			}
		}
	}

	return errors.Join(errs...)
}

// ControlsFor returns the controls of every preset matching url, in
// profile order.
func (p *Profile) ControlsFor(url string) []ControlProfile {
	if p == nil {
		return nil
	}
	var out []ControlProfile
	for i, preset := range p.Presets {
		if i >= len(p.matchers) || p.matchers[i] == nil {
			continue
		}
		if p.matchers[i].Match(url) {
			out = append(out, preset.Controls...)
		}
	}
	return out
}
