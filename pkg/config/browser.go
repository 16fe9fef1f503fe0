package config

import (
	"fmt"
	"net/url"
	"sync"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// DefaultGameURL is opened in new tabs unless configured otherwise.
	DefaultGameURL = "https://universe.flyff.com/play"

	defaultViewportWidth  = 1024
	defaultViewportHeight = 768
	defaultMaxTabs        = 8
)

// BrowserSection holds settings for the Chromium instance hosting the tabs.
type BrowserSection struct {
	GameURL        string `json:"game_url"`
	Headless       bool   `json:"headless"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	MaxTabs        int    `json:"max_tabs"`
	mu             sync.RWMutex
}

// NewBrowserSection returns the section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Game URL and Chromium window settings used for new tabs."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"game_url":        s.GameURL,
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"max_tabs":        s.MaxTabs,
	}
}

// SetData updates the configuration from the provided data. Unknown keys
// are ignored.
func (s *BrowserSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "game_url":
			s.GameURL, err = asString(key, value)
		case "headless":
			s.Headless, err = asBool(key, value)
		case "viewport_width":
			s.ViewportWidth, err = asInt(key, value)
		case "viewport_height":
			s.ViewportHeight, err = asInt(key, value)
		case "max_tabs":
			s.MaxTabs, err = asInt(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the URL and sizes.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := url.Parse(s.GameURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("game_url %q is not an absolute URL", s.GameURL)
	}
	if s.ViewportWidth < 320 || s.ViewportHeight < 240 {
		return fmt.Errorf("viewport %dx%d is smaller than 320x240", s.ViewportWidth, s.ViewportHeight)
	}
	if s.MaxTabs < 1 {
		return fmt.Errorf("max_tabs must be at least 1, got %d", s.MaxTabs)
	}
	return nil
}

// Reset restores the defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.GameURL = DefaultGameURL
	s.Headless = false
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.MaxTabs = defaultMaxTabs
}

// Snapshot returns a copy of the settings that is safe to read without
// locking.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BrowserSettings{
		GameURL:        s.GameURL,
		Headless:       s.Headless,
		ViewportWidth:  s.ViewportWidth,
		ViewportHeight: s.ViewportHeight,
		MaxTabs:        s.MaxTabs,
	}
}

// BrowserSettings is a lock-free copy of BrowserSection.
type BrowserSettings struct {
	GameURL        string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	MaxTabs        int
}

func asString(key string, value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
	}
	return v, nil
}

func asBool(key string, value any) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("invalid value type for %s: expected bool, got %T", key, value)
	}
	return v, nil
}

// asInt accepts the numeric types that come out of JSON decoding and Go
// literals.
func asInt(key string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("invalid value for %s: %v is not a whole number", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
	}
}
