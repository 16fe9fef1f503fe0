package browser

import (
	"errors"
	"time"
)

// Default values for browser configuration
const (
	// DefaultMaxTabs is the maximum number of concurrent tabs
	DefaultMaxTabs = 8

	// DefaultTimeout is the default navigation timeout in milliseconds
	DefaultTimeout = 30000.0

	// DefaultViewportWidth is the default browser viewport width
	DefaultViewportWidth = 1024

	// DefaultViewportHeight is the default browser viewport height
	DefaultViewportHeight = 768

	// eventQueueSize bounds the key events waiting for one tab's worker.
	eventQueueSize = 16
)

var (
	// ErrNotInitialized is returned by OpenTab before Initialize.
	ErrNotInitialized = errors.New("browser: manager not initialized")

	// ErrUnknownTab is returned for a tab name that is not open.
	ErrUnknownTab = errors.New("browser: unknown tab")

	// ErrTabClosed is returned when dispatching into a closed tab.
	ErrTabClosed = errors.New("browser: tab closed")

	// ErrQueueFull is returned when a tab's worker is too far behind.
	ErrQueueFull = errors.New("browser: event queue full")
)

// Options configures the browser launched by a Manager.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the page size of every tab
	Viewport Viewport

	// MaxTabs caps the number of open tabs
	MaxTabs int

	// Timeout is the default timeout for page operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// TabInfo contains metadata about an open tab.
type TabInfo struct {
	Name      string
	URL       string
	CreatedAt time.Time
	Closed    bool
}

// Logger is the subset of logging.Logger the browser package uses.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

func (o Options) withDefaults() Options {
	if o.Viewport.Width == 0 || o.Viewport.Height == 0 {
		o.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.MaxTabs <= 0 {
		o.MaxTabs = DefaultMaxTabs
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}
