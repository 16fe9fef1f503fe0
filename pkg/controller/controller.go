// Package controller owns the auto-press controls of every open tab.
//
// It is the single place where controls are created, configured, toggled
// and removed; the panel and the startup profile both go through it. Each
// control owns one scheduler.Handle bound to its tab's target, so controls
// in different tabs never share timers or state.
package controller

import (
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/ftool/pkg/press"
	"github.com/entrhq/ftool/pkg/scheduler"
)

var (
	// ErrUnknownTab is returned for operations on a tab that is not open.
	ErrUnknownTab = errors.New("controller: unknown tab")

	// ErrUnknownControl is returned for a control id not present in the tab.
	ErrUnknownControl = errors.New("controller: unknown control")

	// ErrTabExists is returned by OpenTab for a name already in use.
	ErrTabExists = errors.New("controller: tab already open")
)

// Control is a snapshot of one auto-press control.
type Control struct {
	ID      int
	Tab     string
	Config  press.Config
	Active  bool
	Presses uint64
}

// Logger is the subset of logging.Logger the controller uses.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}

// Option configures a Controller.
type Option func(*Controller)

// WithHandleOptions passes opts to every scheduler.Handle the controller
// creates, e.g. a fake clock in tests.
func WithHandleOptions(opts ...scheduler.Option) Option {
	return func(c *Controller) { c.handleOpts = append(c.handleOpts, opts...) }
}

// WithLogger sets the controller's logger. Handles log through it too.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller maps tabs to their controls.
type Controller struct {
	mu         sync.Mutex
	nextID     int
	tabs       map[string]*tab
	tabOrder   []string
	defaults   func() press.Config
	handleOpts []scheduler.Option
	log        Logger
}

type tab struct {
	name     string
	target   scheduler.Target
	controls map[int]*entry
	order    []int
}

type entry struct {
	id     int
	cfg    press.Config
	handle *scheduler.Handle
}

// New creates an empty controller. defaults supplies the config of controls
// made with Add.
func New(defaults func() press.Config, opts ...Option) *Controller {
	c := &Controller{
		tabs:     make(map[string]*tab),
		defaults: defaults,
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OpenTab registers a tab whose controls press keys into target.
func (c *Controller) OpenTab(name string, target scheduler.Target) error {
	if target == nil {
		return fmt.Errorf("controller: tab %q: nil target", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tabs[name]; exists {
		return fmt.Errorf("%w: %q", ErrTabExists, name)
	}
	c.tabs[name] = &tab{name: name, target: target, controls: make(map[int]*entry)}
	c.tabOrder = append(c.tabOrder, name)
	c.log.Infof("tab %s opened", name)
	return nil
}

// CloseTab stops and discards every control of the tab.
func (c *Controller) CloseTab(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.tabLocked(name)
	if err != nil {
		return err
	}
	for _, e := range t.controls {
		e.handle.Stop()
	}
	delete(c.tabs, name)
	c.tabOrder = removeString(c.tabOrder, name)
	c.log.Infof("tab %s closed with %d controls", name, len(t.controls))
	return nil
}

// Tabs returns open tab names in the order they were opened.
func (c *Controller) Tabs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.tabOrder))
	copy(out, c.tabOrder)
	return out
}

// Add creates an inactive control with the default config.
func (c *Controller) Add(tabName string) (Control, error) {
	return c.AddWith(tabName, c.defaults(), false)
}

// AddWith creates a control with cfg and starts it when active is set.
func (c *Controller) AddWith(tabName string, cfg press.Config, active bool) (Control, error) {
	if err := cfg.Validate(); err != nil {
		return Control{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.tabLocked(tabName)
	if err != nil {
		return Control{}, err
	}

	c.nextID++
	id := c.nextID
	opts := append([]scheduler.Option{
		scheduler.WithName(fmt.Sprintf("%s/%d", tabName, id)),
		scheduler.WithLogger(c.log),
	}, c.handleOpts...)
	e := &entry{id: id, cfg: cfg, handle: scheduler.New(opts...)}

	if active {
		if err := e.handle.Start(cfg, t.target); err != nil {
			return Control{}, err
		}
	}

	t.controls[id] = e
	t.order = append(t.order, id)
	c.log.Infof("control %s/%d added: %s active=%t", tabName, id, cfg, active)
	return snapshot(t.name, e), nil
}

// Remove stops the control and discards it.
func (c *Controller) Remove(tabName string, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, e, err := c.controlLocked(tabName, id)
	if err != nil {
		return err
	}
	e.handle.Stop()
	delete(t.controls, id)
	t.order = removeInt(t.order, id)
	c.log.Infof("control %s/%d removed", tabName, id)
	return nil
}

// Toggle starts an inactive control or stops an active one and returns the
// new state.
func (c *Controller) Toggle(tabName string, id int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, e, err := c.controlLocked(tabName, id)
	if err != nil {
		return false, err
	}

	if e.handle.Active() {
		e.handle.Stop()
		c.log.Infof("control %s/%d stopped", tabName, id)
		return false, nil
	}
	if err := e.handle.Start(e.cfg, t.target); err != nil {
		return false, err
	}
	c.log.Infof("control %s/%d started: %s", tabName, id, e.cfg)
	return true, nil
}

// Configure replaces the control's config. An active control is restarted
// so its next delay is drawn from the new range.
func (c *Controller) Configure(tabName string, id int, cfg press.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, e, err := c.controlLocked(tabName, id)
	if err != nil {
		return err
	}
	e.cfg = cfg
	if e.handle.Active() {
		if err := e.handle.Start(cfg, t.target); err != nil {
			return err
		}
	}
	c.log.Debugf("control %s/%d configured: %s", tabName, id, cfg)
	return nil
}

// Control returns a snapshot of one control.
func (c *Controller) Control(tabName string, id int) (Control, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, e, err := c.controlLocked(tabName, id)
	if err != nil {
		return Control{}, err
	}
	return snapshot(t.name, e), nil
}

// Controls returns snapshots of the tab's controls in creation order.
func (c *Controller) Controls(tabName string) ([]Control, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.tabLocked(tabName)
	if err != nil {
		return nil, err
	}
	out := make([]Control, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, snapshot(t.name, t.controls[id]))
	}
	return out, nil
}

// StopAll deactivates every control of every tab without removing them.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tabs {
		for _, e := range t.controls {
			e.handle.Stop()
		}
	}
}

func (c *Controller) tabLocked(name string) (*tab, error) {
	t, ok := c.tabs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	return t, nil
}

func (c *Controller) controlLocked(tabName string, id int) (*tab, *entry, error) {
	t, err := c.tabLocked(tabName)
	if err != nil {
		return nil, nil, err
	}
	e, ok := t.controls[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s/%d", ErrUnknownControl, tabName, id)
	}
	return t, e, nil
}

func snapshot(tabName string, e *entry) Control {
	return Control{
		ID:      e.id,
		Tab:     tabName,
		Config:  e.cfg,
		Active:  e.handle.Active(),
		Presses: e.handle.Presses(),
	}
}

func removeString(s []string, v string) []string {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func removeInt(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
