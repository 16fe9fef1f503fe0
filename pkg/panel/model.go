// Package panel is the terminal control panel of ftool.
//
// It lists the open tabs and the auto-press controls of the selected tab
// and maps key presses onto the controller: add, remove, toggle and
// configure a control, switch, open and close tabs. Browser work that can
// block (opening or closing a page) runs as a tea.Cmd so the panel stays
// responsive.
package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/ftool/pkg/controller"
	"github.com/entrhq/ftool/pkg/press"
)

// refreshInterval is how often press counters are redrawn.
const refreshInterval = time.Second

// statusTTL is how long a status line message stays visible.
const statusTTL = 5 * time.Second

// Controls is the part of controller.Controller the panel drives.
type Controls interface {
	Tabs() []string
	Controls(tab string) ([]controller.Control, error)
	Add(tab string) (controller.Control, error)
	Remove(tab string, id int) error
	Toggle(tab string, id int) (bool, error)
	Configure(tab string, id int, cfg press.Config) error
}

// Host opens and closes browser tabs. OpenTab must also register the new
// tab with the controller, CloseTab must unregister it.
type Host interface {
	OpenTab() (string, error)
	CloseTab(name string) error
	URL(name string) (string, error)
}

// Logger is the subset of logging.Logger the panel uses.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{}) {}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

type tickMsg time.Time

type tabOpenedMsg struct {
	name string
	err  error
}

type tabClosedMsg struct {
	name string
	err  error
}

type status struct {
	text    string
	isError bool
	until   time.Time
}

// model is the bubbletea model of the panel.
type model struct {
	controls Controls
	host     Host
	log      Logger
	title    string

	keys keyMap
	help help.Model

	// UI state
	tabs     []string
	tab      int
	items    []controller.Control
	cursor   int
	status   status
	busy     bool
	showHelp bool
	width    int
	quitting bool

	now func() time.Time
}

// Option configures the panel.
type Option func(*model)

// WithLogger logs panel actions to l.
func WithLogger(l Logger) Option {
	return func(m *model) { m.log = l }
}

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *model) { m.title = title }
}

func newModel(controls Controls, host Host, opts ...Option) *model {
	m := &model{
		controls: controls,
		host:     host,
		log:      nopLogger{},
		title:    "ftool",
		keys:     defaultKeyMap(),
		help:     help.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

// Run shows the panel and blocks until the user quits or ctx is done.
func Run(ctx context.Context, controls Controls, host Host, opts ...Option) error {
	m := newModel(controls, host, opts...)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run panel: %w", err)
	}
	return nil
}

func (m *model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// currentTab returns the selected tab name, or "" with no tabs open.
func (m *model) currentTab() string {
	if m.tab < 0 || m.tab >= len(m.tabs) {
		return ""
	}
	return m.tabs[m.tab]
}

// selected returns the control under the cursor.
func (m *model) selected() (controller.Control, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return controller.Control{}, false
	}
	return m.items[m.cursor], true
}

// refresh reloads tabs and controls from the controller, keeping the
// selection on the same tab and control when they still exist.
func (m *model) refresh() {
	current := m.currentTab()
	var selectedID int
	if c, ok := m.selected(); ok {
		selectedID = c.ID
	}

	prev := m.tab
	m.tabs = m.controls.Tabs()
	if i := indexOf(m.tabs, current); i >= 0 {
		m.tab = i
	} else {
		m.tab = clampIndex(prev, len(m.tabs))
	}
	m.loadControls(selectedID)
}

func (m *model) loadControls(selectedID int) {
	m.items = nil
	if name := m.currentTab(); name != "" {
		items, err := m.controls.Controls(name)
		if err != nil {
			m.setError(err)
		}
		m.items = items
	}
	m.cursor = clampIndex(m.cursor, len(m.items))
	for i, c := range m.items {
		if c.ID == selectedID {
			m.cursor = i
			break
		}
	}
}

func (m *model) setStatus(format string, v ...interface{}) {
	m.status = status{text: fmt.Sprintf(format, v...), until: m.now().Add(statusTTL)}
}

func (m *model) setError(err error) {
	m.status = status{text: err.Error(), isError: true, until: m.now().Add(statusTTL)}
	m.log.Warnf("panel: %v", err)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
