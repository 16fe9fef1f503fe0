package panel

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/entrhq/ftool/pkg/keys"
	"github.com/entrhq/ftool/pkg/press"
)

var errNoTab = errors.New("no tab open, press n to open one")

var errNoControl = errors.New("no control selected, press a to add one")

// Update handles key presses and background results.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case tabOpenedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("open tab: %w", msg.err))
			return m, nil
		}
		m.refresh()
		if i := indexOf(m.tabs, msg.name); i >= 0 {
			m.tab = i
		}
		m.cursor = 0
		m.loadControls(0)
		m.setStatus("opened tab %s", msg.name)
		return m, nil

	case tabClosedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(fmt.Errorf("close tab %s: %w", msg.name, msg.err))
		} else {
			m.setStatus("closed tab %s", msg.name)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

//nolint:gocyclo
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)

	case key.Matches(msg, m.keys.NewTab):
		return m, m.openTab()

	case key.Matches(msg, m.keys.CloseTab):
		return m, m.closeTab()

	case key.Matches(msg, m.keys.Up):
		m.cursor = clampIndex(m.cursor-1, len(m.items))

	case key.Matches(msg, m.keys.Down):
		m.cursor = clampIndex(m.cursor+1, len(m.items))

	case key.Matches(msg, m.keys.Add):
		m.addControl()

	case key.Matches(msg, m.keys.Remove):
		m.removeControl()

	case key.Matches(msg, m.keys.Toggle):
		m.toggleControl()

	case key.Matches(msg, m.keys.PrevKey):
		m.editSelected(func(c press.Config) press.Config {
			c.Key = keys.Next(c.Key.DisplayKey, -1)
			return c
		})

	case key.Matches(msg, m.keys.NextKey):
		m.editSelected(func(c press.Config) press.Config {
			c.Key = keys.Next(c.Key.DisplayKey, 1)
			return c
		})

	case key.Matches(msg, m.keys.MinDown):
		m.editSelected(func(c press.Config) press.Config {
			return c.WithBounds(c.MinIntervalSeconds-1, c.MaxIntervalSeconds)
		})

	case key.Matches(msg, m.keys.MinUp):
		m.editSelected(func(c press.Config) press.Config {
			return c.WithBounds(c.MinIntervalSeconds+1, c.MaxIntervalSeconds)
		})

	case key.Matches(msg, m.keys.MaxDown):
		m.editSelected(func(c press.Config) press.Config {
			return c.WithBounds(c.MinIntervalSeconds, c.MaxIntervalSeconds-1)
		})

	case key.Matches(msg, m.keys.MaxUp):
		m.editSelected(func(c press.Config) press.Config {
			return c.WithBounds(c.MinIntervalSeconds, c.MaxIntervalSeconds+1)
		})

	case key.Matches(msg, m.keys.CopyURL):
		m.copyURL()
	}
	return m, nil
}

func (m *model) switchTab(step int) {
	m.refresh()
	n := len(m.tabs)
	if n == 0 {
		return
	}
	m.tab = ((m.tab+step)%n + n) % n
	m.cursor = 0
	m.loadControls(0)
}

func (m *model) openTab() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.setStatus("opening tab...")
	host := m.host
	return func() tea.Msg {
		name, err := host.OpenTab()
		return tabOpenedMsg{name: name, err: err}
	}
}

func (m *model) closeTab() tea.Cmd {
	name := m.currentTab()
	if name == "" {
		m.setError(errNoTab)
		return nil
	}
	if m.busy {
		return nil
	}
	m.busy = true
	m.setStatus("closing tab %s...", name)
	host := m.host
	return func() tea.Msg {
		return tabClosedMsg{name: name, err: host.CloseTab(name)}
	}
}

func (m *model) addControl() {
	name := m.currentTab()
	if name == "" {
		m.setError(errNoTab)
		return
	}
	c, err := m.controls.Add(name)
	if err != nil {
		m.setError(err)
		return
	}
	m.loadControls(c.ID)
	m.log.Infof("panel: added control %s/%d", name, c.ID)
	m.setStatus("added control %d: %s", c.ID, c.Config)
}

func (m *model) removeControl() {
	c, ok := m.selected()
	if !ok {
		m.setError(errNoControl)
		return
	}
	if err := m.controls.Remove(c.Tab, c.ID); err != nil {
		m.setError(err)
		m.refresh()
		return
	}
	m.loadControls(0)
	m.setStatus("removed control %d", c.ID)
}

func (m *model) toggleControl() {
	c, ok := m.selected()
	if !ok {
		m.setError(errNoControl)
		return
	}
	active, err := m.controls.Toggle(c.Tab, c.ID)
	if err != nil {
		m.setError(err)
		m.refresh()
		return
	}
	m.loadControls(c.ID)
	if active {
		m.setStatus("control %d started: %s", c.ID, c.Config)
	} else {
		m.setStatus("control %d stopped", c.ID)
	}
}

// editSelected applies edit to the selected control's config and hands the
// result to the controller.
func (m *model) editSelected(edit func(press.Config) press.Config) {
	c, ok := m.selected()
	if !ok {
		m.setError(errNoControl)
		return
	}
	cfg := edit(c.Config)
	if cfg == c.Config {
		return
	}
	if err := m.controls.Configure(c.Tab, c.ID, cfg); err != nil {
		m.setError(err)
		m.refresh()
		return
	}
	m.loadControls(c.ID)
	m.setStatus("control %d: %s", c.ID, cfg)
}

func (m *model) copyURL() {
	name := m.currentTab()
	if name == "" {
		m.setError(errNoTab)
		return
	}
	url, err := m.host.URL(name)
	if err != nil {
		m.setError(err)
		return
	}
	if err := writeClipboard(url); err != nil {
		m.setError(fmt.Errorf("copy URL: %w", err))
		return
	}
	m.setStatus("copied %s", url)
}
