package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/entrhq/ftool/pkg/controller"
)

// View renders the panel.
func (m *model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.renderControls()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *model) renderTabs() string {
	if len(m.tabs) == 0 {
		return tipsStyle.Render("no tabs open")
	}
	parts := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		if i == m.tab {
			parts[i] = activeTabStyle.Render(name)
		} else {
			parts[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *model) renderControls() string {
	if len(m.items) == 0 {
		return tipsStyle.Render("no controls in this tab, press a to add one")
	}
	rows := make([]string, len(m.items))
	for i, c := range m.items {
		rows[i] = m.renderControl(c, i == m.cursor)
	}
	return strings.Join(rows, "\n")
}

func (m *model) renderControl(c controller.Control, selected bool) string {
	lo, hi := c.Config.Bounds()
	state := idleStyle.Render("stopped")
	if c.Active {
		state = activeStyle.Render("running")
	}

	line := fmt.Sprintf("#%-3d key %-3s every %d-%ds  %d presses", c.ID, c.Config.Key.DisplayKey, lo, hi, c.Presses)
	cursor := "  "
	style := rowStyle
	if selected {
		cursor = "> "
		style = selectedStyle
	}
	return cursor + style.Render(line) + "  " + state
}

func (m *model) renderStatus() string {
	if m.status.text == "" || m.now().After(m.status.until) {
		return statusBarStyle.Render(" ")
	}
	if m.status.isError {
		return statusBarStyle.Render(errorStyle.Render(m.status.text))
	}
	return statusBarStyle.Render(m.status.text)
}
