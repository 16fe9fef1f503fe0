package panel

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // selected row
	mintGreen   = lipgloss.Color("#A8E6CF") // active controls
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	activeStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)
)
