package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the simulator.
type Theme struct {
	Title         lipgloss.Style
	Label         lipgloss.Style
	Focused       lipgloss.Style
	Muted         lipgloss.Style
	Bold          lipgloss.Style
	Box           lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#FF9933"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF9933")).
		MarginBottom(1),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Width(34),
	Focused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF9933")).
		Width(34),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Bold: lipgloss.NewStyle().
		Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")).Bold(true),
	StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true),
	StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
}

func (t Theme) score(score int) lipgloss.Style {
	switch {
	case score >= 750:
		return t.StatusSuccess
	case score >= 650:
		return t.StatusWarning
	default:
		return t.StatusError
	}
}
