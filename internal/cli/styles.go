package cli

import "github.com/charmbracelet/lipgloss"

var (
	brandPrimary = lipgloss.Color("#7C3AED")
	brandAccent  = lipgloss.Color("#10B981")
	brandError   = lipgloss.Color("#EF4444")
	textMuted    = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(textMuted).
			Padding(0, 1)

	commentStyle = lipgloss.NewStyle().
			Foreground(brandAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(brandAccent).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)
)
