// Package styles holds the lipgloss styles internal/render draws with.
// Adapted from the teacher's internal/ui/styles/styles.go: the git-status
// and branch-display styles are dropped (spec.md has no git component) and
// only the colors/styles internal/render actually references remain.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("205") // Pink/Magenta - primary accent
	Success = lipgloss.Color("118") // Green - success states
	Warning = lipgloss.Color("214") // Orange - warnings
	Error   = lipgloss.Color("196") // Red - errors, deletions

	TextNormal   = lipgloss.Color("252") // Light gray - normal text
	TextMuted    = lipgloss.Color("250") // Lighter gray - descriptions
	TextOnAccent = lipgloss.Color("0")   // Black - text on accent background
)

var (
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	Normal = lipgloss.NewStyle().
		Foreground(TextNormal)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Faint = lipgloss.NewStyle().
		Faint(true)

	Selected = lipgloss.NewStyle().
			Background(Accent).
			Foreground(TextOnAccent)

	StatusSuccess = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	StatusError = lipgloss.NewStyle().
			Foreground(Error)
)
