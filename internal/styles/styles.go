package styles

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	Background = "#1E1E2E"
	Foreground = "#CDD6F4"

	Red    = "#F38BA8" // Failed pages
	Peach  = "#FAB387" // Warnings
	Yellow = "#F9E2AF" // Selection
	Green  = "#A6E3A1" // Generated pages
	Teal   = "#94E2D5" // Paths
	Mauve  = "#CBA6F7" // Titles

	Overlay = "#7F849C" // Dim text, help
	Surface = "#45475A" // Borders
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Peach))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Overlay))
	PathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Teal))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Mauve))
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Mauve))
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Overlay))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Mauve))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Surface))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))
)

// Status renders a page status word in its color
func Status(status string) string {
	switch status {
	case "ok":
		return SuccessStyle.Render(status)
	case "stale", "missing":
		return WarningStyle.Render(status)
	default:
		return ErrorStyle.Render(status)
	}
}
