package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across the views.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Badge     lipgloss.Style
	Chip      lipgloss.Style
	Row       lipgloss.Style
	RowActive lipgloss.Style
	Price     lipgloss.Style
	Stock     lipgloss.Style
	NoStock   lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Drawer    lipgloss.Style
}

// DefaultStyles returns the storefront palette.
func DefaultStyles() Styles {
	var (
		blue = lipgloss.Color("27")
		red  = lipgloss.Color("160")
		gray = lipgloss.Color("245")
	)
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(blue),
		Subtitle:  lipgloss.NewStyle().Foreground(red).Bold(true),
		Badge:     lipgloss.NewStyle().Background(red).Foreground(lipgloss.Color("231")).Padding(0, 1).Bold(true),
		Chip:      lipgloss.NewStyle().Background(lipgloss.Color("254")).Foreground(blue).Padding(0, 1),
		Row:       lipgloss.NewStyle().PaddingLeft(2),
		RowActive: lipgloss.NewStyle().PaddingLeft(0).Bold(true).Foreground(blue).SetString("> "),
		Price:     lipgloss.NewStyle().Bold(true).Foreground(blue),
		Stock:     lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		NoStock:   lipgloss.NewStyle().Foreground(red),
		Muted:     lipgloss.NewStyle().Foreground(gray),
		Error:     lipgloss.NewStyle().Foreground(red).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(gray),
		Drawer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(1, 2),
	}
}
