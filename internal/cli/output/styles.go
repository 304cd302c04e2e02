package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Check output
	Path     lipgloss.Style
	Code     lipgloss.Style
	Gutter   lipgloss.Style
	Marker   lipgloss.Style
	Fixable  lipgloss.Style
	FixHelp  lipgloss.Style
	Location lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Faint(true),

		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")),

		Path:     r.NewStyle().Bold(true),
		Code:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Gutter:   r.NewStyle().Foreground(lipgloss.Color("12")),
		Marker:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Fixable:  r.NewStyle().Foreground(lipgloss.Color("14")),
		FixHelp:  r.NewStyle().Foreground(lipgloss.Color("14")),
		Location: r.NewStyle().Faint(true),
	}
}
