// Package styles provides the colour theme used to render reports in the terminal.
package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

// Theme defines the colour palette for report output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Low, Moderate and High colour severities and score bands.
	Low      lipgloss.Color
	Moderate lipgloss.Color
	High     lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Low:       lipgloss.Color("#A6E3A1"), // Green
		Moderate:  lipgloss.Color("#F9E2AF"), // Yellow
		High:      lipgloss.Color("#F38BA8"), // Red
		Border:    lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles bound to one output.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for section headers.
	Subtitle lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Panel style for the bordered summary panel.
	Panel lipgloss.Style

	low      lipgloss.Style
	moderate lipgloss.Style
	high     lipgloss.Style
}

// NewStyles creates styles for w. Colours are dropped when w is not a
// colour-capable terminal, so redirected output stays plain.
func NewStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		theme: theme,

		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: r.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Panel: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		low:      r.NewStyle().Foreground(theme.Low),
		moderate: r.NewStyle().Foreground(theme.Moderate),
		high:     r.NewStyle().Bold(true).Foreground(theme.High),
	}
}

// Severity returns the style for a finding severity. Unrecognised
// severities render muted.
func (s *Styles) Severity(sev domain.Severity) lipgloss.Style {
	switch sev.Canonical() {
	case domain.SeverityHigh:
		return s.high
	case domain.SeverityMedium:
		return s.moderate
	case domain.SeverityLow:
		return s.low
	default:
		return s.Muted
	}
}

// Band returns the style for a score band label (Low, Moderate, High).
func (s *Styles) Band(band string) lipgloss.Style {
	switch band {
	case "High":
		return s.high
	case "Moderate":
		return s.moderate
	default:
		return s.low
	}
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
