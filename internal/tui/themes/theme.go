// Package themes holds the visual styles of the dashboard TUI.
package themes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Selected    lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Box         lipgloss.Style
	StatusError lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Income      lipgloss.Color
	Expense     lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary: lipgloss.Color("#4ECDC4"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),
	Income:  lipgloss.Color("#10b981"),
	Expense: lipgloss.Color("#ef4444"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#4ECDC4")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#4ECDC4")).
		Foreground(lipgloss.Color("#1a1a1a")).
		Bold(true),

	// Tabs
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1a1a1a")).
		Background(lipgloss.Color("#4ECDC4")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 2),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
}

// Mono draws the dashboard without colors.
var Mono = Theme{
	Title:       lipgloss.NewStyle().Bold(true),
	Subtitle:    lipgloss.NewStyle().Faint(true),
	Normal:      lipgloss.NewStyle(),
	Bold:        lipgloss.NewStyle().Bold(true),
	Selected:    lipgloss.NewStyle().Reverse(true).Bold(true),
	TabActive:   lipgloss.NewStyle().Reverse(true).Bold(true).Padding(0, 2),
	TabInactive: lipgloss.NewStyle().Padding(0, 2),
	Box:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	StatusError: lipgloss.NewStyle().Bold(true),
}

// ErrUnknownTheme is returned by ByName for names it does not know.
var ErrUnknownTheme = errors.New("unknown theme")

// ByName returns the theme called name. An empty name selects Default.
func ByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return Default, nil
	case "mono":
		return Mono, nil
	}
	return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}
