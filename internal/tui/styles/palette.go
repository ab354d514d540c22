package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault        ThemeName = "default"         // Violet/green on dark
	ThemeNord           ThemeName = "nord"            // Cool blue-gray
	ThemeGruvbox        ThemeName = "gruvbox"         // Warm retro
	ThemeSolarizedLight ThemeName = "solarized-light" // For light terminals
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeNord),
		string(ThemeGruvbox),
		string(ThemeSolarizedLight),
	}
}

// IsBuiltinTheme checks if a theme name is built in.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent (titles, active step)
	Primary lipgloss.Color
	// Secondary accent (key hints, completed progress)
	Secondary lipgloss.Color
	// Warning (scene notifications)
	Warning lipgloss.Color
	// Error (action failures)
	Error lipgloss.Color
	// Muted (details, disabled controls)
	Muted lipgloss.Color
	// Surface (message banner background)
	Surface lipgloss.Color
	// Text (body text)
	Text lipgloss.Color
	// Border (panel borders)
	Border lipgloss.Color
}

// DefaultPalette returns the default dark palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Violet-400
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red-400
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500
	}
}

// NordPalette returns the Nord palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"),
		Secondary: lipgloss.Color("#A3BE8C"),
		Warning:   lipgloss.Color("#EBCB8B"),
		Error:     lipgloss.Color("#BF616A"),
		Muted:     lipgloss.Color("#8C9BB3"),
		Surface:   lipgloss.Color("#3B4252"),
		Text:      lipgloss.Color("#ECEFF4"),
		Border:    lipgloss.Color("#4C566A"),
	}
}

// GruvboxPalette returns the Gruvbox dark palette.
func GruvboxPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FE8019"),
		Secondary: lipgloss.Color("#B8BB26"),
		Warning:   lipgloss.Color("#FABD2F"),
		Error:     lipgloss.Color("#FB4934"),
		Muted:     lipgloss.Color("#A89984"),
		Surface:   lipgloss.Color("#3C3836"),
		Text:      lipgloss.Color("#EBDBB2"),
		Border:    lipgloss.Color("#665C54"),
	}
}

// SolarizedLightPalette returns Solarized for light backgrounds.
func SolarizedLightPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#6C71C4"),
		Secondary: lipgloss.Color("#859900"),
		Warning:   lipgloss.Color("#B58900"),
		Error:     lipgloss.Color("#DC322F"),
		Muted:     lipgloss.Color("#657B83"),
		Surface:   lipgloss.Color("#EEE8D5"),
		Text:      lipgloss.Color("#073642"),
		Border:    lipgloss.Color("#93A1A1"),
	}
}

// GetPalette returns the palette for a built-in theme, or the default
// palette for unknown names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeNord:
		return NordPalette()
	case ThemeGruvbox:
		return GruvboxPalette()
	case ThemeSolarizedLight:
		return SolarizedLightPalette()
	default:
		return DefaultPalette()
	}
}
