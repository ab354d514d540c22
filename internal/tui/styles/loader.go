package styles

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile is a custom theme loaded from YAML.
type ThemeFile struct {
	Name        string      `yaml:"name"`
	Author      string      `yaml:"author,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Version     string      `yaml:"version"`
	Colors      ThemeColors `yaml:"colors"`
}

// ThemeColors holds hex colors (#RGB or #RRGGBB). Primary, text and border
// are required; the rest fall back to the default palette.
type ThemeColors struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary,omitempty"`
	Warning   string `yaml:"warning,omitempty"`
	Error     string `yaml:"error,omitempty"`
	Muted     string `yaml:"muted,omitempty"`
	Surface   string `yaml:"surface,omitempty"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads a theme from a YAML file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}
	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %q (supported: 1)", t.Version)
	}

	required := []struct{ name, value string }{
		{"primary", t.Colors.Primary},
		{"text", t.Colors.Text},
		{"border", t.Colors.Border},
	}
	for _, c := range required {
		if c.value == "" {
			return fmt.Errorf("color '%s' is required", c.name)
		}
	}

	all := append(required, []struct{ name, value string }{
		{"secondary", t.Colors.Secondary},
		{"warning", t.Colors.Warning},
		{"error", t.Colors.Error},
		{"muted", t.Colors.Muted},
		{"surface", t.Colors.Surface},
	}...)
	for _, c := range all {
		if c.value != "" && !isValidHexColor(c.value) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.value)
		}
	}
	return nil
}

func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ToPalette converts the theme file to a ColorPalette.
func (t *ThemeFile) ToPalette() *ColorPalette {
	d := DefaultPalette()
	return &ColorPalette{
		Primary:   lipgloss.Color(t.Colors.Primary),
		Secondary: colorOrDefault(t.Colors.Secondary, d.Secondary),
		Warning:   colorOrDefault(t.Colors.Warning, d.Warning),
		Error:     colorOrDefault(t.Colors.Error, d.Error),
		Muted:     colorOrDefault(t.Colors.Muted, d.Muted),
		Surface:   colorOrDefault(t.Colors.Surface, d.Surface),
		Text:      lipgloss.Color(t.Colors.Text),
		Border:    lipgloss.Color(t.Colors.Border),
	}
}

func colorOrDefault(color string, fallback lipgloss.Color) lipgloss.Color {
	if color == "" {
		return fallback
	}
	return lipgloss.Color(color)
}

// ResolvePalette turns a tui.theme setting into a palette: a built-in theme
// name, or a path to a theme YAML file.
func ResolvePalette(theme string) (*ColorPalette, error) {
	if theme == "" || IsBuiltinTheme(theme) {
		return GetPalette(ThemeName(theme)), nil
	}
	if strings.HasSuffix(theme, ".yaml") || strings.HasSuffix(theme, ".yml") || strings.ContainsRune(theme, os.PathSeparator) {
		tf, err := LoadThemeFile(theme)
		if err != nil {
			return nil, err
		}
		return tf.ToPalette(), nil
	}
	return nil, fmt.Errorf("unknown theme %q (built-in: %s)", theme, strings.Join(BuiltinThemes(), ", "))
}
