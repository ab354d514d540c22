// Package styles builds the lipgloss styles shared by the TUI and the plain
// console from a color palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles is the full set of styles for one palette.
type Styles struct {
	Palette *ColorPalette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style

	// Message banner
	Message lipgloss.Style

	// Milestone panel
	Milestone            lipgloss.Style
	MilestoneLabel       lipgloss.Style
	MilestoneInstruction lipgloss.Style
	MilestoneDetail      lipgloss.Style

	// Stage panel
	Stage        lipgloss.Style
	Anchor       lipgloss.Style
	Notification lipgloss.Style

	// Menu popup and parts overlay
	Popup      lipgloss.Style
	PopupTitle lipgloss.Style
	MenuKey    lipgloss.Style
	PartName   lipgloss.Style

	// Controls
	ControlEnabled  lipgloss.Style
	ControlDisabled lipgloss.Style

	HelpBar  lipgloss.Style
	HelpKey  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Text     lipgloss.Style
	Progress lipgloss.Style
}

// New builds styles from p. A nil palette uses the default theme.
func New(p *ColorPalette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}
	return &Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border).
			MarginBottom(1),

		Message: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Surface).
			Padding(0, 2),

		Milestone: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),

		MilestoneLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		MilestoneInstruction: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		MilestoneDetail: lipgloss.NewStyle().
			Foreground(p.Muted),

		Stage: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		Anchor: lipgloss.NewStyle().
			Foreground(p.Secondary),

		Notification: lipgloss.NewStyle().
			Foreground(p.Warning),

		Popup: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Primary).
			Padding(1, 3),

		PopupTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginBottom(1),

		MenuKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),

		PartName: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		ControlEnabled: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Padding(0, 1),

		ControlDisabled: lipgloss.NewStyle().
			Foreground(p.Muted).
			Faint(true).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),

		Error: lipgloss.NewStyle().
			Foreground(p.Error),

		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Text: lipgloss.NewStyle().
			Foreground(p.Text),

		Progress: lipgloss.NewStyle().
			Foreground(p.Secondary),
	}
}

// Default returns styles for the default theme.
func Default() *Styles {
	return New(DefaultPalette())
}
