package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateANSI(t *testing.T) {
	redStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short plain string unchanged", "hello", 10, "hello"},
		{"exact width unchanged", "hello", 5, "hello"},
		{"plain string truncated", "DEPRESS THE WHITE LEVERS", 10, "DEPRESS..."},
		{"tiny width is ellipsis", "hello", 3, "..."},
		{"negative width is ellipsis", "hello", -1, "..."},
		{"empty string unchanged", "", 10, ""},
		{"styled string kept when it fits", redStyle.Render("hi"), 10, redStyle.Render("hi")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateANSI(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("TruncateANSI(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncateANSI_StyledWidth(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("PLACE RAM STICKS IN UNTIL CLICK")
	got := TruncateANSI(styled, 12)
	if w := lipgloss.Width(got); w > 12 {
		t.Errorf("width = %d, want <= 12", w)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("truncated text %q has no ellipsis", got)
	}
}

func TestTruncateANSI_WideRunes(t *testing.T) {
	got := TruncateANSI("日本語テスト", 7)
	if w := lipgloss.Width(got); w > 7 {
		t.Errorf("width = %d, want <= 7", w)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("Line up the notch on the stick with the slot", 12)
	for _, line := range strings.Split(got, "\n") {
		if w := lipgloss.Width(line); w > 12 {
			t.Errorf("line %q is %d wide", line, w)
		}
	}
	if strings.Count(got, "\n") < 2 {
		t.Errorf("Wrap() = %q, expected several lines", got)
	}
	if Wrap("keep", 0) != "keep" {
		t.Error("Wrap with width 0 should return input")
	}
}

func TestRule(t *testing.T) {
	tests := []struct {
		name  string
		label string
		width int
	}{
		{"plain", "", 10},
		{"labelled", "Step 2", 20},
		{"label longer than width", "Motherboard installation", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rule(tt.label, tt.width)
			if w := lipgloss.Width(got); w != tt.width {
				t.Errorf("Rule(%q, %d) width = %d: %q", tt.label, tt.width, w, got)
			}
		})
	}
	if Rule("x", 0) != "" {
		t.Error("Rule with width 0 should be empty")
	}
}
