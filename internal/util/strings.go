// Package util holds text helpers shared by the TUI and the console.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// TruncateANSI cuts s to maxWidth terminal columns, ending in an ellipsis when
// anything was dropped. Escape sequences and wide runes are measured correctly.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= len(Ellipsis) {
		return Ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// Wrap word-wraps s to width columns. Words longer than width are broken.
func Wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return ansi.Wrap(s, width, "")
}

// Rule returns a horizontal rule of width columns with label embedded near
// the left edge, e.g. "── Step 2 ─────".
func Rule(label string, width int) string {
	if width < 1 {
		return ""
	}
	if label == "" {
		return strings.Repeat("─", width)
	}
	head := "── " + TruncateANSI(label, max(width-4, len(Ellipsis)+1)) + " "
	rest := width - lipgloss.Width(head)
	if rest < 0 {
		return TruncateANSI(head, width)
	}
	return head + strings.Repeat("─", rest)
}
