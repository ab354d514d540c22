package styles

import (
	"strings"
	"testing"
)

func TestNewUsesPalette(t *testing.T) {
	p := NordPalette()
	s := New(p)
	if s.Palette != p {
		t.Error("Styles should keep its palette")
	}
	if got := s.Title.GetForeground(); got != p.Primary {
		t.Errorf("Title foreground = %v, want %v", got, p.Primary)
	}
	if got := s.Error.GetForeground(); got != p.Error {
		t.Errorf("Error foreground = %v, want %v", got, p.Error)
	}
}

func TestNewNilPalette(t *testing.T) {
	s := New(nil)
	if s.Palette.Primary != DefaultPalette().Primary {
		t.Error("nil palette should fall back to default")
	}
}

func TestRenderKeepsText(t *testing.T) {
	s := Default()
	out := s.Message.Render("DEPRESS THE WHITE LEVERS")
	if !strings.Contains(out, "DEPRESS THE WHITE LEVERS") {
		t.Errorf("rendered message lost its text: %q", out)
	}
}
