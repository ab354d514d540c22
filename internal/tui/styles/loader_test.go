package styles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		color    string
		expected bool
	}{
		{"#A78BFA", true},
		{"#a78bfa", true},
		{"#ABC", true},
		{"A78BFA", false},
		{"#AB", false},
		{"#ABCD", false},
		{"#GHIJKL", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidHexColor(tt.color); got != tt.expected {
			t.Errorf("isValidHexColor(%q) = %v, want %v", tt.color, got, tt.expected)
		}
	}
}

func TestThemeFileValidate(t *testing.T) {
	valid := func() ThemeFile {
		return ThemeFile{
			Name:    "Bench",
			Version: "1",
			Colors:  ThemeColors{Primary: "#FF8800", Text: "#FFFFFF", Border: "#444"},
		}
	}

	tests := []struct {
		name   string
		modify func(*ThemeFile)
		errMsg string
	}{
		{"valid minimal theme", func(*ThemeFile) {}, ""},
		{"missing name", func(tf *ThemeFile) { tf.Name = "" }, "name is required"},
		{"wrong version", func(tf *ThemeFile) { tf.Version = "2" }, "unsupported theme version"},
		{"missing primary", func(tf *ThemeFile) { tf.Colors.Primary = "" }, "'primary' is required"},
		{"bad required color", func(tf *ThemeFile) { tf.Colors.Text = "white" }, "'text' has invalid format"},
		{"bad optional color", func(tf *ThemeFile) { tf.Colors.Warning = "#12" }, "'warning' has invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf := valid()
			tt.modify(&tf)
			err := tf.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestToPaletteFillsDefaults(t *testing.T) {
	tf := ThemeFile{
		Name:    "Bench",
		Version: "1",
		Colors:  ThemeColors{Primary: "#FF8800", Text: "#FFFFFF", Border: "#444444", Error: "#FF0000"},
	}
	p := tf.ToPalette()
	if p.Primary != "#FF8800" || p.Error != "#FF0000" {
		t.Errorf("explicit colors lost: %+v", p)
	}
	if p.Secondary != DefaultPalette().Secondary {
		t.Errorf("Secondary = %s, want default", p.Secondary)
	}
}

func TestResolvePalette(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	content := "name: Bench\nversion: \"1\"\ncolors:\n  primary: \"#FF8800\"\n  text: \"#FFFFFF\"\n  border: \"#444444\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("name: Broken\nversion: \"1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		theme   string
		primary string
		wantErr bool
	}{
		{"empty uses default", "", string(DefaultPalette().Primary), false},
		{"builtin", "nord", string(NordPalette().Primary), false},
		{"file", path, "#FF8800", false},
		{"invalid file", broken, "", true},
		{"missing file", filepath.Join(dir, "nope.yaml"), "", true},
		{"unknown name", "neon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePalette(tt.theme)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if string(p.Primary) != tt.primary {
				t.Errorf("Primary = %s, want %s", p.Primary, tt.primary)
			}
		})
	}
}
