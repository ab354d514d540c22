package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default guide config
	if cfg.Guide.Name != "pc-assembly" {
		t.Errorf("Guide.Name = %q, want %q", cfg.Guide.Name, "pc-assembly")
	}
	if cfg.Guide.Floor != -1 {
		t.Errorf("Guide.Floor = %d, want -1", cfg.Guide.Floor)
	}

	// Verify default assets config
	if cfg.Assets.PreloadWorkers != 4 {
		t.Errorf("Assets.PreloadWorkers = %d, want 4", cfg.Assets.PreloadWorkers)
	}

	// Verify default TUI config
	if cfg.TUI.MessageSeconds != 3 {
		t.Errorf("TUI.MessageSeconds = %d, want 3", cfg.TUI.MessageSeconds)
	}
	if !cfg.TUI.AltScreen {
		t.Error("TUI.AltScreen should be true by default")
	}
	if !cfg.TUI.ShowStage {
		t.Error("TUI.ShowStage should be true by default")
	}

	// Verify default progress config
	if !cfg.Progress.Enabled {
		t.Error("Progress.Enabled should be true by default")
	}
	if cfg.Progress.Resume {
		t.Error("Progress.Resume should be false by default")
	}

	// Verify default logging config
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestTUIConfig_MessageDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected time.Duration
	}{
		{3, 3 * time.Second},
		{1, time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		cfg := TUIConfig{MessageSeconds: tt.seconds}
		if got := cfg.MessageDuration(); got != tt.expected {
			t.Errorf("MessageDuration() with %ds = %v, want %v", tt.seconds, got, tt.expected)
		}
	}
}

func TestResolvePaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	t.Run("defaults into data dir", func(t *testing.T) {
		p := ProgressConfig{}
		if got := p.ResolveDBPath(); got != "/custom/data/pcbuild/progress.db" {
			t.Errorf("ResolveDBPath() = %q", got)
		}
		l := LoggingConfig{}
		if got := l.ResolveDir(); got != "/custom/data/pcbuild/logs" {
			t.Errorf("ResolveDir() = %q", got)
		}
	})

	t.Run("explicit paths win", func(t *testing.T) {
		p := ProgressConfig{DBPath: "/tmp/x.db"}
		if got := p.ResolveDBPath(); got != "/tmp/x.db" {
			t.Errorf("ResolveDBPath() = %q", got)
		}
		l := LoggingConfig{Dir: "/tmp/logs"}
		if got := l.ResolveDir(); got != "/tmp/logs" {
			t.Errorf("ResolveDir() = %q", got)
		}
	})

	t.Run("home expansion", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		p := ProgressConfig{DBPath: "~/pc.db"}
		if got := p.ResolveDBPath(); got != filepath.Join(home, "pc.db") {
			t.Errorf("ResolveDBPath() = %q", got)
		}
	})
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/pcbuild" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/pcbuild")
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "pcbuild")
		if got := ConfigDir(); got != expected {
			t.Errorf("ConfigDir() = %q, want %q", got, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	expected := "/custom/config/pcbuild/config.yaml"
	if got := ConfigFile(); got != expected {
		t.Errorf("ConfigFile() = %q, want %q", got, expected)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".local", "share", "pcbuild")
	if got := DataDir(); got != expected {
		t.Errorf("DataDir() = %q, want %q", got, expected)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Guide.Name != "pc-assembly" {
		t.Errorf("Get().Guide.Name = %q, want %q", cfg.Guide.Name, "pc-assembly")
	}
	if cfg.Guide.Floor != -1 {
		t.Errorf("Get().Guide.Floor = %d, want -1", cfg.Guide.Floor)
	}
}

func TestLoad_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("guide.name", "ram-only")
	viper.Set("tui.message_seconds", 5)
	viper.Set("progress.resume", true)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Guide.Name != "ram-only" || cfg.TUI.MessageSeconds != 5 || !cfg.Progress.Resume {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("logging.level", "loud")
	viper.Set("assets.preload_workers", 0)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for invalid values")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("len(errors) = %d, want 2: %v", len(verrs), verrs)
	}

	// Get falls back to defaults.
	if cfg := Get(); cfg.Logging.Level != "info" {
		t.Errorf("Get() fallback Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestFloorOverride(t *testing.T) {
	tests := []struct {
		floor int
		want  int
		isNil bool
	}{
		{-1, 0, true},
		{0, 0, false},
		{2, 2, false},
	}
	for _, tt := range tests {
		got := GuideConfig{Floor: tt.floor}.FloorOverride()
		if (got == nil) != tt.isNil || (got != nil && *got != tt.want) {
			t.Errorf("FloorOverride() with floor %d = %v", tt.floor, got)
		}
	}
}
