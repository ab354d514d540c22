package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "guide.yaml")
	if err := os.WriteFile(file, []byte("name: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		field   string
		wantErr bool
	}{
		{"guide name and file empty", func(c *Config) { c.Guide.Name = "" }, "guide.name", true},
		{"guide file only", func(c *Config) { c.Guide.Name = ""; c.Guide.File = file }, "", false},
		{"guide file missing", func(c *Config) { c.Guide.File = filepath.Join(dir, "nope.yaml") }, "guide.file", true},
		{"guide file is a directory", func(c *Config) { c.Guide.File = dir }, "guide.file", true},
		{"floor below -1", func(c *Config) { c.Guide.Floor = -2 }, "guide.floor", true},
		{"floor zero", func(c *Config) { c.Guide.Floor = 0 }, "", false},
		{"assets dir is a file", func(c *Config) { c.Assets.Dir = file }, "assets.dir", true},
		{"assets dir missing is fine", func(c *Config) { c.Assets.Dir = filepath.Join(dir, "scenes") }, "", false},
		{"zero workers", func(c *Config) { c.Assets.PreloadWorkers = 0 }, "assets.preload_workers", true},
		{"too many workers", func(c *Config) { c.Assets.PreloadWorkers = 65 }, "assets.preload_workers", true},
		{"message seconds zero", func(c *Config) { c.TUI.MessageSeconds = 0 }, "tui.message_seconds", true},
		{"message seconds too long", func(c *Config) { c.TUI.MessageSeconds = 61 }, "tui.message_seconds", true},
		{"blank theme", func(c *Config) { c.TUI.Theme = "  " }, "tui.theme", true},
		{"resume without progress", func(c *Config) { c.Progress.Enabled = false; c.Progress.Resume = true }, "progress.resume", true},
		{"db path is a directory", func(c *Config) { c.Progress.DBPath = dir }, "progress.db_path", true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level", true},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }, "", false},
		{"log dir is a file", func(c *Config) { c.Logging.Dir = file }, "logging.dir", true},
		{"rotation disabled", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "", false},
		{"negative log size", func(c *Config) { c.Logging.MaxSizeMB = -1 }, "logging.max_size_mb", true},
		{"too many backups", func(c *Config) { c.Logging.MaxBackups = 51 }, "logging.max_backups", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()

			if !tt.wantErr {
				if len(errs) != 0 {
					t.Errorf("Validate() = %v, want no errors", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestConfig_Validate_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Guide.Floor = -5
	cfg.TUI.MessageSeconds = 0
	cfg.Logging.Level = "nope"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
	want := []string{"guide.floor", "tui.message_seconds", "logging.level"}
	for i, field := range want {
		if errs[i].Field != field {
			t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
		}
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	expected := []string{"debug", "info", "warn", "error"}
	if len(levels) != len(expected) {
		t.Fatalf("ValidLogLevels() = %v", levels)
	}
	for i, l := range expected {
		if levels[i] != l {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], l)
		}
	}
}
