package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "tui.message_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateGuide()...)
	errors = append(errors, c.validateAssets()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateProgress()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateGuide() []ValidationError {
	var errors []ValidationError

	if c.Guide.Name == "" && c.Guide.File == "" {
		errors = append(errors, ValidationError{
			Field:   "guide.name",
			Value:   c.Guide.Name,
			Message: "either guide.name or guide.file must be set",
		})
	}

	if c.Guide.File != "" {
		info, err := os.Stat(expandHome(c.Guide.File))
		switch {
		case err != nil:
			errors = append(errors, ValidationError{
				Field:   "guide.file",
				Value:   c.Guide.File,
				Message: "file does not exist",
			})
		case info.IsDir():
			errors = append(errors, ValidationError{
				Field:   "guide.file",
				Value:   c.Guide.File,
				Message: "must be a file, not a directory",
			})
		}
	}

	if c.Guide.Floor < -1 {
		errors = append(errors, ValidationError{
			Field:   "guide.floor",
			Value:   c.Guide.Floor,
			Message: "must be -1 (use the guide's floor) or a step index",
		})
	}

	return errors
}

func (c *Config) validateAssets() []ValidationError {
	var errors []ValidationError

	if c.Assets.Dir != "" {
		if info, err := os.Stat(expandHome(c.Assets.Dir)); err == nil && !info.IsDir() {
			errors = append(errors, ValidationError{
				Field:   "assets.dir",
				Value:   c.Assets.Dir,
				Message: "must be a directory",
			})
		}
	}

	const maxWorkers = 64
	if c.Assets.PreloadWorkers < 1 || c.Assets.PreloadWorkers > maxWorkers {
		errors = append(errors, ValidationError{
			Field:   "assets.preload_workers",
			Value:   c.Assets.PreloadWorkers,
			Message: fmt.Sprintf("must be between 1 and %d", maxWorkers),
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	const maxMessageSeconds = 60
	if c.TUI.MessageSeconds < 1 || c.TUI.MessageSeconds > maxMessageSeconds {
		errors = append(errors, ValidationError{
			Field:   "tui.message_seconds",
			Value:   c.TUI.MessageSeconds,
			Message: fmt.Sprintf("must be between 1 and %d", maxMessageSeconds),
		})
	}

	if strings.TrimSpace(c.TUI.Theme) == "" {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateProgress() []ValidationError {
	var errors []ValidationError

	if c.Progress.Resume && !c.Progress.Enabled {
		errors = append(errors, ValidationError{
			Field:   "progress.resume",
			Value:   c.Progress.Resume,
			Message: "requires progress.enabled",
		})
	}

	if c.Progress.DBPath != "" {
		if info, err := os.Stat(expandHome(c.Progress.DBPath)); err == nil && info.IsDir() {
			errors = append(errors, ValidationError{
				Field:   "progress.db_path",
				Value:   c.Progress.DBPath,
				Message: "must be a file path, not a directory",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxSizeMB > 1024 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be between 0 and 1024",
		})
	}
	if c.Logging.MaxBackups < 0 || c.Logging.MaxBackups > 50 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be between 0 and 50",
		})
	}

	if c.Logging.Dir != "" {
		if info, err := os.Stat(expandHome(c.Logging.Dir)); err == nil && !info.IsDir() {
			errors = append(errors, ValidationError{
				Field:   "logging.dir",
				Value:   c.Logging.Dir,
				Message: "must be a directory",
			})
		}
	}

	return errors
}
