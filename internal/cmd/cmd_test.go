package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/guide"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/progress"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "pcbuild" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "pcbuild")
	}

	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, name := range []string{"run", "guide", "history", "config", "logs"} {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRunFlags(t *testing.T) {
	for _, name := range []string{"guide", "file", "resume", "plain", "watch"} {
		if runCmd.Flags().Lookup(name) == nil {
			t.Errorf("run is missing --%s", name)
		}
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not YAML: %v", err)
	}
	if cfg.Guide.Name != "pc-assembly" || cfg.TUI.MessageSeconds != 3 || cfg.Assets.PreloadWorkers != 4 {
		t.Errorf("written config = %+v", cfg)
	}

	if err := writeDefaultConfig(path, false); err == nil {
		t.Error("second write without force should fail")
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("write with force error = %v", err)
	}
}

func TestConfigShowRoundTripsThroughViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	config.SetDefaults()
	viper.Set("guide.name", "ram-only")

	var out bytes.Buffer
	configShowCmd.SetOut(&out)
	defer configShowCmd.SetOut(nil)
	if err := runConfigShow(configShowCmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "name: ram-only") {
		t.Errorf("config show output:\n%s", out.String())
	}
}

func TestRunConfigThemes(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("tui.theme", "nord")

	var out bytes.Buffer
	configThemesCmd.SetOut(&out)
	defer configThemesCmd.SetOut(nil)
	if err := runConfigThemes(configThemesCmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "* nord") || !strings.Contains(out.String(), "  default") {
		t.Errorf("themes output:\n%s", out.String())
	}
}

func TestCreateLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Stderr = true

	var stderr bytes.Buffer
	logger := CreateLogger(cfg, true, &stderr)
	logger.Warn("mirrored warning")
	logger.Info("file only")
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(stderr.String(), "mirrored warning") || strings.Contains(stderr.String(), "file only") {
		t.Errorf("stderr = %q", stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(cfg.Logging.Dir, logging.LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "file only") {
		t.Errorf("log file = %q", data)
	}

	// The TUI never mirrors.
	stderr.Reset()
	tuiLogger := CreateLogger(cfg, false, &stderr)
	tuiLogger.Warn("not mirrored")
	_ = tuiLogger.Close()
	if stderr.Len() != 0 {
		t.Errorf("TUI logger wrote to stderr: %q", stderr.String())
	}

	cfg.Logging.Enabled = false
	if CreateLogger(cfg, true, &stderr) == nil {
		t.Error("disabled logging should return a no-op logger")
	}
}

func newWalk(t *testing.T, name string) *walkthrough.Walkthrough {
	t.Helper()
	g, err := guide.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	w, err := walkthrough.New(g, walkthrough.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestOpenSession(t *testing.T) {
	store, err := progress.Open(filepath.Join(t.TempDir(), progress.DBFileName))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	w := newWalk(t, "pc-assembly")
	logger := logging.NopLogger()

	// Nothing to resume yet.
	first, resumed, err := openSession(store, w, true, logger)
	if err != nil || resumed {
		t.Fatalf("openSession() = resumed %v, err %v", resumed, err)
	}
	if _, err := store.RecordVisit(first.ID, progress.Visit{Op: "jump", StepIndex: 4, StepID: "cpu"}); err != nil {
		t.Fatal(err)
	}

	again, resumed, err := openSession(store, w, true, logger)
	if err != nil || !resumed {
		t.Fatalf("openSession() = resumed %v, err %v", resumed, err)
	}
	if again.ID != first.ID || again.Cursor != 4 {
		t.Errorf("resumed %s at %d, want %s at 4", again.ID, again.Cursor, first.ID)
	}

	fresh, resumed, err := openSession(store, w, false, logger)
	if err != nil || resumed || fresh.ID == first.ID {
		t.Errorf("without resume: %s resumed=%v err=%v", fresh.ID, resumed, err)
	}
}

func TestOpenSessionGuideChanged(t *testing.T) {
	store, err := progress.Open(filepath.Join(t.TempDir(), progress.DBFileName))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	old, err := store.Start("pc-assembly", "an-older-revision")
	if err != nil {
		t.Fatal(err)
	}

	logDir := t.TempDir()
	logger, err := logging.NewLogger(logDir, logging.LevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	sess, resumed, err := openSession(store, newWalk(t, "pc-assembly"), true, logger)
	if err != nil {
		t.Fatal(err)
	}
	if resumed || sess.ID == old.ID {
		t.Error("a session from another guide revision must not be resumed")
	}
	_ = logger.Close()

	// The stale session carries warning severity and is logged at that level.
	entries, err := logging.ReadEntries(logDir)
	if err != nil {
		t.Fatal(err)
	}
	matched := logging.FilterEntries(entries, logging.Filter{Pattern: regexp.MustCompile("guide changed")})
	if len(matched) != 1 || matched[0].Level != logging.LevelWarn {
		t.Errorf("guide-changed entries = %+v, want one at WARN", matched)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"guide error", errors.NewGuideError("bad step", errors.ErrGuideInvalid), 2},
		{"wrapped session error", fmt.Errorf("run: %w", errors.NewSessionError("stale", errors.ErrGuideChanged)), 2},
		{"other", errors.New("flag provided but not defined"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunLogs(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, logging.LevelDebug)
	if err != nil {
		t.Fatal(err)
	}
	logger.WithSession("0123456789abcdef").WithGuide("pc-assembly").WithStep(3, "ram-insert").Info("step entered")
	logger.WithSession("0123456789abcdef").WithGuide("pc-assembly").Warn("action failed", "error", "trigger not found")
	logger.WithSession("fedcba9876543210").WithGuide("ram-only").Debug("scene loaded")
	_ = logger.Close()

	reset := func() {
		logsSession, logsGuide, logsLevel, logsSince, logsGrep = "", "", "", "", ""
		logsTail, logsFormat, logsDir = 50, logging.FormatText, ""
	}
	defer reset()

	tests := []struct {
		name    string
		set     func()
		want    []string
		notWant []string
		wantErr bool
	}{
		{"all", func() {}, []string{"step entered", "action failed", "scene loaded"}, nil, false},
		{"by guide", func() { logsGuide = "ram-only" }, []string{"scene loaded"}, []string{"step entered"}, false},
		{"by session prefix", func() { logsSession = "0123" }, []string{"step entered", "action failed"}, []string{"scene loaded"}, false},
		{"warn", func() { logsLevel = "warn" }, []string{"action failed"}, []string{"step entered"}, false},
		{"grep attrs", func() { logsGrep = "trigger" }, []string{"action failed"}, []string{"scene loaded"}, false},
		{"tail", func() { logsTail = 1 }, []string{"scene loaded"}, []string{"step entered"}, false},
		{"since future", func() { logsSince = "-1h" }, []string{"No matching log entries"}, nil, false},
		{"csv", func() { logsFormat = "csv" }, []string{"time,level,msg", "ram-insert"}, nil, false},
		{"bad format", func() { logsFormat = "xml" }, nil, nil, true},
		{"bad grep", func() { logsGrep = "(" }, nil, nil, true},
		{"bad since", func() { logsSince = "yesterday" }, nil, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()
			logsDir = dir
			tt.set()

			var out bytes.Buffer
			logsCmd.SetOut(&out)
			defer logsCmd.SetOut(nil)

			err := runLogs(logsCmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("runLogs() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output should not contain %q:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestRunLogsEmptyDir(t *testing.T) {
	logsDir = t.TempDir()
	defer func() { logsDir = "" }()

	var out bytes.Buffer
	logsCmd.SetOut(&out)
	defer logsCmd.SetOut(nil)
	if err := runLogs(logsCmd, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No logs found") {
		t.Errorf("output = %q", out.String())
	}
}
