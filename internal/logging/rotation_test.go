package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotationMB(t *testing.T) {
	rot := RotationMB(2, 3)
	if rot.MaxBytes != 2*1024*1024 || rot.Backups != 3 {
		t.Errorf("RotationMB(2, 3) = %+v", rot)
	}
	if got := BackupPath("/tmp/pcbuild.log", 2); got != "/tmp/pcbuild.log.2" {
		t.Errorf("BackupPath() = %q", got)
	}
}

func TestRotatingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rf, err := openRotatingFile(path, Rotation{MaxBytes: 10, Backups: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		if _, err := rf.Write([]byte(line)); err != nil {
			t.Fatalf("Write(%q) error = %v", line, err)
		}
	}

	want := map[string]string{
		path:                "dddddddd\n",
		BackupPath(path, 1): "cccccccc\n",
		BackupPath(path, 2): "bbbbbbbb\n",
	}
	for p, content := range want {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("reading %s: %v", p, err)
		}
		if string(data) != content {
			t.Errorf("%s = %q, want %q", filepath.Base(p), data, content)
		}
	}
	if _, err := os.Stat(BackupPath(path, 3)); !os.IsNotExist(err) {
		t.Error("only two backups should be kept")
	}
}

func TestRotatingFileWithoutBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rf, err := openRotatingFile(path, Rotation{MaxBytes: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	_, _ = rf.Write([]byte("first-line\n"))
	_, _ = rf.Write([]byte("second\n"))

	data, _ := os.ReadFile(path)
	if string(data) != "second\n" {
		t.Errorf("log = %q, want only the newest record", data)
	}
	if _, err := os.Stat(BackupPath(path, 1)); !os.IsNotExist(err) {
		t.Error("no backup should be written")
	}
}

func TestRotatingFileDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rf, err := openRotatingFile(path, Rotation{})
	if err != nil {
		t.Fatal(err)
	}
	for range 100 {
		_, _ = rf.Write([]byte("0123456789\n"))
	}
	if err := rf.Close(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "\n") != 100 {
		t.Errorf("log has %d lines, want 100", strings.Count(string(data), "\n"))
	}
	if _, err := rf.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestRotatingFileAppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	if err := os.WriteFile(path, []byte("old-record\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rf, err := openRotatingFile(path, Rotation{MaxBytes: 15, Backups: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	// The existing size counts toward the limit.
	_, _ = rf.Write([]byte("new-record\n"))
	data, _ := os.ReadFile(BackupPath(path, 1))
	if string(data) != "old-record\n" {
		t.Errorf("backup = %q", data)
	}
}

func TestNewLoggerRotates(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo, Options{Rotation: Rotation{MaxBytes: 200, Backups: 1}})
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		logger.WithGuide("pc-assembly").Info("step entered", "detail", strings.Repeat("x", 40))
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(BackupPath(filepath.Join(dir, LogFileName), 1)); err != nil {
		t.Errorf("expected a rotated backup: %v", err)
	}
}
