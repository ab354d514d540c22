package logging

import (
	"fmt"
	"os"
	"sync"
)

// Rotation bounds the size of the log file. When a write would push the file
// past MaxBytes, pcbuild.log is renamed to pcbuild.log.1 (shifting older
// backups up by one) and a fresh file is started. A MaxBytes of zero disables
// rotation.
type Rotation struct {
	MaxBytes int64
	Backups  int
}

// RotationMB builds a Rotation from the megabyte figure used in config files.
func RotationMB(maxSizeMB, backups int) Rotation {
	return Rotation{MaxBytes: int64(maxSizeMB) * 1024 * 1024, Backups: backups}
}

// BackupPath returns the path of the n-th rotated copy of path.
func BackupPath(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}

// rotatingFile is an append-only log file that rotates itself by size.
// It is safe for concurrent use.
type rotatingFile struct {
	mu   sync.Mutex
	path string
	rot  Rotation
	file *os.File
	size int64
}

func openRotatingFile(path string, rot Rotation) (*rotatingFile, error) {
	rf := &rotatingFile{path: path, rot: rot}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *rotatingFile) open() error {
	f, err := os.OpenFile(rf.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	rf.file = f
	rf.size = info.Size()
	return nil
}

func (rf *rotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return 0, os.ErrClosed
	}
	// A record larger than the limit still goes out whole; it just lands in a
	// file of its own.
	if rf.rot.MaxBytes > 0 && rf.size > 0 && rf.size+int64(len(p)) > rf.rot.MaxBytes {
		if err := rf.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

// rotate must be called with mu held.
func (rf *rotatingFile) rotate() error {
	if err := rf.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file for rotation: %w", err)
	}
	rf.file = nil

	if rf.rot.Backups <= 0 {
		if err := os.Remove(rf.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to truncate log file: %w", err)
		}
		return rf.open()
	}

	_ = os.Remove(BackupPath(rf.path, rf.rot.Backups))
	for n := rf.rot.Backups - 1; n >= 1; n-- {
		if err := os.Rename(BackupPath(rf.path, n), BackupPath(rf.path, n+1)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to shift log backup %d: %w", n, err)
		}
	}
	if err := os.Rename(rf.path, BackupPath(rf.path, 1)); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	return rf.open()
}

func (rf *rotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	if err := rf.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	err := rf.file.Close()
	rf.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
