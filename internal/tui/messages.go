package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/pcbuild/internal/guide"
)

// hideMessageMsg asks the model to hide the message numbered seq. A newer
// message on screen makes it a no-op.
type hideMessageMsg struct {
	seq uint64
}

// guideReloadedMsg carries a new revision of the guide file from the watcher.
type guideReloadedMsg struct {
	guide *guide.Guide
	err   error
}

// hideMessageAfter schedules the auto-hide of message seq.
func hideMessageAfter(d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return hideMessageMsg{seq: seq}
	})
}
