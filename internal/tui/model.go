package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/tui/keymap"
	"github.com/Iron-Ham/pcbuild/internal/tui/styles"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

// DefaultMessageDuration is how long auto-hiding messages stay up.
const DefaultMessageDuration = 3 * time.Second

// feedSize is the number of recent events kept for the stage panel.
const feedSize = 4

// Options configures the TUI.
type Options struct {
	MessageDuration time.Duration
	ShowStage       bool
	AltScreen       bool
	Styles          *styles.Styles
	Keymap          *keymap.Keymap
	Logger          *logging.Logger
	// WatchPath, when set, reloads the guide whenever the file changes.
	WatchPath string
}

// feed collects recent bus events. Handlers run on the Update goroutine, so
// no locking is needed.
type feed struct {
	lines []string
}

func (f *feed) add(line string) {
	f.lines = append(f.lines, line)
	if len(f.lines) > feedSize {
		f.lines = f.lines[len(f.lines)-feedSize:]
	}
}

// Model holds the TUI application state
type Model struct {
	walk     *walkthrough.Walkthrough
	keymap   *keymap.Keymap
	styles   *styles.Styles
	progress progress.Model
	logger   *logging.Logger

	messageDuration time.Duration
	showStage       bool

	// UI state
	width        int
	height       int
	quitting     bool
	showHelp     bool
	errorMessage string
	notice       string
	feed         *feed
}

// NewModel creates a new TUI model over a started walkthrough.
func NewModel(w *walkthrough.Walkthrough, opts Options) Model {
	if opts.MessageDuration <= 0 {
		opts.MessageDuration = DefaultMessageDuration
	}
	if opts.Styles == nil {
		opts.Styles = styles.Default()
	}
	if opts.Keymap == nil {
		opts.Keymap = keymap.DefaultKeymap()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	m := Model{
		walk:            w,
		keymap:          opts.Keymap,
		styles:          opts.Styles,
		progress:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		logger:          opts.Logger,
		messageDuration: opts.MessageDuration,
		showStage:       opts.ShowStage,
		feed:            &feed{},
	}

	w.Bus().SubscribeMany(func(e event.Event) {
		switch ev := e.(type) {
		case event.SceneNotificationEvent:
			m.feed.add(fmt.Sprintf("%s: %s", ev.Trigger, ev.Message))
		case event.SessionCompletedEvent:
			m.feed.add("session saved as complete")
		case event.GuideReloadedEvent:
			if ev.Error == "" {
				m.feed.add(fmt.Sprintf("reloaded %s (%d steps)", ev.Guide, ev.Steps))
			}
		}
	}, event.TypeSceneNotification, event.TypeSessionCompleted, event.TypeGuideReloaded)

	return m
}

// Init implements tea.Model. The walkthrough has already entered its first
// step, so an auto-hiding message may already be up.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("pcbuild: "+m.walk.Guide().Title),
		m.scheduleHide(0),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, min(40, msg.Width-30))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case hideMessageMsg:
		m.walk.State().HideMessage(msg.seq)
		return m, nil

	case guideReloadedMsg:
		return m.handleReload(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := keymap.Mode(m.walk.Mode())
	binding, ok := m.keymap.GetBinding(msg, mode)
	if !ok {
		return m, nil
	}

	switch binding.Command {
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	case keymap.CmdHelp:
		m.showHelp = !m.showHelp
		return m, nil
	}

	before := m.walk.State().MessageSeq
	var err error
	if binding.Command == keymap.CmdJump {
		_, err = m.walk.Do(walkthrough.CmdJump, int(msg.Runes[0]-'0'))
	} else {
		_, err = m.walk.Do(walkthrough.Command(binding.Command), 0)
	}

	switch {
	case errors.Is(err, errors.ErrControlDisabled):
		// Disabled controls swallow their keys.
		return m, nil
	case err != nil:
		m.errorMessage = displayError(err)
		m.logger.Report("navigation failed", err, "command", string(binding.Command))
	default:
		m.errorMessage = ""
	}
	m.notice = ""
	return m, m.scheduleHide(before)
}

// displayError returns the text shown in the status bar for err. Errors
// not marked user-facing are replaced by a pointer to the log.
func displayError(err error) string {
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	return "unexpected error (see pcbuild logs)"
}

func (m Model) handleReload(msg guideReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errorMessage = "guide reload failed: " + msg.err.Error()
		m.logger.Warn("guide reload failed", "error", msg.err.Error())
		return m, nil
	}

	before := m.walk.State().MessageSeq
	if err := m.walk.Reload(msg.guide); err != nil {
		m.errorMessage = "guide reload failed: " + err.Error()
		return m, nil
	}
	m.errorMessage = ""
	m.notice = "guide reloaded"
	return m, m.scheduleHide(before)
}

// scheduleHide starts the auto-hide timer when a new auto-hiding message went
// up since seq before.
func (m Model) scheduleHide(before uint64) tea.Cmd {
	st := m.walk.State()
	if st.MessageHidden || !st.AutoHide || st.MessageSeq == before {
		return nil
	}
	return hideMessageAfter(m.messageDuration, st.MessageSeq)
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool { return m.quitting }
