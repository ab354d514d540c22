package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/guide"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

// App wraps the Bubbletea program
type App struct {
	program   *tea.Program
	model     Model
	logger    *logging.Logger
	watchPath string
	altScreen bool
}

// New creates a new TUI application over a started walkthrough.
func New(w *walkthrough.Walkthrough, opts Options) *App {
	model := NewModel(w, opts)
	return &App{
		model:     model,
		logger:    model.logger,
		watchPath: opts.WatchPath,
		altScreen: opts.AltScreen,
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if a.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	a.program = tea.NewProgram(a.model, opts...)

	// Set up signal handling for graceful shutdown so progress is flushed
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	if a.watchPath != "" {
		go func() {
			err := guide.Watch(ctx, a.watchPath, func(g *guide.Guide, err error) {
				a.program.Send(guideReloadedMsg{guide: g, err: err})
			})
			if err != nil && ctx.Err() == nil {
				a.logger.Warn("guide watcher stopped", "path", a.watchPath, "error", err.Error())
			}
		}()
	}

	final, err := a.program.Run()
	if m, ok := final.(Model); ok {
		a.model = m
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Cancelled from outside; not a failure.
		return nil
	}
	return err
}
