package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/console"
	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/guide"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/progress"
	"github.com/Iron-Ham/pcbuild/internal/scene"
	"github.com/Iron-Ham/pcbuild/internal/tui"
	"github.com/Iron-Ham/pcbuild/internal/tui/styles"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the assembly walkthrough",
	Long: `Start the assembly walkthrough.

In a terminal this opens the interactive UI. When stdout is not a terminal,
or with --plain, commands are read line by line from stdin instead:
next, prev, menu, start, parts, close, jump N, quit.

Examples:
  pcbuild run
  pcbuild run --guide ram-only
  pcbuild run --file my-guide.yaml --watch
  printf 'start\nnext\nquit\n' | pcbuild run --plain`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runPlain bool
	runWatch bool
)

func init() {
	runCmd.Flags().StringP("guide", "g", "", "built-in guide name")
	runCmd.Flags().StringP("file", "f", "", "guide YAML file (overrides --guide)")
	runCmd.Flags().Bool("resume", false, "continue the latest unfinished session of this guide")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "use line mode even in a terminal")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "reload the guide file when it changes (requires --file)")

	_ = viper.BindPFlag("guide.name", runCmd.Flags().Lookup("guide"))
	_ = viper.BindPFlag("guide.file", runCmd.Flags().Lookup("file"))
	_ = viper.BindPFlag("progress.resume", runCmd.Flags().Lookup("resume"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if runWatch && cfg.Guide.File == "" {
		return fmt.Errorf("--watch needs a guide file (--file)")
	}

	plain := runPlain || !term.IsTerminal(int(os.Stdout.Fd()))
	base := CreateLogger(cfg, plain, cmd.ErrOrStderr())
	defer func() { _ = base.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	g, err := guide.Resolve(cfg.Guide.Name, cfg.Guide.File)
	if err != nil {
		return err
	}
	logger := base.WithGuide(g.Name)
	logger.Info("pcbuild started", "plain", plain, "file", cfg.Guide.File)

	library := scene.NewDefaultLibrary(cfg.Assets.Dir,
		scene.WithWorkers(cfg.Assets.PreloadWorkers),
		scene.WithLogger(logger),
	)
	if err := library.Preload(ctx, g.Scenes()); err != nil {
		return fmt.Errorf("loading scenes for %s: %w", g.Name, err)
	}

	bus := event.NewBus()
	bus.SetLogger(logger)
	bus.LogTo(logger)

	w, err := walkthrough.New(g, walkthrough.Options{
		Library: library,
		Bus:     bus,
		Logger:  logger,
		Floor:   cfg.Guide.FloorOverride(),
	})
	if err != nil {
		return err
	}

	start := 0
	if cfg.Progress.Enabled {
		store, err := progress.Open(cfg.Progress.ResolveDBPath())
		if err != nil {
			// The walkthrough runs without progress.
			logger.Warn("progress disabled", "error", err.Error())
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: progress will not be saved: %v\n", err)
		} else {
			defer func() { _ = store.Close() }()

			sess, resumed, err := openSession(store, w, cfg.Progress.Resume, logger)
			if err != nil {
				return err
			}
			if resumed {
				start = sess.Cursor
				fmt.Fprintf(cmd.ErrOrStderr(), "Resuming session %s at step %d\n", shortID(sess.ID), start)
			}

			tracker := progress.NewTracker(store, bus, sess, w.LastStep(), logger)
			defer tracker.Close()
			bus.Subscribe(event.TypeGuideReloaded, func(e event.Event) {
				if ev, ok := e.(event.GuideReloadedEvent); ok && ev.Error == "" {
					tracker.SetLastStep(ev.Steps - 1)
				}
			})
			bus.Publish(event.NewSessionStartedEvent(sess.ID, g.Name, resumed, start))
			logger = logger.WithSession(sess.ID)
		}
	}

	logger.Debug("event bus ready", "subscriptions", bus.SubscriptionCount())
	// Handlers are dropped before the progress store closes.
	defer bus.Clear()

	if _, err := w.Start(start); err != nil {
		// A failing first step is reported but does not end the session.
		logger.Warn("first step failed", "error", err.Error())
	}

	palette, err := styles.ResolvePalette(cfg.TUI.Theme)
	if err != nil {
		logger.Warn("theme not usable, using default", "theme", cfg.TUI.Theme, "error", err.Error())
		palette = styles.DefaultPalette()
	}
	st := styles.New(palette)

	if plain {
		if runWatch {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: --watch is only supported in the interactive UI")
		}
		c := console.New(w, cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
			Styles: st,
			Logger: logger,
		})
		return c.Run(ctx)
	}

	watchPath := ""
	if runWatch {
		watchPath = cfg.Guide.File
	}
	app := tui.New(w, tui.Options{
		MessageDuration: cfg.TUI.MessageDuration(),
		ShowStage:       cfg.TUI.ShowStage,
		AltScreen:       cfg.TUI.AltScreen,
		Styles:          st,
		Logger:          logger,
		WatchPath:       watchPath,
	})
	return app.Run(ctx)
}

// openSession resumes the latest unfinished session when asked and possible,
// otherwise starts a new one. A session recorded against a different revision
// of the guide is not resumed.
func openSession(store *progress.Store, w *walkthrough.Walkthrough, resume bool, logger *logging.Logger) (progress.Session, bool, error) {
	name, fp := w.Guide().Name, w.Fingerprint()
	if resume {
		sess, err := store.Resume(name, fp)
		switch {
		case err == nil:
			logger.Info("resuming session", "session_id", sess.ID, "cursor", sess.Cursor)
			return sess, true, nil
		case errors.Is(err, errors.ErrGuideChanged):
			logger.Report("guide changed since the last session, starting over", err, "session_id", sess.ID)
		case errors.Is(err, errors.ErrSessionNotFound):
			logger.Info("no unfinished session to resume")
		default:
			return progress.Session{}, false, err
		}
	}

	sess, err := store.Start(name, fp)
	if err != nil {
		return progress.Session{}, false, err
	}
	return sess, false, nil
}

// CreateLogger builds the run logger from cfg. Mirroring to stderr is only
// allowed in plain mode so log lines never tear the TUI.
func CreateLogger(cfg *config.Config, plain bool, stderr io.Writer) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	logger, err := logging.NewLogger(cfg.Logging.ResolveDir(), cfg.Logging.Level, logging.Options{
		Mirror:       plain && cfg.Logging.Stderr,
		MirrorWriter: stderr,
		Rotation:     logging.RotationMB(cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups),
	})
	if err != nil {
		// Log creation failure shouldn't prevent the application from starting
		fmt.Fprintf(stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
