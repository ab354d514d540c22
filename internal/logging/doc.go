// Package logging provides structured logging for pcbuild walkthroughs.
//
// Records are JSON lines written by log/slog to {dir}/pcbuild.log. When
// Options.Mirror is set, records at or above Options.MirrorLevel are also
// written as text to a second writer (stderr by default) through a
// slog-multi fan-out handler. The TUI never enables the mirror because the
// alternate screen owns the terminal.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(cfg.Logging.Dir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	stepLog := logger.WithGuide("pc-assembly").WithStep(3, "ram-insert")
//	stepLog.Info("step entered")
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"step entered","guide":"pc-assembly","step":3,"step_id":"ram-insert"}
package logging
