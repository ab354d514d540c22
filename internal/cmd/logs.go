package cmd

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View walkthrough logs",
	Long: `View and filter pcbuild's log, including rotated backups.

Examples:
  # Last 50 records
  pcbuild logs

  # Everything one session logged
  pcbuild logs -s 0a1b2c -n 0

  # Warnings and errors from the last hour
  pcbuild logs --level warn --since 1h

  # Export a guide's records as CSV
  pcbuild logs --guide ram-only --format csv -n 0 > ram.csv`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsSession string
	logsGuide   string
	logsTail    int
	logsLevel   string
	logsSince   string
	logsGrep    string
	logsFormat  string
	logsDir     string
)

var logLevelStyles = map[string]lipgloss.Style{
	logging.LevelDebug: lipgloss.NewStyle().Faint(true),
	logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")),
	logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
	logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVarP(&logsSession, "session", "s", "", "session ID or prefix")
	logsCmd.Flags().StringVarP(&logsGuide, "guide", "g", "", "only records for this guide")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "number of records to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "only records newer than this duration (e.g. 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "only records matching this regular expression")
	logsCmd.Flags().StringVar(&logsFormat, "format", logging.FormatText, "output format (text/json/csv)")
	logsCmd.Flags().StringVar(&logsDir, "dir", "", "log directory (default from config)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	filter, err := buildLogFilter(time.Now())
	if err != nil {
		return err
	}
	if !slices.Contains(logging.ValidFormats(), strings.ToLower(logsFormat)) {
		return fmt.Errorf("unsupported format %q (use %s)", logsFormat, strings.Join(logging.ValidFormats(), ", "))
	}

	dir := logsDir
	if dir == "" {
		dir = config.Get().Logging.ResolveDir()
	}
	entries, err := logging.ReadEntries(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(cmd.OutOrStdout(), "No logs found in %s\n", dir)
			return nil
		}
		return err
	}

	entries = logging.Tail(logging.FilterEntries(entries, filter), logsTail)
	return writeLogs(cmd.OutOrStdout(), entries, logsFormat)
}

func buildLogFilter(now time.Time) (logging.Filter, error) {
	filter := logging.Filter{
		Level:     logsLevel,
		SessionID: logsSession,
		Guide:     logsGuide,
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return filter, fmt.Errorf("invalid --since duration: %w", err)
		}
		filter.Since = now.Add(-d)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return filter, fmt.Errorf("invalid --grep pattern: %w", err)
		}
		filter.Pattern = re
	}
	return filter, nil
}

func writeLogs(w io.Writer, entries []logging.Entry, format string) error {
	if strings.ToLower(format) != logging.FormatText {
		return logging.WriteEntries(w, entries, format)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
		return nil
	}
	for _, e := range entries {
		line := logging.FormatEntry(e)
		if style, ok := logLevelStyles[strings.ToUpper(e.Level)]; ok {
			line = style.Render(line)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
