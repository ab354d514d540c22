// Package history provides CLI commands for reviewing saved walkthrough
// sessions.
package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/progress"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved walkthrough sessions",
	Long: `List saved walkthrough sessions, most recent first.

Use 'history show ID' to see every step a session visited. IDs may be
shortened to any unique prefix.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the steps a session visited",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var (
	historyLimit int
	historyDB    string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum sessions to list (0 for all)")
	historyCmd.PersistentFlags().StringVar(&historyDB, "db", "", "progress database (default from config)")
}

// Register adds the history command and its subcommands to parent.
func Register(parent *cobra.Command) {
	historyCmd.AddCommand(showCmd)
	parent.AddCommand(historyCmd)
}

func openStore() (*progress.Store, error) {
	path := historyDB
	if path == "" {
		path = config.Get().Progress.ResolveDBPath()
	}
	return progress.Open(path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sessions, err := store.List(historyLimit)
	if err != nil {
		return err
	}
	writeSessions(cmd.OutOrStdout(), sessions, time.Now())
	return nil
}

func writeSessions(w io.Writer, sessions []progress.Session, now time.Time) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet. Run 'pcbuild run' to start one.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-10s %-16s %-8s %-12s %-8s %s", "ID", "GUIDE", "STEP", "STATUS", "VISITS", "UPDATED")))
	for _, s := range sessions {
		status := "in progress"
		if s.Completed {
			status = doneStyle.Render(fmt.Sprintf("%-11s", "complete"))
		}
		fmt.Fprintf(w, "%-10s %-16s %-8d %-12s %-8s %s\n",
			shortID(s.ID), s.Guide, s.Cursor, status,
			humanize.Comma(int64(s.Visits)),
			mutedStyle.Render(humanize.RelTime(s.UpdatedAt, now, "ago", "from now")),
		)
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sess, err := findSession(store, args[0])
	if err != nil {
		return err
	}
	visits, err := store.Visits(sess.ID)
	if err != nil {
		return err
	}
	writeSession(cmd.OutOrStdout(), sess, visits)
	return nil
}

// findSession looks a session up by full ID or unique prefix.
func findSession(store *progress.Store, id string) (progress.Session, error) {
	sess, err := store.Get(id)
	if err == nil || !errors.Is(err, errors.ErrSessionNotFound) {
		return sess, err
	}

	all, listErr := store.List(0)
	if listErr != nil {
		return progress.Session{}, listErr
	}
	var matches []progress.Session
	for _, s := range all {
		if strings.HasPrefix(s.ID, id) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return progress.Session{}, err
	case 1:
		return matches[0], nil
	}
	return progress.Session{}, errors.NewSessionError(
		fmt.Sprintf("session prefix %q is ambiguous (%d matches)", id, len(matches)), errors.ErrInvalidInput)
}

func writeSession(w io.Writer, s progress.Session, visits []progress.Visit) {
	status := "in progress"
	if s.Completed {
		status = "complete"
	}
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Session"), s.ID)
	fmt.Fprintf(w, "guide:    %s (%s)\n", s.Guide, shortID(s.Fingerprint))
	fmt.Fprintf(w, "status:   %s at step %d\n", status, s.Cursor)
	fmt.Fprintf(w, "started:  %s (%s)\n", s.StartedAt.Local().Format(time.DateTime), humanize.Time(s.StartedAt))
	fmt.Fprintf(w, "visits:   %s\n\n", humanize.Comma(int64(len(visits))))

	for _, v := range visits {
		line := fmt.Sprintf("%4d  %-8s %2d %-20s", v.Seq, v.Op, v.StepIndex, v.StepID)
		switch {
		case v.Error != "":
			line += " " + errorStyle.Render("error: "+v.Error)
		case v.Clamped:
			line += " " + mutedStyle.Render("(clamped)")
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
