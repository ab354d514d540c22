package guide

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/pcbuild/internal/guide"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in guides",
	Long: `List built-in guides.

Use --match with a glob to filter, e.g. --match 'pc-*' or --match '{ram,cpu}-*'.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a guide's parts and steps",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var (
	listMatch string
	showFile  string
)

func init() {
	listCmd.Flags().StringVarP(&listMatch, "match", "m", "", "glob pattern to filter guide names")
	showCmd.Flags().StringVarP(&showFile, "file", "f", "", "guide YAML file")
}

func runList(cmd *cobra.Command, args []string) error {
	names, err := guide.Match(listMatch)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No guides match.")
		return nil
	}
	for _, name := range names {
		g, err := guide.Builtin(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-16s %-28s %s\n", name, g.Title, mutedStyle.Render(fmt.Sprintf("%d steps", len(g.Steps))))
	}
	return nil
}

// resolveArg picks the guide from --file or the positional name, defaulting
// to the built-in default guide.
func resolveArg(args []string, file string) (*guide.Guide, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if name != "" && file != "" {
		return nil, fmt.Errorf("give a guide name or --file, not both")
	}
	return guide.Resolve(name, file)
}

func runShow(cmd *cobra.Command, args []string) error {
	g, err := resolveArg(args, showFile)
	if err != nil {
		return err
	}
	writeGuide(cmd.OutOrStdout(), g)
	return nil
}

func writeGuide(w io.Writer, g *guide.Guide) {
	fmt.Fprintf(w, "%s (%s)\n", titleStyle.Render(g.Title), g.Name)
	if g.Description != "" {
		fmt.Fprintln(w, g.Description)
	}
	fmt.Fprintf(w, "retreat floor: step %d\n", g.Floor)

	if len(g.Parts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Parts"))
		for _, p := range g.Parts {
			fmt.Fprintf(w, "  %-14s %s\n", p.Name, mutedStyle.Render(p.Description))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Steps"))
	for i, s := range g.Steps {
		kinds := make([]string, 0, len(s.Actions))
		for _, a := range s.Actions {
			kinds = append(kinds, a.Kind())
		}
		title := s.Title
		if title == "" {
			title = s.ID
		}
		fmt.Fprintf(w, "  %2d  %-20s %-28s %s\n", i, s.ID, title, mutedStyle.Render(strings.Join(kinds, ", ")))
	}
}
