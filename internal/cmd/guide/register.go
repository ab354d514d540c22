// Package guide provides CLI commands for listing, inspecting and checking
// walkthrough guides.
package guide

import "github.com/spf13/cobra"

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "List, inspect and check guides",
	Long: `List, inspect and check guides.

Built-in guides are addressed by name. Any command that takes a name also
accepts --file to work on a guide YAML file instead.`,
}

// Register adds the guide command and its subcommands to parent.
func Register(parent *cobra.Command) {
	guideCmd.AddCommand(listCmd)
	guideCmd.AddCommand(showCmd)
	guideCmd.AddCommand(checkCmd)
	parent.AddCommand(guideCmd)
}
