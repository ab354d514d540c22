// Package cmd implements the pcbuild command line.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/pcbuild/internal/cmd/guide"
	"github.com/Iron-Ham/pcbuild/internal/cmd/history"
	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "pcbuild",
	Short: "Guided PC assembly walkthrough",
	Long: `pcbuild walks you through assembling a desktop PC one step at a time.

Guides are YAML files describing each step: the message to show, the scene
to anchor, the milestone panel and which controls are available. Progress
is saved so an interrupted build can be resumed.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit status:
// 2 when a guide, step or saved session is at fault, 1 for anything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsDomainError(err):
		return 2
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/pcbuild/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	guide.Register(rootCmd)
	history.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PCBUILD")
	// e.g. PCBUILD_TUI_MESSAGE_SECONDS for tui.message_seconds
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
