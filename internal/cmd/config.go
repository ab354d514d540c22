package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/pcbuild/internal/config"
	"github.com/Iron-Ham/pcbuild/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View pcbuild configuration",
	Long: `View pcbuild configuration.

Without arguments, displays the current configuration.
Use subcommands to create a config file or list themes.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at $XDG_CONFIG_HOME/pcbuild/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in color themes",
	Long: `List the built-in color themes.

Set tui.theme to one of these names, or to the path of a theme YAML file.`,
	RunE: runConfigThemes,
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configThemesCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\nShowing defaults.\n\n", err)
		cfg = config.Default()
	}

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	return writeConfigYAML(out, cfg)
}

func writeConfigYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFile()
	if viper.GetString("config") != "" {
		path = viper.GetString("config")
	}
	if err := writeDefaultConfig(path, configInitForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
	return nil
}

// writeDefaultConfig writes the default configuration to path, refusing to
// replace an existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# pcbuild configuration")
	fmt.Fprintln(f, "# Environment variables override these values, e.g. PCBUILD_GUIDE_NAME=ram-only")
	return writeConfigYAML(f, config.Default())
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(out, used)
		return nil
	}
	fmt.Fprintf(out, "%s (not created yet; run 'pcbuild config init')\n", config.ConfigFile())
	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	current := viper.GetString("tui.theme")
	for _, name := range styles.BuiltinThemes() {
		marker := "  "
		if name == current {
			marker = "* "
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, name)
	}
	return nil
}
