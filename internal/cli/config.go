package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/chaz8081/gardnr/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write gardnr settings",
	Long: `Settings live in $XDG_CONFIG_HOME/gardnr/config.yaml. Every key can be
overridden from the environment with a GARDNR_ prefix, for example
GARDNR_AUTO_INSTALL=yes or GARDNR_GIT_AUTHOR_NAME="Ada".

Keys:
  auto_install      yes, no or ask (default ask)
  store_path        project store file
  tech_table        extra technology table merged into the built-in one
  git.author_name   initial commit author
  git.author_email  initial commit email`,
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print one setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Store one setting in the config file",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := config.Set(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatConfig(cfg))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where configuration and the project store live",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		writePaths(cmd.OutOrStdout(), configFilePath(), cfg)
		return nil
	},
}

func configFilePath() string {
	if configPath != "" {
		return configPath
	}
	return config.FilePath()
}

// formatConfig renders key = value lines in key order.
func formatConfig(cfg *config.Config) string {
	var b strings.Builder
	for _, k := range config.Keys {
		v, _ := cfg.Get(k)
		if v == "" {
			v = "(unset)"
		}
		fmt.Fprintf(&b, "%-17s = %s\n", k, v)
	}
	return b.String()
}

func writePaths(w io.Writer, file string, cfg *config.Config) {
	status := "[not found]"
	if cfg.File != "" {
		status = "[found]"
	}
	fmt.Fprintf(w, "Config file:    %s  %s\n", file, status)
	fmt.Fprintf(w, "Project store:  %s\n", cfg.StorePath)
	if cfg.TechTable != "" {
		fmt.Fprintf(w, "Tech table:     %s\n", cfg.TechTable)
	}
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
