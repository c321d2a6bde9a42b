package branchtag

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/branchtag/config"
)

func newConfigCmd(state *rootState) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage branchtag configuration",
		Long: `Manage branchtag configuration.

Settings are read from ~/.config/branchtag/config.yaml, then from
.branchtag.yaml at the repository root, then from BRANCHTAG_* environment
variables. Without a subcommand the effective configuration is shown.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, state)
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Display the effective configuration",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigShow(cmd, state)
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create a default user configuration file",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := config.WriteDefaultConfig()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file locations",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigPath(cmd, state)
			},
		},
	)

	return configCmd
}

// runConfigShow prints the effective configuration as YAML.
func runConfigShow(cmd *cobra.Command, state *rootState) error {
	cfg, _, err := state.loadConfig(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	stdout := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(stdout, "# Effective branchtag configuration")
	if cfg.ConfigFile() != "" {
		_, _ = fmt.Fprintf(stdout, "# Loaded from: %s\n", cfg.ConfigFile())
	} else {
		_, _ = fmt.Fprintln(stdout, "# (using defaults, no config file found)")
	}
	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintf(stdout, "format: %q\n", cfg.Format)
	_, _ = fmt.Fprintf(stdout, "branch_pattern: %q\n", cfg.BranchPattern)
	writeList(stdout, "skip_branches", cfg.SkipBranches)
	writeList(stdout, "skip_prefixes", cfg.SkipPrefixes)
	_, _ = fmt.Fprintf(stdout, "comment_char: %q\n", cfg.CommentChar)
	_, _ = fmt.Fprintf(stdout, "branch_source: %s\n", cfg.BranchSource)
	_, _ = fmt.Fprintf(stdout, "verbose: %v\n", cfg.Verbose)
	_, _ = fmt.Fprintf(stdout, "debug: %v\n", cfg.Debug)

	return nil
}

func writeList(w io.Writer, key string, items []string) {
	if len(items) == 0 {
		_, _ = fmt.Fprintf(w, "%s: []\n", key)
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\n", key)
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "  - %q\n", item)
	}
}

// runConfigPath prints where configuration is read from.
func runConfigPath(cmd *cobra.Command, state *rootState) error {
	paths := config.ResolveXDGPaths()
	cfg, projectDir, err := state.loadConfig(cmd.Context())

	stdout := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(stdout, "Configuration Paths:")
	_, _ = fmt.Fprintf(stdout, "  User config:    %s\n", paths.ConfigFilePath())
	_, _ = fmt.Fprintf(stdout, "  Project config: %s\n", config.ProjectConfigPath(projectDir))

	switch {
	case err != nil:
		_, _ = fmt.Fprintf(stdout, "\nConfiguration is invalid: %v\n", err)
	case cfg.ConfigFile() != "":
		_, _ = fmt.Fprintf(stdout, "\nActive config file: %s\n", cfg.ConfigFile())
	default:
		_, _ = fmt.Fprintln(stdout, "\nNo config file currently loaded (using defaults)")
	}

	return nil
}
