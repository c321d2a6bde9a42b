package branchtag

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yaklabco/branchtag/internal/hooks"
	"github.com/yaklabco/branchtag/internal/log"
)

func newCommitMsgCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   hooks.CommitMsgHook + " <message-file>",
		Short: "Rewrite a commit message file (run by git)",
		Long: `Rewrite the commit message file git passes to the commit-msg hook.

Only failures to read or write the file make this command fail. A branch
without a token, a detached HEAD or a broken configuration leave the message
as it is, so the commit always goes ahead.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := state.loadConfigOrDefault(ctx)

			result, err := state.runtime(cfg, "").Run(ctx, args[0])
			if err != nil {
				return err
			}

			if state.verbose || cfg.Verbose {
				switch {
				case result.Disabled:
				case result.Changed:
					log.SimpleConsoleLogger.Printf("tagged commit message with %s", result.Token)
				case result.Token == "":
					log.SimpleConsoleLogger.Printf("no token in branch %q", result.Branch)
				default:
					log.SimpleConsoleLogger.Printf("commit message already tagged with %s", result.Token)
				}
			}
			return nil
		},
	}
}

func newInstallCmd(state *rootState) *cobra.Command {
	var (
		force  bool
		binary string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the commit-msg hook in the current repository",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := hooks.FindGitRepoContext(cmd.Context(), state.dir)
			if err != nil {
				return err
			}

			result, err := hooks.Install(repo, hooks.ScriptParams{Binary: binary}, force)
			if err != nil {
				return err
			}
			slog.Info("hook installed",
				slog.String(log.Path, result.Path),
				slog.Bool("overwrote", result.Overwrote))

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Installed %s hook: %s\n", hooks.CommitMsgHook, result.Path)
			if result.Overwrote && !result.WasManaged {
				_, _ = fmt.Fprintln(out, "Replaced an existing hook that was not installed by branchtag.")
			}
			if result.CustomHooks {
				_, _ = fmt.Fprintf(out, "Note: core.hooksPath is set, hooks are read from %s\n", repo.HooksPath())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing hook that branchtag did not install")
	cmd.Flags().StringVar(&binary, "binary", "", "branchtag executable the hook runs (default: branchtag on PATH)")

	return cmd
}

func newUninstallCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the commit-msg hook installed by branchtag",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := hooks.FindGitRepoContext(cmd.Context(), state.dir)
			if err != nil {
				return err
			}

			path := repo.HookPath(hooks.CommitMsgHook)
			removed, err := hooks.RemoveHookScript(path)
			if err != nil {
				return fmt.Errorf("removing %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			if removed {
				_, _ = fmt.Fprintf(out, "Removed %s hook: %s\n", hooks.CommitMsgHook, path)
			} else {
				_, _ = fmt.Fprintf(out, "No branchtag hook at %s\n", path)
			}
			return nil
		},
	}
}
