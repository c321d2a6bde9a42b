package branchtag

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/yaklabco/branchtag/internal/hooks"
	"github.com/yaklabco/branchtag/pkg/ui"
)

const previewIndent = "  "

func newPreviewCmd(state *rootState) *cobra.Command {
	var branchName string

	cmd := &cobra.Command{
		Use:   "preview [message]",
		Short: "Show what the hook would make of a commit message",
		Long: `Show what the hook would make of a commit message, without touching
any file. The message is read from standard input when no argument is given.
Without --branch the checked-out branch is used.`,
		Example: `	branchtag preview --branch feature/ABC-123-login "Fix login"
	git log -1 --format=%B | branchtag preview`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var raw string
			if len(args) == 1 {
				raw = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading message from stdin: %w", err)
				}
				raw = string(data)
			}

			cfg := state.loadConfigOrDefault(ctx)
			final, result := state.runtime(cfg, branchName).Rewrite(ctx, raw)

			out := cmd.OutOrStdout()
			width := ui.TermWidth(out, state.opts.environment.Get("COLUMNS"))
			renderPreview(out, width, raw, final, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branchName, "branch", "b", "", "branch name to use instead of the checked-out branch")

	return cmd
}

// renderPreview prints the lookup details followed by the message before and
// after rewriting.
func renderPreview(out io.Writer, width int, raw, final string, result *hooks.RunResult) {
	styles := ui.MessageStyles()

	branchName := result.Branch
	if branchName == "" {
		branchName = "(detached or unknown)"
	}
	token := result.Token
	if token == "" {
		token = "(none)"
	}

	field := func(label, value string) {
		_, _ = lipgloss.Fprintln(out, styles.Label.Render(label+":"), value)
	}
	field("Branch", branchName)
	field("Token", token)
	field("Template", fmt.Sprintf("%s (%s)", result.Template, result.Source))
	for _, w := range result.Warnings {
		field("Warning", w)
	}

	_, _ = lipgloss.Fprintln(out)
	_, _ = lipgloss.Fprintln(out, styles.Label.Render("Before:"))
	_, _ = lipgloss.Fprintln(out, styles.Before.Render(indentBlock(raw, width)))
	_, _ = lipgloss.Fprintln(out, styles.Label.Render("After:"))
	if final == raw {
		_, _ = lipgloss.Fprintln(out, previewIndent+styles.Unchanged.Render("(unchanged)"))
		return
	}
	_, _ = lipgloss.Fprintln(out, styles.After.Render(indentBlock(final, width)))
}

// indentBlock wraps s to fit width after indenting.
func indentBlock(s string, width int) string {
	wrapped := ui.Wrap(strings.TrimRight(s, "\n"), width-len(previewIndent))
	return previewIndent + strings.ReplaceAll(wrapped, "\n", "\n"+previewIndent)
}
