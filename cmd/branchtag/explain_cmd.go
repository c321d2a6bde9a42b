package branchtag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/branchtag/config"
	"github.com/yaklabco/branchtag/internal/hooks"
	"github.com/yaklabco/branchtag/pkg/branch"
	"github.com/yaklabco/branchtag/pkg/format"
	"github.com/yaklabco/branchtag/pkg/ui"
)

// sampleMessage is composed in the explain output to show the template at work.
const sampleMessage = "Fix the login form"

func newExplainCmd(state *rootState) *cobra.Command {
	var (
		branchName string
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain how commit messages are rewritten in this repository",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := state.loadConfigOrDefault(ctx)

			final, result := state.runtime(cfg, branchName).Rewrite(ctx, sampleMessage)
			doc := explainMarkdown(cfg, result, final)

			out := cmd.OutOrStdout()
			if raw {
				_, _ = fmt.Fprint(out, doc)
				return nil
			}
			renderMarkdown(out, doc, ui.TermWidth(out, state.opts.environment.Get("COLUMNS")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branchName, "branch", "b", "", "branch name to use instead of the checked-out branch")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering it")

	return cmd
}

// explainMarkdown describes the active configuration as a markdown document.
func explainMarkdown(cfg *config.Config, result *hooks.RunResult, final string) string {
	var b strings.Builder

	b.WriteString("# How branchtag rewrites commit messages\n\n")

	b.WriteString("## Current branch\n\n")
	switch {
	case result.Branch == "":
		b.WriteString("No branch is checked out (detached HEAD or not a repository): messages are left alone.\n\n")
	case result.Token == "":
		fmt.Fprintf(&b, "Branch `%s` has no token: messages are left alone.\n\n", result.Branch)
	default:
		fmt.Fprintf(&b, "Branch `%s` yields the token `%s`.\n\n", result.Branch, result.Token)
	}

	b.WriteString("## Template\n\n")
	fmt.Fprintf(&b, "`%s`, %s.\n\n", result.Template, describeSource(result.Source))
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "> **Warning:** %s\n\n", w)
	}
	b.WriteString("| Placeholder | Replaced with |\n|---|---|\n")
	fmt.Fprintf(&b, "| `%s` | the token taken from the branch name |\n", format.TokenPlaceholder)
	fmt.Fprintf(&b, "| `%s` | the message you wrote |\n", format.MessagePlaceholder)
	b.WriteString("| `{{` and `}}` | literal braces |\n\n")

	if result.Token != "" {
		fmt.Fprintf(&b, "For example `%s` becomes `%s`.\n\n", sampleMessage, final)
	}

	b.WriteString("## Branch names\n\n")
	b.WriteString("Tokens are the `token` group of this pattern:\n\n")
	pattern := cfg.BranchPattern
	if pattern == "" {
		pattern = branch.DefaultPattern
	}
	fmt.Fprintf(&b, "```\n%s\n```\n\n", pattern)
	if len(cfg.SkipBranches) > 0 {
		b.WriteString("Branches matching these globs never get a token:\n\n")
		b.WriteString(bulletList(cfg.SkipBranches))
	}

	b.WriteString("## Messages left alone\n\n")
	b.WriteString("- messages that already carry the token in the template's place\n")
	b.WriteString("- empty messages, including an untouched editor template\n")
	if len(cfg.SkipPrefixes) > 0 {
		b.WriteString(bulletList(lo.Map(cfg.SkipPrefixes, func(p string, _ int) string {
			return "messages starting with `" + p + "`"
		})))
	} else {
		b.WriteString("\n")
	}

	b.WriteString("## Configuration\n\n")
	if cfg.ConfigFile() != "" {
		fmt.Fprintf(&b, "Loaded from `%s`.\n", cfg.ConfigFile())
	} else {
		b.WriteString("No configuration file, using defaults. Run `branchtag config init` to create one.\n")
	}

	return b.String()
}

func describeSource(source format.Source) string {
	switch source {
	case format.SourceEnv:
		return "from the " + format.EnvVar + " environment variable"
	case format.SourceConfig:
		return "from the configuration"
	default:
		return "the built-in default"
	}
}

func bulletList(items []string) string {
	return strings.Join(lo.Map(items, func(item string, _ int) string {
		return "- " + item + "\n"
	}), "") + "\n"
}

// explainStyle returns a glamour style based on terminal background,
// with heading prefixes (##, ###) removed.
func explainStyle() ansi.StyleConfig {
	style := styles.DarkStyleConfig
	if !lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
		style = styles.LightStyleConfig
	}

	style.H2.Prefix = ""
	style.H3.Prefix = ""

	return style
}

// renderMarkdown renders markdown to styled terminal output via glamour.
// Falls back to raw text if rendering fails.
func renderMarkdown(output io.Writer, body string, width int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(explainStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		_, _ = fmt.Fprintln(output, strings.TrimSpace(body))
		return
	}

	rendered, err := renderer.Render(body)
	if err != nil {
		_, _ = fmt.Fprintln(output, strings.TrimSpace(body))
		return
	}

	_, _ = fmt.Fprint(output, rendered)
}
