package branchtag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	cblog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/branchtag/cmd/branchtag/version"
	"github.com/yaklabco/branchtag/config"
	"github.com/yaklabco/branchtag/internal/env"
	"github.com/yaklabco/branchtag/internal/hooks"
	"github.com/yaklabco/branchtag/internal/log"
)

const (
	shortDescription = "branchtag adds the ticket ID from the current branch name to your commit messages."
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks command-line mistakes.
var errUsage = errors.New("usage")

type rootCmdOptions struct {
	stdout      io.Writer
	stderr      io.Writer
	environment env.Snapshot
}

type Option func(*rootCmdOptions)

// withOutput redirects command and log output; used by tests.
func withOutput(stdout, stderr io.Writer) Option {
	return func(opts *rootCmdOptions) {
		opts.stdout = stdout
		opts.stderr = stderr
	}
}

// withEnv replaces the captured process environment; used by tests.
func withEnv(environment env.Snapshot) Option {
	return func(opts *rootCmdOptions) {
		opts.environment = environment
	}
}

// rootState is shared by all subcommands of one root command.
type rootState struct {
	opts *rootCmdOptions

	debug   bool
	verbose bool
	dir     string

	logger *cblog.Logger
}

func NewRootCmd(ctx context.Context, opts ...Option) *cobra.Command {
	rootCmdOpts := &rootCmdOptions{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(rootCmdOpts)
	}
	if rootCmdOpts.environment == nil {
		rootCmdOpts.environment = env.Capture()
	}

	state := &rootState{opts: rootCmdOpts}

	rootCmd := &cobra.Command{
		Use:   "branchtag",
		Short: shortDescription,
		Long: shortDescription + `

Installed as a git commit-msg hook, branchtag reads the ticket ID from the
checked-out branch (for example ABC-123 from feature/ABC-123-login) and
rewrites the commit message through a template, "[{token}] {message}" by
default. Set COMMIT_MESSAGE_FORMAT to override the template for one shell.`,
		Example: `	# Install the hook in the current repository
	branchtag install

	# See what a commit message would become
	branchtag preview --branch feature/ABC-123-login "Fix login"

	# Use a suffix instead of a prefix
	COMMIT_MESSAGE_FORMAT="{message} ({token})" git commit -m "Fix login"

	# Explain the active configuration
	branchtag explain`,
		Version:       version.Read(ctx).Colorized(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			state.logger = log.SetupPrettyLogger(rootCmdOpts.stderr)
			state.logger.SetLevel(log.Level(state.debug, state.verbose))
		},
	}
	rootCmd.SetOut(rootCmdOpts.stdout)
	rootCmd.SetErr(rootCmdOpts.stderr)

	// Flags.
	rootCmd.PersistentFlags().BoolVarP(&state.debug, "debug", "d",
		rootCmdOpts.environment.FailsafeBool(config.EnvDebug, false), "turn on debug messages")
	rootCmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v",
		rootCmdOpts.environment.FailsafeBool(config.EnvVerbose, false), "show what branchtag is doing")
	rootCmd.PersistentFlags().StringVarP(&state.dir, "dir", "C", "", "run as if started in this directory")

	rootCmd.AddCommand(
		newCommitMsgCmd(state),
		newInstallCmd(state),
		newUninstallCmd(state),
		newPreviewCmd(state),
		newExplainCmd(state),
		newConfigCmd(state),
	)

	return rootCmd
}

// ExecuteWithFang runs the root Cobra command with Fang-specific options.
// It accepts a context and a root Cobra command as input parameters.
// Returns an error if the command execution fails.
func ExecuteWithFang(ctx context.Context, rootCmd *cobra.Command) error {
	//nolint:wrapcheck // top-level error from cobra, wrapping not needed
	return fang.Execute(
		ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}

// ExitCode maps an error returned by ExecuteWithFang to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	default:
		return exitError
	}
}

// HookArgs returns the arguments to run with when the binary was invoked
// through a link named after the hook (.git/hooks/commit-msg -> branchtag),
// or nil for a normal invocation.
func HookArgs(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	base := filepath.Base(argv[0])
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base != hooks.CommitMsgHook {
		return nil
	}
	return append([]string{hooks.CommitMsgHook}, argv[1:]...)
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}

// loadConfig reads the configuration for the repository containing the
// working directory and applies the configured log level. The returned
// directory is the repository root, or the working directory outside a
// repository.
func (s *rootState) loadConfig(ctx context.Context) (*config.Config, string, error) {
	projectDir := s.dir
	if repo, err := hooks.FindGitRepoContext(ctx, s.dir); err == nil {
		projectDir = repo.RootDir
	} else {
		slog.Debug("not inside a git repository", slog.String(log.Dir, s.dir), slog.Any(log.Error, err))
	}

	cfg, err := config.Load(&config.LoadOptions{
		ProjectDir: projectDir,
		Stderr:     s.opts.stderr,
		Env:        s.opts.environment,
	})
	if err != nil {
		return nil, projectDir, err
	}

	if s.logger != nil {
		s.logger.SetLevel(log.Level(s.debug || cfg.Debug, s.verbose || cfg.Verbose))
	}
	slog.Debug("configuration loaded", slog.String(log.ConfigFile, cfg.ConfigFile()))

	return cfg, projectDir, nil
}

// loadConfigOrDefault is loadConfig for commands that must keep working with
// a broken configuration.
func (s *rootState) loadConfigOrDefault(ctx context.Context) *config.Config {
	cfg, _, err := s.loadConfig(ctx)
	if err != nil {
		slog.Warn("ignoring invalid configuration", slog.Any(log.Error, err))
		return config.DefaultConfig()
	}
	return cfg
}

// runtime builds the message rewriter for cfg. A non-empty branchName
// replaces the repository lookup.
func (s *rootState) runtime(cfg *config.Config, branchName string) *hooks.Runtime {
	var provider hooks.BranchProvider = hooks.StaticBranchProvider(branchName)
	if branchName == "" {
		provider = hooks.NewBranchProvider(cfg.BranchSource, s.dir, s.opts.environment)
	}
	return &hooks.Runtime{
		Config:         cfg,
		Branches:       provider,
		Env:            s.opts.environment,
		Stderr:         s.opts.stderr,
		GitCommentChar: s.gitCommentChar,
	}
}

func (s *rootState) gitCommentChar(ctx context.Context) string {
	return hooks.GitCommentChar(ctx, s.dir, s.opts.environment.Assignments())
}
