package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/yaklabco/branchtag/config"
	"github.com/yaklabco/branchtag/internal/env"
	"github.com/yaklabco/branchtag/internal/log"
	"github.com/yaklabco/branchtag/pkg/branch"
	"github.com/yaklabco/branchtag/pkg/format"
	"github.com/yaklabco/branchtag/pkg/message"
)

// EnvHooks disables the hook when set to "0" and traces the installed script
// when set to "debug".
const EnvHooks = "BRANCHTAG_HOOKS"

// Runtime rewrites commit message files.
type Runtime struct {
	// Config holds the branch grammar, default template and message options.
	Config *config.Config

	// Branches reports the checked-out branch.
	Branches BranchProvider

	// Env is the environment snapshot COMMIT_MESSAGE_FORMAT is read from.
	Env env.Snapshot

	// Stderr is where configuration warnings are written.
	Stderr io.Writer

	// GitCommentChar reports git's comment character. It is consulted when
	// the configuration leaves comment_char empty.
	GitCommentChar func(ctx context.Context) string
}

// RunResult holds the outcome of processing one message.
type RunResult struct {
	// Branch is the branch name reported by the provider, empty if unknown.
	Branch string

	// Token is the identifier extracted from Branch, empty if none.
	Token string

	// Template is the template that was applied.
	Template format.Template

	// Source tells where Template came from.
	Source format.Source

	// Changed is true when the message was rewritten.
	Changed bool

	// Disabled is true if the hook was disabled via BRANCHTAG_HOOKS=0.
	Disabled bool

	// Warnings lists configuration problems that were worked around.
	Warnings []string
}

// NewRuntime creates a Runtime reading the process environment, with the
// branch provider selected by cfg.
func NewRuntime(cfg *config.Config, dir string) *Runtime {
	environment := env.Capture()
	runtime := &Runtime{
		Config:   cfg,
		Branches: NewBranchProvider(cfg.BranchSource, dir, environment),
		Env:      environment,
		Stderr:   os.Stderr,
	}
	runtime.GitCommentChar = func(ctx context.Context) string {
		return GitCommentChar(ctx, dir, environment.Assignments())
	}
	return runtime
}

// Run rewrites the commit message file at path in place. The only errors it
// returns are I/O failures: a missing branch, a branch without a token or a
// broken template all leave the file untouched or degrade gracefully.
func (r *Runtime) Run(ctx context.Context, path string) (*RunResult, error) {
	if r.Disabled() {
		slog.Debug("hook disabled via environment", slog.String(log.Hook, CommitMsgHook))
		r.warnf("branchtag: hook disabled (%s=0)\n", EnvHooks)
		return &RunResult{Disabled: true}, nil
	}

	raw, mode, err := readMessage(path)
	if err != nil {
		return &RunResult{}, err
	}

	final, result := r.Rewrite(ctx, raw)
	for _, w := range result.Warnings {
		r.warnf("branchtag: %s\n", w)
	}

	if final == raw {
		slog.Debug("commit message unchanged", slog.String(log.Path, path))
		return result, nil
	}

	if !utf8.ValidString(final) {
		// Only reachable when the original was not valid UTF-8 either.
		slog.Warn("composed message is not valid UTF-8, keeping the original", slog.String(log.Path, path))
		return result, nil
	}

	if err := writeMessage(path, final, mode); err != nil {
		return result, err
	}
	result.Changed = true

	slog.Info("commit message rewritten",
		slog.String(log.Branch, result.Branch),
		slog.String(log.Token, result.Token),
		slog.String(log.Path, path))

	return result, nil
}

// Rewrite computes the final message for raw without touching any file.
func (r *Runtime) Rewrite(ctx context.Context, raw string) (string, *RunResult) {
	cfg := r.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	result := &RunResult{}

	resolution := format.Resolve(r.Env.Lookup, cfg.Format)
	result.Template = resolution.Template
	result.Source = resolution.Source
	if err := resolution.Template.Validate(); err != nil {
		msg := fmt.Sprintf("%s template %q: %v", resolution.Source, string(resolution.Template), err)
		if errors.Is(err, format.ErrMissingMessage) {
			msg += "; keeping the message after the rendered template"
		}
		result.Warnings = append(result.Warnings, msg)
	}

	if r.Branches == nil {
		return raw, result
	}
	name, err := r.Branches.CurrentBranch(ctx)
	if err != nil {
		slog.Debug("could not determine current branch", slog.Any(log.Error, err))
		return raw, result
	}
	result.Branch = name

	extractor, err := cfg.Extractor()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%v; using the default branch pattern", err))
		extractor = branch.Default()
	}

	token, ok := extractor.Extract(name)
	if !ok {
		slog.Debug("branch has no token",
			slog.String(log.Branch, name),
			slog.Bool("skipped", extractor.Skipped(name)))
		return raw, result
	}
	result.Token = token

	slog.Debug("composing message",
		slog.String(log.Token, token),
		slog.String(log.Template, string(resolution.Template)),
		slog.String(log.Source, string(resolution.Source)))

	return message.Compose(token, raw, resolution.Template, r.composeOptions(ctx, cfg)...), result
}

func (r *Runtime) composeOptions(ctx context.Context, cfg *config.Config) []message.Option {
	opts := cfg.ComposeOptions()
	if cfg.CommentChar == "" && r.GitCommentChar != nil {
		if c := r.GitCommentChar(ctx); c != "" {
			slog.Debug("using git comment character", slog.String("comment_char", c))
			opts = append(opts, message.WithCommentChar(c))
		}
	}
	return opts
}

// Disabled reports whether BRANCHTAG_HOOKS=0.
func (r *Runtime) Disabled() bool {
	return r.Env.Get(EnvHooks) == "0"
}

func (r *Runtime) warnf(msg string, args ...any) {
	if r.Stderr != nil {
		_, _ = fmt.Fprintf(r.Stderr, msg, args...)
	}
}

// readMessage reads the whole message file before anything is written back.
func readMessage(path string) (string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("reading commit message: %w", err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("reading commit message: %s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("reading commit message: %w", err)
	}
	return string(data), info.Mode().Perm(), nil
}

// writeMessage truncates and rewrites path, reporting close errors.
func writeMessage(path, content string, mode os.FileMode) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("writing commit message: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("closing commit message: %w", closeErr))
		}
	}()

	if _, err := io.WriteString(file, content); err != nil {
		return fmt.Errorf("writing commit message: %w", err)
	}
	return nil
}
