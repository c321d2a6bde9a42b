package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/yaklabco/branchtag/config"
	"github.com/yaklabco/branchtag/internal/env"
	"github.com/yaklabco/branchtag/internal/log"
)

// BranchProvider reports the short name of the checked-out branch. An empty
// name with a nil error means HEAD is detached.
type BranchProvider interface {
	CurrentBranch(ctx context.Context) (string, error)
}

// BranchProviderFunc adapts a function to BranchProvider.
type BranchProviderFunc func(ctx context.Context) (string, error)

// CurrentBranch implements BranchProvider.
func (f BranchProviderFunc) CurrentBranch(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticBranchProvider always reports the same branch.
type StaticBranchProvider string

// CurrentBranch implements BranchProvider.
func (s StaticBranchProvider) CurrentBranch(context.Context) (string, error) {
	return string(s), nil
}

// GoGitBranchProvider reads HEAD with go-git, without spawning git.
type GoGitBranchProvider struct {
	// Dir is any directory inside the repository. Empty means the working directory.
	Dir string
}

// CurrentBranch implements BranchProvider. HEAD is read without resolving it,
// so an unborn branch (before the first commit) is still reported.
func (p GoGitBranchProvider) CurrentBranch(context.Context) (string, error) {
	dir, err := absDir(p.Dir)
	if err != nil {
		return "", err
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
		}
		return "", fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), nil
	}
	return "", nil
}

// GitCLIBranchProvider asks the git binary for the current branch. While a
// rebase is stopped (for example to reword a commit) HEAD is detached, so it
// falls back to the branch being rebased.
type GitCLIBranchProvider struct {
	// Dir is any directory inside the repository. Empty means the working directory.
	Dir string

	// Env is the environment for git. Nil inherits the process environment.
	Env env.Snapshot
}

// exitDetached is the status of `git symbolic-ref --quiet` when HEAD is not a
// symbolic ref.
const exitDetached = 1

// rebaseHeadFiles hold the original branch of an in-progress rebase.
//
//nolint:gochecknoglobals // fixed lookup list
var rebaseHeadFiles = []string{"rebase-merge/head-name", "rebase-apply/head-name"}

// CurrentBranch implements BranchProvider.
func (p GitCLIBranchProvider) CurrentBranch(ctx context.Context) (string, error) {
	dir, err := absDir(p.Dir)
	if err != nil {
		return "", err
	}

	var environ []string
	if p.Env != nil {
		environ = p.Env.Assignments()
	}

	name, err := gitOutput(ctx, dir, environ, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err == nil && name != "" {
		return name, nil
	}

	var exitErr *exec.ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.ExitCode() != exitDetached) {
		return "", fmt.Errorf("querying current branch: %w", err)
	}

	for _, file := range rebaseHeadFiles {
		path, err := gitOutput(ctx, dir, environ, "rev-parse", "--git-path", file)
		if err != nil {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		ref := plumbing.ReferenceName(strings.TrimSpace(string(data)))
		if ref.IsBranch() {
			slog.Debug("using branch of in-progress rebase",
				slog.String(log.Branch, ref.Short()),
				slog.String(log.Path, path))
			return ref.Short(), nil
		}
	}

	return "", nil
}

// ChainBranchProvider asks each provider in turn and returns the first
// non-empty branch name. Errors are only returned when every provider failed.
type ChainBranchProvider []BranchProvider

// CurrentBranch implements BranchProvider.
func (c ChainBranchProvider) CurrentBranch(ctx context.Context) (string, error) {
	var errs []error
	for _, p := range c {
		name, err := p.CurrentBranch(ctx)
		if err != nil {
			slog.Debug("branch provider failed", slog.Any(log.Error, err))
			errs = append(errs, err)
			continue
		}
		if name != "" {
			return name, nil
		}
	}

	if len(errs) == len(c) && len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	return "", nil
}

// NewBranchProvider returns the provider selected by a config.BranchSource*
// value. Unknown values select the automatic chain.
func NewBranchProvider(source, dir string, environment env.Snapshot) BranchProvider {
	goGit := GoGitBranchProvider{Dir: dir}
	cli := GitCLIBranchProvider{Dir: dir, Env: environment}

	switch source {
	case config.BranchSourceGoGit:
		return goGit
	case config.BranchSourceGit:
		return cli
	default:
		return ChainBranchProvider{goGit, cli}
	}
}
