package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotGitRepo is returned when the directory is not inside a Git repository.
var ErrNotGitRepo = errors.New("not a git repository")

// GitRepo holds information about a Git repository.
type GitRepo struct {
	// RootDir is the absolute path to the repository root.
	RootDir string

	// GitDir is the absolute path to the .git directory (or gitdir for worktrees).
	GitDir string

	// customHooksPath is the value of core.hooksPath if set, empty otherwise.
	customHooksPath string
}

// FindGitRepo locates the Git repository from the given directory.
// If dir is empty, the current working directory is used.
func FindGitRepo(dir string) (*GitRepo, error) {
	return FindGitRepoContext(context.Background(), dir)
}

// FindGitRepoContext locates the Git repository from the given directory with context.
// If dir is empty, the current working directory is used.
func FindGitRepoContext(ctx context.Context, dir string) (*GitRepo, error) {
	absDir, err := absDir(dir)
	if err != nil {
		return nil, err
	}

	rootDir, err := gitOutput(ctx, absDir, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, absDir)
	}

	// --git-common-dir so hooks installed from a linked worktree land in the
	// shared hooks directory.
	gitDir, err := gitOutput(ctx, absDir, nil, "rev-parse", "--git-common-dir")
	if err != nil {
		return nil, fmt.Errorf("finding git directory: %w", err)
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(absDir, gitDir)
	}

	// Resolve symlinks to get canonical paths (important on macOS where
	// /var is a symlink to /private/var)
	rootDir, err = filepath.EvalSymlinks(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolving root dir symlinks: %w", err)
	}
	gitDir, err = filepath.EvalSymlinks(gitDir)
	if err != nil {
		return nil, fmt.Errorf("resolving git dir symlinks: %w", err)
	}

	// Empty is valid: core.hooksPath is usually unset.
	customHooksPath, err := gitOutput(ctx, absDir, nil, "config", "--get", "core.hooksPath")
	if err != nil {
		customHooksPath = ""
	}

	return &GitRepo{
		RootDir:         filepath.Clean(rootDir),
		GitDir:          filepath.Clean(gitDir),
		customHooksPath: customHooksPath,
	}, nil
}

// HooksPath returns the effective hooks directory for this repository.
// If core.hooksPath is configured, that path is returned (resolved relative to RootDir if relative).
// Otherwise, returns <GitDir>/hooks.
func (r *GitRepo) HooksPath() string {
	if r.customHooksPath != "" {
		if !filepath.IsAbs(r.customHooksPath) {
			return filepath.Join(r.RootDir, r.customHooksPath)
		}
		return r.customHooksPath
	}
	return filepath.Join(r.GitDir, "hooks")
}

// HasCustomHooksPath returns true if core.hooksPath is configured.
func (r *GitRepo) HasCustomHooksPath() bool {
	return r.customHooksPath != ""
}

// dirPerm is the permission mode for directories.
const dirPerm = 0o755

// EnsureHooksDir creates the hooks directory if it doesn't exist.
func (r *GitRepo) EnsureHooksDir() error {
	return os.MkdirAll(r.HooksPath(), dirPerm)
}

// HookPath returns the full path to a specific hook file.
func (r *GitRepo) HookPath(hookName string) string {
	return filepath.Join(r.HooksPath(), hookName)
}

// gitOutput runs a git command and returns the trimmed stdout. A nil environ
// inherits the process environment.
func gitOutput(ctx context.Context, dir string, environ []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = environ

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// GitCommentChar returns core.commentChar as git sees it from dir, or the
// empty string when it is unset, set to "auto", or git cannot be run.
func GitCommentChar(ctx context.Context, dir string, environ []string) string {
	value, err := gitOutput(ctx, dir, environ, "config", "--get", "core.commentChar")
	if err != nil || value == "auto" {
		return ""
	}
	return value
}

func absDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return abs, nil
}
