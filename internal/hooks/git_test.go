package hooks

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initRepo creates an empty repository in a temp dir and returns its
// symlink-resolved path. The test is skipped when git is not installed.
func initRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}

	// Resolve symlinks (macOS /var -> /private/var)
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks failed: %v", err)
	}

	runGit(t, tmpDir, "init", "--quiet")
	runGit(t, tmpDir, "config", "user.name", "Branchtag Test")
	runGit(t, tmpDir, "config", "user.email", "test@example.com")
	runGit(t, tmpDir, "config", "commit.gpgsign", "false")

	return tmpDir
}

// runGit runs git in dir and returns its combined output.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

func TestFindGitRepo_NotARepo(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}

	tmpDir := t.TempDir()

	_, err := FindGitRepo(tmpDir)
	if err == nil {
		t.Fatal("FindGitRepo() should fail outside a repository")
	}
	if !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("FindGitRepo() error = %v, want ErrNotGitRepo", err)
	}
}

func TestFindGitRepo_ValidRepo(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	repo, err := FindGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", repo.RootDir, tmpDir)
	}

	expectedGitDir := filepath.Join(tmpDir, ".git")
	if repo.GitDir != expectedGitDir {
		t.Errorf("GitDir = %q, want %q", repo.GitDir, expectedGitDir)
	}
}

func TestFindGitRepo_Subdirectory(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	subDir := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	repo, err := FindGitRepo(subDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", repo.RootDir, tmpDir)
	}
}

func TestFindGitRepo_EmptyDir(t *testing.T) {
	// Not parallel: changes the working directory.
	tmpDir := initRepo(t)
	t.Chdir(tmpDir)

	repo, err := FindGitRepo("")
	if err != nil {
		t.Fatalf("FindGitRepo('') error = %v", err)
	}

	if repo.RootDir != tmpDir {
		t.Errorf("RootDir = %q, want %q", repo.RootDir, tmpDir)
	}
}

func TestGitRepo_HooksPath_Default(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	repo, err := FindGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	expectedHooksPath := filepath.Join(tmpDir, ".git", "hooks")
	if repo.HooksPath() != expectedHooksPath {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), expectedHooksPath)
	}

	if repo.HasCustomHooksPath() {
		t.Error("HasCustomHooksPath() = true, want false")
	}
}

func TestGitRepo_HooksPath_CustomPath(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	customPath := ".githooks"
	runGit(t, tmpDir, "config", "core.hooksPath", customPath)

	repo, err := FindGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	expectedHooksPath := filepath.Join(tmpDir, customPath)
	if repo.HooksPath() != expectedHooksPath {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), expectedHooksPath)
	}

	if !repo.HasCustomHooksPath() {
		t.Error("HasCustomHooksPath() = false, want true")
	}
}

func TestGitRepo_HooksPath_AbsoluteCustomPath(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	customPath := filepath.Join(tmpDir, "custom-hooks")
	runGit(t, tmpDir, "config", "core.hooksPath", customPath)

	repo, err := FindGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	if repo.HooksPath() != customPath {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), customPath)
	}
}

func TestGitRepo_EnsureHooksDir(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)

	hooksDir := filepath.Join(tmpDir, ".git", "hooks")
	_ = os.RemoveAll(hooksDir)

	repo, err := FindGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	if err := repo.EnsureHooksDir(); err != nil {
		t.Fatalf("EnsureHooksDir() error = %v", err)
	}

	info, err := os.Stat(hooksDir)
	if err != nil {
		t.Fatalf("hooks dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("hooks path is not a directory")
	}
}

func TestGitRepo_HookPath(t *testing.T) {
	t.Parallel()

	repo := &GitRepo{RootDir: "/repo", GitDir: "/repo/.git"}

	hookPath := repo.HookPath(CommitMsgHook)
	expected := filepath.Join("/repo", ".git", "hooks", "commit-msg")
	if hookPath != expected {
		t.Errorf("HookPath(commit-msg) = %q, want %q", hookPath, expected)
	}
}

func TestFindGitRepo_Worktree(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)
	runGit(t, tmpDir, "commit", "--quiet", "--allow-empty", "-m", "init")

	worktree := filepath.Join(t.TempDir(), "wt")
	runGit(t, tmpDir, "worktree", "add", "--quiet", "-b", "ABC-1-wt", worktree)

	repo, err := FindGitRepo(worktree)
	if err != nil {
		t.Fatalf("FindGitRepo() error = %v", err)
	}

	// Hooks are shared, so they live in the main repository's git dir.
	expected := filepath.Join(tmpDir, ".git", "hooks")
	if repo.HooksPath() != expected {
		t.Errorf("HooksPath() = %q, want %q", repo.HooksPath(), expected)
	}
}

func TestGitCommentChar(t *testing.T) {
	t.Parallel()

	tmpDir := initRepo(t)
	// Keep the user's and the system's git configuration out of the lookup.
	environ := []string{"GIT_CONFIG_GLOBAL=" + os.DevNull, "GIT_CONFIG_NOSYSTEM=1"}

	if got := GitCommentChar(context.Background(), tmpDir, environ); got != "" {
		t.Errorf("GitCommentChar() unset = %q, want empty", got)
	}

	runGit(t, tmpDir, "config", "core.commentChar", ";")
	if got := GitCommentChar(context.Background(), tmpDir, environ); got != ";" {
		t.Errorf("GitCommentChar() = %q, want %q", got, ";")
	}

	runGit(t, tmpDir, "config", "core.commentChar", "auto")
	if got := GitCommentChar(context.Background(), tmpDir, environ); got != "" {
		t.Errorf("GitCommentChar() auto = %q, want empty", got)
	}
}
