package hooks

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/yaklabco/branchtag/config"
)

func TestStaticBranchProvider(t *testing.T) {
	t.Parallel()

	name, err := StaticBranchProvider("feature/ABC-1").CurrentBranch(context.Background())
	if err != nil || name != "feature/ABC-1" {
		t.Errorf("CurrentBranch() = %q, %v", name, err)
	}
}

func TestChainBranchProvider(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	failing := BranchProviderFunc(func(context.Context) (string, error) { return "", errBoom })
	detached := StaticBranchProvider("")

	tests := []struct {
		name    string
		chain   ChainBranchProvider
		want    string
		wantErr bool
	}{
		{"first wins", ChainBranchProvider{StaticBranchProvider("a"), StaticBranchProvider("b")}, "a", false},
		{"skips failures", ChainBranchProvider{failing, StaticBranchProvider("b")}, "b", false},
		{"skips detached", ChainBranchProvider{detached, StaticBranchProvider("b")}, "b", false},
		{"detached and failing", ChainBranchProvider{failing, detached}, "", false},
		{"all failing", ChainBranchProvider{failing, failing}, "", true},
		{"empty", ChainBranchProvider{}, "", false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := testCase.chain.CurrentBranch(context.Background())
			if (err != nil) != testCase.wantErr {
				t.Fatalf("CurrentBranch() error = %v, wantErr %v", err, testCase.wantErr)
			}
			if testCase.wantErr && !errors.Is(err, errBoom) {
				t.Errorf("error %v should wrap the provider errors", err)
			}
			if got != testCase.want {
				t.Errorf("CurrentBranch() = %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestGoGitBranchProvider_UnbornBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("feature/ABC-123-login"))
	if err := repo.Storer.SetReference(head); err != nil {
		t.Fatalf("SetReference() error = %v", err)
	}

	subDir := filepath.Join(dir, "pkg")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	name, err := GoGitBranchProvider{Dir: subDir}.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if name != "feature/ABC-123-login" {
		t.Errorf("CurrentBranch() = %q, want %q", name, "feature/ABC-123-login")
	}
}

func TestGoGitBranchProvider_Detached(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit() error = %v", err)
	}
	hash := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	if err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)); err != nil {
		t.Fatalf("SetReference() error = %v", err)
	}

	name, err := GoGitBranchProvider{Dir: dir}.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if name != "" {
		t.Errorf("CurrentBranch() = %q, want empty for detached HEAD", name)
	}
}

func TestGoGitBranchProvider_NotARepo(t *testing.T) {
	t.Parallel()

	_, err := GoGitBranchProvider{Dir: t.TempDir()}.CurrentBranch(context.Background())
	if !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("CurrentBranch() error = %v, want ErrNotGitRepo", err)
	}
}

func TestGitCLIBranchProvider(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/ABC-42-cli")

	provider := GitCLIBranchProvider{Dir: dir}

	// Unborn branch.
	name, err := provider.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if name != "ABC-42-cli" {
		t.Errorf("CurrentBranch() = %q, want %q", name, "ABC-42-cli")
	}

	runGit(t, dir, "commit", "--quiet", "--allow-empty", "-m", "init")
	runGit(t, dir, "checkout", "--quiet", "--detach")

	name, err = provider.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() detached error = %v", err)
	}
	if name != "" {
		t.Errorf("CurrentBranch() = %q, want empty for detached HEAD", name)
	}
}

func TestGitCLIBranchProvider_RebaseInProgress(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)
	runGit(t, dir, "commit", "--quiet", "--allow-empty", "-m", "init")
	runGit(t, dir, "checkout", "--quiet", "--detach")

	// What git leaves behind while an interactive rebase is stopped.
	rebaseDir := filepath.Join(dir, ".git", "rebase-merge")
	if err := os.MkdirAll(rebaseDir, 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(rebaseDir, "head-name"), []byte("refs/heads/PROJ-7-reword\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	name, err := GitCLIBranchProvider{Dir: dir}.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch() error = %v", err)
	}
	if name != "PROJ-7-reword" {
		t.Errorf("CurrentBranch() = %q, want %q", name, "PROJ-7-reword")
	}
}

func TestGitCLIBranchProvider_NotARepo(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}

	_, err := GitCLIBranchProvider{Dir: t.TempDir()}.CurrentBranch(context.Background())
	if err == nil {
		t.Fatal("CurrentBranch() should fail outside a repository")
	}
	if !strings.Contains(err.Error(), "querying current branch") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestNewBranchProvider(t *testing.T) {
	t.Parallel()

	if _, ok := NewBranchProvider(config.BranchSourceGoGit, "", nil).(GoGitBranchProvider); !ok {
		t.Error("gogit source should select GoGitBranchProvider")
	}
	if _, ok := NewBranchProvider(config.BranchSourceGit, "", nil).(GitCLIBranchProvider); !ok {
		t.Error("git source should select GitCLIBranchProvider")
	}
	chain, ok := NewBranchProvider(config.BranchSourceAuto, "", nil).(ChainBranchProvider)
	if !ok || len(chain) != 2 {
		t.Errorf("auto source should select a two-step chain, got %#v", chain)
	}
}
