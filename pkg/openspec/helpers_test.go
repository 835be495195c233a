package openspec

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillbox/pkg/gitops"
)

func initProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	_, err := InitProject(root, InitOptions{})
	require.NoError(t, err)
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// initGitProject returns an initialized project inside a git repo on "main"
// with git integration enabled.
func initGitProject(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	root := t.TempDir()
	gitCmd(t, root, "init")
	gitCmd(t, root, "checkout", "-b", "main")
	gitCmd(t, root, "config", "user.email", "test@example.com")
	gitCmd(t, root, "config", "user.name", "Test")
	gitCmd(t, root, "config", "commit.gpgsign", "false")

	_, err := InitProject(root, InitOptions{GitEnabled: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# test\n"), 0o644))
	gitCmd(t, root, "add", ".")
	gitCmd(t, root, "commit", "-m", "init")
	return root
}

func currentBranch(t *testing.T, root string) string {
	t.Helper()
	branch, err := gitops.New(root).CurrentBranch(context.Background())
	require.NoError(t, err)
	return branch
}
