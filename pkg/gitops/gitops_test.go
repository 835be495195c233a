package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	ctx := context.Background()
	r := New(dir)
	for _, args := range [][]string{
		{"init"},
		{"checkout", "-b", "main"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
		{"config", "commit.gpgsign", "false"},
	} {
		_, err := r.run(ctx, args...)
		require.NoError(t, err, "git %v", args)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# repo\n"), 0o644))
	require.NoError(t, r.Add(ctx, "README.md"))
	require.NoError(t, r.Commit(ctx, "initial"))
	return dir
}

func TestOpen(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()

	t.Run("plain directory", func(t *testing.T) {
		_, err := Open(ctx, t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("repository", func(t *testing.T) {
		dir := initRepo(t)
		r, err := Open(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, dir, r.Dir)
	})
}

func TestBranchLifecycle(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	r := New(dir)

	branch, err := r.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
	assert.Equal(t, "main", r.DefaultBaseBranch(ctx, ""))
	assert.Equal(t, "develop", r.DefaultBaseBranch(ctx, "develop"))

	feature := FeatureBranchPrefix + "add-login"
	assert.Equal(t, "feature/add-login", feature)
	assert.False(t, r.BranchExists(ctx, feature))

	require.NoError(t, r.CreateAndSwitch(ctx, feature))
	assert.True(t, r.BranchExists(ctx, feature))
	branch, err = r.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, feature, branch)

	// switching to an existing branch goes through the same call
	require.NoError(t, r.Switch(ctx, "main"))
	require.NoError(t, r.CreateAndSwitch(ctx, feature))
	branch, err = r.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, feature, branch)

	require.NoError(t, r.Switch(ctx, "main"))
	require.NoError(t, r.DeleteBranch(ctx, feature))
	assert.False(t, r.BranchExists(ctx, feature))
}

func TestDeleteUnmergedBranchIsSoftFailure(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	r := New(dir)

	require.NoError(t, r.CreateAndSwitch(ctx, "feature/x"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.md"), []byte("x\n"), 0o644))
	require.NoError(t, r.Add(ctx, "x.md"))
	require.NoError(t, r.Commit(ctx, "add x"))
	require.NoError(t, r.Switch(ctx, "main"))

	err := r.DeleteBranch(ctx, "feature/x")
	require.Error(t, err)
	assert.True(t, IsSoftFailure(err))

	var sf *SoftFailure
	require.ErrorAs(t, err, &sf)
	assert.Equal(t, "branch -d feature/x", sf.Command)
	assert.Contains(t, sf.Error(), "not fully merged")
	assert.True(t, r.BranchExists(ctx, "feature/x"))
}

func TestForceDeleteUnmergedBranch(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	r := New(dir)

	require.NoError(t, r.CreateAndSwitch(ctx, "feature/x"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.md"), []byte("x\n"), 0o644))
	require.NoError(t, r.Add(ctx, "x.md"))
	require.NoError(t, r.Commit(ctx, "add x"))
	require.NoError(t, r.Switch(ctx, "main"))

	require.NoError(t, r.ForceDeleteBranch(ctx, "feature/x"))
	assert.False(t, r.BranchExists(ctx, "feature/x"))

	err := r.ForceDeleteBranch(ctx, "feature/missing")
	require.Error(t, err)
	assert.True(t, IsSoftFailure(err))
}

func TestCommitWithNothingStaged(t *testing.T) {
	dir := initRepo(t)
	err := New(dir).Commit(context.Background(), "empty")
	require.Error(t, err)
	assert.True(t, IsSoftFailure(err))
}
