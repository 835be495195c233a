package openspec

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.GitIntegration.Enabled)
}

func TestLoadConfig_ReadsFreshEachCall(t *testing.T) {
	root := initProject(t)
	path := NewLayout(root).ConfigPath()

	require.NoError(t, os.WriteFile(path, []byte("git_integration:\n  enabled: true\n  base_branch: develop\n"), 0o644))
	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.True(t, cfg.GitIntegration.Enabled)
	assert.Equal(t, "develop", cfg.GitIntegration.BaseBranch)

	require.NoError(t, os.WriteFile(path, []byte("git_integration:\n  enabled: false\n"), 0o644))
	cfg, err = LoadConfig(root)
	require.NoError(t, err)
	assert.False(t, cfg.GitIntegration.Enabled)
	assert.Empty(t, cfg.GitIntegration.BaseBranch)
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	root := initProject(t)
	require.NoError(t, WriteConfig(root, &Config{GitIntegration: GitIntegration{Enabled: true, BranchPrefix: "change/"}}))

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.True(t, cfg.GitIntegration.Enabled)
	assert.Equal(t, "change/x", cfg.GitIntegration.Branch("x"))
}

func TestLoadConfig_Invalid(t *testing.T) {
	root := initProject(t)
	require.NoError(t, os.WriteFile(NewLayout(root).ConfigPath(), []byte("git_integration: [\n"), 0o644))

	_, err := LoadConfig(root)
	assert.Error(t, err)
}

func TestGitIntegrationBranch(t *testing.T) {
	assert.Equal(t, "feature/add-login", GitIntegration{}.Branch("add-login"))
}
