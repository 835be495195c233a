package openspec

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillbox/pkg/gitops"
)

// Config is the per-project openspec/config.yaml.
type Config struct {
	GitIntegration GitIntegration `mapstructure:"git_integration" yaml:"git_integration"`
}

// GitIntegration controls feature-branch automation.
type GitIntegration struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// BaseBranch is switched to before a feature branch is deleted. Empty
	// means "main" or "master", whichever exists.
	BaseBranch string `mapstructure:"base_branch" yaml:"base_branch,omitempty"`
	// BranchPrefix defaults to gitops.FeatureBranchPrefix.
	BranchPrefix string `mapstructure:"branch_prefix" yaml:"branch_prefix,omitempty"`
	// ForceDelete deletes the feature branch on archive even when it is not
	// merged into the base branch.
	ForceDelete bool `mapstructure:"force_delete" yaml:"force_delete,omitempty"`
}

// Branch returns the feature branch name for changeID.
func (g GitIntegration) Branch(changeID string) string {
	prefix := g.BranchPrefix
	if prefix == "" {
		prefix = gitops.FeatureBranchPrefix
	}
	return prefix + changeID
}

// LoadConfig reads the project config from disk on every call. A missing
// file yields the zero Config (git integration disabled).
func LoadConfig(root string) (*Config, error) {
	path := NewLayout(root).ConfigPath()
	cfg := &Config{}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return cfg, nil
}

// WriteConfig stores cfg as the project config.
func WriteConfig(root string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return writeFile(NewLayout(root).ConfigPath(), string(data))
}
