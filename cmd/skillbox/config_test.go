package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplementConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      ImplementConfig
		expectError string
	}{
		{name: "run all", config: ImplementConfig{}},
		{name: "next", config: ImplementConfig{Step: "next"}},
		{name: "done with session", config: ImplementConfig{Step: "done", SessionID: "abc"}},
		{name: "reset", config: ImplementConfig{Step: "reset"}},
		{name: "unknown step", config: ImplementConfig{Step: "skip"}, expectError: "invalid step: skip"},
		{name: "session without done", config: ImplementConfig{Step: "next", SessionID: "abc"}, expectError: "--session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestImplementConfigFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", Run: func(_ *cobra.Command, _ []string) {}}
	defaults := NewImplementConfig()
	cmd.Flags().String("step", defaults.Step, "")
	cmd.Flags().String("session", defaults.SessionID, "")

	require.NoError(t, cmd.ParseFlags([]string{"--step", "done", "--session", "s-1"}))

	config := getImplementConfigFromFlags(cmd)
	assert.Equal(t, "done", config.Step)
	assert.Equal(t, "s-1", config.SessionID)
	assert.NoError(t, config.Validate())
}

func TestSpecGenerateConfigFromFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		config := getSpecGenerateConfigFromFlags(cmd)
		assert.Equal(t, NewSpecGenerateConfig(), config)
	})

	t.Run("codegen flags", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		defaults := NewSpecGenerateConfig()
		cmd.Flags().StringP("language", "l", defaults.Language, "")
		cmd.Flags().StringP("kind", "k", defaults.Kind, "")
		cmd.Flags().StringP("out", "o", "generated_code", "")

		require.NoError(t, cmd.ParseFlags([]string{"-l", "python", "-k", "server", "-o", "out"}))

		config := getSpecGenerateConfigFromFlags(cmd)
		assert.Equal(t, "python", config.Language)
		assert.Equal(t, "server", config.Kind)
		assert.Equal(t, "out", config.OutputDir)
		assert.Equal(t, defaults.DocFormat, config.DocFormat)
	})
}

func TestRunConfigFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	defaults := NewRunConfig()
	cmd.Flags().String("kwargs", defaults.Kwargs, "")
	cmd.Flags().Bool("git-enabled", defaults.GitEnabled, "")

	require.NoError(t, cmd.ParseFlags([]string{"--kwargs", `{"change_id":"x"}`, "--git-enabled"}))

	config := getRunConfigFromFlags(cmd)
	assert.Equal(t, `{"change_id":"x"}`, config.Kwargs)
	assert.True(t, config.GitEnabled)
}

func TestParseKwargs(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    map[string]any
		expectError bool
	}{
		{name: "empty", raw: "", expected: map[string]any{}},
		{name: "null", raw: "null", expected: map[string]any{}},
		{name: "object", raw: `{"change_id": "add-login", "force": true}`, expected: map[string]any{"change_id": "add-login", "force": true}},
		{name: "array", raw: `["a"]`, expectError: true},
		{name: "malformed", raw: `{"change_id"`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kwargs, err := parseKwargs(tt.raw)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kwargs)
		})
	}
}

func TestWatchConfigValidate(t *testing.T) {
	config := NewWatchConfig()
	assert.NoError(t, config.Validate())

	config.DebounceTime = -1
	assert.Error(t, config.Validate())
}
