package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillbox/pkg/presenter"
	"github.com/jingkaihe/skillbox/pkg/prompts"
)

// projectRoot is the --root flag, SKILLBOX_ROOT or the root config key.
func projectRoot() string {
	return viper.GetString("root")
}

func newRenderer() *prompts.Renderer {
	r, err := prompts.NewRenderer(prompts.WithAdditionalDirs(viper.GetStringSlice("prompts.dirs")...))
	if err != nil {
		presenter.Error(err, "Failed to set up prompt templates")
		os.Exit(1)
	}
	return r
}

func jsonOutput(cmd *cobra.Command) bool {
	asJSON, err := cmd.Flags().GetBool("json")
	return err == nil && asJSON
}

// emit prints v as JSON when --json is set and calls human otherwise.
func emit(cmd *cobra.Command, v any, human func()) {
	if jsonOutput(cmd) {
		if err := presenter.JSON(v); err != nil {
			presenter.Error(err, "Failed to encode output")
			os.Exit(1)
		}
		return
	}
	human()
}

func exitOnError(err error, context string) {
	if err != nil {
		presenter.Error(err, context)
		os.Exit(1)
	}
}

func readFileArg(path string) string {
	data, err := os.ReadFile(path)
	exitOnError(err, "Failed to read "+path)
	return string(data)
}

// readInput reads path, or stdin when path is "-".
func readInput(path string) string {
	if path != "-" {
		return readFileArg(path)
	}
	data, err := io.ReadAll(os.Stdin)
	exitOnError(err, "Failed to read stdin")
	return string(data)
}
