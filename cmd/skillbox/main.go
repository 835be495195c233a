package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "fmt")
	viper.SetDefault("root", ".")

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillbox")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillbox",
	Short: "Manage spec-driven change proposals",
	Long: `skillbox manages OpenSpec change proposals: it scaffolds proposals, walks their
task lists one task at a time, and archives them into the main spec store,
optionally keeping a git feature branch per change.

It also bundles API spec tooling, a Markdown article organizer, a prompt
analyzer and boilerplate scaffolding.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := logger.Configure(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
			presenter.Warning("Invalid log level, keeping the default: " + err.Error())
		}
		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil && quiet {
			presenter.SetQuiet(true)
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().String("root", viper.GetString("root"), "Project root directory")
	rootCmd.PersistentFlags().String("log-level", viper.GetString("log_level"), "Log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("log-format", viper.GetString("log_format"), "Log format (json, text, fmt)")
	rootCmd.PersistentFlags().StringSlice("prompts-dir", nil, "Additional directories holding prompt template overrides")
	rootCmd.PersistentFlags().Bool("json", false, "Print machine readable JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("prompts.dirs", rootCmd.PersistentFlags().Lookup("prompts-dir"))

	rootCmd.AddCommand(versionCmd)

	ctx := logger.WithLogger(context.Background(), logger.L)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "Command failed")
		os.Exit(1)
	}
}
