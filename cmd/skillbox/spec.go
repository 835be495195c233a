package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillbox/pkg/apispec"
	"github.com/jingkaihe/skillbox/pkg/presenter"
	"github.com/jingkaihe/skillbox/pkg/scaffold"
)

// SpecGenerateConfig holds configuration for the spec codegen and docs commands
type SpecGenerateConfig struct {
	Language  string
	Kind      string
	DocFormat string
	OutputDir string
}

// NewSpecGenerateConfig creates a new SpecGenerateConfig with default values
func NewSpecGenerateConfig() *SpecGenerateConfig {
	return &SpecGenerateConfig{
		Language:  "go",
		Kind:      scaffold.DefaultKind,
		DocFormat: scaffold.DefaultDocFormat,
	}
}

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Work with OpenAPI and Swagger documents",
	Long: `Fetch, parse, validate, compare and generate code or documentation from
OpenAPI and Swagger documents. Every <source> may be a local path or an
http(s) URL.`,
}

var specFetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Fetch an API document and print it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		result, err := apispec.Fetch(cmd.Context(), args[0], format)
		exitOnError(err, "Failed to fetch spec")

		emit(cmd, result, func() {
			fmt.Println(result.Content)
		})
	},
}

var specParseCmd = &cobra.Command{
	Use:   "parse <source>",
	Short: "Print the info, servers and endpoints of an API document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parsed := loadParsedSpec(cmd, args[0])

		emit(cmd, map[string]any{"parsed_data": parsed}, func() {
			presenter.Section(parsed.Title("(untitled)"))
			if d := parsed.Description(); d != "" {
				fmt.Println(d)
			}
			for _, path := range parsed.Paths() {
				for _, method := range parsed.Methods(path) {
					op := parsed.Endpoints[path][method]
					fmt.Printf("%-7s %s  %s\n", strings.ToUpper(method), path, op.Summary)
				}
			}
		})
	},
}

var specValidateCmd = &cobra.Command{
	Use:   "validate <source>",
	Short: "Check the structure of an API document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		content := fetchSpecContent(cmd.Context(), args[0], format)
		result := apispec.Validate(content, format)

		emit(cmd, result, func() {
			if result.Valid {
				presenter.Success("Spec is valid.")
			} else {
				presenter.Warning("Spec is invalid.")
			}
			for _, m := range result.Messages {
				fmt.Println("  - " + m)
			}
		})
		if !result.Valid {
			os.Exit(1)
		}
	},
}

var specCompareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Diff two API documents",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		a := fetchSpecContent(cmd.Context(), args[0], format)
		b := fetchSpecContent(cmd.Context(), args[1], format)

		diff, err := apispec.Compare(a, b, format)
		exitOnError(err, "Failed to compare specs")

		emit(cmd, map[string]any{"diff_report": diff}, func() {
			if !diff.HasChanges {
				presenter.Success("No differences.")
				return
			}
			for _, p := range diff.Added {
				fmt.Println("+ " + p)
			}
			for _, p := range diff.Removed {
				fmt.Println("- " + p)
			}
			for _, p := range diff.Changed {
				fmt.Println("~ " + p)
			}
			presenter.Separator()
			fmt.Print(diff.Unified)
		})
	},
}

var specCodegenCmd = &cobra.Command{
	Use:   "codegen <source>",
	Short: "Render a client or server skeleton from an API document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSpecGenerateConfigFromFlags(cmd)
		parsed := loadParsedSpec(cmd, args[0])

		result, err := scaffold.NewGenerator(newRenderer()).GenerateCode(cmd.Context(), parsed, config.Language, config.Kind, config.OutputDir)
		exitOnError(err, "Failed to generate code")

		emit(cmd, result, func() {
			presenter.Success("Generated " + result.OutputPath)
			presenter.Section("Prompt")
			fmt.Println(result.Prompt)
		})
	},
}

var specDocsCmd = &cobra.Command{
	Use:   "docs <source>",
	Short: "Render Markdown or HTML documentation from an API document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSpecGenerateConfigFromFlags(cmd)
		parsed := loadParsedSpec(cmd, args[0])

		result, err := scaffold.NewGenerator(newRenderer()).GenerateDocs(cmd.Context(), parsed, config.DocFormat, config.OutputDir)
		exitOnError(err, "Failed to generate docs")

		emit(cmd, result, func() {
			presenter.Success("Generated " + result.OutputPath)
			presenter.Section("Prompt")
			fmt.Println(result.Prompt)
		})
	},
}

func fetchSpecContent(ctx context.Context, source, format string) string {
	result, err := apispec.Fetch(ctx, source, format)
	exitOnError(err, "Failed to fetch spec")
	return result.Content
}

func loadParsedSpec(cmd *cobra.Command, source string) *apispec.Parsed {
	format, _ := cmd.Flags().GetString("format")
	parsed, err := apispec.Parse(fetchSpecContent(cmd.Context(), source, format), format)
	exitOnError(err, "Failed to parse spec")
	return parsed
}

func init() {
	defaults := NewSpecGenerateConfig()

	specCmd.PersistentFlags().String("format", "", "Document format hint (json, yaml, openapi, swagger)")

	specCodegenCmd.Flags().StringP("language", "l", defaults.Language, "Target language (go, python)")
	specCodegenCmd.Flags().StringP("kind", "k", defaults.Kind, "Skeleton kind (client, server)")
	specCodegenCmd.Flags().StringP("out", "o", scaffold.DefaultCodeDir, "Output directory")

	specDocsCmd.Flags().String("doc-format", defaults.DocFormat, "Documentation format (Markdown, HTML)")
	specDocsCmd.Flags().StringP("out", "o", scaffold.DefaultDocsDir, "Output directory")

	specCmd.AddCommand(specFetchCmd)
	specCmd.AddCommand(specParseCmd)
	specCmd.AddCommand(specValidateCmd)
	specCmd.AddCommand(specCompareCmd)
	specCmd.AddCommand(specCodegenCmd)
	specCmd.AddCommand(specDocsCmd)
	rootCmd.AddCommand(specCmd)
}

// getSpecGenerateConfigFromFlags extracts generation configuration from command flags
func getSpecGenerateConfigFromFlags(cmd *cobra.Command) *SpecGenerateConfig {
	config := NewSpecGenerateConfig()

	if language, err := cmd.Flags().GetString("language"); err == nil {
		config.Language = language
	}
	if kind, err := cmd.Flags().GetString("kind"); err == nil {
		config.Kind = kind
	}
	if docFormat, err := cmd.Flags().GetString("doc-format"); err == nil {
		config.DocFormat = docFormat
	}
	if outputDir, err := cmd.Flags().GetString("out"); err == nil {
		config.OutputDir = outputDir
	}

	return config
}
