package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillbox/pkg/markdown"
	"github.com/jingkaihe/skillbox/pkg/organizer"
	"github.com/jingkaihe/skillbox/pkg/presenter"
)

var mdCmd = &cobra.Command{
	Use:   "md",
	Short: "Organize Markdown articles",
	Long: `Parse Markdown articles, prepare categorization, summary and code generation
prompts for them, file them into category directories and search them.`,
}

var mdParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the title, headings and plain text of an article",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := markdown.ParseFile(args[0])
		exitOnError(err, "Failed to parse Markdown")

		emit(cmd, doc, func() {
			presenter.Section(doc.Title)
			for _, h := range doc.Headings {
				fmt.Printf("%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
			}
		})
	},
}

var mdCategorizeCmd = &cobra.Command{
	Use:   "categorize <file>",
	Short: "Print a prompt to categorize an article",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		categories, _ := cmd.Flags().GetStringSlice("categories")
		result, err := organizer.New(newRenderer()).CategorizePrompt(cmd.Context(), args[0], categories)
		exitOnError(err, "Failed to prepare categorization prompt")
		emit(cmd, result, func() { fmt.Println(result.Prompt) })
	},
}

var mdSummarizeCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Print a prompt to summarize an article",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		result, err := organizer.New(newRenderer()).SummarizePrompt(cmd.Context(), args[0])
		exitOnError(err, "Failed to prepare summary prompt")
		emit(cmd, result, func() { fmt.Println(result.Prompt) })
	},
}

var mdCodegenCmd = &cobra.Command{
	Use:   "codegen <file>",
	Short: "Print a prompt to implement the concept an article describes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		language, _ := cmd.Flags().GetString("language")
		result, err := organizer.New(newRenderer()).CodegenPrompt(cmd.Context(), args[0], language)
		exitOnError(err, "Failed to prepare code generation prompt")
		emit(cmd, result, func() { fmt.Println(result.Prompt) })
	},
}

var mdOrganizeCmd = &cobra.Command{
	Use:   "organize <file> <category>",
	Short: "Move an article into a category directory",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		base, _ := cmd.Flags().GetString("base")
		dest, err := organizer.Organize(cmd.Context(), args[0], args[1], base)
		exitOnError(err, "Failed to organize article")
		emit(cmd, map[string]any{"success": true, "new_file_path": dest}, func() {
			presenter.Success("Moved to " + dest)
		})
	},
}

var mdSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find articles containing a text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		base, _ := cmd.Flags().GetString("base")
		excludes, _ := cmd.Flags().GetStringSlice("exclude")
		results, err := organizer.Search(cmd.Context(), args[0], base, excludes)
		exitOnError(err, "Failed to search articles")
		if results == nil {
			results = []string{}
		}
		emit(cmd, map[string]any{"results": results}, func() {
			for _, r := range results {
				fmt.Println(r)
			}
		})
	},
}

var mdSummaryCmd = &cobra.Command{
	Use:   "summary <category> <articles_file>",
	Short: "Write <category>_summary.md from a list of article summaries",
	Long: `Write <category>_summary.md from <articles_file>, a YAML or JSON list of
entries with title, path and summary fields ("-" reads stdin).`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")

		var articles []organizer.Article
		exitOnError(yaml.Unmarshal([]byte(readInput(args[1])), &articles), "Failed to decode articles")

		path, err := organizer.New(newRenderer()).WriteSummary(cmd.Context(), args[0], articles, out)
		exitOnError(err, "Failed to write category summary")
		emit(cmd, map[string]any{"summary_file_path": path}, func() {
			presenter.Success("Wrote " + path)
		})
	},
}

func init() {
	mdCategorizeCmd.Flags().StringSlice("categories", nil, "Suggested categories")
	mdCodegenCmd.Flags().StringP("language", "l", organizer.DefaultLanguage, "Target language")
	mdOrganizeCmd.Flags().String("base", ".", "Directory holding the category directories")
	mdSearchCmd.Flags().String("base", ".", "Directory to search")
	mdSearchCmd.Flags().StringSlice("exclude", nil, "Glob patterns of paths to skip, relative to --base")
	mdSummaryCmd.Flags().StringP("out", "o", ".", "Output directory")

	mdCmd.AddCommand(mdParseCmd)
	mdCmd.AddCommand(mdCategorizeCmd)
	mdCmd.AddCommand(mdSummarizeCmd)
	mdCmd.AddCommand(mdCodegenCmd)
	mdCmd.AddCommand(mdOrganizeCmd)
	mdCmd.AddCommand(mdSearchCmd)
	mdCmd.AddCommand(mdSummaryCmd)
	rootCmd.AddCommand(mdCmd)
}
