// Package organizer prepares LLM prompts for Markdown articles and files
// them into category directories.
package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/markdown"
	"github.com/jingkaihe/skillbox/pkg/prompts"
)

// DefaultLanguage is used by CodegenPrompt when no language is given.
const DefaultLanguage = "Python"

// ErrInvalidCategory is returned for a category that is not a single
// directory name.
var ErrInvalidCategory = errors.New("invalid category")

// PromptResult is the prompt prepared for one article.
type PromptResult struct {
	Prompt   string `json:"llm_prompt"`
	FilePath string `json:"file_path"`
	Title    string `json:"title"`
	Language string `json:"language,omitempty"`
}

// Article is one entry of a category summary.
type Article struct {
	Title   string `json:"title" mapstructure:"title"`
	Path    string `json:"path" mapstructure:"path"`
	Summary string `json:"summary" mapstructure:"summary"`
}

// Organizer renders article prompts.
type Organizer struct {
	prompts *prompts.Renderer
}

// New returns an Organizer. A nil renderer uses the builtin prompts.
func New(renderer *prompts.Renderer) *Organizer {
	if renderer == nil {
		renderer = prompts.Builtin()
	}
	return &Organizer{prompts: renderer}
}

// CategorizePrompt asks for up to three categories for the article at path.
// With no categories the prompt suggests "General, Uncategorized".
func (o *Organizer) CategorizePrompt(ctx context.Context, path string, categories []string) (*PromptResult, error) {
	return o.articlePrompt(ctx, prompts.Categorize, path, map[string]any{"Categories": categories})
}

// SummarizePrompt asks for a 3-5 sentence summary of the article at path.
func (o *Organizer) SummarizePrompt(ctx context.Context, path string) (*PromptResult, error) {
	return o.articlePrompt(ctx, prompts.Summarize, path, nil)
}

// CodegenPrompt asks for an implementation of the concept described in the
// article at path.
func (o *Organizer) CodegenPrompt(ctx context.Context, path, language string) (*PromptResult, error) {
	if language == "" {
		language = DefaultLanguage
	}
	res, err := o.articlePrompt(ctx, prompts.Codegen, path, map[string]any{"Language": language})
	if err != nil {
		return nil, err
	}
	res.Language = language
	return res, nil
}

func (o *Organizer) articlePrompt(ctx context.Context, name, path string, extra map[string]any) (*PromptResult, error) {
	doc, err := markdown.ParseFile(path)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"Title":   doc.Title,
		"Content": doc.PlainText,
	}
	for k, v := range extra {
		data[k] = v
	}

	prompt, err := o.prompts.Render(ctx, name, data)
	if err != nil {
		return nil, err
	}
	return &PromptResult{Prompt: prompt, FilePath: path, Title: doc.Title}, nil
}

// Organize moves file into base/category, creating the directory. An
// existing file of the same name is kept and the moved file gets a numeric
// suffix (name-1.md, name-2.md, ...). It returns the new path.
func Organize(ctx context.Context, file, category, base string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" || category == "." || category == ".." || strings.ContainsAny(category, `/\`) {
		return "", errors.Wrapf(ErrInvalidCategory, "'%s'", category)
	}

	if _, err := os.Stat(file); err != nil {
		return "", errors.Wrapf(err, "failed to stat %s", file)
	}

	dir := filepath.Join(base, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create category directory %s", dir)
	}

	dest := availableName(dir, filepath.Base(file))
	if err := os.Rename(file, dest); err != nil {
		return "", errors.Wrapf(err, "failed to move %s to %s", file, dest)
	}

	logger.G(ctx).WithField("from", file).WithField("to", dest).Info("organized article")
	return dest, nil
}

func availableName(dir, name string) string {
	dest := filepath.Join(dir, name)
	if _, err := os.Lstat(dest); os.IsNotExist(err) {
		return dest
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			return dest
		}
	}
}

// WriteSummary renders <category>_summary.md into outDir and returns its path.
func (o *Organizer) WriteSummary(ctx context.Context, category string, articles []Article, outDir string) (string, error) {
	if strings.TrimSpace(category) == "" || strings.ContainsAny(category, `/\`) {
		return "", errors.Wrapf(ErrInvalidCategory, "'%s'", category)
	}
	if outDir == "" {
		outDir = "."
	}

	content, err := o.prompts.Render(ctx, prompts.CategorySummary, map[string]any{
		"Category": category,
		"Articles": articles,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create output directory %s", outDir)
	}
	path := filepath.Join(outDir, category+"_summary.md")
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write summary file %s", path)
	}
	return path, nil
}
