package organizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArticle(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCategorizePrompt(t *testing.T) {
	path := writeArticle(t, t.TempDir(), "sorting.md", "# Quick Sort\n\nA divide and conquer algorithm.\n")
	o := New(nil)

	t.Run("default categories", func(t *testing.T) {
		res, err := o.CategorizePrompt(context.Background(), path, nil)
		require.NoError(t, err)
		assert.Equal(t, "Quick Sort", res.Title)
		assert.Equal(t, path, res.FilePath)
		assert.Contains(t, res.Prompt, "Suggested Categories: General, Uncategorized")
		assert.Contains(t, res.Prompt, "A divide and conquer algorithm.")
	})

	t.Run("given categories", func(t *testing.T) {
		res, err := o.CategorizePrompt(context.Background(), path, []string{"Algorithms", "Sorting"})
		require.NoError(t, err)
		assert.Contains(t, res.Prompt, "Suggested Categories: Algorithms, Sorting")
	})
}

func TestCategorizePromptTruncatesContent(t *testing.T) {
	body := strings.Repeat("a", 3000)
	path := writeArticle(t, t.TempDir(), "long.md", body+"\n")

	res, err := New(nil).CategorizePrompt(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Prompt, strings.Repeat("a", 2000))
	assert.NotContains(t, res.Prompt, strings.Repeat("a", 2001))
	assert.Equal(t, "long", res.Title)
}

func TestSummarizePrompt(t *testing.T) {
	path := writeArticle(t, t.TempDir(), "a.md", "# Title\n\nBody text.\n")

	res, err := New(nil).SummarizePrompt(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, res.Prompt, "3-5 sentences")
	assert.Contains(t, res.Prompt, "Article Title: Title")
}

func TestCodegenPrompt(t *testing.T) {
	path := writeArticle(t, t.TempDir(), "a.md", "# Binary Search\n\nHalve the range.\n")
	o := New(nil)

	res, err := o.CodegenPrompt(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, res.Language)
	assert.Contains(t, res.Prompt, "The code should be in Python")

	res, err = o.CodegenPrompt(context.Background(), path, "Go")
	require.NoError(t, err)
	assert.Contains(t, res.Prompt, "The code should be in Go")
}

func TestPromptMissingFile(t *testing.T) {
	_, err := New(nil).SummarizePrompt(context.Background(), filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}

func TestOrganize(t *testing.T) {
	base := t.TempDir()
	src := writeArticle(t, base, "inbox/note.md", "first")

	dest, err := Organize(context.Background(), src, "Algorithms", base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Algorithms", "note.md"), dest)
	assert.NoFileExists(t, src)

	second := writeArticle(t, base, "inbox/note.md", "second")
	dest2, err := Organize(context.Background(), second, "Algorithms", base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Algorithms", "note-1.md"), dest2)

	first, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "first", string(first))
}

func TestOrganizeErrors(t *testing.T) {
	base := t.TempDir()
	src := writeArticle(t, base, "note.md", "x")

	for _, category := range []string{"", "..", "a/b"} {
		_, err := Organize(context.Background(), src, category, base)
		assert.ErrorIs(t, err, ErrInvalidCategory, category)
	}

	_, err := Organize(context.Background(), filepath.Join(base, "missing.md"), "Misc", base)
	assert.Error(t, err)
}

func TestWriteSummary(t *testing.T) {
	out := t.TempDir()
	articles := []Article{
		{Title: "Quick Sort", Path: "Algorithms/quick.md", Summary: "Sorts quickly."},
		{Title: "Merge Sort", Path: "Algorithms/merge.md", Summary: "Sorts stably."},
	}

	path, err := New(nil).WriteSummary(context.Background(), "Algorithms", articles, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Algorithms_summary.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# Algorithms\n"))
	assert.Contains(t, string(content), "## [Quick Sort](Algorithms/quick.md)")
	assert.Contains(t, string(content), "Sorts stably.")
}

func TestWriteSummaryInvalidCategory(t *testing.T) {
	_, err := New(nil).WriteSummary(context.Background(), "a/b", nil, t.TempDir())
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
