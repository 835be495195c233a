package organizer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
)

// Search returns the Markdown files under base whose content contains query,
// compared case-insensitively. Paths relative to base that match any of the
// exclude globs are skipped. Results are sorted.
func Search(ctx context.Context, query, base string, excludes []string) ([]string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat %s", base)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", base)
	}

	filters := make([]glob.Glob, 0, len(excludes))
	for _, pattern := range excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exclude pattern %q", pattern)
		}
		filters = append(filters, g)
	}

	fsys := os.DirFS(base)
	matches, err := doublestar.Glob(fsys, "**/*.md")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list markdown files")
	}

	needle := strings.ToLower(query)
	var results []string
	for _, rel := range matches {
		if excluded(rel, filters) {
			continue
		}
		path := filepath.Join(base, filepath.FromSlash(rel))
		content, err := os.ReadFile(path)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("path", path).Warn("skipping unreadable file")
			continue
		}
		if strings.Contains(strings.ToLower(string(content)), needle) {
			results = append(results, path)
		}
	}

	sort.Strings(results)
	return results, nil
}

func excluded(rel string, filters []glob.Glob) bool {
	for _, g := range filters {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
