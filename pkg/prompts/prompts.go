// Package prompts renders the text/template prompts handed to the agent.
//
// Every prompt ships embedded in the binary. A file with the same name in one
// of the override directories (repo-local first, then the user's home) takes
// precedence, so projects can tune wording without rebuilding.
package prompts

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
)

// Prompt names.
const (
	ImplementTask   = "implement-task"
	ImplementTest   = "implement-test"
	Proposal        = "proposal"
	Plan            = "plan"
	Breakdown       = "breakdown"
	Clarify         = "clarify"
	Categorize      = "categorize"
	Summarize       = "summarize"
	Codegen         = "codegen"
	SpecCodegen     = "spec-codegen"
	SpecDocs        = "spec-docs"
	CategorySummary = "category-summary"
)

//go:embed templates/*.md
var builtin embed.FS

// Renderer finds prompt templates and executes them.
type Renderer struct {
	dirs []string
}

// Option configures a Renderer.
type Option func(*Renderer) error

// WithDirs replaces the override directories.
func WithDirs(dirs ...string) Option {
	return func(r *Renderer) error {
		if len(dirs) == 0 {
			return errors.New("at least one prompt directory must be specified")
		}
		r.dirs = dirs
		return nil
	}
}

// WithAdditionalDirs appends override directories after the defaults. Empty
// dirs is a no-op.
func WithAdditionalDirs(dirs ...string) Option {
	return func(r *Renderer) error {
		if len(dirs) == 0 {
			return nil
		}
		if len(r.dirs) == 0 {
			if err := WithDefaultDirs()(r); err != nil {
				return err
			}
		}
		r.dirs = append(r.dirs, dirs...)
		return nil
	}
}

// WithDefaultDirs resets the override directories to ./.skillbox/prompts and
// ~/.skillbox/prompts.
func WithDefaultDirs() Option {
	return func(r *Renderer) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		r.dirs = []string{
			filepath.Join(".", ".skillbox", "prompts"),
			filepath.Join(homeDir, ".skillbox", "prompts"),
		}
		return nil
	}
}

// NewRenderer returns a Renderer using the default override directories
// unless opts say otherwise.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, errors.Wrap(err, "failed to apply prompt renderer option")
		}
	}
	if len(r.dirs) == 0 {
		if err := WithDefaultDirs()(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Builtin returns a Renderer that only uses the embedded prompts.
func Builtin() *Renderer {
	return &Renderer{}
}

// Dirs returns the override directories in lookup order.
func (r *Renderer) Dirs() []string {
	return r.dirs
}

// Render executes the prompt called name with data and trims surrounding
// whitespace from the result.
func (r *Renderer) Render(ctx context.Context, name string, data any) (string, error) {
	if r == nil {
		r = Builtin()
	}

	content, source, err := r.load(name)
	if err != nil {
		return "", err
	}
	logger.G(ctx).WithField("prompt", name).WithField("source", source).Debug("rendering prompt")

	tmpl, err := template.New(name).Funcs(funcMap()).Parse(content)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse prompt %s", source)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute prompt %s", source)
	}

	return strings.TrimSpace(buf.String()), nil
}

// List returns the names of every available prompt, sorted.
func (r *Renderer) List() []string {
	seen := make(map[string]bool)

	if r != nil {
		for _, dir := range r.dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
					continue
				}
				seen[strings.TrimSuffix(entry.Name(), ".md")] = true
			}
		}
	}

	entries, _ := fs.ReadDir(builtin, "templates")
	for _, entry := range entries {
		seen[strings.TrimSuffix(entry.Name(), ".md")] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Renderer) load(name string) (content, source string, err error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", "", errors.Errorf("invalid prompt name %q", name)
	}

	for _, dir := range r.dirs {
		path := filepath.Join(dir, name+".md")
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), path, nil
		}
		if !os.IsNotExist(err) {
			return "", "", errors.Wrapf(err, "failed to read prompt %s", path)
		}
	}

	data, err := builtin.ReadFile("templates/" + name + ".md")
	if err != nil {
		return "", "", errors.Errorf("prompt '%s' not found in directories: %v", name, r.dirs)
	}
	return string(data), "builtin:" + name, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"truncate": Truncate,
		"join":     strings.Join,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"trim":     strings.TrimSpace,
	}
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
