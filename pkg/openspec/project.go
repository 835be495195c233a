package openspec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

const (
	projectDocument      = "# Project Context\n\nDescribe your project, its tech stack, and conventions here.\n"
	constitutionDocument = "# Project Principles\n\nDefine your project's guiding principles and development guidelines here.\n"
)

// InitOptions configures InitProject.
type InitOptions struct {
	GitEnabled bool
	BaseBranch string
}

// InitResult is returned by InitProject.
type InitResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Created []string `json:"created,omitempty"`
}

// InitProject creates the openspec directory tree and its placeholder
// documents. Existing documents are left as they are so re-running init is
// safe. A config file is written when git integration is requested.
func InitProject(root string, opts InitOptions) (*InitResult, error) {
	layout := NewLayout(root)
	result := &InitResult{}

	for _, dir := range []string{layout.Dir(), layout.SpecsDir(), layout.ChangesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	for _, doc := range []struct {
		path    string
		content string
	}{
		{layout.ProjectPath(), projectDocument},
		{layout.ConstitutionPath(), constitutionDocument},
	} {
		if fileExists(doc.path) {
			continue
		}
		if err := writeFile(doc.path, doc.content); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, doc.path)
	}

	if opts.GitEnabled {
		cfg, err := LoadConfig(root)
		if err != nil {
			return nil, err
		}
		cfg.GitIntegration.Enabled = true
		if opts.BaseBranch != "" {
			cfg.GitIntegration.BaseBranch = opts.BaseBranch
		}
		if err := WriteConfig(root, cfg); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, layout.ConfigPath())
	}

	result.Success = true
	result.Message = fmt.Sprintf("OpenSpec project initialized at %s", root)
	return result, nil
}

// DefinePrinciples replaces the constitution document and returns its path.
func DefinePrinciples(root, content string) (string, error) {
	layout := NewLayout(root)
	if !layout.Initialized() {
		return "", errors.Wrapf(ErrNotInitialized, "at %s; run init first", root)
	}
	if err := writeFile(layout.ConstitutionPath(), content); err != nil {
		return "", err
	}
	return layout.ConstitutionPath(), nil
}

// Project is a directory that contains an openspec tree.
type Project struct {
	Name string `json:"project_name"`
	Root string `json:"project_root"`
}

// ListProjects returns base's immediate subdirectories that are projects,
// sorted by name, followed by base itself if it is one.
func ListProjects(base string) ([]Project, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", base)
	}

	projects := []Project{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		root := filepath.Join(base, entry.Name())
		if NewLayout(root).Initialized() {
			projects = append(projects, Project{Name: entry.Name(), Root: root})
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })

	if NewLayout(base).Initialized() {
		abs, err := filepath.Abs(base)
		if err != nil {
			abs = base
		}
		projects = append(projects, Project{Name: filepath.Base(abs), Root: base})
	}

	return projects, nil
}
