// Package openspec manages the openspec/ folder convention: project
// documents, change proposals, the main spec store and the archive.
package openspec

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Names of the files and directories under a project root.
const (
	RootDir          = "openspec"
	ConfigFile       = "config.yaml"
	ProjectFile      = "project.md"
	ConstitutionFile = "constitution.md"
	SpecsDir         = "specs"
	ChangesDir       = "changes"
	ArchiveDir       = "archive"

	ProposalFile   = "proposal.md"
	TasksFile      = "tasks.md"
	PlanFile       = "plan.md"
	SpecDeltaFile  = "spec.md"
	CheckpointFile = ".implement.json"
)

var (
	// ErrNotFound is returned when an expected file or directory is missing.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a change that already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotInitialized is returned when the openspec directory is missing.
	ErrNotInitialized = errors.New("openspec project not initialized")
	// ErrInvalidChangeID is returned for ids that are unsafe as a directory name.
	ErrInvalidChangeID = errors.New("invalid change id")
)

var changeIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateChangeID rejects ids that cannot be used as a single path segment.
func ValidateChangeID(id string) error {
	if !changeIDPattern.MatchString(id) || strings.Contains(id, "..") {
		return errors.Wrapf(ErrInvalidChangeID, "%q", id)
	}
	return nil
}

// Layout resolves paths under a project root.
type Layout struct {
	Root string
}

// NewLayout returns the layout for root.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) Dir() string              { return filepath.Join(l.Root, RootDir) }
func (l Layout) ConfigPath() string       { return filepath.Join(l.Dir(), ConfigFile) }
func (l Layout) ProjectPath() string      { return filepath.Join(l.Dir(), ProjectFile) }
func (l Layout) ConstitutionPath() string { return filepath.Join(l.Dir(), ConstitutionFile) }
func (l Layout) SpecsDir() string         { return filepath.Join(l.Dir(), SpecsDir) }
func (l Layout) ChangesDir() string       { return filepath.Join(l.Dir(), ChangesDir) }
func (l Layout) ArchiveDir() string       { return filepath.Join(l.Dir(), ArchiveDir) }

// ChangeDir returns the directory of an active change.
func (l Layout) ChangeDir(changeID string) string {
	return filepath.Join(l.ChangesDir(), changeID)
}

func (l Layout) ProposalPath(changeID string) string {
	return filepath.Join(l.ChangeDir(changeID), ProposalFile)
}

func (l Layout) TasksPath(changeID string) string {
	return filepath.Join(l.ChangeDir(changeID), TasksFile)
}

func (l Layout) PlanPath(changeID string) string {
	return filepath.Join(l.ChangeDir(changeID), PlanFile)
}

// SpecDeltaPath returns the spec delta document inside a change.
func (l Layout) SpecDeltaPath(changeID string) string {
	return filepath.Join(l.ChangeDir(changeID), SpecsDir, SpecDeltaFile)
}

// CheckpointPath returns where a step-mode implementation records its
// outstanding task.
func (l Layout) CheckpointPath(changeID string) string {
	return filepath.Join(l.ChangeDir(changeID), CheckpointFile)
}

// MainSpecPath returns the main store entry a change's delta is copied to.
func (l Layout) MainSpecPath(changeID string) string {
	return filepath.Join(l.SpecsDir(), changeID+"_spec.md")
}

// Initialized reports whether the openspec directory exists.
func (l Layout) Initialized() bool {
	info, err := os.Stat(l.Dir())
	return err == nil && info.IsDir()
}

// ReadConstitution returns the guidance document, or "" when it is absent.
func (l Layout) ReadConstitution() (string, error) {
	data, err := os.ReadFile(l.ConstitutionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read constitution")
	}
	return string(data), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readOptional(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
