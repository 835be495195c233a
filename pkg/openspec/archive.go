package openspec

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
)

// ArchiveResult reports what Archive did. Success is true once the change
// directory has been moved; GitWarning carries any branch clean-up problem.
type ArchiveResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	UpdatedSpecPath string `json:"updated_main_spec_path"`
	ArchivePath     string `json:"archive_path,omitempty"`
	GitWarning      string `json:"git_warning,omitempty"`
}

// Archiver promotes a change's spec delta into the main store and moves the
// change into the archive area.
type Archiver struct {
	Layout Layout
}

// NewArchiver returns an Archiver for root.
func NewArchiver(root string) *Archiver {
	return &Archiver{Layout: NewLayout(root)}
}

// Archive runs, in order: existence check, spec delta copy, directory move
// and feature branch removal. ErrNotFound leaves the filesystem untouched.
// A failure after the move only produces a GitWarning.
func (a *Archiver) Archive(ctx context.Context, changeID string) (*ArchiveResult, error) {
	if err := ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	log := logger.G(ctx).WithField("change_id", changeID)
	changeDir := a.Layout.ChangeDir(changeID)
	if !dirExists(changeDir) {
		return nil, errors.Wrapf(ErrNotFound, "change proposal '%s'", changeID)
	}

	result := &ArchiveResult{}

	delta := a.Layout.SpecDeltaPath(changeID)
	if fileExists(delta) {
		target := a.Layout.MainSpecPath(changeID)
		if err := copyFile(delta, target); err != nil {
			return nil, errors.Wrap(err, "failed to update main spec")
		}
		result.UpdatedSpecPath = target
		log.WithField("path", target).Debug("copied spec delta into main store")
	} else {
		log.Debug("no spec delta; main store unchanged")
	}

	if err := os.MkdirAll(a.Layout.ArchiveDir(), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create archive directory")
	}
	dest := availablePath(filepath.Join(a.Layout.ArchiveDir(), changeID))
	if err := moveDir(changeDir, dest); err != nil {
		return nil, errors.Wrapf(err, "failed to archive change proposal '%s'", changeID)
	}
	log.WithField("path", dest).Debug("moved change into archive")

	result.Success = true
	result.ArchivePath = dest
	result.Message = fmt.Sprintf("Change proposal '%s' archived successfully. Main spec updated.", changeID)
	if result.UpdatedSpecPath == "" {
		result.Message = fmt.Sprintf("Change proposal '%s' archived successfully. No spec delta found; main spec unchanged.", changeID)
	}

	cfg, err := LoadConfig(a.Layout.Root)
	if err != nil {
		result.GitWarning = err.Error()
	} else {
		result.GitWarning = removeFeatureBranch(ctx, a.Layout, cfg.GitIntegration, changeID)
	}
	if result.GitWarning != "" {
		result.Message += " Git warning: " + result.GitWarning
	}

	return result, nil
}

// availablePath returns path, or path-2, path-3, ... when it already exists.
func availablePath(path string) string {
	if !fileExists(path) {
		return path
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", path, i)
		if !fileExists(candidate) {
			return candidate
		}
	}
}

// moveDir renames src to dst, copying then removing when rename crosses
// filesystems.
func moveDir(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
