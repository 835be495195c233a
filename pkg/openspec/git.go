package openspec

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/gitops"
	"github.com/jingkaihe/skillbox/pkg/logger"
)

// openRepo returns a runner for the project root, or nil with no warning when
// the root is not a git work tree.
func openRepo(ctx context.Context, root string) (*gitops.Runner, string) {
	repo, err := gitops.Open(ctx, root)
	switch {
	case err == nil:
		return repo, ""
	case errors.Is(err, gitops.ErrNotRepository):
		logger.G(ctx).WithField("root", root).Warn("git integration enabled but root is not a git work tree")
		return nil, ""
	default:
		return nil, gitWarning(ctx, err)
	}
}

// gitWarning logs err and returns the text reported to the caller.
func gitWarning(ctx context.Context, err error) string {
	log := logger.G(ctx).WithError(err)
	if gitops.IsSoftFailure(err) {
		log.Warn("git command failed")
	} else {
		log.Warn("git unavailable")
	}
	return err.Error()
}

// commitProposal switches to the change's feature branch and commits the
// change directory. It returns a warning describing the first failed step.
func commitProposal(ctx context.Context, layout Layout, git GitIntegration, changeID string) string {
	if !git.Enabled {
		return ""
	}

	repo, warning := openRepo(ctx, layout.Root)
	if repo == nil {
		return warning
	}

	branch := git.Branch(changeID)
	if err := repo.CreateAndSwitch(ctx, branch); err != nil {
		return gitWarning(ctx, err)
	}

	rel, err := filepath.Rel(layout.Root, layout.ChangeDir(changeID))
	if err != nil {
		rel = layout.ChangeDir(changeID)
	}
	if err := repo.Add(ctx, rel); err != nil {
		return gitWarning(ctx, err)
	}
	if err := repo.Commit(ctx, fmt.Sprintf("Add change proposal %s", changeID)); err != nil {
		return gitWarning(ctx, err)
	}

	logger.G(ctx).WithField("branch", branch).Info("committed change proposal")
	return ""
}

// removeFeatureBranch switches off the change's feature branch if it is
// checked out and deletes it.
func removeFeatureBranch(ctx context.Context, layout Layout, git GitIntegration, changeID string) string {
	if !git.Enabled {
		return ""
	}

	repo, warning := openRepo(ctx, layout.Root)
	if repo == nil {
		return warning
	}

	branch := git.Branch(changeID)
	if !repo.BranchExists(ctx, branch) {
		return ""
	}

	current, err := repo.CurrentBranch(ctx)
	if err != nil {
		return gitWarning(ctx, err)
	}
	if current == branch {
		if err := repo.Switch(ctx, repo.DefaultBaseBranch(ctx, git.BaseBranch)); err != nil {
			return gitWarning(ctx, err)
		}
	}

	remove := repo.DeleteBranch
	if git.ForceDelete {
		remove = repo.ForceDeleteBranch
	}
	if err := remove(ctx, branch); err != nil {
		return gitWarning(ctx, err)
	}

	logger.G(ctx).WithField("branch", branch).Info("deleted feature branch")
	return ""
}
