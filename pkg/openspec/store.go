package openspec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/prompts"
	"github.com/jingkaihe/skillbox/pkg/tasks"
)

// Store creates and reads change proposals under a project root.
type Store struct {
	Layout  Layout
	Prompts *prompts.Renderer
}

// NewStore returns a Store for root. A nil renderer uses the embedded prompts.
func NewStore(root string, renderer *prompts.Renderer) *Store {
	if renderer == nil {
		renderer = prompts.Builtin()
	}
	return &Store{Layout: NewLayout(root), Prompts: renderer}
}

// CreateOptions describes a new change proposal.
type CreateOptions struct {
	ChangeID    string
	Description string
	// Force overwrites the documents of an existing proposal.
	Force bool
}

// CreateResult is returned by Store.Create.
type CreateResult struct {
	ChangeID   string `json:"change_id"`
	Path       string `json:"proposal_path"`
	Prompt     string `json:"llm_prompt"`
	GitWarning string `json:"git_warning,omitempty"`
}

// Proposal holds the documents of one change.
type Proposal struct {
	ChangeID  string `json:"change_id"`
	Path      string `json:"path"`
	Proposal  string `json:"proposal"`
	Tasks     string `json:"tasks"`
	SpecDelta string `json:"spec_delta"`
	Plan      string `json:"plan,omitempty"`
}

// ChangeSummary describes an active change and its task progress.
type ChangeSummary struct {
	ChangeID   string `json:"change_id"`
	Path       string `json:"path"`
	TotalTasks int    `json:"total_tasks"`
	DoneTasks  int    `json:"done_tasks"`
}

func proposalDocument(changeID, description string) string {
	return fmt.Sprintf("# Change Proposal: %s\n\n%s\n\n## Proposed Changes\n\n[Describe proposed changes in detail here]\n", changeID, description)
}

func tasksDocument(changeID string) string {
	return fmt.Sprintf("# Tasks for %s\n\n[Initial tasks will be broken down here]\n", changeID)
}

func specDeltaDocument(changeID string) string {
	return fmt.Sprintf("# Spec Delta for %s\n\n## ADDED Requirements\n\n## MODIFIED Requirements\n\n## REMOVED Requirements\n", changeID)
}

// Create writes the proposal, task list and spec delta placeholders for a
// new change and, when git integration is enabled, commits them on the
// change's feature branch. Git problems are reported in GitWarning.
func (s *Store) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	if err := ValidateChangeID(opts.ChangeID); err != nil {
		return nil, err
	}

	changeDir := s.Layout.ChangeDir(opts.ChangeID)
	log := logger.G(ctx).WithField("change_id", opts.ChangeID)

	if dirExists(changeDir) && !opts.Force {
		return nil, errors.Wrapf(ErrAlreadyExists, "change proposal '%s' at %s", opts.ChangeID, changeDir)
	}

	docs := []struct {
		path    string
		content string
	}{
		{s.Layout.ProposalPath(opts.ChangeID), proposalDocument(opts.ChangeID, opts.Description)},
		{s.Layout.TasksPath(opts.ChangeID), tasksDocument(opts.ChangeID)},
		{s.Layout.SpecDeltaPath(opts.ChangeID), specDeltaDocument(opts.ChangeID)},
	}
	for _, doc := range docs {
		if err := writeFile(doc.path, doc.content); err != nil {
			return nil, err
		}
	}
	log.WithField("path", changeDir).Debug("created change proposal")

	prompt, err := s.Prompts.Render(ctx, prompts.Proposal, struct {
		ChangeID string
		Path     string
	}{opts.ChangeID, changeDir})
	if err != nil {
		return nil, err
	}

	result := &CreateResult{
		ChangeID: opts.ChangeID,
		Path:     changeDir,
		Prompt:   prompt,
	}

	cfg, err := LoadConfig(s.Layout.Root)
	if err != nil {
		result.GitWarning = err.Error()
		return result, nil
	}
	result.GitWarning = commitProposal(ctx, s.Layout, cfg.GitIntegration, opts.ChangeID)

	return result, nil
}

// Read returns the documents of an active change. Missing documents read as
// empty strings; a missing change directory is ErrNotFound.
func (s *Store) Read(changeID string) (*Proposal, error) {
	if err := ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	changeDir := s.Layout.ChangeDir(changeID)
	if !dirExists(changeDir) {
		return nil, errors.Wrapf(ErrNotFound, "change proposal '%s'", changeID)
	}

	p := &Proposal{ChangeID: changeID, Path: changeDir}
	for _, f := range []struct {
		dst  *string
		path string
	}{
		{&p.Proposal, s.Layout.ProposalPath(changeID)},
		{&p.Tasks, s.Layout.TasksPath(changeID)},
		{&p.SpecDelta, s.Layout.SpecDeltaPath(changeID)},
		{&p.Plan, s.Layout.PlanPath(changeID)},
	} {
		content, err := readOptional(f.path)
		if err != nil {
			return nil, err
		}
		*f.dst = content
	}

	return p, nil
}

// List returns the active changes sorted by id.
func (s *Store) List() ([]ChangeSummary, error) {
	entries, err := os.ReadDir(s.Layout.ChangesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []ChangeSummary{}, nil
		}
		return nil, errors.Wrap(err, "failed to list changes")
	}

	summaries := make([]ChangeSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		summary := ChangeSummary{ChangeID: id, Path: filepath.Join(s.Layout.ChangesDir(), id)}

		content, err := readOptional(s.Layout.TasksPath(id))
		if err != nil {
			return nil, err
		}
		summary.TotalTasks, summary.DoneTasks = tasks.Stats(tasks.Parse(content))
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ChangeID < summaries[j].ChangeID })
	return summaries, nil
}
