package openspec

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/prompts"
	"github.com/jingkaihe/skillbox/pkg/tasks"
)

// PlanResult is returned by GeneratePlan.
type PlanResult struct {
	ChangeID string `json:"change_id"`
	Path     string `json:"plan_path"`
	Prompt   string `json:"llm_prompt"`
	Created  bool   `json:"created"`
}

// BreakdownResult is returned by BreakdownTasks.
type BreakdownResult struct {
	ChangeID string `json:"change_id"`
	Path     string `json:"tasks_path"`
	Prompt   string `json:"llm_prompt"`
	Created  bool   `json:"created"`
}

// ClarifyResult is returned by Clarify.
type ClarifyResult struct {
	ChangeID string `json:"change_id"`
	Prompt   string `json:"llm_prompt"`
}

func planDocument(changeID string) string {
	return fmt.Sprintf("# Implementation Plan for %s\n\nThis is a placeholder plan for the change '%s'.\n", changeID, changeID)
}

func breakdownDocument(changeID string) string {
	return fmt.Sprintf("# Tasks for %s\n\nThis is a placeholder task breakdown for the change '%s'.\n", changeID, changeID)
}

// GeneratePlan writes a plan.md placeholder when none exists and returns the
// prompt asking the agent to refine it.
func (s *Store) GeneratePlan(ctx context.Context, changeID string) (*PlanResult, error) {
	if err := ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	result := &PlanResult{ChangeID: changeID, Path: s.Layout.PlanPath(changeID)}
	if !fileExists(result.Path) {
		if err := writeFile(result.Path, planDocument(changeID)); err != nil {
			return nil, err
		}
		result.Created = true
	}

	proposal, err := readOptional(s.Layout.ProposalPath(changeID))
	if err != nil {
		return nil, err
	}
	guidance, err := s.Layout.ReadConstitution()
	if err != nil {
		return nil, err
	}

	result.Prompt, err = s.Prompts.Render(ctx, prompts.Plan, struct {
		ChangeID string
		PlanPath string
		Proposal string
		Guidance string
	}{changeID, result.Path, proposal, guidance})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BreakdownTasks returns the prompt asking the agent to write the task list.
// A tasks.md that already holds checklist items is left alone.
func (s *Store) BreakdownTasks(ctx context.Context, changeID string) (*BreakdownResult, error) {
	if err := ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	result := &BreakdownResult{ChangeID: changeID, Path: s.Layout.TasksPath(changeID)}
	existing, err := readOptional(result.Path)
	if err != nil {
		return nil, err
	}
	if len(tasks.Parse(existing)) == 0 {
		if err := writeFile(result.Path, breakdownDocument(changeID)); err != nil {
			return nil, err
		}
		result.Created = true
	}

	plan, err := readOptional(s.Layout.PlanPath(changeID))
	if err != nil {
		return nil, err
	}

	result.Prompt, err = s.Prompts.Render(ctx, prompts.Breakdown, struct {
		ChangeID  string
		TasksPath string
		Plan      string
	}{changeID, result.Path, plan})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clarify returns a prompt asking the agent for clarifying questions about
// the change's proposal.
func (s *Store) Clarify(ctx context.Context, changeID string) (*ClarifyResult, error) {
	if err := ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	path := s.Layout.ProposalPath(changeID)
	if !fileExists(path) {
		return nil, errors.Wrapf(ErrNotFound, "proposal file for change_id '%s' at %s", changeID, path)
	}
	proposal, err := readOptional(path)
	if err != nil {
		return nil, err
	}

	prompt, err := s.Prompts.Render(ctx, prompts.Clarify, struct{ Proposal string }{proposal})
	if err != nil {
		return nil, err
	}
	return &ClarifyResult{ChangeID: changeID, Prompt: prompt}, nil
}
