package implement

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/tasks"
)

// ErrStaleCheckpoint is returned when a completion names a session other than
// the outstanding one.
var ErrStaleCheckpoint = errors.New("checkpoint belongs to a different session")

// Checkpoint records the payload handed out by NextStep so that a later
// process can complete it.
type Checkpoint struct {
	SessionID   string    `json:"session_id"`
	ChangeID    string    `json:"change_id"`
	Line        int       `json:"line"`
	Raw         string    `json:"raw"`
	Description string    `json:"description"`
	IssuedAt    time.Time `json:"issued_at"`
}

// StepResult is returned by NextStep and CompleteStep.
type StepResult struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	SessionID string   `json:"session_id,omitempty"`
	Payload   *Payload `json:"payload,omitempty"`
	Remaining int      `json:"remaining"`
	Finished  bool     `json:"finished"`
}

// NextStep issues the payload for the first pending task and saves a
// checkpoint next to the task list. It fails with ErrAwaitingResume while an
// earlier checkpoint is outstanding.
func NextStep(ctx context.Context, layout openspec.Layout, changeID string, opts ...Option) (*StepResult, error) {
	if err := openspec.ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	if cp, err := LoadCheckpoint(layout, changeID); err == nil {
		return nil, errors.Wrapf(ErrAwaitingResume, "task %q (session %s)", cp.Description, cp.SessionID)
	} else if !errors.Is(err, ErrNoPendingPayload) {
		return nil, err
	}

	d, err := Start(ctx, layout, changeID, opts...)
	if err != nil {
		return nil, err
	}
	if d.Done() {
		return &StepResult{Success: true, Message: NothingToDo, Finished: true}, nil
	}

	p, err := d.Next(ctx)
	if err != nil {
		return nil, err
	}

	cp := &Checkpoint{
		SessionID:   uuid.New().String(),
		ChangeID:    changeID,
		Line:        p.item.Line,
		Raw:         p.item.Raw,
		Description: p.item.Description,
		IssuedAt:    time.Now().UTC(),
	}
	if err := saveCheckpoint(layout, cp); err != nil {
		return nil, err
	}
	logger.G(ctx).WithField("change_id", changeID).WithField("session_id", cp.SessionID).Debug("checkpoint saved")

	return &StepResult{
		Success:   true,
		Message:   d.StartMessage(),
		SessionID: cp.SessionID,
		Payload:   p,
		Remaining: d.Total(),
	}, nil
}

// CompleteStep checks off the task recorded in the checkpoint and removes
// it. An empty sessionID accepts whichever checkpoint is outstanding.
func CompleteStep(ctx context.Context, layout openspec.Layout, changeID, sessionID string) (*StepResult, error) {
	if err := openspec.ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	cp, err := LoadCheckpoint(layout, changeID)
	if err != nil {
		return nil, err
	}
	if sessionID != "" && sessionID != cp.SessionID {
		return nil, errors.Wrapf(ErrStaleCheckpoint, "got %s, outstanding %s", sessionID, cp.SessionID)
	}

	tasksPath := layout.TasksPath(changeID)
	item := tasks.Task{Line: cp.Line, Raw: cp.Raw, Description: cp.Description}
	if err := tasks.MarkComplete(tasksPath, item); err != nil {
		return nil, err
	}
	if err := os.Remove(layout.CheckpointPath(changeID)); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to remove checkpoint")
	}

	pending, err := tasks.ReadPending(tasksPath)
	if err != nil {
		return nil, err
	}

	result := &StepResult{
		Success:   true,
		Message:   ackMessage(cp.Description),
		SessionID: cp.SessionID,
		Remaining: len(pending),
	}
	if len(pending) == 0 {
		result.Finished = true
		result.Message += " All tasks for change_id '" + changeID + "' have been completed."
	}
	return result, nil
}

// ResetStep discards the outstanding checkpoint so that NextStep can issue
// a payload again. The task list is not touched; a task that was reworded
// or removed after it was handed out is simply re-read on the next call.
func ResetStep(ctx context.Context, layout openspec.Layout, changeID string) (*StepResult, error) {
	if err := openspec.ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	cp, err := LoadCheckpoint(layout, changeID)
	if errors.Is(err, ErrNoPendingPayload) {
		return &StepResult{Success: true, Message: "No task payload is outstanding for change_id '" + changeID + "'."}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := DiscardCheckpoint(layout, changeID); err != nil {
		return nil, err
	}
	logger.G(ctx).WithField("change_id", changeID).WithField("session_id", cp.SessionID).Debug("checkpoint discarded")

	pending, err := tasks.ReadPending(layout.TasksPath(changeID))
	if err != nil {
		return nil, err
	}
	return &StepResult{
		Success:   true,
		Message:   "Discarded outstanding task '" + cp.Description + "'.",
		SessionID: cp.SessionID,
		Remaining: len(pending),
	}, nil
}

// LoadCheckpoint returns the outstanding checkpoint, or ErrNoPendingPayload.
func LoadCheckpoint(layout openspec.Layout, changeID string) (*Checkpoint, error) {
	data, err := lockedfile.Read(layout.CheckpointPath(changeID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoPendingPayload
		}
		return nil, errors.Wrap(err, "failed to read checkpoint")
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, errors.Wrap(err, "failed to decode checkpoint")
	}
	return &cp, nil
}

// DiscardCheckpoint drops any outstanding checkpoint without touching the
// task list.
func DiscardCheckpoint(layout openspec.Layout, changeID string) error {
	if err := os.Remove(layout.CheckpointPath(changeID)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove checkpoint")
	}
	return nil
}

func saveCheckpoint(layout openspec.Layout, cp *Checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode checkpoint")
	}
	if err := lockedfile.Write(layout.CheckpointPath(cp.ChangeID), bytes.NewReader(data), 0o644); err != nil {
		return errors.Wrap(err, "failed to write checkpoint")
	}
	return nil
}
