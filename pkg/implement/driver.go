// Package implement walks the pending items of a change's task list, handing
// the agent one instruction payload at a time and checking each item off
// once the agent resumes.
package implement

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/openspec"
	"github.com/jingkaihe/skillbox/pkg/prompts"
	"github.com/jingkaihe/skillbox/pkg/tasks"
)

var (
	// ErrAwaitingResume is returned by Next while a payload is outstanding.
	ErrAwaitingResume = errors.New("a task payload is awaiting completion")
	// ErrNoPendingPayload is returned by Resume when no payload is outstanding.
	ErrNoPendingPayload = errors.New("no task payload is outstanding")
	// ErrFinished is returned by Next once every task has been handed out.
	ErrFinished = errors.New("all tasks have been handed out")
)

// NothingToDo is the summary of a driver whose task list had no pending items.
const NothingToDo = "All tasks are already completed."

var testKeywords = []string{"test", "tests", "testing", "run test", "execute test", "unit test", "unit tests"}

// IsTestTask reports whether description asks for tests to be written or run.
func IsTestTask(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range testKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Payload is the instruction handed to the agent for one task.
type Payload struct {
	Prompt string `json:"prompt"`
	Task   string `json:"task"`
	IsTest bool   `json:"is_test"`
	// Position is the 1-based index of the task among this run's pending items.
	Position int `json:"position"`
	Total    int `json:"total"`

	item tasks.Task
}

// Ack confirms that a task was checked off.
type Ack struct {
	Message string `json:"message"`
	Task    string `json:"task"`
}

// Driver is the explicit state of one implementation run. It is not safe for
// concurrent use.
type Driver struct {
	changeID  string
	tasksPath string
	guidance  string
	prompts   *prompts.Renderer

	pending  []tasks.Task
	index    int
	awaiting *Payload
}

// Option configures a Driver.
type Option func(*Driver)

// WithPrompts sets the renderer used for payload prompts.
func WithPrompts(r *prompts.Renderer) Option {
	return func(d *Driver) {
		if r != nil {
			d.prompts = r
		}
	}
}

// Start reads the change's task list and the project constitution. A missing
// task list is openspec.ErrNotFound.
func Start(ctx context.Context, layout openspec.Layout, changeID string, opts ...Option) (*Driver, error) {
	if err := openspec.ValidateChangeID(changeID); err != nil {
		return nil, err
	}

	d := &Driver{
		changeID:  changeID,
		tasksPath: layout.TasksPath(changeID),
		prompts:   prompts.Builtin(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if _, err := os.Stat(d.tasksPath); os.IsNotExist(err) {
		return nil, errors.Wrapf(openspec.ErrNotFound, "tasks.md not found for change_id '%s'", changeID)
	}

	pending, err := tasks.ReadPending(d.tasksPath)
	if err != nil {
		return nil, err
	}
	d.pending = pending

	if len(pending) > 0 {
		d.guidance, err = layout.ReadConstitution()
		if err != nil {
			return nil, err
		}
	}

	logger.G(ctx).WithField("change_id", changeID).WithField("pending", len(pending)).Debug("implementation started")
	return d, nil
}

// Total returns the number of pending tasks found at Start.
func (d *Driver) Total() int { return len(d.pending) }

// Done reports whether every task has been handed out and acknowledged.
func (d *Driver) Done() bool {
	return d.awaiting == nil && d.index >= len(d.pending)
}

// StartMessage announces the run.
func (d *Driver) StartMessage() string {
	if len(d.pending) == 0 {
		return NothingToDo
	}
	return fmt.Sprintf("Starting implementation of %d pending tasks for change_id '%s'.", len(d.pending), d.changeID)
}

// Summary is the final message of the run.
func (d *Driver) Summary() string {
	if len(d.pending) == 0 {
		return NothingToDo
	}
	return fmt.Sprintf("All tasks for change_id '%s' have been completed.", d.changeID)
}

// Next returns the payload for the current task. Calling Next again before
// Resume returns ErrAwaitingResume.
func (d *Driver) Next(ctx context.Context) (*Payload, error) {
	if d.awaiting != nil {
		return nil, errors.Wrapf(ErrAwaitingResume, "%q", d.awaiting.Task)
	}
	if d.index >= len(d.pending) {
		return nil, ErrFinished
	}

	item := d.pending[d.index]
	payload, err := buildPayload(ctx, d.prompts, d.guidance, item)
	if err != nil {
		return nil, err
	}
	payload.Position = d.index + 1
	payload.Total = len(d.pending)

	d.awaiting = payload
	return payload, nil
}

// Resume checks off the outstanding task and advances to the next one.
func (d *Driver) Resume(ctx context.Context) (*Ack, error) {
	if d.awaiting == nil {
		return nil, ErrNoPendingPayload
	}

	p := d.awaiting
	if err := tasks.MarkComplete(d.tasksPath, p.item); err != nil {
		return nil, err
	}

	d.awaiting = nil
	d.index++

	logger.G(ctx).WithField("change_id", d.changeID).WithField("task", p.Task).Debug("task marked complete")
	return &Ack{Message: ackMessage(p.Task), Task: p.Task}, nil
}

func ackMessage(task string) string {
	return fmt.Sprintf("Task '%s' marked as complete.", task)
}

func buildPayload(ctx context.Context, r *prompts.Renderer, guidance string, item tasks.Task) (*Payload, error) {
	isTest := IsTestTask(item.Description)
	name := prompts.ImplementTask
	if isTest {
		name = prompts.ImplementTest
	}

	prompt, err := r.Render(ctx, name, struct {
		Guidance string
		Task     string
	}{guidance, item.Description})
	if err != nil {
		return nil, err
	}

	return &Payload{
		Prompt: prompt,
		Task:   item.Description,
		IsTest: isTest,
		item:   item,
	}, nil
}
