package implement

import (
	"context"

	"github.com/jingkaihe/skillbox/pkg/openspec"
)

// Event is one item of the stream produced by Events: a status message, an
// instruction payload or a completion acknowledgement.
type Event struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
	Task    string `json:"task,omitempty"`
}

func status(success bool, message string) Event {
	return Event{Success: &success, Message: message}
}

// Events drives a whole run without an agent in the loop and returns the
// stream a caller would have observed: the start message, then a payload and
// an acknowledgement per task, then the final message. Every pending task is
// checked off. Failures end the stream with an unsuccessful status event.
func Events(ctx context.Context, layout openspec.Layout, changeID string, opts ...Option) []Event {
	d, err := Start(ctx, layout, changeID, opts...)
	if err != nil {
		return []Event{status(false, err.Error())}
	}
	if d.Total() == 0 {
		return []Event{status(true, NothingToDo)}
	}

	events := []Event{status(true, d.StartMessage())}
	for !d.Done() {
		p, err := d.Next(ctx)
		if err != nil {
			return append(events, status(false, err.Error()))
		}
		events = append(events, Event{Prompt: p.Prompt, Task: p.Task})

		ack, err := d.Resume(ctx)
		if err != nil {
			return append(events, status(false, err.Error()))
		}
		events = append(events, Event{Message: ack.Message})
	}

	return append(events, status(true, d.Summary()))
}
