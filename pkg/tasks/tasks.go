// Package tasks parses Markdown checklists (tasks.md) and updates their
// completion markers in place.
//
// A pending task is a line of the form "- [ ] description" and a completed
// task is "- [x] description". Leading whitespace before the dash and any
// whitespace between tokens are accepted. Descriptions are sanitized before
// use so that invisible or bidirectional control characters never reach an
// instruction payload or a match key.
package tasks

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrParse wraps I/O failures while reading a tasks document.
	ErrParse = errors.New("failed to read tasks document")
	// ErrTaskNotFound is returned by MarkComplete when no pending line matches.
	ErrTaskNotFound = errors.New("pending task not found")
)

var (
	pendingLinePattern = regexp.MustCompile(`^\s*-\s*\[\s*\]\s*(.+)$`)
	doneLinePattern    = regexp.MustCompile(`^\s*-\s*\[[xX]\]\s*(.+)$`)
)

// Task is a single checklist item.
type Task struct {
	// Line is the 0-based line index of the item in the source document.
	Line int `json:"line"`
	// Raw is the text after the checkbox, trimmed but otherwise untouched.
	Raw string `json:"raw"`
	// Description is Raw after Sanitize.
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Parse returns every checklist item in document order.
func Parse(content string) []Task {
	var tasks []Task

	for i, line := range splitLines(content) {
		task, ok := parseLine(i, line)
		if !ok {
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks
}

// Pending returns the unchecked items of content in document order.
func Pending(content string) []Task {
	var pending []Task
	for _, t := range Parse(content) {
		if !t.Done {
			pending = append(pending, t)
		}
	}
	return pending
}

// ReadPending reads path and returns its pending items. Only I/O failures
// produce an error; a document without checklist items yields nil.
func ReadPending(path string) ([]Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "%s: %v", path, err)
	}
	return Pending(string(content)), nil
}

// Descriptions returns the sanitized descriptions of tasks.
func Descriptions(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Description)
	}
	return out
}

// Stats returns the number of items and how many of them are done.
func Stats(tasks []Task) (total, done int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Done {
			done++
		}
	}
	return total, done
}

func parseLine(index int, line string) (Task, bool) {
	line = strings.TrimRight(line, "\r")

	done := false
	matches := pendingLinePattern.FindStringSubmatch(line)
	if matches == nil {
		matches = doneLinePattern.FindStringSubmatch(line)
		done = true
	}
	if matches == nil {
		return Task{}, false
	}

	raw := strings.TrimSpace(matches[1])
	return Task{
		Line:        index,
		Raw:         raw,
		Description: Sanitize(raw),
		Done:        done,
	}, true
}

// splitLines splits on "\n" only, keeping any "\r" so that rewrites preserve
// the original line endings.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}
