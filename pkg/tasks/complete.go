package tasks

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

var pendingMarker = regexp.MustCompile(`-\s*\[\s*\]`)

// MarkComplete flips task's checkbox in the document at path from "[ ]" to
// "[x]" and rewrites the file under an exclusive lock.
//
// The line recorded in task.Line is used when it is still pending with the
// same raw text. Otherwise the first pending line whose sanitized description
// equals task.Description is used, which covers edits that shifted lines
// between parse and completion. ErrTaskNotFound is returned when neither
// matches; the file is left untouched in that case. A missing or unreadable
// document is reported as ErrParse and is never created.
func MarkComplete(path string, task Task) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(ErrParse, "%s: %v", path, err)
	}

	err := lockedfile.Transform(path, func(data []byte) ([]byte, error) {
		lines := splitLines(string(data))

		idx := locate(lines, task)
		if idx < 0 {
			return nil, errors.Wrapf(ErrTaskNotFound, "%q", task.Description)
		}

		lines[idx] = pendingMarker.ReplaceAllStringFunc(lines[idx], replaceOnce())
		return []byte(strings.Join(lines, "\n")), nil
	})
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return err
		}
		return errors.Wrapf(err, "failed to update tasks document %s", path)
	}
	return nil
}

func locate(lines []string, task Task) int {
	if task.Line >= 0 && task.Line < len(lines) {
		if t, ok := parseLine(task.Line, lines[task.Line]); ok && !t.Done && t.Raw == task.Raw {
			return task.Line
		}
	}

	for i, line := range lines {
		t, ok := parseLine(i, line)
		if ok && !t.Done && t.Description == task.Description {
			return i
		}
	}

	return -1
}

// replaceOnce returns a replacement func that only rewrites its first match.
func replaceOnce() func(string) string {
	replaced := false
	return func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		return "- [x]"
	}
}
