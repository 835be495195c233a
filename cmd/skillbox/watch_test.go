package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillbox/pkg/openspec"
)

func TestWatchTasksReportsProgress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.md")
	require.NoError(t, os.WriteFile(path, []byte("- [ ] one\n- [x] two\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan Progress, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchTasks(ctx, path, 10*time.Millisecond, func(p Progress) { updates <- p })
	}()

	select {
	case p := <-updates:
		assert.Equal(t, Progress{Total: 2, Done: 1}, p)
		assert.False(t, p.Complete())
	case <-time.After(5 * time.Second):
		t.Fatal("no initial progress reported")
	}

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("- [x] one\n- [x] two\n"), 0o644))

	select {
	case p := <-updates:
		assert.Equal(t, Progress{Total: 2, Done: 2}, p)
		assert.True(t, p.Complete())
	case <-time.After(5 * time.Second):
		t.Fatal("no progress reported after the task list changed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchTasksMissingFile(t *testing.T) {
	err := watchTasks(context.Background(), filepath.Join(t.TempDir(), "tasks.md"), time.Millisecond, func(Progress) {})
	require.Error(t, err)
	assert.True(t, errors.Is(err, openspec.ErrNotFound))
}

func TestProgressComplete(t *testing.T) {
	assert.False(t, Progress{}.Complete())
	assert.False(t, Progress{Total: 3, Done: 2}.Complete())
	assert.True(t, Progress{Total: 3, Done: 3}.Complete())
}
