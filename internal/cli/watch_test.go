package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitChanged(t *testing.T, w *scenarioWatcher) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestScenarioWatcher_SignalsScenarioWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := newScenarioWatcher(dir, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeFile(t, dir, "a.yaml", passingScenario)
	waitChanged(t, w)

	writeFile(t, dir, "notes.txt", "ignored")
	select {
	case <-w.Changed():
		t.Fatal("non-scenario file triggered a change")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestScenarioWatcher_WatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := newScenarioWatcher(dir, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	time.Sleep(100 * time.Millisecond)

	writeFile(t, dir, "sub/b.cue", reentrantScenario)
	waitChanged(t, w)
}

func TestScenarioWatcher_MissingRoot(t *testing.T) {
	_, err := newScenarioWatcher(filepath.Join(t.TempDir(), "absent"), time.Millisecond, nil)
	require.Error(t, err)
}

func TestTestCommandWatchReruns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rename.yaml", passingScenario)

	out := &syncBuffer{}
	cmd := NewTestCommand(testRootOptions("text"))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir, "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "Watching") == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(failingScenario), 0o644))

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "Watching") >= 2
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "✗ wrong_count")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
