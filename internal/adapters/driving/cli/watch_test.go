package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supportsText(name string) bool {
	return strings.HasSuffix(name, ".txt")
}

func newTestWatcher(clock *time.Time, uploaded *[]string) *folderWatcher {
	w := newFolderWatcher(time.Second, supportsText, func(_ context.Context, path string) error {
		*uploaded = append(*uploaded, path)
		return nil
	})
	w.now = func() time.Time { return *clock }
	return w
}

func TestFolderWatcher_HandleEvent(t *testing.T) {
	dir := t.TempDir()
	visible := filepath.Join(dir, "labs.txt")
	hidden := filepath.Join(dir, ".labs.txt")
	other := filepath.Join(dir, "scan.png")
	for _, p := range []string{visible, hidden, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}

	clock := time.Unix(0, 0)
	var uploaded []string
	w := newTestWatcher(&clock, &uploaded)

	assert.True(t, w.handleEvent(fsnotify.Event{Name: visible, Op: fsnotify.Create}))
	assert.True(t, w.handleEvent(fsnotify.Event{Name: visible, Op: fsnotify.Write}))
	assert.False(t, w.handleEvent(fsnotify.Event{Name: visible, Op: fsnotify.Remove}))
	assert.False(t, w.handleEvent(fsnotify.Event{Name: hidden, Op: fsnotify.Create}))
	assert.False(t, w.handleEvent(fsnotify.Event{Name: other, Op: fsnotify.Create}))
	assert.False(t, w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Create}))

	assert.Len(t, w.pending, 1)
}

func TestFolderWatcher_DueAfterSettle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o600))

	clock := time.Unix(100, 0)
	var uploaded []string
	w := newTestWatcher(&clock, &uploaded)

	w.handleEvent(fsnotify.Event{Name: b, Op: fsnotify.Create})
	clock = clock.Add(500 * time.Millisecond)
	w.handleEvent(fsnotify.Event{Name: a, Op: fsnotify.Create})

	clock = clock.Add(600 * time.Millisecond)
	assert.Equal(t, []string{b}, w.due())

	// A write restarts the quiet period.
	w.handleEvent(fsnotify.Event{Name: a, Op: fsnotify.Write})
	clock = clock.Add(900 * time.Millisecond)
	assert.Empty(t, w.due())

	clock = clock.Add(100 * time.Millisecond)
	w.flush(context.Background())
	assert.Equal(t, []string{a}, uploaded)
	assert.Empty(t, w.pending)
}

func TestFolderWatcher_RunStopsOnCancel(t *testing.T) {
	clock := time.Unix(0, 0)
	var uploaded []string
	w := newTestWatcher(&clock, &uploaded)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan fsnotify.Event)
	errs := make(chan error)

	done := make(chan error, 1)
	go func() { done <- w.run(ctx, events, errs) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewFolderWatcher_DefaultSettle(t *testing.T) {
	w := newFolderWatcher(0, supportsText, nil)
	assert.Equal(t, DefaultSettleDelay, w.settle)
}

func TestFolderWatcher_PollInterval(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, newFolderWatcher(2*time.Second, supportsText, nil).pollInterval())
	assert.Equal(t, minPollInterval, newFolderWatcher(3*time.Nanosecond, supportsText, nil).pollInterval())
}

func TestFolderWatcher_RunWithTinySettle(t *testing.T) {
	w := newFolderWatcher(time.Nanosecond, supportsText, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NotPanics(t, func() {
		assert.NoError(t, w.run(ctx, make(chan fsnotify.Event), make(chan error)))
	})
}

func TestWatch_RejectsFile(t *testing.T) {
	SetServices(Services{Upload: &mockUploadService{result: uploadResult()}})

	_, err := executeCommand(t, "watch", writeTemp(t, "labs.txt", "x"))

	assert.ErrorContains(t, err, "is not a directory")
}
