package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncsound919/OG-Glass/internal/testutils"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestEventTypeOf(t *testing.T) {
	assert.Equal(t, EventTypeCreated, eventTypeOf(fsnotify.Create))
	assert.Equal(t, EventTypeModified, eventTypeOf(fsnotify.Write))
	assert.Equal(t, EventTypeDeleted, eventTypeOf(fsnotify.Remove))
	assert.Equal(t, EventTypeRenamed, eventTypeOf(fsnotify.Rename))
	assert.Equal(t, EventTypeModified, eventTypeOf(fsnotify.Chmod))
	assert.Equal(t, EventTypeCreated, eventTypeOf(fsnotify.Create|fsnotify.Write))
}

func TestNewFileWatcher(t *testing.T) {
	root := t.TempDir()
	watcher, err := NewFileWatcher(root, 100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
	assert.True(t, filepath.IsAbs(watcher.Root()))
}

func TestFileWatcherAddFilterAndHandler(t *testing.T) {
	watcher, err := NewFileWatcher(t.TempDir(), 100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.AddFilter(NoHiddenFilter)
	watcher.AddFilter(NoTempFilter)
	assert.Len(t, watcher.filters, 2)

	var got []ChangeEvent
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		got = events
		return nil
	})
	watcher.AddHandler(func(context.Context, []ChangeEvent) error {
		return fmt.Errorf("handler failure is logged")
	})
	assert.Len(t, watcher.handlers, 2)

	watcher.dispatch(context.Background(), []ChangeEvent{{Type: EventTypeCreated, Path: "a/tokens.json"}})
	assert.Equal(t, []ChangeEvent{{Type: EventTypeCreated, Path: "a/tokens.json"}}, got)
}

func TestValidatePath(t *testing.T) {
	root := t.TempDir()
	watcher, err := NewFileWatcher(root, 100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"root", root, false},
		{"child", filepath.Join(root, "glassmorphic-base"), false},
		{"cleaned child", filepath.Join(root, "a", "..", "b"), false},
		{"parent", filepath.Join(root, ".."), true},
		{"sibling", root + "-other", true},
		{"escape", filepath.Join(root, "..", "..", "etc"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := watcher.validatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "outside watch root")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddRecursive(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "glassmorphic-base", "components", "navigation"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))

	watcher, err := NewFileWatcher(root, 100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, watcher.AddRecursive())

	watched := watcher.watcher.WatchList()
	sort.Strings(watched)
	assert.Contains(t, watched, watcher.Root())
	assert.Contains(t, watched, filepath.Join(watcher.Root(), "glassmorphic-base", "components", "navigation"))
	assert.NotContains(t, watched, filepath.Join(watcher.Root(), ".git"))
}

func TestAddRecursiveMissingRoot(t *testing.T) {
	watcher, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing"), 100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Error(t, watcher.AddRecursive())
}

func TestFileWatcherStartStop(t *testing.T) {
	root := t.TempDir()
	watcher, err := NewFileWatcher(root, 50*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.AddRecursive())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []ChangeEvent
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		received = append(received, events...)
		mu.Unlock()
		return nil
	})

	require.NoError(t, watcher.Start(ctx))

	testFile := filepath.Join(root, "tokens.json")
	require.NoError(t, os.WriteFile(testFile, []byte("{}"), 0o644))

	testutils.WaitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) > 0
	})

	mu.Lock()
	assert.Equal(t, filepath.Join(watcher.Root(), "tokens.json"), received[0].Path)
	mu.Unlock()

	cancel()
	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}

func TestFileWatcherWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	watcher, err := NewFileWatcher(root, 30*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()
	require.NoError(t, watcher.AddRecursive())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	paths := map[string]bool{}
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			paths[e.Path] = true
		}
		return nil
	})
	require.NoError(t, watcher.Start(ctx))

	dir := filepath.Join(root, "client-fintech")
	require.NoError(t, os.Mkdir(dir, 0o755))

	expected := filepath.Join(watcher.Root(), "client-fintech")
	testutils.WaitFor(t, 2*time.Second, func() bool {
		for _, w := range watcher.watcher.WatchList() {
			if w == expected {
				return true
			}
		}
		return false
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("{}"), 0o644))

	testutils.WaitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return paths[filepath.Join(expected, "manifest.json")]
	})
}

func TestFiltersReceiveRelativePaths(t *testing.T) {
	root := t.TempDir()
	watcher, err := NewFileWatcher(root, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	var seen []string
	watcher.AddFilter(func(path string) bool {
		seen = append(seen, path)
		return false
	})

	watcher.handleFsnotifyEvent(context.Background(), fsnotify.Event{
		Name: filepath.Join(watcher.Root(), "a", "tokens.json"),
		Op:   fsnotify.Write,
	})

	assert.Equal(t, []string{filepath.Join("a", "tokens.json")}, seen)
	assert.Empty(t, watcher.debouncer.events)
}

func TestDebouncer(t *testing.T) {
	debouncer := newDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go debouncer.start(ctx)

	debouncer.events <- ChangeEvent{Path: "b/tokens.json", Type: EventTypeCreated}
	debouncer.events <- ChangeEvent{Path: "a/manifest.json", Type: EventTypeModified}
	debouncer.events <- ChangeEvent{Path: "b/tokens.json", Type: EventTypeModified}

	select {
	case events := <-debouncer.output:
		assert.Equal(t, []ChangeEvent{
			{Path: "a/manifest.json", Type: EventTypeModified},
			{Path: "b/tokens.json", Type: EventTypeModified},
		}, events)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never flushed")
	}
}

func TestDebouncerFlushEmpty(t *testing.T) {
	debouncer := newDebouncer(time.Millisecond)
	debouncer.flush()
	assert.Empty(t, debouncer.output)
}

func TestNoHiddenFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{".", true},
		{"glassmorphic-base/tokens.json", true},
		{".git/config", false},
		{"glassmorphic-base/.tokens.json.swp", false},
		{"a/.cache/x.json", false},
		{"../outside", true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoHiddenFilter(tc.path))
		})
	}
}

func TestNoTempFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"a/tokens.json", true},
		{"a/tokens.json~", false},
		{"a/tokens.json.swp", false},
		{"a/write.tmp", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoTempFilter(tc.path))
		})
	}
}
