package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncsound919/OG-Glass/internal/logging"
)

// PresetChangeHandler reacts to a change under one preset directory and
// returns the preset ids it invalidated.
type PresetChangeHandler interface {
	HandlePresetChange(ctx context.Context, id string) ([]string, error)
}

// PresetIDFromPath maps a changed path to the preset id it belongs to: the
// first path segment under root. It reports false for root itself and for
// paths outside root.
func PresetIDFromPath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}

	id, _, _ := strings.Cut(rel, "/")
	return id, id != ""
}

// PresetIDs maps a batch of events to distinct preset ids in first-seen
// order.
func PresetIDs(root string, events []ChangeEvent) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, event := range events {
		id, ok := PresetIDFromPath(root, event.Path)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// PresetWatcher feeds debounced preset changes to a PresetChangeHandler.
type PresetWatcher struct {
	files   *FileWatcher
	handler PresetChangeHandler
	logger  logging.Logger
}

// NewPresetWatcher watches root recursively and forwards every changed
// preset id to handler.
func NewPresetWatcher(root string, debounce time.Duration, handler PresetChangeHandler, logger logging.Logger) (*PresetWatcher, error) {
	files, err := NewFileWatcher(root, debounce, logger)
	if err != nil {
		return nil, err
	}

	pw := &PresetWatcher{files: files, handler: handler, logger: files.logger}
	files.AddFilter(NoHiddenFilter)
	files.AddFilter(NoTempFilter)
	files.AddHandler(pw.handle)

	if err := files.AddRecursive(); err != nil {
		_ = files.Stop()
		return nil, err
	}
	return pw, nil
}

// Start begins watching until ctx is cancelled.
func (pw *PresetWatcher) Start(ctx context.Context) error {
	return pw.files.Start(ctx)
}

// Stop releases the underlying watcher.
func (pw *PresetWatcher) Stop() error {
	return pw.files.Stop()
}

func (pw *PresetWatcher) handle(ctx context.Context, events []ChangeEvent) error {
	for _, id := range PresetIDs(pw.files.Root(), events) {
		invalidated, err := pw.handler.HandlePresetChange(ctx, id)
		if err != nil {
			pw.logger.Error(ctx, err, "Preset reload failed", "preset_id", id)
			continue
		}
		pw.logger.Info(ctx, "Preset changed", "preset_id", id, "invalidated", invalidated)
	}
	return nil
}
