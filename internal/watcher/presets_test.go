package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/services"
	"github.com/ncsound919/OG-Glass/internal/testutils"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

func TestPresetIDFromPath(t *testing.T) {
	root := filepath.FromSlash("/srv/presets")

	tests := []struct {
		name   string
		path   string
		id     string
		wantOK bool
	}{
		{"manifest", "/srv/presets/glassmorphic-base/manifest.json", "glassmorphic-base", true},
		{"nested component", "/srv/presets/client-fintech/components/navigation/NavItem.json", "client-fintech", true},
		{"directory itself", "/srv/presets/client-fintech", "client-fintech", true},
		{"root", "/srv/presets", "", false},
		{"outside", "/srv/other/manifest.json", "", false},
		{"parent", "/srv", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := PresetIDFromPath(root, filepath.FromSlash(tt.path))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestPresetIDs(t *testing.T) {
	root := filepath.FromSlash("/p")
	events := []ChangeEvent{
		{Path: filepath.FromSlash("/p/b/tokens.json")},
		{Path: filepath.FromSlash("/p/a/manifest.json")},
		{Path: filepath.FromSlash("/p/b/layouts/main.json")},
		{Path: filepath.FromSlash("/elsewhere/c.json")},
	}

	assert.Equal(t, []string{"b", "a"}, PresetIDs(root, events))
	assert.Nil(t, PresetIDs(root, nil))
}

type recordingHandler struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (h *recordingHandler) HandlePresetChange(_ context.Context, id string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ids = append(h.ids, id)
	if h.err != nil {
		return nil, h.err
	}
	return []string{id}, nil
}

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ids...)
}

func TestPresetWatcherHandleBatch(t *testing.T) {
	root := testutils.CreatePresetRoot(t)
	handler := &recordingHandler{}

	pw, err := NewPresetWatcher(root, 10*time.Millisecond, handler, nil)
	require.NoError(t, err)
	defer pw.Stop()

	abs := pw.files.Root()
	err = pw.handle(context.Background(), []ChangeEvent{
		{Path: filepath.Join(abs, "glassmorphic-base", "tokens.json")},
		{Path: filepath.Join(abs, "glassmorphic-base", "manifest.json")},
		{Path: filepath.Join(abs, "client-fintech", "tokens.json")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"glassmorphic-base", "client-fintech"}, handler.seen())
}

func TestPresetWatcherHandlerErrorsAreLogged(t *testing.T) {
	handler := &recordingHandler{err: assert.AnError}

	pw, err := NewPresetWatcher(t.TempDir(), 10*time.Millisecond, handler, nil)
	require.NoError(t, err)
	defer pw.Stop()

	abs := pw.files.Root()
	assert.NoError(t, pw.handle(context.Background(), []ChangeEvent{
		{Path: filepath.Join(abs, "a", "x.json")},
		{Path: filepath.Join(abs, "b", "x.json")},
	}))
	assert.Equal(t, []string{"a", "b"}, handler.seen())
}

func TestPresetWatcherMissingRoot(t *testing.T) {
	_, err := NewPresetWatcher(filepath.Join(t.TempDir(), "missing"), 10*time.Millisecond, &recordingHandler{}, nil)
	assert.Error(t, err)
}

func TestPresetWatcherEndToEnd(t *testing.T) {
	root := testutils.CreatePresetRoot(t)
	testutils.WriteBasePreset(t, root, "glassmorphic-base")
	handler := &recordingHandler{}

	pw, err := NewPresetWatcher(root, 20*time.Millisecond, handler, nil)
	require.NoError(t, err)
	defer pw.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(root, "glassmorphic-base", "tokens.json"), []byte(testutils.BaseTokensJSON), 0o644))

	testutils.WaitFor(t, 2*time.Second, func() bool {
		for _, id := range handler.seen() {
			if id == "glassmorphic-base" {
				return true
			}
		}
		return false
	})
}

func TestPresetWatcherReloadsActivePreset(t *testing.T) {
	root := testutils.CreatePresetRoot(t)
	testutils.WriteBasePreset(t, root, "glassmorphic-base")

	store, err := presets.NewStore(root, nil)
	require.NoError(t, err)
	studio := services.NewStudio(store, services.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = studio.LoadPreset(ctx, "glassmorphic-base", false)
	require.NoError(t, err)

	pw, err := NewPresetWatcher(root, 20*time.Millisecond, studio, nil)
	require.NoError(t, err)
	defer pw.Stop()
	require.NoError(t, pw.Start(ctx))

	tree := testutils.BaseTokens(t)
	tree["colors"].(map[string]interface{})["glass"].(map[string]interface{})["tint"] = "rgba(1,2,3,0.4)"
	testutils.WriteJSON(t, filepath.Join(root, "glassmorphic-base", "tokens.json"), tree)

	testutils.WaitFor(t, 3*time.Second, func() bool {
		effective, err := studio.EffectiveTokens()
		if err != nil {
			return false
		}
		tint, _ := tokens.Lookup(effective, "colors.glass.tint")
		return tint == "rgba(1,2,3,0.4)"
	})
}
