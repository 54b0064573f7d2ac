package presets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// Store resolves presets under a root directory and memoises the results.
type Store struct {
	root   string
	cache  *Cache[*Preset]
	logger logging.Logger
}

// NewStore creates a store rooted at root. The root does not have to exist
// yet; listing an absent root yields no presets.
func NewStore(root string, logger logging.Logger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.NewConfigError(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("resolving presets root %q: %v", root, err))
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Store{
		root:   abs,
		cache:  NewCache[*Preset](),
		logger: logger.WithComponent("preset_store"),
	}, nil
}

// Root returns the absolute presets root.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory of preset id after the traversal check.
func (s *Store) Dir(id string) (string, error) {
	return resolveDir(s.root, id)
}

// Exists reports whether a directory for id is present under the root.
func (s *Store) Exists(id string) bool {
	dir, err := resolveDir(s.root, id)
	if err != nil {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// Load returns the resolved preset for id, reading it from disk on a cache
// miss. Parents named by extends are resolved through the same cache.
func (s *Store) Load(ctx context.Context, id string) (*Preset, error) {
	return s.load(ctx, id, nil)
}

func (s *Store) load(ctx context.Context, id string, chain []string) (*Preset, error) {
	for _, seen := range chain {
		if seen == id {
			return nil, apperrors.NewValidationError(
				apperrors.ErrCodeInheritanceCycle,
				fmt.Sprintf("inheritance cycle: %s -> %s", strings.Join(chain, " -> "), id),
			).WithPreset(id)
		}
	}

	return s.cache.GetOrLoad(id, func() (*Preset, error) {
		next := append(append([]string(nil), chain...), id)
		return s.readFromDisk(ctx, id, next)
	})
}

func (s *Store) readFromDisk(ctx context.Context, id string, chain []string) (*Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := resolveDir(s.root, id)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, apperrors.ErrPresetNotFound(id).WithFile(dir)
	}

	manifest, err := readManifest(dir, id)
	if err != nil {
		return nil, err
	}

	own, err := readOwnTokens(dir, id)
	if err != nil {
		return nil, err
	}

	components, err := readComponents(ctx, dir, id)
	if err != nil {
		return nil, err
	}

	layouts, err := readLayouts(ctx, dir, id)
	if err != nil {
		return nil, err
	}

	preset := &Preset{
		Manifest:   *manifest,
		Tokens:     own,
		Components: components,
		Layouts:    layouts,
	}

	if manifest.Extends != "" {
		parent, err := s.load(ctx, manifest.Extends, chain)
		if err != nil {
			return nil, fmt.Errorf("resolving parent %q of preset %q: %w", manifest.Extends, id, err)
		}

		preset.ancestors = append([]string{manifest.Extends}, parent.ancestors...)
		preset.Tokens = tokens.Merge(parent.Tokens, own)
		for name, tmpl := range parent.Components {
			if _, ok := preset.Components[name]; !ok {
				preset.Components[name] = tmpl
			}
		}
		for name, layout := range parent.Layouts {
			if _, ok := preset.Layouts[name]; !ok {
				preset.Layouts[name] = layout
			}
		}
	} else {
		s.checkRootTokens(ctx, id, own)
	}

	s.logger.Debug(ctx, "preset resolved from disk",
		"preset", id,
		"extends", manifest.Extends,
		"components", len(preset.Components),
		"layouts", len(preset.Layouts))

	return preset, nil
}

// checkRootTokens logs root presets whose tokens do not cover the full shape.
func (s *Store) checkRootTokens(ctx context.Context, id string, tree map[string]interface{}) {
	dt, err := tokens.Decode(tree)
	if err != nil {
		s.logger.Warn(ctx, err, "root preset tokens do not decode", "preset", id)
		return
	}
	if missing := dt.MissingFields(); len(missing) > 0 {
		s.logger.Warn(ctx, nil, "root preset tokens are incomplete",
			"preset", id, "missing", strings.Join(missing, ","))
	}
}

// Invalidate drops the cache entry for id only. Cached presets that extend id
// keep their previously merged content.
func (s *Store) Invalidate(id string) bool {
	return s.cache.Invalidate(id)
}

// InvalidateWithDependents drops id and every cached preset whose extends
// chain reaches id, even through ancestors no longer cached. It returns the
// affected ids, sorted, always including id.
func (s *Store) InvalidateWithDependents(id string) []string {
	affected := map[string]bool{id: true}
	for key, preset := range s.cache.Snapshot() {
		for _, ancestor := range preset.ancestors {
			if ancestor == id {
				affected[key] = true
				break
			}
		}
	}

	ids := make([]string, 0, len(affected))
	for key := range affected {
		s.cache.Invalidate(key)
		ids = append(ids, key)
	}
	sort.Strings(ids)

	return ids
}

// Clear empties the cache.
func (s *Store) Clear() {
	s.cache.Clear()
}

// Cached lists the ids currently held in the cache.
func (s *Store) Cached() []string {
	return s.cache.Keys()
}

// List returns the preset directory names under the root in lexicographic
// order. An unreadable root yields an empty list.
func (s *Store) List(ctx context.Context) []string {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.logger.Debug(ctx, "presets root unreadable", "root", s.root, "error", err.Error())
		return []string{}
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)

	return ids
}

// Manifests reads the manifest of every listed preset without resolving
// inheritance. Unreadable manifests produce an entry carrying an error.
func (s *Store) Manifests(ctx context.Context) []ManifestSummary {
	ids := s.List(ctx)
	out := make([]ManifestSummary, 0, len(ids))

	for _, id := range ids {
		dir, err := resolveDir(s.root, id)
		if err != nil {
			continue
		}
		manifest, err := readManifest(dir, id)
		if err != nil {
			s.logger.Warn(ctx, err, "could not load manifest", "preset", id)
			out = append(out, ManifestSummary{ID: id, Name: id, Error: "Could not load manifest"})
			continue
		}
		out = append(out, ManifestSummary{
			ID:          id,
			Name:        manifest.Name,
			Description: manifest.Description,
			Version:     manifest.Version,
			Extends:     manifest.Extends,
			Tags:        manifest.Tags,
		})
	}

	return out
}

// PersistOverrides writes overrides as overrides.json inside the preset
// directory and returns the written path. The loader never reads this file.
func (s *Store) PersistOverrides(id string, overrides map[string]interface{}) (string, error) {
	dir, err := resolveDir(s.root, id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.ErrPresetNotFound(id)
	}

	body, err := tokens.GenerateJSON(overrides)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, OverridesFile)
	if err := os.WriteFile(path, []byte(body+"\n"), 0o644); err != nil {
		return "", apperrors.NewIOError(apperrors.ErrCodePermissionDenied, "writing overrides", err).
			WithPreset(id).WithFile(path)
	}

	return path, nil
}
