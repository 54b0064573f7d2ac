// Package services contains the Studio, the single entry point the MCP tools,
// the REST API, the CLI and the watcher use to drive presets, the session and
// the lint engine.
package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/generator"
	"github.com/ncsound919/OG-Glass/internal/lint"
	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/session"
	"github.com/ncsound919/OG-Glass/internal/style"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// DefaultExtends is the parent used by Scaffold when none is given.
const DefaultExtends = "glassmorphic-base"

// Options configures a Studio.
type Options struct {
	DefaultExtends string
	Logger         logging.Logger
}

// Studio binds one preset store to one session.
type Studio struct {
	store          *presets.Store
	session        *session.Session
	logger         logging.Logger
	defaultExtends string
	events         *broker
	now            func() time.Time
}

// NewStudio creates a Studio over store with a fresh session.
func NewStudio(store *presets.Store, opts Options) *Studio {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	defaultExtends := opts.DefaultExtends
	if defaultExtends == "" {
		defaultExtends = DefaultExtends
	}

	return &Studio{
		store:          store,
		session:        session.New(),
		logger:         logger.WithComponent("studio"),
		defaultExtends: defaultExtends,
		events:         newBroker(),
		now:            time.Now,
	}
}

// Store returns the underlying preset store.
func (s *Studio) Store() *presets.Store {
	return s.store
}

// Session returns the studio's session.
func (s *Studio) Session() *session.Session {
	return s.session
}

// Subscribe registers for live events. The returned cancel function must be
// called to release the subscription.
func (s *Studio) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

func (s *Studio) emit(ctx context.Context, t EventType, presetID string, data interface{}) {
	dropped := s.events.publish(Event{Type: t, PresetID: presetID, Data: data, Timestamp: s.now().UTC()})
	if dropped > 0 {
		s.logger.Debug(ctx, "event dropped for slow subscribers", "type", t, "dropped", dropped)
	}
}

// LoadResult summarises an activated preset.
type LoadResult struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Extends        *string  `json:"extends"`
	ComponentCount int      `json:"componentCount"`
	LayoutCount    int      `json:"layoutCount"`
	Tags           []string `json:"tags"`
}

func summarize(p *presets.Preset) *LoadResult {
	var extends *string
	if p.Manifest.Extends != "" {
		e := p.Manifest.Extends
		extends = &e
	}
	tags := p.Manifest.Tags
	if tags == nil {
		tags = []string{}
	}

	return &LoadResult{
		ID:             p.ID(),
		Name:           p.Manifest.Name,
		Version:        p.Manifest.Version,
		Extends:        extends,
		ComponentCount: len(p.Components),
		LayoutCount:    len(p.Layouts),
		Tags:           tags,
	}
}

// LoadPreset resolves id and makes it the active preset, discarding any
// overrides. force drops the cached entry first.
func (s *Studio) LoadPreset(ctx context.Context, id string, force bool) (*LoadResult, error) {
	if force {
		s.store.Invalidate(id)
	}

	preset, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.session.SetActivePreset(id, preset)

	result := summarize(preset)
	s.logger.Info(ctx, "preset activated", "preset", id, "force", force)
	s.emit(ctx, EventPresetLoaded, id, result)

	return result, nil
}

// SwapResult describes a hot swap.
type SwapResult struct {
	SwappedTo          string  `json:"swappedTo"`
	PreviousPreset     *string `json:"previousPreset"`
	OverridesPreserved bool    `json:"overridesPreserved"`
}

// SwapPreset activates id. With preserveOverrides the previous overrides are
// re-applied on top of the new preset.
func (s *Studio) SwapPreset(ctx context.Context, id string, preserveOverrides bool) (*SwapResult, error) {
	previous := s.session.State()

	preset, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.session.SetActivePreset(id, preset)
	if preserveOverrides && len(previous.Overrides) > 0 {
		s.session.ApplyTokenOverrides(previous.Overrides)
	}

	result := &SwapResult{SwappedTo: id, OverridesPreserved: preserveOverrides}
	if previous.ActivePresetID != "" {
		prev := previous.ActivePresetID
		result.PreviousPreset = &prev
	}

	s.logger.Info(ctx, "preset swapped", "from", previous.ActivePresetID, "to", id, "preserve_overrides", preserveOverrides)
	s.emit(ctx, EventPresetLoaded, id, result)

	return result, nil
}

// ListPresets returns the preset ids under the root.
func (s *Studio) ListPresets(ctx context.Context) []string {
	return s.store.List(ctx)
}

// Manifests returns one manifest summary per preset.
func (s *Studio) Manifests(ctx context.Context) []presets.ManifestSummary {
	return s.store.Manifests(ctx)
}

// Diff compares two presets within scope ("" means all).
func (s *Studio) Diff(ctx context.Context, a, b, scope string) (*presets.Diff, error) {
	diffScope, err := presets.ParseDiffScope(scope)
	if err != nil {
		return nil, err
	}

	left, err := s.store.Load(ctx, a)
	if err != nil {
		return nil, err
	}
	right, err := s.store.Load(ctx, b)
	if err != nil {
		return nil, err
	}

	return presets.Compare(left, right, diffScope), nil
}

// SessionSummary describes the current session.
func (s *Studio) SessionSummary() session.Summary {
	return s.session.Summary()
}

// ResetSession clears the active preset and overrides.
func (s *Studio) ResetSession(ctx context.Context) {
	s.session.Reset()
	s.logger.Info(ctx, "session reset")
	s.emit(ctx, EventSessionReset, "", nil)
}

// EffectiveTokens returns the active preset's tokens with overrides applied.
func (s *Studio) EffectiveTokens() (map[string]interface{}, error) {
	return s.session.EffectiveTokens()
}

// Export is the result of ExportTokens.
type Export struct {
	Format   tokens.Format `json:"format"`
	PresetID string        `json:"presetId"`
	Content  string        `json:"content"`
}

// ExportTokens renders the effective tokens in format ("" means css). With
// includeComments css, js and tailwind output starts with a header block;
// json never does.
func (s *Studio) ExportTokens(format string, includeComments bool) (*Export, error) {
	f, err := tokens.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	preset, err := s.session.RequireActivePreset("generate_tokens")
	if err != nil {
		return nil, err
	}
	tree, err := s.session.EffectiveTokens()
	if err != nil {
		return nil, err
	}

	header := ""
	if includeComments {
		header = tokens.Header(preset.ID(), preset.Manifest.Version, s.now())
	}

	var body string
	switch f {
	case tokens.FormatJSON:
		body, err = tokens.GenerateJSON(tree)
		header = ""
	case tokens.FormatJS:
		body, err = tokens.GenerateExport(tree)
	case tokens.FormatTailwind:
		var typed *tokens.DesignTokens
		if typed, err = tokens.Decode(tree); err == nil {
			body, err = tokens.GenerateTailwind(typed)
		}
	default:
		var typed *tokens.DesignTokens
		if typed, err = tokens.Decode(tree); err == nil {
			body = tokens.GenerateCSS(typed)
		}
	}
	if err != nil {
		return nil, err
	}

	return &Export{Format: f, PresetID: preset.ID(), Content: header + body}, nil
}

// OverrideResult describes an ApplyOverrides call.
type OverrideResult struct {
	AppliedPaths []string `json:"appliedPaths"`
	Persisted    bool     `json:"persisted"`
	PresetID     string   `json:"presetId"`
	Path         string   `json:"path,omitempty"`
}

// ApplyOverrides merges overrides into the session. With persist the same
// partial tree is written to the preset's overrides.json.
func (s *Studio) ApplyOverrides(ctx context.Context, overrides map[string]interface{}, persist bool) (*OverrideResult, error) {
	preset, err := s.session.RequireActivePreset("apply_token_overrides")
	if err != nil {
		return nil, err
	}
	if overrides == nil {
		overrides = map[string]interface{}{}
	}

	s.session.ApplyTokenOverrides(overrides)

	result := &OverrideResult{
		AppliedPaths: tokens.FlattenPaths(overrides),
		Persisted:    persist,
		PresetID:     preset.ID(),
	}
	if result.AppliedPaths == nil {
		result.AppliedPaths = []string{}
	}

	if persist {
		path, err := s.store.PersistOverrides(preset.ID(), overrides)
		if err != nil {
			return nil, err
		}
		result.Path = path
	}

	s.logger.Info(ctx, "token overrides applied", "preset", preset.ID(), "paths", len(result.AppliedPaths), "persisted", persist)
	s.emit(ctx, EventOverridesApplied, preset.ID(), result)

	return result, nil
}

// Validate lints code against the active preset. Without suggestions, info
// issues are filtered out.
func (s *Studio) Validate(code string, includeSuggestions bool) (*lint.ValidationResult, error) {
	preset, err := s.session.RequireActivePreset("validate_ui")
	if err != nil {
		return nil, err
	}
	tree, err := s.session.EffectiveTokens()
	if err != nil {
		return nil, err
	}

	result := lint.Validate(code, preset, tree)
	if !includeSuggestions {
		result = result.WithoutInfo()
	}
	return result, nil
}

// Autocorrect rewrites code against the active preset. A dry run returns the
// validation result instead, leaving code untouched.
func (s *Studio) Autocorrect(code, contextHint string, dryRun bool) (interface{}, error) {
	if len(code) > lint.MaxCodeLength {
		return nil, apperrors.ErrInvalidInput(
			fmt.Sprintf("code is %d characters, the limit is %d", len(code), lint.MaxCodeLength))
	}
	hint, err := lint.ParseContext(contextHint)
	if err != nil {
		return nil, err
	}
	preset, err := s.session.RequireActivePreset("autocorrect_component")
	if err != nil {
		return nil, err
	}
	tree, err := s.session.EffectiveTokens()
	if err != nil {
		return nil, err
	}

	if dryRun {
		return lint.Validate(code, preset, tree), nil
	}
	return lint.Correct(code, preset, tree, lint.Options{Context: hint}), nil
}

// Scaffold creates a new preset on disk.
func (s *Studio) Scaffold(ctx context.Context, req presets.ScaffoldRequest) (*presets.ScaffoldResult, error) {
	result, err := s.store.Scaffold(ctx, req, s.defaultExtends)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, EventPresetScaffolded, result.PresetID, result)
	return result, nil
}

// Generate renders a component template of the active preset.
func (s *Studio) Generate(req generator.Request) (*generator.Result, error) {
	preset, err := s.session.RequireActivePreset("generate_component")
	if err != nil {
		return nil, err
	}
	tree, err := s.session.EffectiveTokens()
	if err != nil {
		return nil, err
	}
	return generator.Generate(preset, tree, req)
}

// Components lists the active preset's components.
func (s *Studio) Components() ([]generator.ComponentInfo, error) {
	preset, err := s.session.RequireActivePreset("list_components")
	if err != nil {
		return nil, err
	}
	return generator.Components(preset), nil
}

// Layouts lists the active preset's layouts.
func (s *Studio) Layouts() ([]generator.LayoutInfo, error) {
	preset, err := s.session.RequireActivePreset("list_layouts")
	if err != nil {
		return nil, err
	}
	return generator.Layouts(preset), nil
}

// Palette builds a colour palette from a seed.
func (s *Studio) Palette(seed, harmony string, includeShades bool) (*style.Palette, error) {
	h, err := style.ParseHarmony(harmony)
	if err != nil {
		return nil, err
	}
	return style.BuildPalette(seed, h, includeShades)
}

// SuggestStyle matches a free-text description to a style category.
func (s *Studio) SuggestStyle(description, format string) (interface{}, error) {
	f, err := style.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}
	return style.Suggest(description).Shape(f), nil
}

// StyleCategories lists the style categories.
func (s *Studio) StyleCategories(includePresets bool) []style.CategorySummary {
	return style.Categories(includePresets)
}

// HandlePresetChange reacts to files of id changing on disk: id and every
// cached preset extending it are invalidated, and the active preset is
// reloaded when it was among them. Reloading discards overrides.
func (s *Studio) HandlePresetChange(ctx context.Context, id string) ([]string, error) {
	invalidated := s.store.InvalidateWithDependents(id)
	s.logger.Debug(ctx, "preset cache invalidated", "preset", id, "invalidated", invalidated)

	active := s.session.State().ActivePresetID
	if active == "" || !slices.Contains(invalidated, active) {
		return invalidated, nil
	}

	preset, err := s.store.Load(ctx, active)
	if err != nil {
		s.logger.Warn(ctx, err, "reloading active preset failed", "preset", active)
		return invalidated, err
	}
	s.session.SetActivePreset(active, preset)

	s.logger.Info(ctx, "active preset reloaded", "preset", active, "trigger", id)
	s.emit(ctx, EventPresetReloaded, active, summarize(preset))

	return invalidated, nil
}
