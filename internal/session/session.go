// Package session holds the working state of one logical session: the active
// preset and the token overrides layered on top of it.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// State is a point-in-time view of a Session. Preset and Overrides are shared
// with the session and must not be modified.
type State struct {
	ActivePresetID string
	ActivePreset   *presets.Preset
	LoadedAt       time.Time
	Overrides      map[string]interface{}
}

// Summary is the serialisable description of a session.
type Summary struct {
	SessionID      string   `json:"sessionId"`
	ActivePresetID *string  `json:"activePresetId"`
	LoadedAt       *string  `json:"loadedAt"`
	HasOverrides   bool     `json:"hasOverrides"`
	OverrideKeys   []string `json:"overrideKeys"`
}

// Session owns the active preset slot. Writers replace whole values, so
// concurrent callers observe last-write-wins semantics.
type Session struct {
	id        string
	mutex     sync.RWMutex
	activeID  string
	active    *presets.Preset
	loadedAt  time.Time
	overrides map[string]interface{}
	now       func() time.Time
}

// New creates an empty session with a random id.
func New() *Session {
	return &Session{
		id:        uuid.NewString(),
		overrides: map[string]interface{}{},
		now:       time.Now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return State{
		ActivePresetID: s.activeID,
		ActivePreset:   s.active,
		LoadedAt:       s.loadedAt,
		Overrides:      s.overrides,
	}
}

// RequireActivePreset returns the active preset or the uniform
// no-active-preset error naming operation.
func (s *Session) RequireActivePreset(operation string) (*presets.Preset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.active == nil {
		return nil, apperrors.ErrNoActivePreset(operation)
	}
	return s.active, nil
}

// EffectiveTokens returns the active preset's tokens merged with the
// accumulated overrides. Without overrides the preset's own tree is returned
// as is.
func (s *Session) EffectiveTokens() (map[string]interface{}, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.active == nil {
		return nil, apperrors.ErrNoActivePreset("get_effective_tokens")
	}
	if len(s.overrides) == 0 {
		return s.active.Tokens, nil
	}
	return tokens.Merge(s.active.Tokens, s.overrides), nil
}

// SetActivePreset activates preset under id, stamps the load time and
// discards all overrides.
func (s *Session) SetActivePreset(id string, preset *presets.Preset) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.activeID = id
	s.active = preset
	s.loadedAt = s.now()
	s.overrides = map[string]interface{}{}
}

// ApplyTokenOverrides deep-merges partial into the accumulated overrides. It
// does not check for an active preset.
func (s *Session) ApplyTokenOverrides(partial map[string]interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.overrides = tokens.Merge(s.overrides, partial)
}

// Reset returns the session to its empty initial state. The id is kept.
func (s *Session) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.activeID = ""
	s.active = nil
	s.loadedAt = time.Time{}
	s.overrides = map[string]interface{}{}
}

// Summary describes the session for transports.
func (s *Session) Summary() Summary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := Summary{
		SessionID:    s.id,
		HasOverrides: len(s.overrides) > 0,
		OverrideKeys: make([]string, 0, len(s.overrides)),
	}
	if s.active != nil {
		id := s.activeID
		loaded := s.loadedAt.UTC().Format("2006-01-02T15:04:05.000Z")
		summary.ActivePresetID = &id
		summary.LoadedAt = &loaded
	}
	for key := range s.overrides {
		summary.OverrideKeys = append(summary.OverrideKeys, key)
	}
	sort.Strings(summary.OverrideKeys)

	return summary
}
