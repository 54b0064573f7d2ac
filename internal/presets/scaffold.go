package presets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

var (
	presetIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ScaffoldRequest describes a new child preset.
type ScaffoldRequest struct {
	ID          string `json:"preset_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Extends     string `json:"extends,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
}

// ScaffoldResult reports what Scaffold created.
type ScaffoldResult struct {
	PresetID string   `json:"presetId"`
	Name     string   `json:"name"`
	Extends  string   `json:"extends"`
	Path     string   `json:"path"`
	Files    []string `json:"files"`
}

// ValidPresetID reports whether id is a lowercase kebab-case identifier.
func ValidPresetID(id string) bool {
	return presetIDPattern.MatchString(id)
}

// DisplayName derives a title-cased name from a kebab-case id.
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

// Scaffold creates a new preset directory extending an existing preset. The
// preset directory is created with a single non-recursive mkdir, so an id
// that already exists fails with ERR_PRESET_EXISTS and nothing on disk is
// touched. A failure after creation removes the new directory again.
func (s *Store) Scaffold(ctx context.Context, req ScaffoldRequest, defaultExtends string) (*ScaffoldResult, error) {
	if !ValidPresetID(req.ID) {
		return nil, apperrors.ErrInvalidInput(
			fmt.Sprintf("preset id %q must be lowercase kebab-case", req.ID))
	}
	if req.AccentColor != "" && !hexColorPattern.MatchString(req.AccentColor) {
		return nil, apperrors.ErrInvalidInput(
			fmt.Sprintf("accent color %q must be a #rrggbb hex value", req.AccentColor))
	}

	extends := req.Extends
	if extends == "" {
		extends = defaultExtends
	}
	if _, err := s.Load(ctx, extends); err != nil {
		return nil, &apperrors.AppError{
			Type:     apperrors.ErrorTypeValidation,
			Code:     apperrors.ErrCodeInvalidInput,
			Message:  fmt.Sprintf("unknown extends preset '%s'", extends),
			Cause:    err,
			PresetID: req.ID,
		}
	}

	dir, err := resolveDir(s.root, req.ID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, apperrors.NewIOError(apperrors.ErrCodePermissionDenied, "creating presets root", err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, apperrors.NewConflictError(apperrors.ErrCodePresetExists,
				fmt.Sprintf("preset '%s' already exists", req.ID)).WithPreset(req.ID)
		}
		return nil, apperrors.NewIOError(apperrors.ErrCodePermissionDenied, "creating preset directory", err).
			WithPreset(req.ID)
	}

	name := req.Name
	if name == "" {
		name = DisplayName(req.ID)
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Custom preset extending %s", extends)
	}

	manifest := Manifest{
		ID:          req.ID,
		Name:        name,
		Description: description,
		Version:     "1.0.0",
		Extends:     extends,
		Tags:        []string{"custom"},
		Components:  []string{},
		Layouts:     []string{},
	}
	own := map[string]interface{}{}
	if req.AccentColor != "" {
		own["colors"] = map[string]interface{}{
			"accent": map[string]interface{}{"primary": req.AccentColor},
		}
	}

	files, err := writeScaffold(dir, manifest, own)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			s.logger.Warn(ctx, rmErr, "could not remove partial preset", "preset", req.ID)
		}
		return nil, apperrors.NewIOError(apperrors.ErrCodePermissionDenied, "writing preset files", err).
			WithPreset(req.ID)
	}

	s.logger.Info(ctx, "preset scaffolded", "preset", req.ID, "extends", extends)

	return &ScaffoldResult{
		PresetID: req.ID,
		Name:     name,
		Extends:  extends,
		Path:     dir,
		Files:    files,
	}, nil
}

func writeScaffold(dir string, manifest Manifest, own map[string]interface{}) ([]string, error) {
	for _, sub := range []string{ComponentsDir, LayoutsDir} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, err
		}
	}

	files := []string{ManifestFile, TokensFile}
	contents := []interface{}{manifest, own}
	for i, name := range files {
		raw, err := json.MarshalIndent(contents[i], "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, name), append(raw, '\n'), 0o644); err != nil {
			return nil, err
		}
	}

	return append(files, ComponentsDir+"/", LayoutsDir+"/"), nil
}
