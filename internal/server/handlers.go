package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/generator"
	"github.com/ncsound919/OG-Glass/internal/lint"
	"github.com/ncsound919/OG-Glass/internal/presets"
	"github.com/ncsound919/OG-Glass/internal/version"
)

// maxBodyBytes bounds every JSON request body. Code submitted for lint is
// itself capped at lint.MaxCodeLength, so this leaves ample room.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing left to report to the client.
		return
	}
}

// writeError answers with the status mapped from err. Internal failures are
// logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	message := apperrors.Describe(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), err, "Request failed", "path", r.URL.Path)
		message = "Internal server error"
	}

	writeJSON(w, status, errorBody{Error: message})
}

// decode reads a JSON body into v. An empty body leaves v at its defaults.
func decode(r *http.Request, w http.ResponseWriter, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.ErrInvalidInput(fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes))
		}
		return apperrors.ErrInvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}

func required(name, value string) error {
	if value == "" {
		return apperrors.ErrInvalidInput(name + " is required")
	}
	return nil
}

// optionalBool distinguishes an absent flag from an explicit false.
func optionalBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"server":       s.config.MCP.Name,
		"version":      version.Short(),
		"activePreset": s.studio.SessionSummary().ActivePresetID,
		"clients":      s.hub.Count(),
	})
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	includeMetadata, _ := strconv.ParseBool(r.URL.Query().Get("include_metadata"))

	if includeMetadata {
		writeJSON(w, http.StatusOK, map[string]interface{}{"presets": s.studio.Manifests(r.Context())})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"presets": s.studio.ListPresets(r.Context())})
}

type loadRequest struct {
	PresetID    string `json:"preset_id"`
	ForceReload bool   `json:"force_reload"`
}

func (s *Server) handleLoadPreset(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("preset_id", req.PresetID); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.LoadPreset(r.Context(), req.PresetID, req.ForceReload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type swapRequest struct {
	PresetID          string `json:"preset_id"`
	PreserveOverrides bool   `json:"preserve_overrides"`
}

func (s *Server) handleSwapPreset(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("preset_id", req.PresetID); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.SwapPreset(r.Context(), req.PresetID, req.PreserveOverrides)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type diffRequest struct {
	PresetA string `json:"preset_a"`
	PresetB string `json:"preset_b"`
	Scope   string `json:"scope"`
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.PresetA == "" || req.PresetB == "" {
		s.writeError(w, r, apperrors.ErrInvalidInput("preset_a and preset_b are required"))
		return
	}

	diff, err := s.studio.Diff(r.Context(), req.PresetA, req.PresetB, req.Scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.SessionSummary())
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tree, err := s.studio.EffectiveTokens()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

type exportRequest struct {
	Format          string `json:"format"`
	IncludeComments *bool  `json:"include_comments"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	export, err := s.studio.ExportTokens(req.Format, optionalBool(req.IncludeComments, true))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, export)
}

type overridesRequest struct {
	Overrides map[string]interface{} `json:"overrides"`
	Persist   bool                   `json:"persist"`
}

func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	var req overridesRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Overrides == nil {
		s.writeError(w, r, apperrors.ErrInvalidInput("overrides must be a JSON object"))
		return
	}

	result, err := s.studio.ApplyOverrides(r.Context(), req.Overrides, req.Persist)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type validateRequest struct {
	Code               string `json:"code"`
	IncludeSuggestions *bool  `json:"include_suggestions"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := lint.CheckCodeLength(req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.Validate(req.Code, optionalBool(req.IncludeSuggestions, true))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type correctRequest struct {
	Code    string `json:"code"`
	Context string `json:"context"`
	DryRun  bool   `json:"dry_run"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := lint.CheckCodeLength(req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.Autocorrect(req.Code, req.Context, req.DryRun)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleScaffold(w http.ResponseWriter, r *http.Request) {
	var req presets.ScaffoldRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("preset_id", req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.Scaffold(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	includePresets := true
	if raw := r.URL.Query().Get("include_presets"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, apperrors.ErrInvalidInput("include_presets must be a boolean"))
			return
		}
		includePresets = parsed
	}

	categories := s.studio.StyleCategories(includePresets)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"total":      len(categories),
	})
}

type suggestRequest struct {
	Description  string `json:"description"`
	OutputFormat string `json:"output_format"`
}

func (s *Server) handleSuggestStyle(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("description", req.Description); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.SuggestStyle(req.Description, req.OutputFormat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type paletteRequest struct {
	SeedColor     string `json:"seed_color"`
	Harmony       string `json:"harmony"`
	IncludeShades *bool  `json:"include_shades"`
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	var req paletteRequest
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("seed_color", req.SeedColor); err != nil {
		s.writeError(w, r, err)
		return
	}

	palette, err := s.studio.Palette(req.SeedColor, req.Harmony, optionalBool(req.IncludeShades, true))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, palette)
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	components, err := s.studio.Components()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"components": components})
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	layouts, err := s.studio.Layouts()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"layouts": layouts})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if err := decode(r, w, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := required("template_name", req.Template); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.studio.Generate(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
