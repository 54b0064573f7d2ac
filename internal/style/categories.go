package style

import (
	"fmt"
	"strings"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/tokens"
)

// Category is a named visual style with the presets that implement it.
type Category struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Principles  []string `json:"principles"`
	Presets     []string `json:"presets"`
	Keywords    []string `json:"keywords"`

	overrides map[string]interface{}
}

// registry order is the tie-break order for Suggest.
var registry = []Category{
	{
		ID:          "glassmorphic",
		Name:        "Glassmorphic",
		Description: "Frosted-glass surfaces with backdrop blur, translucent layers, and soft highlights on a dark substrate. Modern SaaS and fintech staple.",
		Principles:  []string{"backdrop-blur", "translucency", "dark-substrate", "soft-borders", "layered-depth"},
		Presets:     []string{"glassmorphic-base", "client-fintech", "client-saas", "client-dark-minimal"},
		Keywords:    []string{"glass", "blur", "frosted", "dark", "translucent", "modern", "saas", "fintech", "dashboard", "admin"},
		overrides: map[string]interface{}{
			"colors": map[string]interface{}{"base": map[string]interface{}{"bg": "#0a0d14"}},
			"blur":   map[string]interface{}{"md": "blur(12px)"},
		},
	},
	{
		ID:          "neumorphic",
		Name:        "Neumorphic",
		Description: "Soft extruded shapes cast from a light monochromatic background using a dual-shadow technique. Depth comes from shadows alone, with no glass or blur.",
		Principles:  []string{"depth-through-shadow", "soft-extrusion", "monochromatic-light", "no-harsh-borders"},
		Presets:     []string{"style-neumorphic"},
		Keywords:    []string{"neumorphic", "soft ui", "soft", "light", "shadow", "extrude", "extruded", "clay", "emboss", "3d"},
		overrides: map[string]interface{}{
			"colors": map[string]interface{}{"base": map[string]interface{}{"bg": "#e0e5ec"}},
			"blur":   map[string]interface{}{"md": "blur(0px)"},
		},
	},
	{
		ID:          "cyberpunk",
		Name:        "Neon Cyberpunk",
		Description: "Pitch-dark background with vivid neon accents, monospace typography, and glowing outlines. High-tech, dystopian, hacker aesthetic.",
		Principles:  []string{"neon-glow", "dark-substrate", "monospace-first", "high-contrast", "electric-accents"},
		Presets:     []string{"style-neon-cyberpunk"},
		Keywords:    []string{"neon", "cyber", "cyberpunk", "hacker", "terminal", "matrix", "retro", "glow", "electric", "tech", "sci-fi", "futuristic", "dark tech"},
		overrides: map[string]interface{}{
			"colors": map[string]interface{}{
				"base":   map[string]interface{}{"bg": "#050510"},
				"accent": map[string]interface{}{"primary": "#00ff88"},
			},
		},
	},
	{
		ID:          "brutalist",
		Name:        "Brutalist",
		Description: "Raw, functional, zero-decoration design. Stark black on white, hard edges, no border-radius, heavy typography. Structure is the aesthetic.",
		Principles:  []string{"form-follows-function", "zero-decoration", "maximum-contrast", "heavy-type", "visible-structure"},
		Presets:     []string{"style-brutalist"},
		Keywords:    []string{"brutalist", "brutal", "raw", "stark", "bold", "black white", "minimal", "functional", "newspaper", "editorial", "print"},
		overrides: map[string]interface{}{
			"colors": map[string]interface{}{"base": map[string]interface{}{"bg": "#ffffff", "border": "rgba(0,0,0,0.9)"}},
			"blur":   map[string]interface{}{"md": "blur(0px)"},
		},
	},
	{
		ID:          "pastel",
		Name:        "Soft Pastel",
		Description: "Light lavender-tinted backgrounds with pastel purple and pink accents. Generous rounding, gentle contrast, and a friendly approachable feel.",
		Principles:  []string{"soft-color-harmony", "generous-rounding", "gentle-contrast", "airy-spacing", "approachable-tone"},
		Presets:     []string{"style-soft-pastel"},
		Keywords:    []string{"pastel", "soft", "dreamy", "pink", "purple", "gentle", "friendly", "cute", "kawaii", "kids", "playful", "light", "feminine", "lavender"},
		overrides: map[string]interface{}{
			"colors": map[string]interface{}{
				"base":   map[string]interface{}{"bg": "#fef7ff"},
				"accent": map[string]interface{}{"primary": "#c084fc"},
			},
		},
	},
	{
		ID:          "aurora",
		Name:        "Aurora Gradient",
		Description: "Deep navy substrate with iridescent aurora-inspired accents. Purples, greens and teals are layered with rich glassmorphic depth.",
		Principles:  []string{"aurora-color-palette", "deep-dark-substrate", "iridescent-accents", "layered-depth", "natural-gradients"},
		Presets:     []string{"style-aurora"},
		Keywords:    []string{"aurora", "gradient", "rainbow", "iridescent", "colorful", "vibrant", "night sky", "cosmic", "space", "galaxy", "borealis", "northern lights"},
		overrides: map[string]interface{}{
			"colors": map[string]interface{}{
				"base":   map[string]interface{}{"bg": "#04081a"},
				"accent": map[string]interface{}{"primary": "#a78bfa", "secondary": "#34d399"},
			},
		},
	},
}

// listedKeywords is how many keywords a listing shows per category.
const listedKeywords = 6

// CategorySummary is a listing entry.
type CategorySummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Principles  []string `json:"principles"`
	Keywords    []string `json:"keywords"`
	Presets     []string `json:"presets,omitempty"`
}

// Categories lists every style category in registry order.
func Categories(includePresets bool) []CategorySummary {
	out := make([]CategorySummary, len(registry))
	for i, c := range registry {
		out[i] = CategorySummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Principles:  c.Principles,
			Keywords:    c.Keywords[:min(listedKeywords, len(c.Keywords))],
		}
		if includePresets {
			out[i].Presets = c.Presets
		}
	}
	return out
}

// Confidence grades how well a description matched a category.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// OutputFormat selects how much of a suggestion is returned.
type OutputFormat string

const (
	OutputPresetID OutputFormat = "preset_id"
	OutputTokens   OutputFormat = "tokens"
	OutputFull     OutputFormat = "full"
)

// ParseOutputFormat validates an output format; the empty string means full.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", OutputFull:
		return OutputFull, nil
	case OutputPresetID:
		return OutputPresetID, nil
	case OutputTokens:
		return OutputTokens, nil
	}
	return "", apperrors.ErrInvalidInput(
		fmt.Sprintf("unknown output format %q (expected preset_id, tokens or full)", name))
}

// Suggestion is the full result of Suggest.
type Suggestion struct {
	PresetID           string                 `json:"preset_id"`
	Category           CategoryRef            `json:"category"`
	Confidence         Confidence             `json:"confidence"`
	Reasoning          string                 `json:"reasoning"`
	MatchedKeywords    []string               `json:"matched_keywords"`
	SuggestedOverrides map[string]interface{} `json:"suggested_overrides"`
	NextSteps          []string               `json:"next_steps"`
}

// CategoryRef is the category part of a Suggestion.
type CategoryRef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Principles  []string `json:"principles"`
}

// Suggest picks the category whose keywords occur most often in description.
// Ties keep registry order, so an unmatched description yields the first
// category with low confidence.
func Suggest(description string) *Suggestion {
	lower := strings.ToLower(description)

	best := 0
	var bestMatches []string
	for i, c := range registry {
		matches := matchedKeywords(lower, c.Keywords)
		if len(matches) > len(bestMatches) {
			best, bestMatches = i, matches
		}
	}

	c := registry[best]
	presetID := c.Presets[0]

	confidence := ConfidenceLow
	switch {
	case len(bestMatches) >= 3:
		confidence = ConfidenceHigh
	case len(bestMatches) >= 1:
		confidence = ConfidenceMedium
	}

	reasoning := fmt.Sprintf("No strong keyword match found. Defaulting to %q as a general-purpose starting point.", c.Name)
	if len(bestMatches) > 0 {
		reasoning = fmt.Sprintf("Matched %d keyword(s) from the %q style category: %s.",
			len(bestMatches), c.Name, strings.Join(bestMatches, ", "))
	}
	if bestMatches == nil {
		bestMatches = []string{}
	}

	return &Suggestion{
		PresetID: presetID,
		Category: CategoryRef{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Principles:  c.Principles,
		},
		Confidence:         confidence,
		Reasoning:          reasoning,
		MatchedKeywords:    bestMatches,
		SuggestedOverrides: tokens.Clone(c.overrides),
		NextSteps: []string{
			fmt.Sprintf("load_preset(%q)", presetID),
			"apply_token_overrides({ overrides: <suggested_overrides> })",
			fmt.Sprintf("scaffold_preset({ preset_id: \"my-brand\", extends: %q })", presetID),
		},
	}
}

// Shape reduces a suggestion to what format asks for.
func (s *Suggestion) Shape(format OutputFormat) interface{} {
	switch format {
	case OutputPresetID:
		return map[string]interface{}{"preset_id": s.PresetID}
	case OutputTokens:
		return map[string]interface{}{"overrides": s.SuggestedOverrides}
	default:
		return s
	}
}

func matchedKeywords(lower string, keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			out = append(out, kw)
		}
	}
	return out
}
