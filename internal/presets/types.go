// Package presets resolves preset bundles from disk. A preset is a directory
// holding a manifest, an optional partial token file, and optional component
// and layout templates; presets may extend one parent whose resolved tokens,
// components and layouts they are merged on top of.
package presets

import (
	"sort"
)

const (
	ManifestFile  = "manifest.json"
	TokensFile    = "tokens.json"
	OverridesFile = "overrides.json"
	ComponentsDir = "components"
	LayoutsDir    = "layouts"
)

// Manifest is the identity record of a preset.
type Manifest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	Extends     string   `json:"extends,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags"`
	Components  []string `json:"components"`
	Layouts     []string `json:"layouts"`
}

// Category groups component templates.
type Category string

const (
	CategoryShell      Category = "shell"
	CategorySurface    Category = "surface"
	CategorySettings   Category = "settings"
	CategoryNavigation Category = "navigation"
	CategoryData       Category = "data"
	CategoryFeedback   Category = "feedback"
)

// Categories lists every valid component category.
var Categories = []Category{
	CategoryShell, CategorySurface, CategorySettings,
	CategoryNavigation, CategoryData, CategoryFeedback,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PropDefinition describes one prop a component template accepts.
type PropDefinition struct {
	Type        string        `json:"type"`
	Required    bool          `json:"required"`
	Default     interface{}   `json:"default,omitempty"`
	Description string        `json:"description"`
	Options     []interface{} `json:"options,omitempty"`
}

// ComponentTemplate is a parameterised component source template.
type ComponentTemplate struct {
	Name        string                      `json:"name"`
	Category    Category                    `json:"category"`
	Description string                      `json:"description"`
	PropsSchema map[string]PropDefinition   `json:"propsSchema"`
	Template    string                      `json:"template"`
	CSSModule   string                      `json:"cssModule,omitempty"`
	Variants    map[string]ComponentVariant `json:"variants,omitempty"`
}

// ComponentVariant is a partial ComponentTemplate. Nil fields fall back to
// the base template.
type ComponentVariant struct {
	Name        *string                   `json:"name,omitempty"`
	Category    *Category                 `json:"category,omitempty"`
	Description *string                   `json:"description,omitempty"`
	PropsSchema map[string]PropDefinition `json:"propsSchema,omitempty"`
	Template    *string                   `json:"template,omitempty"`
	CSSModule   *string                   `json:"cssModule,omitempty"`
}

// PropNames returns the prop schema keys in sorted order.
func (c *ComponentTemplate) PropNames() []string {
	names := make([]string, 0, len(c.PropsSchema))
	for name := range c.PropsSchema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VariantNames returns the variant keys in sorted order.
func (c *ComponentTemplate) VariantNames() []string {
	names := make([]string, 0, len(c.Variants))
	for name := range c.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LayoutTemplate is a page layout with named regions.
type LayoutTemplate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Regions     []string `json:"regions"`
	Template    string   `json:"template"`
}

// Preset is a fully resolved preset. Values handed out by the Store are
// shared with its cache and must be treated as read-only.
type Preset struct {
	Manifest   Manifest                      `json:"manifest"`
	Tokens     map[string]interface{}        `json:"tokens"`
	Components map[string]*ComponentTemplate `json:"components"`
	Layouts    map[string]*LayoutTemplate    `json:"layouts"`

	// ancestors lists the extends chain at resolution time, nearest parent
	// first.
	ancestors []string
}

// ID returns the manifest id.
func (p *Preset) ID() string {
	return p.Manifest.ID
}

// ComponentNames returns the resolved component names in sorted order.
func (p *Preset) ComponentNames() []string {
	return sortedNames(p.Components)
}

// LayoutNames returns the resolved layout names in sorted order.
func (p *Preset) LayoutNames() []string {
	return sortedNames(p.Layouts)
}

// ManifestSummary is a listing entry produced without resolving inheritance.
type ManifestSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Extends     string   `json:"extends,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
