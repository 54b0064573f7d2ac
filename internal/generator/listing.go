package generator

import "github.com/ncsound919/OG-Glass/internal/presets"

// ComponentInfo is a component listing entry.
type ComponentInfo struct {
	Name        string           `json:"name"`
	Category    presets.Category `json:"category"`
	Description string           `json:"description"`
	Variants    []string         `json:"variants"`
	Props       []string         `json:"props"`
}

// LayoutInfo is a layout listing entry.
type LayoutInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Regions     []string `json:"regions"`
}

// Components lists the preset's resolved components sorted by name.
func Components(preset *presets.Preset) []ComponentInfo {
	out := make([]ComponentInfo, 0, len(preset.Components))
	for _, name := range preset.ComponentNames() {
		c := preset.Components[name]
		out = append(out, ComponentInfo{
			Name:        name,
			Category:    c.Category,
			Description: c.Description,
			Variants:    c.VariantNames(),
			Props:       c.PropNames(),
		})
	}
	return out
}

// Layouts lists the preset's resolved layouts sorted by name.
func Layouts(preset *presets.Preset) []LayoutInfo {
	out := make([]LayoutInfo, 0, len(preset.Layouts))
	for _, name := range preset.LayoutNames() {
		l := preset.Layouts[name]
		regions := l.Regions
		if regions == nil {
			regions = []string{}
		}
		out = append(out, LayoutInfo{Name: name, Description: l.Description, Regions: regions})
	}
	return out
}
