// Package style holds the design helpers that sit beside the preset engine:
// seed-colour palettes and the style-category matcher behind suggest_style.
package style

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
)

// Harmony is a colour-theory rule for deriving palette colours from a seed.
type Harmony string

const (
	Complementary      Harmony = "complementary"
	Triadic            Harmony = "triadic"
	Analogous          Harmony = "analogous"
	Monochromatic      Harmony = "monochromatic"
	SplitComplementary Harmony = "split-complementary"
	Tetradic           Harmony = "tetradic"
)

// Harmonies lists the supported harmony rules.
var Harmonies = []Harmony{Complementary, Triadic, Analogous, Monochromatic, SplitComplementary, Tetradic}

// ParseHarmony validates a harmony name; the empty string means complementary.
func ParseHarmony(name string) (Harmony, error) {
	if name == "" {
		return Complementary, nil
	}
	for _, h := range Harmonies {
		if string(h) == strings.ToLower(name) {
			return h, nil
		}
	}

	names := make([]string, len(Harmonies))
	for i, h := range Harmonies {
		names[i] = string(h)
	}
	return "", apperrors.ErrInvalidInput(
		fmt.Sprintf("unknown harmony %q (expected one of %s)", name, strings.Join(names, ", ")))
}

var seedPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidSeed reports whether seed is a #rrggbb colour.
func ValidSeed(seed string) bool {
	return seedPattern.MatchString(seed)
}

// HSL holds hue in degrees and saturation and lightness in percent, all
// rounded to integers.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Semantic are the role colours derived from the seed.
type Semantic struct {
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	Muted      string `json:"muted"`
	Surface    string `json:"surface"`
}

// Shades is the 50..900 lightness scale of the seed hue.
type Shades struct {
	S50  string `json:"50"`
	S100 string `json:"100"`
	S200 string `json:"200"`
	S300 string `json:"300"`
	S400 string `json:"400"`
	S500 string `json:"500"`
	S600 string `json:"600"`
	S700 string `json:"700"`
	S800 string `json:"800"`
	S900 string `json:"900"`
}

// Palette is the result of BuildPalette.
type Palette struct {
	Seed     string            `json:"seed"`
	HSL      HSL               `json:"hsl"`
	Harmony  Harmony           `json:"harmony"`
	Colors   map[string]string `json:"colors"`
	Semantic Semantic          `json:"semantic"`
	Shades   *Shades           `json:"shades,omitempty"`
}

// BuildPalette derives harmony, semantic and optional shade colours from a
// #rrggbb seed.
func BuildPalette(seed string, harmony Harmony, includeShades bool) (*Palette, error) {
	if !ValidSeed(seed) {
		return nil, apperrors.ErrInvalidInput(fmt.Sprintf("seed color %q must be a 6-digit hex color like #6366f1", seed))
	}

	c := HexToHSL(seed)
	h, s, l := c.H, c.S, c.L

	colors := map[string]string{"primary": seed}
	switch harmony {
	case Complementary:
		colors["complement"] = HSLToHex(h+180, s, l)
	case Triadic:
		colors["secondary"] = HSLToHex(h+120, s, l)
		colors["tertiary"] = HSLToHex(h+240, s, l)
	case Analogous:
		colors["left"] = HSLToHex(h-30, s, l)
		colors["right"] = HSLToHex(h+30, s, l)
	case Monochromatic:
		colors["lightest"] = HSLToHex(h, max(s-20, 5), min(l+30, 95))
		colors["light"] = HSLToHex(h, max(s-10, 10), min(l+15, 90))
		colors["dark"] = HSLToHex(h, min(s+10, 100), max(l-15, 10))
		colors["darkest"] = HSLToHex(h, min(s+20, 100), max(l-30, 5))
	case SplitComplementary:
		colors["splitLeft"] = HSLToHex(h+150, s, l)
		colors["splitRight"] = HSLToHex(h+210, s, l)
	case Tetradic:
		colors["secondary"] = HSLToHex(h+90, s, l)
		colors["tertiary"] = HSLToHex(h+180, s, l)
		colors["quaternary"] = HSLToHex(h+270, s, l)
	}

	p := &Palette{
		Seed:     seed,
		HSL:      c,
		Harmony:  harmony,
		Colors:   colors,
		Semantic: semantic(h, s, l),
	}
	if includeShades {
		p.Shades = shades(h, s)
	}

	return p, nil
}

func semantic(h, s, l int) Semantic {
	light := l > 50

	out := Semantic{
		Muted:   HSLToHex(h, max(s-25, 5), pick(light, 88, 25)),
		Surface: HSLToHex(h, max(s-30, 5), pick(light, 96, 12)),
	}
	if light {
		out.Foreground = HSLToHex(h, min(s+10, 100), max(l-45, 10))
		out.Background = HSLToHex(h, max(s-30, 5), min(l+25, 98))
	} else {
		out.Foreground = HSLToHex(h, max(s-10, 5), min(l+45, 95))
		out.Background = HSLToHex(h, max(s-30, 5), max(l-25, 5))
	}
	return out
}

func shades(h, s int) *Shades {
	return &Shades{
		S50:  HSLToHex(h, max(s-15, 10), 97),
		S100: HSLToHex(h, max(s-10, 15), 93),
		S200: HSLToHex(h, s, 86),
		S300: HSLToHex(h, s, 74),
		S400: HSLToHex(h, s, 62),
		S500: HSLToHex(h, s, 50),
		S600: HSLToHex(h, min(s+5, 100), 42),
		S700: HSLToHex(h, min(s+8, 100), 34),
		S800: HSLToHex(h, min(s+10, 100), 26),
		S900: HSLToHex(h, min(s+12, 100), 18),
	}
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

// HexToHSL converts a #rrggbb colour to rounded HSL. The input must already
// be validated.
func HexToHSL(hex string) HSL {
	hex = strings.TrimPrefix(hex, "#")
	channel := func(i int) float64 {
		v, _ := strconv.ParseUint(hex[i:i+2], 16, 8)
		return float64(v) / 255
	}
	r, g, b := channel(0), channel(2), channel(4)

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l := (hi + lo) / 2

	if hi == lo {
		return HSL{H: 0, S: 0, L: round(l * 100)}
	}

	d := hi - lo
	var s float64
	if l > 0.5 {
		s = d / (2 - hi - lo)
	} else {
		s = d / (hi + lo)
	}

	var hue float64
	switch hi {
	case r:
		hue = (g - b) / d
		if g < b {
			hue += 6
		}
	case g:
		hue = (b-r)/d + 2
	default:
		hue = (r-g)/d + 4
	}
	hue /= 6

	return HSL{H: round(hue * 360), S: round(s * 100), L: round(l * 100)}
}

// HSLToHex converts HSL to #rrggbb. Hue wraps around 360; saturation and
// lightness are clamped to 0..100.
func HSLToHex(h, s, l int) string {
	hue := math.Mod(math.Mod(float64(h), 360)+360, 360)
	sn := float64(clamp(s, 0, 100)) / 100
	ln := float64(clamp(l, 0, 100)) / 100

	c := (1 - math.Abs(2*ln-1)) * sn
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := ln - c/2

	var r, g, b float64
	switch {
	case hue < 60:
		r, g = c, x
	case hue < 120:
		r, g = x, c
	case hue < 180:
		g, b = c, x
	case hue < 240:
		g, b = x, c
	case hue < 300:
		r, b = x, c
	default:
		r, b = c, x
	}

	toByte := func(v float64) int { return round((v + m) * 255) }
	return fmt.Sprintf("#%02x%02x%02x", toByte(r), toByte(g), toByte(b))
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
