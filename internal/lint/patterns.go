package lint

import (
	"regexp"
	"strings"
)

var (
	colorPattern = regexp.MustCompile(
		`#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})\b|(?:rgb|rgba|hsl|hsla)\s*\([^)]+\)`)

	pixelPattern   = regexp.MustCompile(`\d+px`)
	pixelVarSuffix = regexp.MustCompile(`^\s*[);,]?\s*var\(`)

	surfaceCuePattern = regexp.MustCompile(`(?i)(?:card|panel|surface|GlassCard)`)
	surfaceClassName  = regexp.MustCompile(`(?i)className=["'][^"']*(?:card|panel|surface|container)[^"']*["']`)

	// Validation flags font families whose value does not start with "v",
	// the first letter of a var(--font-*) reference.
	validateFontFamily = regexp.MustCompile(`fontFamily:\s*["'][^v][^"']+["']`)
	correctFontFamily  = regexp.MustCompile(`fontFamily:\s*["'][^"']+["']`)
	fontSizePattern    = regexp.MustCompile(`fontSize:\s*["']?\d+px["']?`)
	transitionPattern  = regexp.MustCompile(`transition:[^;]+\d+ms`)

	imgTagPattern = regexp.MustCompile(`(?i)<img[^>]*>`)
	altAttrCue    = regexp.MustCompile(`(?i)alt=`)
)

// Preset-provided component names, in the order imports are checked.
var presetComponents = []string{"NavGroup", "NavItem", "GlassCard", "OptionGroup", "OptionRow"}

var (
	componentUsePatterns    = make(map[string]*regexp.Regexp, len(presetComponents))
	componentImportPatterns = make(map[string]*regexp.Regexp, len(presetComponents))
)

func init() {
	for _, name := range presetComponents {
		componentUsePatterns[name] = regexp.MustCompile(`<` + name + `[\s/>]`)
		componentImportPatterns[name] = regexp.MustCompile(`import.*` + name + `.*from`)
	}
}

type span struct {
	start, end int
}

func (s span) text(code string) string {
	return code[s.start:s.end]
}

func findColors(code string) []span {
	return toSpans(colorPattern.FindAllStringIndex(code, -1))
}

// findPixels matches digit runs followed by "px" that are neither preceded by
// a letter or "(" nor followed by a var( reference. When the first digit of a
// run is preceded by a letter the match starts one digit later, so "a12px"
// yields "2px" while "a1px" yields nothing.
func findPixels(code string) []span {
	var spans []span
	for _, m := range pixelPattern.FindAllStringIndex(code, -1) {
		start, end := m[0], m[1]
		if pixelVarSuffix.MatchString(code[end:]) {
			continue
		}
		if start > 0 && blocksPixel(code[start-1]) {
			start++
			if end-start < 3 {
				continue
			}
		}
		spans = append(spans, span{start, end})
	}
	return spans
}

func blocksPixel(c byte) bool {
	return c == '(' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// findImgWithoutAlt returns <img> tags that carry no alt attribute.
func findImgWithoutAlt(code string) []span {
	var spans []span
	for _, m := range imgTagPattern.FindAllStringIndex(code, -1) {
		if !altAttrCue.MatchString(code[m[0]:m[1]]) {
			spans = append(spans, span{m[0], m[1]})
		}
	}
	return spans
}

func hasBackdropFilter(code string) bool {
	return strings.Contains(code, "backdropFilter") || strings.Contains(code, "backdrop-filter")
}

var translucencyCues = []string{"rgba(", "hsla(", "var(--glass", "var(--color-glass"}

func hasTranslucency(code string) bool {
	for _, cue := range translucencyCues {
		if strings.Contains(code, cue) {
			return true
		}
	}
	return false
}

func containsFold(code, word string) bool {
	return strings.Contains(strings.ToLower(code), strings.ToLower(word))
}

func hasRawInputs(code string) bool {
	return strings.Contains(code, "<input") || strings.Contains(code, "<select") || strings.Contains(code, "<checkbox")
}

func hasSettingsComponents(code string) bool {
	return strings.Contains(code, "OptionGroup") || strings.Contains(code, "OptionRow")
}

func hasNavComponents(code string) bool {
	return strings.Contains(code, "NavGroup") || strings.Contains(code, "NavItem")
}

// colorVariable picks a token variable for a color literal from the
// declaration text before it.
func colorVariable(code string, start int) string {
	decl := code[:start]
	if i := strings.LastIndexAny(decl, "\n;{,"); i >= 0 {
		decl = decl[i+1:]
	}
	decl = strings.ToLower(decl)

	switch {
	case strings.Contains(decl, "background"):
		return "var(--color-surface)"
	case strings.Contains(decl, "border"):
		return "var(--color-border)"
	default:
		return "var(--color-text-primary)"
	}
}

func toSpans(matches [][]int) []span {
	spans := make([]span, len(matches))
	for i, m := range matches {
		spans[i] = span{m[0], m[1]}
	}
	return spans
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
