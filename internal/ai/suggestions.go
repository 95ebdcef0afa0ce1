package ai

import "strings"

// Suggestion category glyphs, in prompt order.
const (
	GlyphBug         = "🐛"
	GlyphPerformance = "⚡"
	GlyphStyle       = "📝"
	GlyphPractice    = "✨"
	GlyphSecurity    = "🔒"
)

const maxFallbackSuggestions = 5

var suggestionPrefixes = []string{
	GlyphBug, GlyphPerformance, GlyphStyle, GlyphPractice, GlyphSecurity,
	"-", "•", "*",
}

// ParseSuggestions extracts suggestion lines from a model response. Lines
// starting with a category glyph or a bullet are kept. When there are none,
// the first non-empty lines are used instead.
func ParseSuggestions(response string) []string {
	var (
		picked   []string
		nonEmpty []string
	)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nonEmpty = append(nonEmpty, line)
		if hasSuggestionPrefix(line) {
			picked = append(picked, line)
		}
	}
	if len(picked) > 0 {
		return picked
	}
	if len(nonEmpty) > maxFallbackSuggestions {
		nonEmpty = nonEmpty[:maxFallbackSuggestions]
	}
	return nonEmpty
}

func hasSuggestionPrefix(line string) bool {
	for _, p := range suggestionPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
