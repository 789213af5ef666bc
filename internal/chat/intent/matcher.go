// Package intent implements rule-based matching of chat messages to report
// presets. It is a deliberately cheap bag-of-substrings classifier: no
// tokenization beyond lowercasing, no stemming, O(presets x message length)
// per request.
package intent

import (
	"strings"

	"crm-assistant/internal/models"
)

const (
	keywordWeight     = 1
	phraseWeight      = 2
	descriptionWeight = 1
)

// Match scores message against every preset and returns the best one, or nil
// when no preset scores above zero. Ties keep the first preset encountered:
// only a strictly greater score replaces the current best.
func Match(message string, presets []models.Preset) *models.Preset {
	lowered := strings.ToLower(message)

	var best *models.Preset
	bestScore := 0

	for i := range presets {
		score := Score(lowered, &presets[i])
		if score > bestScore {
			bestScore = score
			best = &presets[i]
		}
	}

	if bestScore == 0 {
		return nil
	}
	return best
}

// Score computes the match score of a single preset against an
// already-lowercased message.
func Score(lowered string, preset *models.Preset) int {
	score := 0

	for _, kw := range splitKeywords(preset.Keywords) {
		if strings.Contains(lowered, kw) {
			score += keywordWeight
		}
	}

	if preset.Phrase != "" && strings.Contains(lowered, strings.ToLower(preset.Phrase)) {
		score += phraseWeight
	}

	// Weak secondary signal: the second word of the description, when the
	// description has at least two words.
	if hint := descriptionHint(preset.Description); hint != "" && strings.Contains(lowered, hint) {
		score += descriptionWeight
	}

	return score
}

// splitKeywords splits the comma-separated keyword field, trimming whitespace
// and dropping empty entries.
func splitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func descriptionHint(description string) string {
	words := strings.Fields(description)
	if len(words) < 2 {
		return ""
	}
	return strings.ToLower(words[1])
}
