// Package themes derives a coarse topic tag from a user's free-text question.
// The tag keys asset pool lookups and seeds image generation prompts.
package themes

import "strings"

const (
	Love    = "love"
	Career  = "career"
	Health  = "health"
	Finance = "finance"
	Travel  = "travel"
	Family  = "family"
	General = "general"
)

// ordered so the first matching group wins, same as the original classifier
var keywordGroups = []struct {
	theme    string
	keywords []string
}{
	{Love, []string{"love", "relationship", "romance"}},
	{Career, []string{"career", "job", "work"}},
	{Health, []string{"health", "wellness"}},
	{Finance, []string{"money", "finance", "wealth"}},
	{Travel, []string{"travel", "journey"}},
	{Family, []string{"family", "children"}},
}

// maps a question to its theme via keyword matching; falls back to general
func Extract(question string) string {
	lower := strings.ToLower(question)

	for _, group := range keywordGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.theme
			}
		}
	}

	return General
}

// returns every known theme including the general fallback
func All() []string {
	return []string{Love, Career, Health, Finance, Travel, Family, General}
}
