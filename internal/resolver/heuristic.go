package resolver

import (
	"strings"

	"github.com/at-ishikawa/wikibot/internal/inference"
)

// Usability decides whether a model reply can be shown to the user.
// Refusal-phrase matching is fragile, so the predicate is pluggable.
type Usability func(reply string) bool

// refusalPhrases are replies that mean the model does not actually know
var refusalPhrases = []string{
	"i don't know",
	"i do not know",
	"i'm not sure",
	"i am not sure",
	"i cannot answer",
	"i can't answer",
	"i don't have information",
	"i do not have information",
	"as an ai",
}

// DefaultUsability treats a reply as unusable when it is empty, contains the
// NeedWiki sentinel, or starts with a refusal phrase
func DefaultUsability(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, inference.NeedWiki) {
		return false
	}

	lowered := strings.ToLower(trimmed)
	for _, phrase := range refusalPhrases {
		if strings.HasPrefix(lowered, phrase) {
			return false
		}
	}
	return true
}
