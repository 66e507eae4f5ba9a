package resolver

import (
	"regexp"
	"strings"
)

// fillerPrefixes are conversational openers stripped before a lookup so
// Wikipedia receives a clean topic, e.g.
// "Tell me about element Mercury" -> "element Mercury"
var fillerPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^tell me about\s+`),
	regexp.MustCompile(`(?i)^what is\s+`),
	regexp.MustCompile(`(?i)^what are\s+`),
	regexp.MustCompile(`(?i)^who is\s+`),
	regexp.MustCompile(`(?i)^who was\s+`),
	regexp.MustCompile(`(?i)^explain\s+`),
	regexp.MustCompile(`(?i)^describe\s+`),
	regexp.MustCompile(`(?i)^give me information (on|about)\s+`),
	regexp.MustCompile(`(?i)^i want to know about\s+`),
	regexp.MustCompile(`(?i)^can you tell me about\s+`),
	regexp.MustCompile(`(?i)^do you know about\s+`),
	regexp.MustCompile(`(?i)^search for\s+`),
	regexp.MustCompile(`(?i)^look up\s+`),
}

// CleanQuery strips conversational filler prefixes from a query.
// When stripping empties the query, the original is returned.
func CleanQuery(query string) string {
	cleaned := strings.TrimSpace(query)
	for _, prefix := range fillerPrefixes {
		cleaned = strings.TrimSpace(prefix.ReplaceAllString(cleaned, ""))
	}
	if cleaned == "" {
		return query
	}
	return cleaned
}
