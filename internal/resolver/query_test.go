package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "tell me about prefix",
			query: "Tell me about element Mercury",
			want:  "element Mercury",
		},
		{
			name:  "what is prefix",
			query: "What is photosynthesis",
			want:  "photosynthesis",
		},
		{
			name:  "who is prefix",
			query: "who is Marie Curie",
			want:  "Marie Curie",
		},
		{
			name:  "stacked prefixes",
			query: "Can you tell me about the Roman Empire",
			want:  "the Roman Empire",
		},
		{
			name:  "give me information on",
			query: "Give me information on black holes",
			want:  "black holes",
		},
		{
			name:  "no prefix is untouched",
			query: "black holes",
			want:  "black holes",
		},
		{
			name:  "surrounding whitespace is trimmed",
			query: "  explain quantum entanglement  ",
			want:  "quantum entanglement",
		},
		{
			name:  "prefix without a topic is untouched",
			query: "tell me about",
			want:  "tell me about",
		},
		{
			name:  "mixed case prefix",
			query: "LOOK UP golden gate bridge",
			want:  "golden gate bridge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanQuery(tt.query))
		})
	}
}
