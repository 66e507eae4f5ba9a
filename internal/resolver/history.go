package resolver

import (
	"sync"

	"github.com/at-ishikawa/wikibot/internal/inference"
)

// DefaultHistoryTurns bounds the conversation memory
const DefaultHistoryTurns = 12

// History is a bounded conversation memory. Oldest turns are dropped once
// the bound is reached. Safe for concurrent use so the server can share one
// per session.
type History struct {
	mu       sync.Mutex
	maxTurns int
	turns    []inference.Turn
}

func NewHistory(maxTurns int) *History {
	if maxTurns <= 0 {
		maxTurns = DefaultHistoryTurns
	}
	return &History{
		maxTurns: maxTurns,
	}
}

// Add appends a turn, evicting the oldest when full
func (h *History) Add(role inference.Role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, inference.Turn{Role: role, Content: content})
	if len(h.turns) > h.maxTurns {
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
}

// Turns returns a copy of the recorded turns, oldest first
func (h *History) Turns() []inference.Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := make([]inference.Turn, len(h.turns))
	copy(turns, h.turns)
	return turns
}

// Len reports how many turns are recorded
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Clear drops all recorded turns
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}
