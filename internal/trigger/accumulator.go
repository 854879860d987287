package trigger

import "strings"

const (
	DefaultContextBase = 30
	DefaultContextMax  = 100
)

var complexityMarkers = []string{".", ",", "?", "!", ";", ":", "(", ")", "-"}

// Accumulator maintains a rolling buffer of recent transcript fragments
// and exposes a combined view for trigger matching. Its capacity grows
// with the combined text's length, punctuation complexity and trigger
// density, bounded by [Base, Max].
// It is owned and mutated by a single listen loop - no locking.
type Accumulator struct {
	Base       int
	Max        int
	Vocabulary Vocabulary

	buffer   []string
	combined string
}

func (a *Accumulator) base() int {
	if a.Base == 0 {
		return DefaultContextBase
	}
	return a.Base
}

func (a *Accumulator) max() int {
	if a.Max == 0 {
		return DefaultContextMax
	}
	return a.Max
}

// Append adds a fragment to the buffer, truncating the oldest entries when
// the buffer exceeds the dynamic capacity, and returns the combined text.
func (a *Accumulator) Append(text string) string {
	a.combined = strings.TrimSpace(a.combined + " " + text)
	a.buffer = append(a.buffer, text)

	capacity := a.Capacity(a.combined)
	if len(a.buffer) > capacity {
		a.buffer = a.buffer[len(a.buffer)-capacity:]
	}

	return strings.Join(a.buffer, " ")
}

// Buffer returns the buffered fragments, oldest first.
func (a *Accumulator) Buffer() []string {
	return a.buffer
}

// Reset clears the buffer for the next utterance cycle.
func (a *Accumulator) Reset() {
	a.buffer = a.buffer[:0]
	a.combined = ""
}

// Capacity computes the dynamic buffer capacity for the given combined
// text. Per bonus category only the single highest threshold applies.
// The step tables are empirically tuned, see DESIGN.md.
func (a *Accumulator) Capacity(text string) int {
	capacity := a.base()

	switch length := len(text); {
	case length > 500:
		capacity += 20
	case length > 200:
		capacity += 10
	case length > 100:
		capacity += 5
	}

	complexity := 0
	for _, marker := range complexityMarkers {
		complexity += strings.Count(text, marker)
	}
	switch {
	case complexity > 15:
		capacity += 15
	case complexity > 10:
		capacity += 10
	case complexity > 5:
		capacity += 5
	}

	lower := strings.ToLower(text)
	triggers := 0
	for _, term := range a.Vocabulary.Terms() {
		triggers += strings.Count(lower, term)
	}
	switch {
	case triggers > 3:
		capacity += 15
	case triggers > 1:
		capacity += 10
	case triggers > 0:
		capacity += 5
	}

	return min(capacity, a.max())
}

// Deduplicate drops entries that are a substring of their immediate
// successor. Speech engines re-emit growing partial transcripts - without
// this the assembled command would repeat every prefix.
func Deduplicate(entries []string) []string {
	cleaned := make([]string, 0, len(entries))

	for i, entry := range entries {
		if i+1 < len(entries) && strings.Contains(entries[i+1], entry) {
			continue
		}
		cleaned = append(cleaned, entry)
	}

	return cleaned
}
