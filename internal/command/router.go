package command

import (
	"strings"
	"time"

	"github.com/mgoltzsche/voice-code-assistant/internal/model"
	"github.com/mgoltzsche/voice-code-assistant/internal/trigger"
)

const (
	DefaultMinLength = 10
	DefaultCooldown  = 3 * time.Second
)

// Decision classifies how a finalized utterance was routed.
type Decision string

const (
	// Cancelled aborts any in-flight operation, bypassing all other checks.
	Cancelled Decision = "cancelled"
	// NoTrigger means no wake phrase was present, keep listening silently.
	NoTrigger Decision = "no_trigger"
	// TooShort acknowledges the trigger but the utterance is too short to act on.
	TooShort Decision = "too_short"
	// CooldownSkipped drops a command arriving too soon after the previous one.
	CooldownSkipped Decision = "cooldown_skipped"
	// Structured is a recognized process-control command, see Outcome.Kind.
	Structured Decision = "structured"
	// Unknown is a triggered utterance that matches no structured command.
	Unknown Decision = "unknown"
	// Generic is a full task request to forward to the executor.
	Generic Decision = "generic"
)

// Outcome is the routing result for one utterance.
type Outcome struct {
	Decision Decision
	Kind     model.CommandKind
	Text     string
}

// structuredKeywords maps process-control command kinds to their spoken
// keywords, in priority order. The first matching set wins.
var structuredKeywords = []struct {
	kind  model.CommandKind
	words []string
}{
	{model.CommandStatus, []string{"status", "progress", "update", "how", "going"}},
	{model.CommandPause, []string{"pause", "stop", "wait", "hold"}},
	{model.CommandResume, []string{"resume", "continue", "start", "go"}},
	{model.CommandSummarize, []string{"summarize", "summary", "results", "findings"}},
	{model.CommandComplete, []string{"complete", "finish", "done", "end"}},
}

// Router classifies finalized utterances. Stop commands short-circuit
// everything else so that cancellation works even without a wake phrase.
// With Structured set it recognizes process-control commands and enforces
// a cooldown between them, otherwise every accepted utterance becomes a
// generic task request. Route must be called from a single goroutine.
type Router struct {
	Matcher   *trigger.Matcher
	MinLength int
	Cooldown  time.Duration
	// Structured selects process-control classification over generic dispatch.
	Structured bool
	// Now is overridable for tests, defaults to time.Now.
	Now func() time.Time

	lastAccepted time.Time
}

// Route classifies the given utterance text.
func (r *Router) Route(text string) Outcome {
	trimmed := strings.TrimSpace(text)

	if IsStopCommand(trimmed) {
		return Outcome{Decision: Cancelled, Kind: model.CommandStop, Text: trimmed}
	}

	if !r.Matcher.Matches(trimmed) {
		return Outcome{Decision: NoTrigger, Text: trimmed}
	}

	if len(trimmed) < r.minLength() {
		return Outcome{Decision: TooShort, Text: trimmed}
	}

	if !r.Structured {
		return Outcome{Decision: Generic, Kind: model.CommandGeneric, Text: trimmed}
	}

	now := r.now()
	if !r.lastAccepted.IsZero() && now.Sub(r.lastAccepted) < r.cooldown() {
		return Outcome{Decision: CooldownSkipped, Text: trimmed}
	}

	kind, ok := classifyStructured(trimmed)
	if !ok {
		return Outcome{Decision: Unknown, Text: trimmed}
	}

	r.lastAccepted = now

	return Outcome{Decision: Structured, Kind: kind, Text: trimmed}
}

// classifyStructured scans the utterance for process-control keywords.
// Keywords match as whole words, stripped of adjacent punctuation.
func classifyStructured(text string) (model.CommandKind, bool) {
	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		words[i] = strings.Trim(word, ".,!?;:'\"")
	}

	for _, set := range structuredKeywords {
		for _, keyword := range set.words {
			if containsString(words, keyword) {
				return set.kind, true
			}
		}
	}

	return "", false
}

func (r *Router) minLength() int {
	if r.MinLength == 0 {
		return DefaultMinLength
	}
	return r.MinLength
}

func (r *Router) cooldown() time.Duration {
	if r.Cooldown == 0 {
		return DefaultCooldown
	}
	return r.Cooldown
}

func (r *Router) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
