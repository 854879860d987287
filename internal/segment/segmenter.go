package segment

import (
	"strings"

	"github.com/mgoltzsche/voice-code-assistant/internal/model"
	"github.com/mgoltzsche/voice-code-assistant/internal/trigger"
)

// BackScanWindow limits how far back within the fragment buffer a trigger
// occurrence may lie to still be considered part of the current utterance.
// Older matches are stale leftovers from previous speech.
const BackScanWindow = 5

// State of the current listen cycle.
type State int

const (
	Idle State = iota
	Accumulating
	TriggerArmed
)

// Result is the finalized outcome of one listen cycle.
type Result struct {
	// Command is the assembled utterance text to route.
	Command string
	// Triggered reports whether a trigger phrase fired during the cycle.
	Triggered bool
}

// Segmenter consumes interim and final transcript fragments and decides
// where the relevant utterance begins and ends. Interim fragments are
// accumulated and continuously matched against the trigger vocabulary,
// a final fragment closes the cycle and yields the assembled command.
// All methods must be called from a single goroutine.
type Segmenter struct {
	Matcher     *trigger.Matcher
	Accumulator *trigger.Accumulator
	// OnTrigger is called at most once per cycle, on the first trigger match.
	OnTrigger func(combinedText string)

	state     State
	announced bool
}

// State returns the current cycle state.
func (s *Segmenter) State() State {
	return s.state
}

// Segment converts the fragment stream into a stream of finalized results,
// one per completed listen cycle.
func (s *Segmenter) Segment(fragments <-chan model.TranscriptFragment) <-chan Result {
	ch := make(chan Result, 10)

	go func() {
		defer close(ch)

		for fragment := range fragments {
			if result, done := s.Ingest(fragment); done {
				ch <- result
			}
		}
	}()

	return ch
}

// Ingest feeds a single fragment into the state machine.
// It returns done=true with the cycle's Result when the fragment was final.
func (s *Segmenter) Ingest(fragment model.TranscriptFragment) (Result, bool) {
	if fragment.Kind == model.FragmentFinal {
		return s.finalize(fragment.Text), true
	}

	s.accumulate(fragment.Text)

	return Result{}, false
}

func (s *Segmenter) accumulate(text string) {
	if s.state == Idle {
		s.state = Accumulating
	}

	combined := s.Accumulator.Append(text)

	if !s.Matcher.Matches(combined) {
		return
	}

	s.state = TriggerArmed

	if !s.announced {
		s.announced = true
		if s.OnTrigger != nil {
			s.OnTrigger(combined)
		}
	}
}

// finalize assembles the command text for the cycle. If the final text
// matches a trigger on its own it is used directly. Otherwise the buffer
// is back-scanned for the most recent entry that matches, and the
// de-duplicated entries from there onward plus the final text form the
// command. A match older than BackScanWindow entries is treated as stale.
func (s *Segmenter) finalize(finalText string) Result {
	defer s.reset()

	if s.Matcher.Matches(finalText) {
		return Result{Command: finalText, Triggered: true}
	}

	buffer := s.Accumulator.Buffer()
	for i := len(buffer) - 1; i >= 0; i-- {
		if !s.Matcher.Matches(buffer[i]) {
			continue
		}

		if len(buffer)-i > BackScanWindow {
			break
		}

		parts := make([]string, 0, len(buffer)-i+1)
		parts = append(parts, buffer[i:]...)
		if finalText != "" {
			parts = append(parts, finalText)
		}

		command := strings.Join(trigger.Deduplicate(parts), " ")

		return Result{Command: strings.TrimSpace(command), Triggered: true}
	}

	return Result{Command: finalText, Triggered: s.announced}
}

func (s *Segmenter) reset() {
	s.Accumulator.Reset()
	s.state = Idle
	s.announced = false
}
