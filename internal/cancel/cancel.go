package cancel

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

const (
	DefaultGrace    = 200 * time.Millisecond
	DefaultInterval = 50 * time.Millisecond
)

// looseStopWords is the expanded abort vocabulary used while a long
// operation is in progress. Matching is looser than the command router's
// stop detection since at that point any stop-like word is meant for us.
var looseStopWords = []string{
	"stop", "cancel", "halt", "abort", "quit", "end", "shut",
	"terminate", "break", "enough", "no more",
}

// Terminatable is a tracked operation that can be shut down in stages of
// increasing force.
type Terminatable interface {
	Interrupt() error
	Terminate() error
	Kill() error
}

// Coordinator races a secondary stop-word listener against a tracked
// long-running operation. The cancellation flag is the only state shared
// between the listener and the waiting goroutine.
type Coordinator struct {
	// Grace is the wait between termination stages, default 200ms.
	Grace time.Duration
	// Interval is the flag poll interval, default 50ms.
	Interval time.Duration

	cancelled atomic.Bool
}

// Cancel sets the cancellation flag.
func (c *Coordinator) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether cancellation was requested.
func (c *Coordinator) Cancelled() bool {
	return c.cancelled.Load()
}

// Reset clears the flag before tracking a new operation.
func (c *Coordinator) Reset() {
	c.cancelled.Store(false)
}

// Listen consumes transcripts from a secondary listener and sets the
// cancellation flag on the first stop word. It returns when a stop word
// was heard, the transcript channel is closed or the context is done.
func (c *Coordinator) Listen(ctx context.Context, transcripts <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case text, ok := <-transcripts:
			if !ok {
				return
			}
			if ContainsStopWord(text) {
				log.Println("stop word detected:", text)
				c.Cancel()
				return
			}
		}
	}
}

// Supervise waits for the tracked operation's result while polling the
// cancellation flag. On cancellation it escalates termination of op
// through interrupt, terminate and kill with a grace period between the
// stages, and reports cancelled=true. A result that completes before
// cancellation is observed wins and is returned uncancelled.
func Supervise[T any](ctx context.Context, c *Coordinator, results <-chan T, op Terminatable) (result T, cancelled bool) {
	for {
		select {
		case result, ok := <-results:
			if ok {
				return result, false
			}
			return result, c.Cancelled()
		case <-time.After(c.interval()):
		case <-ctx.Done():
			c.Cancel()
		}

		if !c.Cancelled() {
			continue
		}

		// Natural completion that raced the flag still wins.
		select {
		case result, ok := <-results:
			if ok {
				return result, false
			}
		default:
		}

		result, _ := terminateStaged(c, op, results)
		return result, true
	}
}

// terminateStaged escalates interrupt, terminate, kill with a grace
// period after each signal, returning early if the operation yields a
// result in between.
func terminateStaged[T any](c *Coordinator, op Terminatable, results <-chan T) (result T, ok bool) {
	for _, signal := range []func() error{op.Interrupt, op.Terminate} {
		if err := signal(); err != nil {
			log.Println("WARNING: terminate operation:", err)
		}

		select {
		case result, ok = <-results:
			return result, ok
		case <-time.After(c.grace()):
		}
	}

	if err := op.Kill(); err != nil {
		log.Println("WARNING: kill operation:", err)
	}

	select {
	case result, ok = <-results:
	case <-time.After(c.grace()):
	}

	return result, ok
}

// ContainsStopWord reports whether the text contains a word from the
// loose stop vocabulary: exact match, prefix match ("stopping",
// "cancelling") or hyphen-delimited embedding for the short words.
func ContainsStopWord(text string) bool {
	lower := strings.ToLower(text)

	for _, word := range strings.Fields(lower) {
		if isLooseStopWord(word) {
			return true
		}
	}

	for _, stop := range looseStopWords {
		if strings.Contains(stop, " ") && strings.Contains(lower, stop) {
			return true
		}
	}

	return false
}

func isLooseStopWord(word string) bool {
	for _, stop := range looseStopWords {
		if strings.Contains(stop, " ") {
			continue
		}
		if word == stop || strings.HasPrefix(word, stop) {
			return true
		}
		if len(stop) <= 4 && strings.Contains(word, "-"+stop) {
			return true
		}
	}
	return false
}

func (c *Coordinator) grace() time.Duration {
	if c.Grace == 0 {
		return DefaultGrace
	}
	return c.Grace
}

func (c *Coordinator) interval() time.Duration {
	if c.Interval == 0 {
		return DefaultInterval
	}
	return c.Interval
}
