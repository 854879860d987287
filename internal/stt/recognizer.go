package stt

import (
	"context"
	"strings"
	"time"

	"github.com/mgoltzsche/voice-code-assistant/internal/model"
)

// Listen budgets per mode.
const (
	// DefaultListenTimeout applies to the primary listen cycle.
	DefaultListenTimeout = 60 * time.Second
	// StructuredListenTimeout applies to structured command capture.
	StructuredListenTimeout = 10 * time.Second
	// PassiveListenTimeout applies to passive trigger-only listening.
	PassiveListenTimeout = 5 * time.Second

	DefaultSilence      = time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Result is the outcome of one listening session.
type Result struct {
	// Fragments are the session's transcript updates in arrival order,
	// terminated by a final fragment.
	Fragments []model.TranscriptFragment
	// Text is the final transcript.
	Text string
}

// Recognizer turns the continuous interim fragment stream into discrete
// listening sessions. A session ends when no further speech arrives for
// the configured silence duration, yielding a final fragment.
type Recognizer struct {
	Fragments <-chan model.TranscriptFragment
	// Silence is the pause that terminates an utterance, default 1s.
	Silence time.Duration
	// Interval is the poll interval at suspension points, default 100ms.
	Interval time.Duration
}

// ListenOnce blocks until a final transcript was assembled or the given
// timeout elapsed. It returns ErrTimeout when nothing was heard in time
// and ErrUnavailable when the fragment source terminated.
func (r *Recognizer) ListenOnce(ctx context.Context, timeout time.Duration) (Result, error) {
	deadline := time.Now().Add(timeout)

	var fragments []model.TranscriptFragment
	var parts []string
	var lastHeard time.Time

	finalize := func() Result {
		text := strings.TrimSpace(strings.Join(parts, " "))
		fragments = append(fragments, model.TranscriptFragment{Kind: model.FragmentFinal, Text: text})
		return Result{Fragments: fragments, Text: text}
	}

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case fragment, ok := <-r.Fragments:
			if !ok {
				return Result{}, ErrUnavailable
			}

			if fragment.Kind == model.FragmentFinal {
				fragments = append(fragments, fragment)
				return Result{Fragments: fragments, Text: fragment.Text}, nil
			}

			fragments = append(fragments, fragment)
			parts = append(parts, fragment.Text)
			lastHeard = time.Now()
		case <-time.After(r.interval()):
			if len(parts) > 0 && time.Since(lastHeard) >= r.silence() {
				return finalize(), nil
			}

			if time.Now().After(deadline) {
				if len(parts) > 0 {
					return finalize(), nil
				}
				return Result{}, ErrTimeout
			}
		}
	}
}

// Texts converts listening sessions into a plain text stream, which the
// secondary stop-word listener consumes.
func (r *Recognizer) Texts(ctx context.Context) <-chan string {
	ch := make(chan string, 10)

	go func() {
		defer close(ch)

		for {
			result, err := r.ListenOnce(ctx, PassiveListenTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if err == ErrUnavailable {
					return
				}
				continue
			}

			for _, fragment := range result.Fragments {
				if strings.TrimSpace(fragment.Text) != "" {
					ch <- fragment.Text
				}
			}
		}
	}()

	return ch
}

func (r *Recognizer) silence() time.Duration {
	if r.Silence == 0 {
		return DefaultSilence
	}
	return r.Silence
}

func (r *Recognizer) interval() time.Duration {
	if r.Interval == 0 {
		return DefaultPollInterval
	}
	return r.Interval
}
