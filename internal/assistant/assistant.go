package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mgoltzsche/voice-code-assistant/internal/audio"
	"github.com/mgoltzsche/voice-code-assistant/internal/cancel"
	"github.com/mgoltzsche/voice-code-assistant/internal/chat"
	"github.com/mgoltzsche/voice-code-assistant/internal/command"
	"github.com/mgoltzsche/voice-code-assistant/internal/executor"
	"github.com/mgoltzsche/voice-code-assistant/internal/model"
	"github.com/mgoltzsche/voice-code-assistant/internal/monitor"
	"github.com/mgoltzsche/voice-code-assistant/internal/pubsub"
	"github.com/mgoltzsche/voice-code-assistant/internal/segment"
	"github.com/mgoltzsche/voice-code-assistant/internal/session"
	"github.com/mgoltzsche/voice-code-assistant/internal/soundgen"
	"github.com/mgoltzsche/voice-code-assistant/internal/stt"
)

// Assistant is the conversational loop: it listens for an utterance,
// segments it, routes it and dispatches the resulting command.
// Exactly one cycle is in flight at any time.
type Assistant struct {
	Listener     *stt.Recognizer
	Segmenter    *segment.Segmenter
	Router       *command.Router
	Coordinator  *cancel.Coordinator
	Executor     executor.Executor
	Compressor   *chat.Compressor
	Conversation *session.Conversation
	VoiceConfig  *session.VoiceConfigFile
	Monitor      *monitor.Monitor
	Sounds       *soundgen.Generator
	Events       pubsub.Publisher[model.Event]

	// InitialPrompt is dispatched as a task before listening starts.
	InitialPrompt string

	// Speeches receives response texts to synthesize and play.
	// Playback receives pre-generated sounds. Both may be nil, in which
	// case output is printed only.
	Speeches chan<- string
	Playback chan<- audio.PlayRequest

	// AbortPlayback interrupts the currently playing speech output.
	// May be nil when no audio output is attached.
	AbortPlayback func()
}

// Run executes the listen loop and, if a process monitor is configured,
// the announcement loop, until the context is cancelled or the speech
// input becomes unavailable.
func (a *Assistant) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return a.runLoop(ctx)
	})

	if a.Monitor != nil {
		eg.Go(func() error {
			a.runMonitor(ctx)
			return nil
		})
	}

	err := eg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func (a *Assistant) runLoop(ctx context.Context) error {
	if a.InitialPrompt != "" {
		a.handleTask(ctx, a.InitialPrompt)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result, err := a.Listener.ListenOnce(ctx, a.listenTimeout())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, stt.ErrTimeout) {
				continue
			}
			return fmt.Errorf("listen: %w", err)
		}

		var final segment.Result
		done := false

		for _, fragment := range result.Fragments {
			if r, d := a.Segmenter.Ingest(fragment); d {
				final = r
				done = d
			}
		}

		if !done || final.Command == "" {
			continue
		}

		log.Println("heard:", final.Command)
		a.publish(model.EventTranscript, final.Command)

		a.dispatch(ctx, a.Router.Route(final.Command))
	}
}

func (a *Assistant) dispatch(ctx context.Context, outcome command.Outcome) {
	switch outcome.Decision {
	case command.Cancelled:
		// No task is in flight here. The stop word only silences the
		// speech that is currently playing.
		a.abortPlayback()
		a.record("stop_command", outcome.Text)
		a.speak("Stopping.")
	case command.NoTrigger, command.CooldownSkipped:
	case command.TooShort:
		a.beep(soundgen.ToneRegular)
	case command.Unknown:
		a.speak("Sorry, I didn't understand that command.")
	case command.Structured:
		a.handleStructured(outcome)
	case command.Generic:
		a.handleTask(ctx, outcome.Text)
	}
}

func (a *Assistant) handleStructured(outcome command.Outcome) {
	a.record("command", outcome.Text)
	a.publish(model.EventCommand, outcome.Text)

	if a.Monitor == nil {
		a.speak("There is no background process being monitored.")
		return
	}

	var message string

	switch outcome.Kind {
	case model.CommandStatus:
		info, err := a.Monitor.Load()
		if err != nil {
			message = "I could not read the process status."
			slog.Warn(fmt.Sprintf("load process status: %s", err))
			break
		}
		message = monitor.StatusMessage(info)
	case model.CommandSummarize:
		info, err := a.Monitor.Load()
		if err != nil {
			message = "I could not read the process status."
			slog.Warn(fmt.Sprintf("load process status: %s", err))
			break
		}
		message = monitor.SummaryMessage(info)
	case model.CommandPause:
		message = "Pausing the background process."
	case model.CommandResume:
		message = "Resuming the background process."
	case model.CommandComplete:
		message = "Completing the background process."
	}

	a.speak(message)
}

func (a *Assistant) handleTask(ctx context.Context, text string) {
	a.Conversation.Append("user", text)
	a.record("command", text)
	a.publish(model.EventCommand, text)
	a.beep(soundgen.ToneDouble)

	prompt := chat.BuildExecutorPrompt(a.Conversation.FormatHistory())

	a.Coordinator.Reset()

	run, err := a.Executor.Execute(ctx, prompt)
	if err != nil {
		slog.Error(fmt.Sprintf("start executor: %s", err))
		a.beep(soundgen.ToneFalling)
		a.speak("I'm sorry, I could not start the command.")
		return
	}

	// Listen for stop words while the task is running. The primary loop
	// is suspended so the microphone stream is free for the secondary
	// listener.
	listenCtx, stopListening := context.WithCancel(ctx)
	go a.Coordinator.Listen(listenCtx, a.Listener.Texts(listenCtx))

	result, cancelled := cancel.Supervise(ctx, a.Coordinator, run.Results(), run)
	stopListening()

	if cancelled {
		a.abortPlayback()
		a.Coordinator.Reset()
		a.record("cancelled", text)
		a.speak("Command cancelled.")
		return
	}

	if result.Err != nil {
		slog.Error(fmt.Sprintf("executor: %s", result.Err))

		a.Conversation.Append("assistant", fmt.Sprintf("Error executing command: %s", result.Err))
		if err := a.Conversation.Save(); err != nil {
			slog.Warn(fmt.Sprintf("save conversation: %s", err))
		}

		a.beep(soundgen.ToneFalling)
		a.speak("I'm sorry, the command failed. Check the logs for more information.")
		return
	}

	log.Println("assistant:", result.Output)

	a.Conversation.Append("assistant", result.Output)
	if err := a.Conversation.Save(); err != nil {
		slog.Warn(fmt.Sprintf("save conversation: %s", err))
	}

	response := result.Output
	if a.Compressor != nil {
		response = a.Compressor.Compress(ctx, response)
	}

	a.beep(soundgen.ToneChord)
	a.record("response", response)
	a.publish(model.EventResponse, response)
	a.speak(response)
}

func (a *Assistant) runMonitor(ctx context.Context) {
	for announcement := range a.Monitor.Watch(ctx) {
		a.beep(soundgen.ToneTwoTone)
		a.publish(model.EventMonitor, announcement.Text)
		a.speak(announcement.Text)
	}
}

// speak queues the given text for synthesis. The speech pipeline splits
// it into sentences so playback can be interrupted between them.
func (a *Assistant) speak(text string) {
	if text == "" {
		return
	}

	if a.Speeches == nil {
		log.Println("assistant:", text)
		return
	}

	a.Speeches <- text
}

func (a *Assistant) abortPlayback() {
	if a.AbortPlayback == nil {
		return
	}

	a.AbortPlayback()
}

func (a *Assistant) beep(tone soundgen.Tone) {
	if a.Playback == nil || a.Sounds == nil {
		return
	}

	b, err := a.Sounds.Generate(tone)
	if err != nil {
		slog.Warn(fmt.Sprintf("generate sound: %s", err))
		return
	}

	a.Playback <- audio.PlayRequest{WaveData: b}
}

func (a *Assistant) record(interactionType, content string) {
	if a.VoiceConfig == nil {
		return
	}

	if err := a.VoiceConfig.RecordInteraction(interactionType, content); err != nil {
		slog.Warn(fmt.Sprintf("record interaction: %s", err))
	}
}

func (a *Assistant) publish(eventType, text string) {
	if a.Events == nil {
		return
	}

	a.Events.Publish(model.Event{
		Type:      eventType,
		Text:      text,
		Timestamp: time.Now(),
	})
}

func (a *Assistant) listenTimeout() time.Duration {
	if a.Router.Structured {
		return stt.StructuredListenTimeout
	}

	return stt.DefaultListenTimeout
}
