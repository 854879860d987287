package assistant

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mgoltzsche/voice-code-assistant/internal/audio"
	"github.com/mgoltzsche/voice-code-assistant/internal/cancel"
	"github.com/mgoltzsche/voice-code-assistant/internal/catalog"
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
	"github.com/mgoltzsche/voice-code-assistant/internal/trigger"
	"github.com/mgoltzsche/voice-code-assistant/internal/tts"
	"github.com/mgoltzsche/voice-code-assistant/internal/vad"
	"github.com/mgoltzsche/voice-code-assistant/pkg/config"
)

// Options select the assistant variant to assemble.
type Options struct {
	// ConversationID selects the conversation to resume, empty for a new one.
	ConversationID string
	// ProcessID identifies the monitored background process, if any.
	ProcessID string
	// Structured enables process-control command classification instead
	// of generic task dispatch.
	Structured bool
	// InitialPrompt is dispatched before listening starts.
	InitialPrompt string
	// Events receives assistant events, may be nil.
	Events pubsub.Publisher[model.Event]
}

// New assembles the full audio pipeline and the conversational loop on
// top of it: microphone capture, optional VAD, transcription, trigger
// segmentation, command routing, executor dispatch and spoken output.
func New(ctx context.Context, cfg config.Configuration, opts Options) (*Assistant, error) {
	httpClient := &http.Client{Timeout: 90 * time.Second}

	id := opts.ConversationID
	if id == "" {
		id = session.NewConversationID()
	}

	conversation, err := session.LoadConversation(cfg.SessionDir, id)
	if err != nil {
		slog.Warn(fmt.Sprintf("load conversation: %s", err))
	}

	var voiceConfig *session.VoiceConfigFile
	if cfg.VoiceConfig != "" {
		voiceConfig, err = session.LoadVoiceConfig(cfg.VoiceConfig, session.VoiceConfig{
			ProcessID:     opts.ProcessID,
			STTModel:      cfg.STTModel,
			TTSVoice:      cfg.TTSVoice,
			VoiceTriggers: "friend,assistant",
			Status:        "active",
		})
		if err != nil {
			slog.Warn(fmt.Sprintf("load voice config: %s", err))
		}
	}

	vocabulary := trigger.DefaultVocabulary()
	if voiceConfig != nil {
		vocabulary = withCustomTriggers(vocabulary, voiceConfig.Config.Triggers())
	}

	matcher := &trigger.Matcher{
		Vocabulary: vocabulary,
		Patterns:   trigger.DefaultCompoundPatterns(),
	}
	segmenter := &segment.Segmenter{
		Matcher: matcher,
		Accumulator: &trigger.Accumulator{
			Base:       cfg.ContextBase,
			Max:        cfg.ContextMax,
			Vocabulary: vocabulary,
		},
	}
	router := &command.Router{
		Matcher:    matcher,
		MinLength:  cfg.MinLength,
		Structured: opts.Structured,
	}
	coordinator := &cancel.Coordinator{}

	recognizer, err := listen(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}

	speeches, playback, abortPlayback, err := speakOutput(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}

	var processMonitor *monitor.Monitor
	if cfg.StatusFile != "" {
		processMonitor = &monitor.Monitor{Path: cfg.StatusFile}
	}

	a := &Assistant{
		Listener:      recognizer,
		Segmenter:     segmenter,
		Router:        router,
		Coordinator:   coordinator,
		Executor:      newExecutor(cfg),
		Compressor:    newCompressor(cfg, httpClient),
		Conversation:  conversation,
		VoiceConfig:   voiceConfig,
		Monitor:       processMonitor,
		Sounds:        &soundgen.Generator{SampleRate: 16000},
		Events:        opts.Events,
		InitialPrompt: opts.InitialPrompt,
		Speeches:      speeches,
		Playback:      playback,
		AbortPlayback: abortPlayback,
	}

	segmenter.OnTrigger = func(combined string) {
		a.beep(soundgen.ToneRising)
		a.publish(model.EventTrigger, combined)
	}

	return a, nil
}

// listen builds the capture side of the pipeline: microphone input,
// optional voice activity detection and transcription.
func listen(ctx context.Context, cfg config.Configuration, httpClient *http.Client) (*stt.Recognizer, error) {
	input := &audio.Input{
		Device:      cfg.InputDevice,
		SampleRate:  16000,
		Channels:    1,
		MinVolume:   cfg.MinVolume,
		MinDelay:    time.Second,
		MaxDuration: 25 * time.Second,
	}

	audioInput, err := input.RecordAudio(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.VADEnabled {
		detector := &vad.Detector{ModelPath: cfg.VADModelPath}

		audioInput, err = detector.DetectVoiceActivity(audioInput)
		if err != nil {
			return nil, err
		}
	}

	transcriber := &stt.Transcriber{
		Service: &stt.Client{
			URL:    cfg.ServerURL,
			Model:  cfg.STTModel,
			Client: httpClient,
		},
	}

	return &stt.Recognizer{
		Fragments: transcriber.Transcribe(ctx, audioInput),
		Silence:   cfg.Silence,
	}, nil
}

// speakOutput builds the playback side: sentence splitting, speech
// synthesis and the audio output device. The returned abort function
// interrupts playback of the current item.
func speakOutput(ctx context.Context, cfg config.Configuration, httpClient *http.Client) (chan<- string, chan<- audio.PlayRequest, func(), error) {
	speechGen := &tts.SpeechGenerator{
		Service: &tts.Client{
			URL:    cfg.ServerURL,
			Model:  cfg.TTSModel,
			Voice:  cfg.TTSVoice,
			Client: httpClient,
			APIKey: cfg.APIKey,
		},
	}

	speeches := make(chan string, 10)
	playback := make(chan audio.PlayRequest, 10)

	go func() {
		for speech := range speechGen.GenerateAudio(ctx, chat.TextsToSentences(speeches)) {
			playback <- audio.PlayRequest{Text: speech.Text, WaveData: speech.WaveData}
		}
	}()

	output := &audio.Output{
		Device: cfg.OutputDevice,
	}

	played, err := output.PlayAudio(ctx, playback)
	if err != nil {
		return nil, nil, nil, err
	}

	go func() {
		for p := range played {
			if p.Text != "" {
				log.Println("speaking:", p.Text)
			}
		}
	}()

	return speeches, playback, output.Abort, nil
}

func newExecutor(cfg config.Configuration) executor.Executor {
	tools := allowedTools(cfg)

	if cfg.Executor.Image != "" {
		return &executor.Sandbox{
			Image:        cfg.Executor.Image,
			Command:      cfg.Executor.Command,
			AllowedTools: tools,
			Env:          cfg.Executor.Env,
			Timeout:      cfg.Executor.Timeout,
		}
	}

	return &executor.CLI{
		Command:      cfg.Executor.Command,
		AllowedTools: tools,
	}
}

func allowedTools(cfg config.Configuration) []string {
	if cfg.AllowedTools != "" {
		var tools []string
		for _, tool := range strings.Split(cfg.AllowedTools, ",") {
			if tool = strings.TrimSpace(tool); tool != "" {
				tools = append(tools, tool)
			}
		}
		return tools
	}

	core, ok := catalog.Default().Category("core")
	if !ok {
		return nil
	}

	tools := make([]string, len(core.Tools))
	for i, tool := range core.Tools {
		tools[i] = tool.Name
	}

	return tools
}

func newCompressor(cfg config.Configuration, httpClient *http.Client) *chat.Compressor {
	return &chat.Compressor{
		ServerURL:   cfg.ServerURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.ChatModel,
		HTTPClient:  httpClient,
		Temperature: 0.1,
	}
}

// withCustomTriggers extends the built-in vocabulary with the session's
// configured trigger words.
func withCustomTriggers(vocabulary trigger.Vocabulary, triggers []string) trigger.Vocabulary {
	merged := make(map[string][]string, len(vocabulary)+len(triggers))

	for canonical, variants := range vocabulary {
		merged[canonical] = variants
	}

	for _, t := range triggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := merged[t]; !ok {
			merged[t] = []string{t}
		}
	}

	return trigger.NewVocabulary(merged)
}
