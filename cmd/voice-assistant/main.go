package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/gordonklaus/portaudio"

	"github.com/mgoltzsche/voice-code-assistant/internal/assistant"
	"github.com/mgoltzsche/voice-code-assistant/internal/cli"
	"github.com/mgoltzsche/voice-code-assistant/internal/soundgen"
	"github.com/mgoltzsche/voice-code-assistant/internal/trigger"
	"github.com/mgoltzsche/voice-code-assistant/pkg/config"
)

func main() {
	cfg := config.Defaults()
	configFlag := &config.Flag{Config: &cfg}

	var conversationID, input string
	var testMode bool

	flags := flag.NewFlagSet("voice-assistant", flag.ExitOnError)
	flags.Var(configFlag, "config", "path to the configuration file")
	flags.StringVar(&conversationID, "id", "", "conversation ID to resume")
	flags.StringVar(&input, "input", "", "initial prompt to dispatch before listening")
	flags.StringVar(&cfg.ServerURL, "server-url", cfg.ServerURL, "URL of the OpenAI-compatible STT/TTS/chat server")
	flags.StringVar(&cfg.InputDevice, "input-device", cfg.InputDevice, "name or ID of the audio input device")
	flags.StringVar(&cfg.OutputDevice, "output-device", cfg.OutputDevice, "name or ID of the audio output device")
	flags.IntVar(&cfg.MinVolume, "min-volume", cfg.MinVolume, "min input volume threshold")
	flags.BoolVar(&cfg.VADEnabled, "vad", cfg.VADEnabled, "enable voice activity detection (VAD)")
	flags.StringVar(&cfg.VADModelPath, "vad-model", cfg.VADModelPath, "path to the VAD model")
	flags.StringVar(&cfg.STTModel, "stt-model", cfg.STTModel, "name of the STT model to use")
	flags.StringVar(&cfg.TTSModel, "tts-model", cfg.TTSModel, "name of the TTS model to use")
	flags.StringVar(&cfg.TTSVoice, "tts-voice", cfg.TTSVoice, "name of the TTS voice to use")
	flags.StringVar(&cfg.ChatModel, "chat-model", cfg.ChatModel, "name of the chat model used to compress responses")
	flags.DurationVar(&cfg.Silence, "silence", cfg.Silence, "pause duration that ends an utterance")
	flags.IntVar(&cfg.MinLength, "min-length", cfg.MinLength, "minimum command length in characters")
	flags.IntVar(&cfg.ContextBase, "context-base", cfg.ContextBase, "base transcript buffer capacity")
	flags.IntVar(&cfg.ContextMax, "context-max", cfg.ContextMax, "maximum transcript buffer capacity")
	flags.StringVar(&cfg.AllowedTools, "allowed-tools", cfg.AllowedTools, "comma-separated tool allow-list for the coding agent")
	flags.BoolVar(&testMode, "test", false, "verify the subsystems and exit")

	cli.ParseFlagsWithEnvVars(flags, "VOICE_ASSISTANT_")

	if testMode {
		if err := selfTest(cfg); err != nil {
			log.Fatal(err)
		}
		log.Println("self-test passed")
		return
	}

	portaudio.Initialize()
	defer portaudio.Terminate()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("terminating")
	}()

	a, err := assistant.New(ctx, cfg, assistant.Options{
		ConversationID: conversationID,
		InitialPrompt:  input,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

// selfTest verifies the subsystems that don't require audio hardware or
// a running server.
func selfTest(cfg config.Configuration) error {
	matcher := &trigger.Matcher{
		Vocabulary: trigger.DefaultVocabulary(),
		Patterns:   trigger.DefaultCompoundPatterns(),
	}

	if !matcher.Matches("hey friend, can you help me") {
		return fmt.Errorf("trigger matcher does not recognize the built-in vocabulary")
	}

	sounds := &soundgen.Generator{SampleRate: 16000}
	for _, tone := range []soundgen.Tone{soundgen.ToneRegular, soundgen.ToneRising, soundgen.ToneChord} {
		if _, err := sounds.Generate(tone); err != nil {
			return fmt.Errorf("generate %s tone: %w", tone, err)
		}
	}

	if cfg.ServerURL == "" {
		return fmt.Errorf("no server URL configured")
	}

	return nil
}
