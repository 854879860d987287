package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gordonklaus/portaudio"

	"github.com/mgoltzsche/voice-code-assistant/internal/assistant"
	"github.com/mgoltzsche/voice-code-assistant/internal/cli"
	"github.com/mgoltzsche/voice-code-assistant/internal/model"
	"github.com/mgoltzsche/voice-code-assistant/internal/pubsub"
	"github.com/mgoltzsche/voice-code-assistant/internal/server"
	"github.com/mgoltzsche/voice-code-assistant/pkg/config"
)

// voice-afk-listener monitors a background process and accepts spoken
// process-control commands (status, pause, resume, summarize, complete)
// while it runs.
func main() {
	cfg := config.Defaults()
	configFlag := &config.Flag{Config: &cfg}

	var background bool

	flags := flag.NewFlagSet("voice-afk-listener", flag.ExitOnError)
	flags.Var(configFlag, "config", "path to the configuration file")
	flags.BoolVar(&background, "background", false, "serve assistant events over HTTP")
	flags.StringVar(&cfg.ListenAddr, "listen-addr", cfg.ListenAddr, "event server listen address")
	flags.StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "path to the process status file to watch")
	flags.StringVar(&cfg.VoiceConfig, "voice-config", cfg.VoiceConfig, "path to the shared voice session record")
	flags.StringVar(&cfg.ServerURL, "server-url", cfg.ServerURL, "URL of the OpenAI-compatible STT/TTS server")

	cli.ParseFlagsWithEnvVars(flags, "VOICE_ASSISTANT_")

	processID := flags.Arg(0)
	if processID == "" {
		log.Fatal("usage: voice-afk-listener [flags] PROCESS_ID")
	}

	if cfg.StatusFile == "" {
		cfg.StatusFile = filepath.Join(cfg.SessionDir, processID, "status.json")
	}
	if cfg.VoiceConfig == "" {
		cfg.VoiceConfig = filepath.Join(cfg.SessionDir, processID, "voice_config.json")
	}

	portaudio.Initialize()
	defer portaudio.Terminate()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := pubsub.New[model.Event]()
	defer events.Stop()

	if background {
		mux := http.NewServeMux()
		server.AddRoutes(events, mux)

		go func() {
			log.Println("serving events at", cfg.ListenAddr)

			err := http.ListenAndServe(cfg.ListenAddr, mux)
			if err != nil {
				log.Println("ERROR: event server:", err)
			}
		}()
	}

	a, err := assistant.New(ctx, cfg, assistant.Options{
		ProcessID:  processID,
		Structured: true,
		Events:     events,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
