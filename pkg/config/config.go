package config

import (
	"time"
)

type Configuration struct {
	ServerURL    string        `json:"serverURL"`
	APIKey       string        `json:"apiKey,omitempty"`
	InputDevice  string        `json:"inputDevice,omitempty"`
	OutputDevice string        `json:"outputDevice,omitempty"`
	MinVolume    int           `json:"minVolume,omitempty"`
	VADEnabled   bool          `json:"vadEnabled,omitempty"`
	VADModelPath string        `json:"vadModelPath,omitempty"`
	STTModel     string        `json:"sttModel,omitempty"`
	TTSModel     string        `json:"ttsModel,omitempty"`
	TTSVoice     string        `json:"ttsVoice,omitempty"`
	ChatModel    string        `json:"chatModel,omitempty"`
	Temperature  float64       `json:"temperature,omitempty"`
	Silence      time.Duration `json:"silence,omitempty"`
	MinLength    int           `json:"minLength,omitempty"`
	ContextBase  int           `json:"contextBase,omitempty"`
	ContextMax   int           `json:"contextMax,omitempty"`
	AllowedTools string        `json:"allowedTools,omitempty"`
	SessionDir   string        `json:"sessionDir,omitempty"`
	VoiceConfig  string        `json:"voiceConfig,omitempty"`
	StatusFile   string        `json:"statusFile,omitempty"`
	ListenAddr   string        `json:"listenAddr,omitempty"`
	Executor     Executor      `json:"executor,omitempty"`
}

// Executor configures how the coding agent CLI is launched.
// When Image is set, the command runs within a container sandbox.
type Executor struct {
	Command string            `json:"command,omitempty"`
	Image   string            `json:"image,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	Timeout time.Duration     `json:"timeout,omitempty"`
}

func Defaults() Configuration {
	return Configuration{
		ServerURL:   "http://localhost:8000",
		STTModel:    "whisper-1",
		TTSModel:    "tts-1",
		ChatModel:   "gpt-4o-mini",
		Temperature: 0.7,
		Silence:     time.Second,
		MinLength:   10,
		ContextBase: 30,
		ContextMax:  100,
		SessionDir:  "output",
		ListenAddr:  ":8001",
		Executor: Executor{
			Command: "claude",
		},
	}
}
