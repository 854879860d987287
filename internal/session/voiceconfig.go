package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Interaction is one entry of the append-only voice interaction log.
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
}

// VoiceConfig is the session record shared with the background job
// runner. It is read at startup, appended to on every interaction and
// rewritten in full on save.
type VoiceConfig struct {
	ProcessID     string        `json:"process_id,omitempty"`
	STTModel      string        `json:"stt_model"`
	TTSVoice      string        `json:"tts_voice"`
	VoiceTriggers string        `json:"voice_triggers"`
	Status        string        `json:"status"`
	LastUpdate    time.Time     `json:"last_update"`
	VoiceCommands []string      `json:"voice_commands,omitempty"`
	Interactions  []Interaction `json:"voice_interactions"`
}

// Triggers returns the configured trigger words.
func (c *VoiceConfig) Triggers() []string {
	var triggers []string
	for _, t := range strings.Split(c.VoiceTriggers, ",") {
		if t = strings.TrimSpace(t); t != "" {
			triggers = append(triggers, t)
		}
	}
	return triggers
}

// VoiceConfigFile persists a VoiceConfig at a fixed path.
type VoiceConfigFile struct {
	Path   string
	Config VoiceConfig
	// Now is overridable for tests, defaults to time.Now.
	Now func() time.Time
}

// LoadVoiceConfig reads the record at path, falling back to the given
// defaults when the file does not exist or cannot be parsed.
func LoadVoiceConfig(path string, defaults VoiceConfig) (*VoiceConfigFile, error) {
	f := &VoiceConfigFile{Path: path, Config: defaults}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := json.Unmarshal(data, &f.Config); err != nil {
		f.Config = defaults
		return f, fmt.Errorf("%w: unmarshal voice config: %w", ErrPersistence, err)
	}

	return f, nil
}

// RecordInteraction appends an entry to the interaction log and saves.
func (f *VoiceConfigFile) RecordInteraction(interactionType, content string) error {
	f.Config.Interactions = append(f.Config.Interactions, Interaction{
		Timestamp: f.now(),
		Type:      interactionType,
		Content:   content,
	})

	return f.Save()
}

// SetStatus updates the record's status field and saves.
func (f *VoiceConfigFile) SetStatus(status string) error {
	f.Config.Status = status
	return f.Save()
}

// Save rewrites the record in full.
func (f *VoiceConfigFile) Save() error {
	f.Config.LastUpdate = f.now()

	data, err := json.MarshalIndent(&f.Config, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal voice config: %w", ErrPersistence, err)
	}

	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return nil
}

func (f *VoiceConfigFile) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
