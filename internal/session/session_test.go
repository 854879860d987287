package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConversationID(t *testing.T) {
	id := NewConversationID()

	require.Len(t, id, 5)
	require.NotEqual(t, id, NewConversationID())
}

func TestConversationRoundTrip(t *testing.T) {
	dir := t.TempDir()

	c, err := LoadConversation(dir, "abc12")
	require.NoError(t, err)
	require.Empty(t, c.History)

	c.Append("user", "write a test")
	c.Append("assistant", "done, see foo_test.go")
	require.NoError(t, c.Save())

	reloaded, err := LoadConversation(dir, "abc12")
	require.NoError(t, err)
	require.Equal(t, c.History, reloaded.History)
}

func TestConversationLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad00.yml"), []byte("{invalid yaml"), 0644))

	c, err := LoadConversation(dir, "bad00")

	require.ErrorIs(t, err, ErrPersistence)
	require.NotNil(t, c)
	require.Empty(t, c.History)
}

func TestFormatHistory(t *testing.T) {
	c := &Conversation{History: []Turn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}}

	formatted := c.FormatHistory()

	require.Contains(t, formatted, "# Conversation History")
	require.Contains(t, formatted, "## User\nhello")
	require.Contains(t, formatted, "## Assistant\nhi there")

	require.Empty(t, (&Conversation{}).FormatHistory())
}

func TestVoiceConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice_config.json")
	defaults := VoiceConfig{
		STTModel:      "base.en",
		TTSVoice:      "nova",
		VoiceTriggers: "friend, calmhive",
		Status:        "initialized",
	}

	f, err := LoadVoiceConfig(path, defaults)
	require.NoError(t, err)
	require.Equal(t, []string{"friend", "calmhive"}, f.Config.Triggers())

	require.NoError(t, f.RecordInteraction("command", "what's the status"))
	require.NoError(t, f.SetStatus("active"))

	reloaded, err := LoadVoiceConfig(path, VoiceConfig{})
	require.NoError(t, err)
	require.Equal(t, "active", reloaded.Config.Status)
	require.Len(t, reloaded.Config.Interactions, 1)
	require.Equal(t, "command", reloaded.Config.Interactions[0].Type)
	require.Equal(t, "what's the status", reloaded.Config.Interactions[0].Content)
	require.False(t, reloaded.Config.LastUpdate.IsZero())
}

func TestVoiceConfigLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice_config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	f, err := LoadVoiceConfig(path, VoiceConfig{Status: "initialized"})

	require.ErrorIs(t, err, ErrPersistence)
	require.Equal(t, "initialized", f.Config.Status)
}
