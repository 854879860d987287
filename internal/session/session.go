package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrPersistence marks read/write failures of session files. They are
// never fatal, callers proceed with in-memory state.
var ErrPersistence = errors.New("session persistence failed")

// Turn is one conversation history entry.
type Turn struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

// NewConversationID generates a short 5-character conversation identifier.
func NewConversationID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0][:5]
}

// Conversation is a persisted voice conversation, stored as a YAML file
// named after its ID within Dir.
type Conversation struct {
	ID      string
	Dir     string
	History []Turn
}

// LoadConversation loads the conversation with the given ID, returning an
// empty history if no file exists yet. A read failure is reported but the
// returned conversation is still usable.
func LoadConversation(dir, id string) (*Conversation, error) {
	c := &Conversation{ID: id, Dir: dir}

	data, err := os.ReadFile(c.file())
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := yaml.Unmarshal(data, &c.History); err != nil {
		return c, fmt.Errorf("%w: unmarshal conversation %s: %w", ErrPersistence, id, err)
	}

	return c, nil
}

// Append adds a turn to the in-memory history.
func (c *Conversation) Append(role, content string) {
	c.History = append(c.History, Turn{Role: role, Content: content})
}

// Save writes the full history to the conversation file.
func (c *Conversation) Save() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	data, err := yaml.Marshal(c.History)
	if err != nil {
		return fmt.Errorf("%w: marshal conversation %s: %w", ErrPersistence, c.ID, err)
	}

	if err := os.WriteFile(c.file(), data, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	return nil
}

// FormatHistory renders the history as a markdown section for inclusion
// in the executor prompt.
func (c *Conversation) FormatHistory() string {
	if len(c.History) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("# Conversation History\n\n")

	for _, turn := range c.History {
		role := turn.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		fmt.Fprintf(&sb, "## %s\n%s\n\n", role, turn.Content)
	}

	return sb.String()
}

func (c *Conversation) file() string {
	return filepath.Join(c.Dir, c.ID+".yml")
}
