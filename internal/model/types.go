package model

import "time"

// FragmentKind distinguishes provisional transcription updates from the
// recognizer's terminal result for a listening session.
type FragmentKind string

const (
	FragmentInterim FragmentKind = "interim"
	FragmentFinal   FragmentKind = "final"
)

// TranscriptFragment is a single piece of text emitted by the speech engine.
type TranscriptFragment struct {
	Kind FragmentKind
	Text string
}

// CommandKind classifies a routed utterance.
type CommandKind string

const (
	CommandStop      CommandKind = "stop"
	CommandStatus    CommandKind = "status"
	CommandPause     CommandKind = "pause"
	CommandResume    CommandKind = "resume"
	CommandSummarize CommandKind = "summarize"
	CommandComplete  CommandKind = "complete"
	CommandGeneric   CommandKind = "generic"
)

// Event is published to subscribers (e.g. the background-mode event server)
// whenever something user-visible happens.
type Event struct {
	Type      string    `json:"type"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventTranscript = "transcript"
	EventTrigger    = "trigger"
	EventCommand    = "command"
	EventResponse   = "response"
	EventMonitor    = "monitor"
)
