package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultInterval = 30 * time.Second

// Process status values of the job runner's status record.
const (
	StatusInitialized = "initialized"
	StatusActive      = "active"
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusFailed      = "failed"
	StatusStopped     = "stopped"
)

// ProcessInfo is the job runner's status record. It is polled, never
// written by this process.
type ProcessInfo struct {
	Status           string `json:"status"`
	CurrentIteration int    `json:"current_iteration"`
	Iterations       int    `json:"iterations"`
	CurrentPhase     string `json:"current_phase"`
	Query            string `json:"query"`
}

// Progress returns the completion percentage.
func (p *ProcessInfo) Progress() int {
	if p.Iterations <= 0 {
		return 0
	}
	return p.CurrentIteration * 100 / p.Iterations
}

// AnnouncementKind classifies a derived notification.
type AnnouncementKind string

const (
	AnnounceCompletion AnnouncementKind = "completion"
	AnnounceFailure    AnnouncementKind = "failure"
	AnnounceProgress   AnnouncementKind = "progress"
	AnnouncePhase      AnnouncementKind = "phase"
)

// Announcement is a spoken notification derived from a status change.
type Announcement struct {
	Kind AnnouncementKind
	Text string
}

// Monitor watches the job runner's status file and derives announcements
// from changes. Check and Watch must not be used concurrently.
type Monitor struct {
	Path string
	// Interval is the poll fallback interval, default 30s.
	Interval time.Duration

	previous *ProcessInfo
}

// Load reads the status record.
func (m *Monitor) Load() (*ProcessInfo, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, fmt.Errorf("read process status: %w", err)
	}

	var info ProcessInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("unmarshal process status: %w", err)
	}

	return &info, nil
}

// Check reloads the status record and returns announcements for the
// changes since the previous check. The first successful check only
// establishes the baseline.
func (m *Monitor) Check() ([]Announcement, error) {
	info, err := m.Load()
	if err != nil {
		return nil, err
	}

	previous := m.previous
	m.previous = info

	if previous == nil {
		return nil, nil
	}

	return diff(previous, info), nil
}

func diff(previous, current *ProcessInfo) []Announcement {
	var announcements []Announcement

	if current.Status != previous.Status {
		switch current.Status {
		case StatusCompleted:
			announcements = append(announcements, Announcement{
				Kind: AnnounceCompletion,
				Text: "Great news! The background process has completed successfully.",
			})
		case StatusFailed:
			announcements = append(announcements, Announcement{
				Kind: AnnounceFailure,
				Text: "I'm sorry, but the background process has failed. Check the logs for more information.",
			})
		}
	}

	// Progress is announced every other iteration to avoid constant chatter.
	if current.CurrentIteration > previous.CurrentIteration && current.CurrentIteration%2 == 0 {
		announcements = append(announcements, Announcement{
			Kind: AnnounceProgress,
			Text: fmt.Sprintf("Progress update: Iteration %d of %d completed - %d%% done.",
				current.CurrentIteration, current.Iterations, current.Progress()),
		})
	}

	if current.CurrentPhase != previous.CurrentPhase && current.CurrentPhase != "" {
		announcements = append(announcements, Announcement{
			Kind: AnnouncePhase,
			Text: fmt.Sprintf("The process has moved to a new phase: %s.", current.CurrentPhase),
		})
	}

	return announcements
}

// Watch emits announcements whenever the status file changes, combining
// a file system watch with interval polling as fallback.
func (m *Monitor) Watch(ctx context.Context) <-chan Announcement {
	ch := make(chan Announcement, 10)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn(fmt.Sprintf("falling back to polling only, file watch unavailable: %s", err))
	} else if err := watcher.Add(filepath.Dir(m.Path)); err != nil {
		slog.Warn(fmt.Sprintf("falling back to polling only, cannot watch %s: %s", m.Path, err))
		watcher.Close()
		watcher = nil
	}

	go func() {
		defer close(ch)
		if watcher != nil {
			defer watcher.Close()
		}

		var events chan fsnotify.Event
		var errors chan error
		if watcher != nil {
			events = watcher.Events
			errors = watcher.Errors
		}

		ticker := time.NewTicker(m.interval())
		defer ticker.Stop()

		check := func() {
			announcements, err := m.Check()
			if err != nil {
				slog.Debug(fmt.Sprintf("check process status: %s", err))
				return
			}
			for _, a := range announcements {
				ch <- a
			}
		}

		check()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				if filepath.Clean(event.Name) != filepath.Clean(m.Path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					check()
				}
			case err := <-errors:
				slog.Warn(fmt.Sprintf("watch process status: %s", err))
			case <-ticker.C:
				check()
			}
		}
	}()

	return ch
}

// StatusMessage renders the spoken answer to a status command.
func StatusMessage(info *ProcessInfo) string {
	msg := fmt.Sprintf("The process is currently %s. Progress is at %d%% - iteration %d of %d. ",
		info.Status, info.Progress(), info.CurrentIteration, info.Iterations)

	if info.CurrentPhase != "" {
		msg += fmt.Sprintf("Current phase: %s. ", info.CurrentPhase)
	}

	switch info.Status {
	case StatusActive, StatusRunning:
		msg += "Processing is ongoing. I'll notify you when significant progress is made."
	case StatusCompleted:
		msg += "The process has finished successfully."
	case StatusFailed:
		msg += "The process has failed. Check the logs for details."
	case StatusStopped:
		msg += "The process was stopped."
	}

	return msg
}

// SummaryMessage renders the spoken answer to a summarize command.
func SummaryMessage(info *ProcessInfo) string {
	msg := fmt.Sprintf("I've been working on your request: %s. ", info.Query)
	msg += fmt.Sprintf("Current status is %s, completing %d of %d planned iterations. ",
		info.Status, info.CurrentIteration, info.Iterations)

	switch info.Status {
	case StatusCompleted:
		msg += "The process has finished successfully."
	case StatusFailed:
		msg += "Unfortunately the process has failed."
	default:
		msg += "Work is still in progress."
	}

	return msg
}

func (m *Monitor) interval() time.Duration {
	if m.Interval == 0 {
		return DefaultInterval
	}
	return m.Interval
}
