package monitor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeStatus(t *testing.T, path string, info ProcessInfo) {
	t.Helper()
	data, err := json.Marshal(&info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestCheckEstablishesBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	writeStatus(t, path, ProcessInfo{Status: StatusRunning, CurrentIteration: 3, Iterations: 10})
	testee := &Monitor{Path: path}

	announcements, err := testee.Check()

	require.NoError(t, err)
	require.Empty(t, announcements)
}

func TestCheckAnnouncesChanges(t *testing.T) {
	for _, tc := range []struct {
		name     string
		previous ProcessInfo
		current  ProcessInfo
		expected []AnnouncementKind
	}{
		{
			name:     "completion",
			previous: ProcessInfo{Status: StatusRunning},
			current:  ProcessInfo{Status: StatusCompleted},
			expected: []AnnouncementKind{AnnounceCompletion},
		},
		{
			name:     "failure",
			previous: ProcessInfo{Status: StatusRunning},
			current:  ProcessInfo{Status: StatusFailed},
			expected: []AnnouncementKind{AnnounceFailure},
		},
		{
			name:     "even iteration progress",
			previous: ProcessInfo{Status: StatusRunning, CurrentIteration: 3, Iterations: 10},
			current:  ProcessInfo{Status: StatusRunning, CurrentIteration: 4, Iterations: 10},
			expected: []AnnouncementKind{AnnounceProgress},
		},
		{
			name:     "odd iteration is silent",
			previous: ProcessInfo{Status: StatusRunning, CurrentIteration: 4, Iterations: 10},
			current:  ProcessInfo{Status: StatusRunning, CurrentIteration: 5, Iterations: 10},
			expected: nil,
		},
		{
			name:     "phase change",
			previous: ProcessInfo{Status: StatusRunning, CurrentPhase: "planning"},
			current:  ProcessInfo{Status: StatusRunning, CurrentPhase: "implementation"},
			expected: []AnnouncementKind{AnnouncePhase},
		},
		{
			name:     "phase cleared is silent",
			previous: ProcessInfo{Status: StatusRunning, CurrentPhase: "planning"},
			current:  ProcessInfo{Status: StatusRunning},
			expected: nil,
		},
		{
			name:     "no change",
			previous: ProcessInfo{Status: StatusRunning, CurrentIteration: 4, Iterations: 10},
			current:  ProcessInfo{Status: StatusRunning, CurrentIteration: 4, Iterations: 10},
			expected: nil,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "status.json")
			testee := &Monitor{Path: path}

			writeStatus(t, path, tc.previous)
			_, err := testee.Check()
			require.NoError(t, err)

			writeStatus(t, path, tc.current)
			announcements, err := testee.Check()
			require.NoError(t, err)

			var kinds []AnnouncementKind
			for _, a := range announcements {
				kinds = append(kinds, a.Kind)
			}
			require.Equal(t, tc.expected, kinds)
		})
	}
}

func TestCheckMissingFile(t *testing.T) {
	testee := &Monitor{Path: filepath.Join(t.TempDir(), "missing.json")}

	_, err := testee.Check()

	require.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	writeStatus(t, path, ProcessInfo{Status: StatusRunning, CurrentIteration: 2, Iterations: 10})
	testee := &Monitor{Path: path, Interval: 50 * time.Millisecond}

	_, err := testee.Check()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	announcements := testee.Watch(ctx)

	writeStatus(t, path, ProcessInfo{Status: StatusCompleted, CurrentIteration: 10, Iterations: 10})

	select {
	case a := <-announcements:
		require.Equal(t, AnnounceCompletion, a.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for announcement")
	}

	cancel()
}

func TestStatusMessage(t *testing.T) {
	msg := StatusMessage(&ProcessInfo{
		Status:           StatusRunning,
		CurrentIteration: 5,
		Iterations:       10,
		CurrentPhase:     "implementation",
	})

	require.Contains(t, msg, "currently running")
	require.Contains(t, msg, "50%")
	require.Contains(t, msg, "iteration 5 of 10")
	require.Contains(t, msg, "implementation")
}

func TestSummaryMessage(t *testing.T) {
	msg := SummaryMessage(&ProcessInfo{
		Status:           StatusCompleted,
		CurrentIteration: 10,
		Iterations:       10,
		Query:            "refactor the parser",
	})

	require.Contains(t, msg, "refactor the parser")
	require.Contains(t, msg, "finished successfully")
}
