package cancel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeOperation struct {
	calls       []string
	onTerminate func()
}

func (o *fakeOperation) Interrupt() error {
	o.calls = append(o.calls, "interrupt")
	return nil
}

func (o *fakeOperation) Terminate() error {
	o.calls = append(o.calls, "terminate")
	if o.onTerminate != nil {
		o.onTerminate()
	}
	return nil
}

func (o *fakeOperation) Kill() error {
	o.calls = append(o.calls, "kill")
	return nil
}

func TestContainsStopWord(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "exact word",
			input:    "stop",
			expected: true,
		},
		{
			name:     "prefix variation",
			input:    "stopping now",
			expected: true,
		},
		{
			name:     "hyphen embedded",
			input:    "self-quit mode",
			expected: true,
		},
		{
			name:     "multi-word entry",
			input:    "no more please",
			expected: true,
		},
		{
			name:     "short word as plain substring",
			input:    "understanding",
			expected: false,
		},
		{
			name:     "no stop word",
			input:    "keep working on it",
			expected: false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ContainsStopWord(tc.input))
		})
	}
}

func TestSuperviseNaturalCompletion(t *testing.T) {
	testee := &Coordinator{Grace: 20 * time.Millisecond, Interval: 5 * time.Millisecond}
	op := &fakeOperation{}
	results := make(chan string, 1)
	results <- "done"

	result, cancelled := Supervise(context.Background(), testee, results, op)

	require.Equal(t, "done", result)
	require.False(t, cancelled)
	require.Empty(t, op.calls)
}

func TestSuperviseCompletedResultWins(t *testing.T) {
	testee := &Coordinator{Grace: 20 * time.Millisecond, Interval: 5 * time.Millisecond}
	op := &fakeOperation{}
	results := make(chan string, 1)
	results <- "done"
	testee.Cancel()

	result, cancelled := Supervise(context.Background(), testee, results, op)

	require.Equal(t, "done", result)
	require.False(t, cancelled)
	require.Empty(t, op.calls)
}

func TestSuperviseEscalation(t *testing.T) {
	testee := &Coordinator{Grace: 20 * time.Millisecond, Interval: 5 * time.Millisecond}
	results := make(chan string, 1)
	op := &fakeOperation{}
	op.onTerminate = func() {
		results <- "interrupted output"
	}
	testee.Cancel()

	result, cancelled := Supervise(context.Background(), testee, results, op)

	require.True(t, cancelled)
	require.Equal(t, "interrupted output", result)
	require.Equal(t, []string{"interrupt", "terminate"}, op.calls)
}

func TestSuperviseKillsUnresponsiveOperation(t *testing.T) {
	testee := &Coordinator{Grace: 10 * time.Millisecond, Interval: 5 * time.Millisecond}
	op := &fakeOperation{}
	testee.Cancel()

	result, cancelled := Supervise(context.Background(), testee, make(chan string), op)

	require.True(t, cancelled)
	require.Empty(t, result)
	require.Equal(t, []string{"interrupt", "terminate", "kill"}, op.calls)
}

func TestSuperviseContextCancellation(t *testing.T) {
	testee := &Coordinator{Grace: 10 * time.Millisecond, Interval: 5 * time.Millisecond}
	op := &fakeOperation{}
	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()

	_, cancelled := Supervise(ctx, testee, make(chan string), op)

	require.True(t, cancelled)
	require.True(t, testee.Cancelled())
}

func TestListen(t *testing.T) {
	testee := &Coordinator{}
	transcripts := make(chan string, 2)
	transcripts <- "keep working on it"
	transcripts <- "please stop now"

	testee.Listen(context.Background(), transcripts)

	require.True(t, testee.Cancelled())
}

func TestListenClosedChannel(t *testing.T) {
	testee := &Coordinator{}
	transcripts := make(chan string)
	close(transcripts)

	testee.Listen(context.Background(), transcripts)

	require.False(t, testee.Cancelled())
}
