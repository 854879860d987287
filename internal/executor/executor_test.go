package executor

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	require.Equal(t, []string{"-p", "write a test"}, buildArgs("write a test", nil))
	require.Equal(t,
		[]string{"-p", "write a test", "--allowedTools", "Bash,Read,Write"},
		buildArgs("write a test", []string{"Bash", "Read", "Write"}))
}

func TestCLIExecute(t *testing.T) {
	testee := &CLI{Command: "echo", AllowedTools: []string{"Bash", "Read"}}

	run, err := testee.Execute(context.Background(), "hello world")
	require.NoError(t, err)

	result := <-run.Results()

	require.NoError(t, result.Err)
	require.Equal(t, "-p hello world --allowedTools Bash,Read", result.Output)

	_, open := <-run.Results()
	require.False(t, open)
}

func TestCLIExecuteFailure(t *testing.T) {
	testee := &CLI{Command: "false"}

	run, err := testee.Execute(context.Background(), "whatever")
	require.NoError(t, err)

	result := <-run.Results()

	require.ErrorIs(t, result.Err, ErrFailure)
}

func TestClassifyExit(t *testing.T) {
	t.Run("signal termination maps to cancellation", func(t *testing.T) {
		err := exec.Command("sh", "-c", "kill -TERM $$").Run()
		require.Error(t, err)

		classified := classifyExit(err, "")

		require.ErrorIs(t, classified, ErrCancelled)
		require.NotErrorIs(t, classified, ErrFailure)
	})

	t.Run("non-zero exit maps to failure with stderr detail", func(t *testing.T) {
		err := exec.Command("sh", "-c", "exit 3").Run()
		require.Error(t, err)

		classified := classifyExit(err, "boom\n")

		require.ErrorIs(t, classified, ErrFailure)
		require.Contains(t, classified.Error(), "boom")
	})
}

func TestCLIExecuteMissingBinary(t *testing.T) {
	testee := &CLI{Command: "definitely-not-installed-anywhere"}

	_, err := testee.Execute(context.Background(), "whatever")

	require.Error(t, err)
}
