package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

const DefaultCommand = "claude"

var (
	// ErrFailure indicates a non-zero exit of the assistant subprocess.
	ErrFailure = errors.New("executor failed")
	// ErrCancelled indicates a voice- or signal-triggered abort.
	ErrCancelled = errors.New("execution cancelled")
)

// Result is the outcome of one executor run.
type Result struct {
	Output string
	Err    error
}

// Execution is a started run. Its result arrives on Results exactly once,
// and it can be shut down in stages of increasing force.
type Execution interface {
	Results() <-chan Result
	Interrupt() error
	Terminate() error
	Kill() error
}

// Executor runs task prompts against the external coding assistant.
type Executor interface {
	Execute(ctx context.Context, prompt string) (Execution, error)
}

// CLI invokes the coding assistant command line on the host in headless
// mode, passing the prompt and the allowed tool names.
type CLI struct {
	// Command is the binary to invoke, default "claude".
	Command string
	// AllowedTools is passed as a flat comma-separated allow-list.
	AllowedTools []string
}

// Execute starts the subprocess and returns the running execution.
func (e *CLI) Execute(ctx context.Context, prompt string) (Execution, error) {
	command := e.Command
	if command == "" {
		command = DefaultCommand
	}

	cmd := exec.Command(command, buildArgs(prompt, e.AllowedTools)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	run := &hostRun{cmd: cmd, results: make(chan Result, 1)}

	go func() {
		defer close(run.results)

		err := cmd.Wait()
		result := Result{Output: strings.TrimSpace(stdout.String())}

		if err != nil {
			result.Err = classifyExit(err, stderr.String())
		}

		run.results <- result
	}()

	return run, nil
}

// classifyExit distinguishes a signal-terminated subprocess, which is
// the result of a staged shutdown, from a genuine failure.
func classifyExit(err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return fmt.Errorf("%w: %s", ErrCancelled, status.Signal())
		}
	}

	detail := strings.TrimSpace(stderr)
	if detail == "" {
		detail = err.Error()
	}

	return fmt.Errorf("%w: %s", ErrFailure, detail)
}

func buildArgs(prompt string, allowedTools []string) []string {
	args := []string{"-p", prompt}
	if len(allowedTools) > 0 {
		args = append(args, "--allowedTools", strings.Join(allowedTools, ","))
	}
	return args
}

type hostRun struct {
	cmd     *exec.Cmd
	results chan Result
}

func (r *hostRun) Results() <-chan Result {
	return r.results
}

func (r *hostRun) Interrupt() error {
	return r.cmd.Process.Signal(syscall.SIGINT)
}

func (r *hostRun) Terminate() error {
	return r.cmd.Process.Signal(syscall.SIGTERM)
}

func (r *hostRun) Kill() error {
	return r.cmd.Process.Kill()
}
