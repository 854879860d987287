package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

const DefaultSandboxTimeout = 10 * time.Minute

// Sandbox runs the coding assistant CLI within a container instead of
// directly on the host, so that the tools it is allowed to use cannot
// touch the host file system.
type Sandbox struct {
	Image        string
	Command      string
	AllowedTools []string
	Env          map[string]string
	Timeout      time.Duration
}

// Execute pulls the image, starts the container and returns the running
// execution. The container is removed once it terminated.
func (s *Sandbox) Execute(ctx context.Context, prompt string) (Execution, error) {
	command := s.Command
	if command == "" {
		command = DefaultCommand
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = DefaultSandboxTimeout
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	reader, err := cli.ImagePull(ctx, s.Image, image.PullOptions{})
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("pull image %s: %w", s.Image, err)
	}

	_, _ = io.Copy(io.Discard, reader)
	reader.Close()

	env := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	cfg := &container.Config{
		Image:      s.Image,
		Entrypoint: []string{command},
		Cmd:        buildArgs(prompt, s.AllowedTools),
		Env:        env,
	}

	resp, err := cli.ContainerCreate(ctx, cfg, nil, nil, nil, "")
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("create container: %w", err)
	}

	if err := cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		cli.Close()
		return nil, fmt.Errorf("start container: %w", err)
	}

	run := &containerRun{
		cli:         cli,
		containerID: resp.ID,
		results:     make(chan Result, 1),
	}

	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	go run.wait(waitCtx, cancel)

	return run, nil
}

type containerRun struct {
	cli         *client.Client
	containerID string
	results     chan Result
}

func (r *containerRun) Results() <-chan Result {
	return r.results
}

func (r *containerRun) Interrupt() error {
	return r.cli.ContainerKill(context.Background(), r.containerID, "SIGINT")
}

func (r *containerRun) Terminate() error {
	return r.cli.ContainerKill(context.Background(), r.containerID, "SIGTERM")
}

func (r *containerRun) Kill() error {
	return r.cli.ContainerKill(context.Background(), r.containerID, "SIGKILL")
}

func (r *containerRun) wait(ctx context.Context, cancel context.CancelFunc) {
	defer close(r.results)
	defer r.cli.Close()
	defer cancel()
	defer func() {
		err := r.cli.ContainerRemove(ctx, r.containerID, container.RemoveOptions{
			Force:         true,
			RemoveVolumes: true,
		})
		if err != nil {
			slog.Warn(fmt.Sprintf("failed to remove executor container: %s", err))
		}
	}()

	statusCh, errCh := r.cli.ContainerWait(ctx, r.containerID, container.WaitConditionNotRunning)
	var exitCode int64
	select {
	case err := <-errCh:
		if err != nil {
			r.results <- Result{Err: fmt.Errorf("%w: %s", ErrFailure, err)}
			return
		}
	case status := <-statusCh:
		exitCode = status.StatusCode
	}

	stdout, stderr, err := r.logs(ctx)
	if err != nil {
		r.results <- Result{Err: fmt.Errorf("%w: read container output: %s", ErrFailure, err)}
		return
	}

	result := Result{Output: stdout}

	if exitCode != 0 {
		// Exit codes above 128 encode the terminating signal.
		if exitCode > 128 {
			result.Err = fmt.Errorf("%w: exited with %d", ErrCancelled, exitCode)
		} else {
			detail := stderr
			if detail == "" {
				detail = fmt.Sprintf("exited with %d", exitCode)
			}
			result.Err = fmt.Errorf("%w: %s", ErrFailure, detail)
		}
	}

	r.results <- result
}

func (r *containerRun) logs(ctx context.Context) (string, string, error) {
	out, err := r.cli.ContainerLogs(ctx, r.containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", err
	}

	defer out.Close()

	var stdout, stderr bytes.Buffer

	if _, err := stdcopy.StdCopy(&stdout, &stderr, out); err != nil {
		return "", "", err
	}

	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), nil
}
