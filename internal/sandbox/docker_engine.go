package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/streamspace-dev/codesandbox/internal/logger"
)

// DockerEngine is the Engine implementation backed by the local Docker
// daemon. Adapted from the teacher's session-container lifecycle (image
// pull, create, start, inspect-poll, stop, remove) down to a single-shot,
// network-capped, auto-removing run of one submission's code.
type DockerEngine struct {
	cli *client.Client
}

// NewDockerEngine connects to the Docker daemon using environment defaults
// (DOCKER_HOST, DOCKER_TLS_VERIFY, DOCKER_CERT_PATH).
func NewDockerEngine() (*DockerEngine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerEngine{cli: cli}, nil
}

// Ping verifies the daemon is reachable, for use as a startup health check
// (spec §4.C docker_unavailable: detected once at wiring time rather than
// surfacing as a confusing first-request failure).
func (e *DockerEngine) Ping(ctx context.Context) error {
	_, err := e.cli.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

// ImageExists reports whether image is present in the local image cache.
func (e *DockerEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	_, _, err := e.cli.ImageInspectWithRaw(ctx, image)
	if err == nil {
		return true, nil
	}
	if client.IsErrNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to inspect image %s: %w", image, err)
}

// PullImage pulls image synchronously, draining the pull response stream.
func (e *DockerEngine) PullImage(ctx context.Context, image string) error {
	logger.Sandbox().Info().Str("image", image).Msg("pulling sandbox image")
	reader, err := e.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", image, err)
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to read pull response for %s: %w", image, err)
	}
	return nil
}

// RunDetached creates and starts a container for spec, auto-removing on
// exit, capped at 128 MiB memory and 50% of one CPU core (period 100ms,
// quota 50ms per spec §4.C), network-disabled unless spec.AllowNetwork.
func (e *DockerEngine) RunDetached(ctx context.Context, spec RunSpec) (RunHandle, error) {
	cfg := &container.Config{
		Image:      spec.Image,
		Cmd:        spec.Command,
		WorkingDir: "/workspace",
		User:       "1000:1000",
		Labels: map[string]string{
			"app":       "codesandbox",
			"component": "sandbox-run",
		},
	}

	hostCfg := &container.HostConfig{
		AutoRemove: true,
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: spec.WorkspaceDir,
				Target: "/workspace",
			},
		},
		// A sandbox run exposes no ports; PortBindings is wired explicitly
		// (rather than left nil) so the zero-value intent is visible at the
		// call site, matching the teacher's createSessionContainer.
		PortBindings: nat.PortMap{},
		Resources: container.Resources{
			Memory:    spec.MemoryBytes,
			CPUPeriod: 100000,
			CPUQuota:  50000,
		},
	}
	if !spec.AllowNetwork {
		hostCfg.NetworkMode = "none"
	}

	name := fmt.Sprintf("%s-%d", spec.NamePrefix, time.Now().UnixNano())
	resp, err := e.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, name)
	if err != nil {
		return RunHandle{}, fmt.Errorf("failed to create container: %w", err)
	}

	if err := e.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return RunHandle{}, fmt.Errorf("failed to start container: %w", err)
	}

	return RunHandle{ContainerID: resp.ID}, nil
}

// Wait blocks until the container exits or timeout elapses, whichever comes
// first. On timeout it forcibly kills the container and reports TimedOut.
func (e *DockerEngine) Wait(ctx context.Context, handle RunHandle, timeout time.Duration) (ExitResult, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	statusCh, errCh := e.cli.ContainerWait(waitCtx, handle.ContainerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if waitCtx.Err() != nil {
			_ = e.Kill(ctx, handle)
			return ExitResult{ExitCode: 124, TimedOut: true}, nil
		}
		if err != nil {
			return ExitResult{}, fmt.Errorf("failed waiting for container: %w", err)
		}
		return ExitResult{}, fmt.Errorf("container wait closed with no status")
	case status := <-statusCh:
		return ExitResult{ExitCode: status.StatusCode}, nil
	case <-waitCtx.Done():
		_ = e.Kill(ctx, handle)
		return ExitResult{ExitCode: 124, TimedOut: true}, nil
	}
}

// Kill forcibly stops the container. Used on timeout and on outer-request
// cancellation; tolerant of the container having already exited.
func (e *DockerEngine) Kill(ctx context.Context, handle RunHandle) error {
	killCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.cli.ContainerKill(killCtx, handle.ContainerID, "KILL"); err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to kill container: %w", err)
	}
	return nil
}

// Logs returns the combined stdout+stderr of the container as a single
// demultiplexed string.
func (e *DockerEngine) Logs(ctx context.Context, handle RunHandle) (string, error) {
	reader, err := e.cli.ContainerLogs(ctx, handle.ContainerID, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to fetch container logs: %w", err)
	}
	defer reader.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, reader); err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to demultiplex container logs: %w", err)
	}

	var combined strings.Builder
	combined.WriteString(stdout.String())
	combined.WriteString(stderr.String())
	return combined.String(), nil
}

// Remove deletes the container. With AutoRemove set on create this is
// normally a no-op that tolerates "already gone"; kept for the state
// machine's explicit Cleaned transition and for engines that don't support
// auto-remove.
func (e *DockerEngine) Remove(ctx context.Context, handle RunHandle) error {
	err := e.cli.ContainerRemove(ctx, handle.ContainerID, types.ContainerRemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}
