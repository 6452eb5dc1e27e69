package sandbox

import (
	"context"
	"time"
)

// RunSpec describes one container run request.
type RunSpec struct {
	Image        string
	Command      []string
	WorkspaceDir string // host directory bind-mounted read-write as /workspace
	MemoryBytes  int64
	AllowNetwork bool
	NamePrefix   string
}

// RunHandle identifies a started container.
type RunHandle struct {
	ContainerID string
}

// ExitResult is what Wait reports once a container has stopped.
type ExitResult struct {
	ExitCode int64
	TimedOut bool
}

// Engine is the small container-engine abstraction the executor depends on.
// Any engine satisfying it — local daemon, rootless runtime, remote builder —
// may back the executor; higher layers never bind to a specific SDK.
type Engine interface {
	ImageExists(ctx context.Context, image string) (bool, error)
	PullImage(ctx context.Context, image string) error
	RunDetached(ctx context.Context, spec RunSpec) (RunHandle, error)
	Wait(ctx context.Context, handle RunHandle, timeout time.Duration) (ExitResult, error)
	Kill(ctx context.Context, handle RunHandle) error
	Logs(ctx context.Context, handle RunHandle) (string, error)
	Remove(ctx context.Context, handle RunHandle) error
}
