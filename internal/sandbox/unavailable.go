package sandbox

import (
	"context"
	"errors"
	"time"
)

// errEngineUnavailable is returned by every UnavailableEngine method.
var errEngineUnavailable = errors.New("sandbox engine unavailable")

// UnavailableEngine is a null Engine used when the Docker daemon could not
// be reached at startup. Rather than failing the process, the service
// comes up with a sandbox that deterministically reports
// apperr.CodeSandboxUnavailable for every execution, matching the teacher's
// pattern of degrading optional dependencies instead of refusing to start.
type UnavailableEngine struct{}

func (UnavailableEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	return false, errEngineUnavailable
}

func (UnavailableEngine) PullImage(ctx context.Context, image string) error {
	return errEngineUnavailable
}

func (UnavailableEngine) RunDetached(ctx context.Context, spec RunSpec) (RunHandle, error) {
	return RunHandle{}, errEngineUnavailable
}

func (UnavailableEngine) Wait(ctx context.Context, handle RunHandle, timeout time.Duration) (ExitResult, error) {
	return ExitResult{}, errEngineUnavailable
}

func (UnavailableEngine) Kill(ctx context.Context, handle RunHandle) error { return nil }

func (UnavailableEngine) Logs(ctx context.Context, handle RunHandle) (string, error) {
	return "", errEngineUnavailable
}

func (UnavailableEngine) Remove(ctx context.Context, handle RunHandle) error { return nil }
