package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
)

// fakeEngine is an in-memory Engine double so executor tests never touch a
// real Docker daemon.
type fakeEngine struct {
	imageExists bool
	pullErr     error
	runErr      error
	waitResult  ExitResult
	waitErr     error
	logs        string
	logsErr     error

	pulled  []string
	killed  []RunHandle
	removed []RunHandle
}

func (f *fakeEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	return f.imageExists, nil
}

func (f *fakeEngine) PullImage(ctx context.Context, image string) error {
	f.pulled = append(f.pulled, image)
	return f.pullErr
}

func (f *fakeEngine) RunDetached(ctx context.Context, spec RunSpec) (RunHandle, error) {
	if f.runErr != nil {
		return RunHandle{}, f.runErr
	}
	return RunHandle{ContainerID: "fake-container"}, nil
}

func (f *fakeEngine) Wait(ctx context.Context, handle RunHandle, timeout time.Duration) (ExitResult, error) {
	return f.waitResult, f.waitErr
}

func (f *fakeEngine) Kill(ctx context.Context, handle RunHandle) error {
	f.killed = append(f.killed, handle)
	return nil
}

func (f *fakeEngine) Logs(ctx context.Context, handle RunHandle) (string, error) {
	return f.logs, f.logsErr
}

func (f *fakeEngine) Remove(ctx context.Context, handle RunHandle) error {
	f.removed = append(f.removed, handle)
	return nil
}

func TestExecutor_SuccessfulRun(t *testing.T) {
	engine := &fakeEngine{
		imageExists: true,
		waitResult:  ExitResult{ExitCode: 0},
		logs:        "Hello, World!\n",
	}
	exec := NewExecutor(engine, t.TempDir())

	result := exec.Execute(context.Background(), "python", "print('Hello, World!')", 0)

	require.Equal(t, apperr.Code(""), result.ErrorKind)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "Hello, World!", result.Stdout)
	assert.Empty(t, result.Stderr)
	assert.Len(t, engine.removed, 1, "container must be removed on every exit path")
}

func TestExecutor_NonZeroExitMapsToStderr(t *testing.T) {
	engine := &fakeEngine{
		imageExists: true,
		waitResult:  ExitResult{ExitCode: 1},
		logs:        "SyntaxError: unexpected EOF\n",
	}
	exec := NewExecutor(engine, t.TempDir())

	result := exec.Execute(context.Background(), "python", "print('oops'", 0)

	assert.Equal(t, apperr.CodeSandboxContainerError, result.ErrorKind)
	assert.Equal(t, 1, result.ExitCode)
	assert.Empty(t, result.Stdout)
	assert.Contains(t, result.Stderr, "SyntaxError")
}

func TestExecutor_Timeout(t *testing.T) {
	engine := &fakeEngine{
		imageExists: true,
		waitResult:  ExitResult{ExitCode: 137, TimedOut: true},
	}
	exec := NewExecutor(engine, t.TempDir())

	result := exec.Execute(context.Background(), "python", "while True: pass", 2*time.Second)

	assert.Equal(t, apperr.CodeSandboxTimeout, result.ErrorKind)
	assert.Equal(t, 124, result.ExitCode)
	assert.Equal(t, 2*time.Second, result.Duration)
}

func TestExecutor_PullsImageOnCacheMiss(t *testing.T) {
	engine := &fakeEngine{
		imageExists: false,
		waitResult:  ExitResult{ExitCode: 0},
	}
	exec := NewExecutor(engine, t.TempDir())

	exec.Execute(context.Background(), "go", "package main", 0)

	assert.Equal(t, []string{"golang:1.22-alpine"}, engine.pulled)
}

func TestExecutor_UnsupportedLanguage(t *testing.T) {
	exec := NewExecutor(&fakeEngine{}, t.TempDir())

	result := exec.Execute(context.Background(), "rust", "fn main() {}", 0)

	assert.Equal(t, apperr.CodeInternal, result.ErrorKind)
}
