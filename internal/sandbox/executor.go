// Package sandbox runs untrusted submitted source inside an ephemeral,
// resource-capped, network-isolated container and reports its output.
package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
	"github.com/streamspace-dev/codesandbox/internal/logger"
)

const (
	// memoryCapBytes is the fixed per-run memory cap (spec §4.C: 128 MiB).
	memoryCapBytes = 128 * 1024 * 1024

	// DefaultTimeout is the hard wall-clock timeout applied when the caller
	// does not override it.
	DefaultTimeout = 15 * time.Second

	containerNamePrefix = "codesandbox-run"

	// maxCapturedOutputBytes bounds how much combined stdout/stderr is kept
	// per run; beyond this the captured text is cut and a truncation
	// marker is appended rather than silently dropping the rest.
	maxCapturedOutputBytes = 64 * 1024

	truncationMarker = "...[truncated]"
)

// RunResult is what Execute returns to the orchestrator.
type RunResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	Duration   time.Duration
	ErrorKind  apperr.Code // empty when the run completed without an executor-level failure
	Truncated  bool        // true when captured output exceeded maxCapturedOutputBytes
}

// capOutput clips s to maxCapturedOutputBytes, reporting whether it did.
func capOutput(s string) (string, bool) {
	if len(s) <= maxCapturedOutputBytes {
		return s, false
	}
	return s[:maxCapturedOutputBytes] + truncationMarker, true
}

// Executor runs one submission at a time end to end: workspace setup,
// container lifecycle, teardown. It holds no per-request state.
type Executor struct {
	engine  Engine
	tempDir string
}

// NewExecutor returns an Executor whose per-run temp directories are
// created under tempDir (os.TempDir() if empty).
func NewExecutor(engine Engine, tempDir string) *Executor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Executor{engine: engine, tempDir: tempDir}
}

// Execute runs source as language inside a fresh container, honoring
// timeout, and always tearing down both the container and the temp
// workspace directory before returning (spec §4.C protocol).
func (e *Executor) Execute(ctx context.Context, language, source string, timeout time.Duration) RunResult {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := logger.Sandbox()

	recipe, ok := RecipeFor(language)
	if !ok {
		return RunResult{ErrorKind: apperr.CodeInternal, Stderr: fmt.Sprintf("unsupported language: %s", language)}
	}

	workDir, err := os.MkdirTemp(e.tempDir, "codesandbox-*")
	if err != nil {
		log.Error().Err(err).Msg("failed to create sandbox workspace")
		return RunResult{ErrorKind: apperr.CodeInternal, Stderr: "failed to prepare sandbox workspace"}
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", workDir).Msg("failed to remove sandbox workspace")
		}
	}()

	sourcePath := filepath.Join(workDir, recipe.Filename)
	if err := os.WriteFile(sourcePath, []byte(source), 0o644); err != nil {
		log.Error().Err(err).Msg("failed to write sandbox source file")
		return RunResult{ErrorKind: apperr.CodeInternal, Stderr: "failed to write source"}
	}

	exists, err := e.engine.ImageExists(ctx, recipe.Image)
	if err != nil {
		log.Error().Err(err).Str("image", recipe.Image).Msg("sandbox engine unreachable")
		return RunResult{ErrorKind: apperr.CodeSandboxUnavailable, Stderr: "sandbox engine unavailable"}
	}
	if !exists {
		if err := e.engine.PullImage(ctx, recipe.Image); err != nil {
			log.Error().Err(err).Str("image", recipe.Image).Msg("failed to pull sandbox image")
			return RunResult{ErrorKind: apperr.CodeSandboxUnavailable, Stderr: "sandbox image unavailable"}
		}
	}

	spec := RunSpec{
		Image:        recipe.Image,
		Command:      recipe.Command,
		WorkspaceDir: workDir,
		MemoryBytes:  memoryCapBytes,
		AllowNetwork: recipe.AllowNetwork,
		NamePrefix:   containerNamePrefix,
	}

	start := time.Now()
	handle, err := e.engine.RunDetached(ctx, spec)
	if err != nil {
		log.Error().Err(err).Msg("failed to start sandbox container")
		return RunResult{ErrorKind: apperr.CodeSandboxUnavailable, Stderr: "failed to start sandbox container"}
	}
	defer func() {
		if rmErr := e.engine.Remove(context.Background(), handle); rmErr != nil {
			log.Warn().Err(rmErr).Str("container", handle.ContainerID).Msg("failed to remove sandbox container")
		}
	}()

	exit, err := e.engine.Wait(ctx, handle, timeout)
	duration := time.Since(start)
	if err != nil {
		log.Error().Err(err).Msg("sandbox wait failed")
		return RunResult{ErrorKind: apperr.CodeInternal, Duration: duration, Stderr: "sandbox wait failed"}
	}

	if exit.TimedOut {
		return RunResult{
			ErrorKind: apperr.CodeSandboxTimeout,
			ExitCode:  124,
			Duration:  timeout,
			Stderr:    "execution timed out",
		}
	}

	logs, err := e.engine.Logs(ctx, handle)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch sandbox logs")
	}
	logs = strings.TrimRight(logs, " \t\r\n")

	logs, truncated := capOutput(logs)

	result := RunResult{ExitCode: int(exit.ExitCode), Duration: duration, Truncated: truncated}
	if exit.ExitCode == 0 {
		result.Stdout = logs
	} else {
		result.Stderr = logs
		result.ErrorKind = apperr.CodeSandboxContainerError
	}
	return result
}
