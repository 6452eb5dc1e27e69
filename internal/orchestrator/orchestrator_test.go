package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamspace-dev/codesandbox/internal/analysis"
	"github.com/streamspace-dev/codesandbox/internal/blob"
	"github.com/streamspace-dev/codesandbox/internal/db"
	"github.com/streamspace-dev/codesandbox/internal/sandbox"
)

// stubEngine is a minimal sandbox.Engine double: every run succeeds with a
// fixed exit code and log text, so orchestrator tests exercise merge/persist
// logic without a real container runtime.
type stubEngine struct {
	exitCode int64
	logs     string
	timedOut bool
}

func (s *stubEngine) ImageExists(ctx context.Context, image string) (bool, error) { return true, nil }
func (s *stubEngine) PullImage(ctx context.Context, image string) error           { return nil }
func (s *stubEngine) RunDetached(ctx context.Context, spec sandbox.RunSpec) (sandbox.RunHandle, error) {
	return sandbox.RunHandle{ContainerID: "stub"}, nil
}
func (s *stubEngine) Wait(ctx context.Context, handle sandbox.RunHandle, timeout time.Duration) (sandbox.ExitResult, error) {
	return sandbox.ExitResult{ExitCode: s.exitCode, TimedOut: s.timedOut}, nil
}
func (s *stubEngine) Kill(ctx context.Context, handle sandbox.RunHandle) error   { return nil }
func (s *stubEngine) Logs(ctx context.Context, handle sandbox.RunHandle) (string, error) {
	return s.logs, nil
}
func (s *stubEngine) Remove(ctx context.Context, handle sandbox.RunHandle) error { return nil }

func newTestOrchestrator(t *testing.T, engine sandbox.Engine) (*Orchestrator, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store, err := blob.NewStore(t.TempDir())
	require.NoError(t, err)

	executor := sandbox.NewExecutor(engine, t.TempDir())
	aiClient, err := analysis.NewClient(context.Background(), analysis.Config{})
	require.NoError(t, err)

	o := New(executor, aiClient, db.NewSubmissionStore(conn), store)
	return o, mock
}

func TestOrchestrator_Run_SuccessfulExecutionMergesReport(t *testing.T) {
	o, mock := newTestOrchestrator(t, &stubEngine{exitCode: 0, logs: "hello\n"})
	mock.ExpectQuery("INSERT INTO code_submissions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	report := o.Run(context.Background(), 1, "python", "print('hello')", "main.py")

	assert.True(t, report.ExecutionSuccess)
	assert.Equal(t, "hello", report.CodeOutput)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.QualityMetrics.LinesOfCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrchestrator_Run_NonZeroExitPrependsExecutionError(t *testing.T) {
	o, mock := newTestOrchestrator(t, &stubEngine{exitCode: 1, logs: "traceback"})
	mock.ExpectQuery("INSERT INTO code_submissions").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	report := o.Run(context.Background(), 1, "python", "raise ValueError()", "main.py")

	assert.False(t, report.ExecutionSuccess)
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, "program exited with a non-zero status", report.Errors[0].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrchestrator_Run_PersistenceFailureStillReturnsReport(t *testing.T) {
	o, mock := newTestOrchestrator(t, &stubEngine{exitCode: 0, logs: "ok"})
	mock.ExpectQuery("INSERT INTO code_submissions").WillReturnError(assertErr{})

	report := o.Run(context.Background(), 1, "go", "package main\nfunc main() {}\n", "main.go")

	assert.True(t, report.ExecutionSuccess)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type assertErr struct{}

func (assertErr) Error() string { return "insert failed" }
