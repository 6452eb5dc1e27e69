// Package orchestrator drives one analyze request end to end: it runs the
// sandbox executor, the AI analysis client, and the complexity analyzer
// concurrently, merges their outputs into the unified report shape, and
// persists the submission (spec §4.F).
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamspace-dev/codesandbox/internal/analysis"
	"github.com/streamspace-dev/codesandbox/internal/apperr"
	"github.com/streamspace-dev/codesandbox/internal/blob"
	"github.com/streamspace-dev/codesandbox/internal/complexity"
	"github.com/streamspace-dev/codesandbox/internal/db"
	"github.com/streamspace-dev/codesandbox/internal/logger"
	"github.com/streamspace-dev/codesandbox/internal/models"
	"github.com/streamspace-dev/codesandbox/internal/sandbox"
)

// sandboxTimeout is the per-run wall-clock cap handed to the executor
// (spec §4.C default 15s).
const sandboxTimeout = 15 * time.Second

// Orchestrator wires the three analysis components together with the
// persistence layer. It holds no per-request state; one instance serves
// every concurrent analyze call.
type Orchestrator struct {
	executor    *sandbox.Executor
	aiClient    *analysis.Client
	submissions *db.SubmissionStore
	blobs       *blob.Store
}

// New constructs an Orchestrator from its four collaborators.
func New(executor *sandbox.Executor, aiClient *analysis.Client, submissions *db.SubmissionStore, blobs *blob.Store) *Orchestrator {
	return &Orchestrator{executor: executor, aiClient: aiClient, submissions: submissions, blobs: blobs}
}

// Run executes the analyze pipeline for one request and always returns a
// report conforming to the analysis-report shape (spec §7: every analyze
// response, success or failure, validates against that shape). Persistence
// failures are logged, not propagated (spec §4.F step 4).
func (o *Orchestrator) Run(ctx context.Context, userID int64, language, source, originalFilename string) models.AnalysisReport {
	log := logger.Orchestrator()

	var (
		wg          sync.WaitGroup
		runResult   sandbox.RunResult
		aiReport    models.AnalysisReport
		complexity_ complexity.Result
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		runResult = o.executor.Execute(ctx, language, source, sandboxTimeout)
	}()
	go func() {
		defer wg.Done()
		aiReport = o.aiClient.Analyze(ctx, language, source)
	}()
	go func() {
		defer wg.Done()
		complexity_ = complexity.Analyze(language, source)
	}()
	wg.Wait()

	report := merge(aiReport, complexity_, runResult)

	if err := o.persist(ctx, userID, language, source, originalFilename, report); err != nil {
		log.Error().Err(err).Msg("failed to persist submission; returning report anyway")
	}

	return report
}

// merge applies spec §4.F's precedence: start from the AI report, overwrite
// the complexity-derived quality_metrics fields, then layer in the
// execution outcome.
func merge(aiReport models.AnalysisReport, comp complexity.Result, run sandbox.RunResult) models.AnalysisReport {
	report := aiReport

	report.QualityMetrics.CyclomaticComplexity = comp.CyclomaticComplexity
	report.QualityMetrics.TimeComplexity = comp.TimeComplexity
	report.QualityMetrics.SpaceComplexity = comp.SpaceComplexity
	report.QualityMetrics.OverallScore = comp.OverallScore
	report.QualityMetrics.LinesOfCode = comp.LinesOfCode

	report.ExecutionSuccess = run.ExitCode == 0 && run.ErrorKind == ""
	if run.Stdout != "" {
		report.CodeOutput = run.Stdout
	} else {
		report.CodeOutput = run.Stderr
	}

	if run.ErrorKind != "" {
		report.Errors = append([]models.AnalysisError{executionError(run)}, report.Errors...)
	}

	return report
}

// executionError describes a sandbox-level failure as the leading errors[]
// entry (spec §4.F step 3: "if exit_code≠0, prepend an errors-list entry").
func executionError(run sandbox.RunResult) models.AnalysisError {
	message := "execution failed"
	switch run.ErrorKind {
	case apperr.CodeSandboxTimeout:
		message = fmt.Sprintf("execution timed out after %s", run.Duration)
	case apperr.CodeSandboxContainerError:
		message = "program exited with a non-zero status"
	case apperr.CodeSandboxUnavailable:
		message = "sandbox engine was unavailable"
	case apperr.CodeInternal:
		message = "internal sandbox failure"
	}
	return models.AnalysisError{Line: 1, Message: message, Severity: "error"}
}

// persist writes the code blob then the submission row, in that order
// (spec §4.B: blob first, row second; unlink the blob best-effort if the
// row insert fails).
func (o *Orchestrator) persist(ctx context.Context, userID int64, language, source, originalFilename string, report models.AnalysisReport) error {
	ext := models.SupportedLanguages[language]
	filename := uuid.NewString() + ext

	path, err := o.blobs.Write(filename, []byte(source))
	if err != nil {
		return apperr.PersistenceError(err)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		_ = o.blobs.Remove(path)
		return apperr.PersistenceError(err)
	}

	if _, err := o.submissions.Create(ctx, userID, language, path, originalFilename, string(reportJSON)); err != nil {
		_ = o.blobs.Remove(path)
		return apperr.PersistenceError(err)
	}
	return nil
}
