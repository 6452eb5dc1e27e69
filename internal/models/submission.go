package models

import (
	"encoding/json"
	"time"
)

// SupportedLanguages is the closed set of language tags accepted by every
// component (sandbox, analysis, complexity).
var SupportedLanguages = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"java":       ".java",
	"cpp":        ".cpp",
	"c":          ".c",
	"go":         ".go",
}

// IsSupportedLanguage reports whether lang is one of the closed set.
func IsSupportedLanguage(lang string) bool {
	_, ok := SupportedLanguages[lang]
	return ok
}

// Submission is one completed analyze request, persisted once, never
// updated. (id, user_id) is the only access key; cross-user reads must
// fail with not_found rather than forbidden, so existence is not leaked.
type Submission struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"-" db:"user_id"`
	Language         string    `json:"language" db:"language"`
	FilePath         string    `json:"-" db:"file_path"`
	FileName         string    `json:"file_name,omitempty" db:"file_name"`
	AnalysisResultJSON string  `json:"-" db:"analysis_result"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// UnmarshalAnalysisResult decodes the submission's stored analysis report
// JSON into target.
func (s *Submission) UnmarshalAnalysisResult(target *AnalysisReport) error {
	return json.Unmarshal([]byte(s.AnalysisResultJSON), target)
}

// SubmissionSummary is the shape returned by the submission-history list
// endpoint: no code body, no full report.
type SubmissionSummary struct {
	ID        int64     `json:"id"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	FileName  string    `json:"file_name,omitempty"`
}

// SubmissionDetail is the shape returned by the single-submission endpoint.
type SubmissionDetail struct {
	ID             int64          `json:"id"`
	Language       string         `json:"language"`
	Code           string         `json:"code"`
	AnalysisResult *AnalysisReport `json:"analysis_result"`
	CreatedAt      time.Time      `json:"created_at"`
	FileName       string         `json:"file_name,omitempty"`
}

// AnalyzeRequest is the POST /api/analyze payload.
type AnalyzeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// AnalysisError is one entry in an AnalysisReport's errors list.
type AnalysisError struct {
	Line     int    `json:"line"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // error | warning | info
}

// QualityMetrics is the static/AI-derived quality summary for a submission.
type QualityMetrics struct {
	CyclomaticComplexity int      `json:"cyclomatic_complexity"`
	TimeComplexity        string   `json:"time_complexity"`
	SpaceComplexity       string   `json:"space_complexity"`
	OverallScore          int      `json:"overall_score"`
	LinesOfCode           int      `json:"lines_of_code"`
	Summary               string   `json:"summary,omitempty"`
	ComplexityIssues       []string `json:"complexity_issues,omitempty"`
	SecurityIssues         []string `json:"security_issues,omitempty"`
	Recommendations        []string `json:"recommendations,omitempty"`
	SecurityAnalysis       string   `json:"security_analysis,omitempty"`
}

// AnalysisReport is the unified report shape returned by every analyze
// call and persisted alongside the submission, success or failure.
type AnalysisReport struct {
	Errors           []AnalysisError `json:"errors"`
	Suggestions      []string        `json:"suggestions"`
	Optimizations    []string        `json:"optimizations"`
	Output           string          `json:"output"`
	CodeOutput       string          `json:"code_output"`
	ExecutionSuccess bool            `json:"execution_success"`
	QualityMetrics   QualityMetrics  `json:"quality_metrics"`
}
