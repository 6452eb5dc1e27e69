// Package analysis drives the remote AI code-quality reviewer: prompt
// assembly, the GenAI call, and best-effort fallback synthesis when the
// remote model fails, blocks, or answers with unparsable text (spec §4.D).
package analysis

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/streamspace-dev/codesandbox/internal/logger"
	"github.com/streamspace-dev/codesandbox/internal/models"
)

const (
	// defaultModel is used when Config.Model is unset. The client never
	// enumerates the remote catalogue on the hot path (spec §4.D).
	defaultModel = "gemini-2.0-flash"

	defaultMaxOutputTokens = 1024
	defaultTemperature     = 0.2

	// DefaultTimeout bounds the remote call; the spec budgets the overall
	// analyze request at ~30s and gives the AI call no retry.
	DefaultTimeout = 20 * time.Second
)

// Config holds analysis-client configuration.
type Config struct {
	APIKey string
	Model  string
}

// Client calls the remote generative-AI provider to produce a quality
// report for one submission. A Client with no APIKey is still usable: every
// call returns the disabled-provider fallback rather than erroring, so the
// orchestrator can run unconditionally.
type Client struct {
	genaiClient *genai.Client
	model       string
}

// NewClient constructs a Client. If config.APIKey is empty, the returned
// Client is a disabled stub (spec §4.D analysis is best-effort: a missing
// provider key degrades to fallback reports, not a failed request).
func NewClient(ctx context.Context, config Config) (*Client, error) {
	model := config.Model
	if model == "" {
		model = defaultModel
	}
	if config.APIKey == "" {
		logger.Analysis().Warn().Msg("no analysis provider API key configured; falling back to heuristic reports")
		return &Client{model: model}, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: config.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{genaiClient: gc, model: model}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// Enabled reports whether a live provider is configured.
func (c *Client) Enabled() bool { return c.genaiClient != nil }

// ListModels queries the live provider's model catalogue and returns the
// names of models that support content generation, mirroring the
// original's debug endpoint (filters on "generateContent" in each model's
// supported actions). Callers fall back to the static configured model
// name when this returns an error; the hot analyze path never calls it
// (spec §4.D: the client "does not enumerate the remote catalogue on the
// hot path").
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("analysis provider not configured")
	}

	page, err := c.genaiClient.Models.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var names []string
	for _, m := range page.Items {
		if supportsGenerateContent(m) {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

func supportsGenerateContent(m *genai.Model) bool {
	for _, action := range m.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}

// Analyze requests a quality report for source from the remote model,
// falling back to a benign synthesized report on any non-success outcome:
// missing provider, blocked generation, or an empty candidate list. It
// never returns an error — analysis is best-effort by design (spec §4.D).
func (c *Client) Analyze(ctx context.Context, language, source string) models.AnalysisReport {
	log := logger.Analysis()

	if !c.Enabled() {
		return fallbackReport(source, "analysis provider not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	prompt := buildPrompt(language, source)
	temperature := float32(defaultTemperature)
	maxTokens := int32(defaultMaxOutputTokens)
	candidateCount := int32(1)

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		CandidateCount:  &candidateCount,
		MaxOutputTokens: &maxTokens,
	})
	if err != nil {
		log.Warn().Err(err).Msg("analysis provider call failed")
		return fallbackReport(source, "analysis provider call failed: "+err.Error())
	}

	if resp == nil || len(resp.Candidates) == 0 {
		log.Warn().Msg("analysis provider returned no candidates")
		return fallbackReport(source, "analysis provider returned no candidates")
	}

	candidate := resp.Candidates[0]
	if reason := candidate.FinishReason; isBlockedFinish(reason) {
		log.Info().Str("finish_reason", string(reason)).Msg("analysis blocked by provider")
		return fallbackReport(source, fmt.Sprintf("analysis blocked by provider (finish_reason=%s)", reason))
	}

	text := extractText(candidate)
	if text == "" {
		return fallbackReport(source, "analysis provider returned empty text")
	}

	report, err := parseReport(text)
	if err != nil {
		log.Info().Err(err).Msg("failed to parse analysis provider response as JSON")
		fb := fallbackReport(source, "failed to parse analysis response")
		fb.Output = inferOutputHeuristically(source)
		return fb
	}
	return report
}

// isBlockedFinish reports whether the finish reason indicates the model did
// not produce a usable answer: safety block, recitation flag, or any
// reason other than the normal stop/length completions.
func isBlockedFinish(reason genai.FinishReason) bool {
	switch reason {
	case "", genai.FinishReasonStop, genai.FinishReasonMaxTokens:
		return false
	default:
		return true
	}
}

func extractText(candidate *genai.Candidate) string {
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var out string
	for _, part := range candidate.Content.Parts {
		out += part.Text
	}
	return out
}
