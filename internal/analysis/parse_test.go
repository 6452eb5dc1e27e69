package analysis

import "testing"

func TestParseReport_FencedJSONBlock(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"errors\":[],\"suggestions\":[\"use snake_case\"],\"optimizations\":[],\"output\":\"Hello\",\"quality_metrics\":{\"cyclomatic_complexity\":1}}\n```\n"

	report, err := parseReport(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Output != "Hello" {
		t.Fatalf("expected output Hello, got %q", report.Output)
	}
	if len(report.Suggestions) != 1 || report.Suggestions[0] != "use snake_case" {
		t.Fatalf("unexpected suggestions: %v", report.Suggestions)
	}
	if report.QualityMetrics.CyclomaticComplexity != 1 {
		t.Fatalf("expected cyclomatic complexity 1, got %d", report.QualityMetrics.CyclomaticComplexity)
	}
}

func TestParseReport_BareFencedBlock(t *testing.T) {
	text := "```\n{\"output\":\"42\"}\n```"
	report, err := parseReport(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Output != "42" {
		t.Fatalf("expected output 42, got %q", report.Output)
	}
}

func TestParseReport_NoFenceUsesWholeText(t *testing.T) {
	text := `{"output": "no fences here"}`
	report, err := parseReport(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Output != "no fences here" {
		t.Fatalf("expected output, got %q", report.Output)
	}
}

func TestParseReport_InvalidJSONReturnsError(t *testing.T) {
	if _, err := parseReport("this is not json at all"); err == nil {
		t.Fatal("expected an error for unparsable text")
	}
}

func TestParseReport_BackfillsMissingFields(t *testing.T) {
	report, err := parseReport(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Output != "No console output predicted" {
		t.Fatalf("unexpected default output: %q", report.Output)
	}
	if len(report.Suggestions) != 1 || report.Suggestions[0] != "No suggestions available" {
		t.Fatalf("unexpected default suggestions: %v", report.Suggestions)
	}
	if report.QualityMetrics.SecurityAnalysis != "No security issues detected" {
		t.Fatalf("unexpected default security analysis: %q", report.QualityMetrics.SecurityAnalysis)
	}
}

func TestInferOutputHeuristically_DetectsPrintStatements(t *testing.T) {
	if got := inferOutputHeuristically("print('hi')"); got != "Code contains output statements but prediction failed" {
		t.Fatalf("unexpected heuristic output: %q", got)
	}
	if got := inferOutputHeuristically("console.log('hi')"); got != "Code contains output statements but prediction failed" {
		t.Fatalf("unexpected heuristic output: %q", got)
	}
}

func TestInferOutputHeuristically_DetectsLoops(t *testing.T) {
	got := inferOutputHeuristically("for i in range(10): pass")
	if got != "Code contains loops but output prediction failed" {
		t.Fatalf("unexpected heuristic output: %q", got)
	}
}

func TestFallbackReport_SafetyBlockUsesSafetyCopy(t *testing.T) {
	report := fallbackReport("print('x')", "analysis blocked by provider (finish_reason=SAFETY)")
	want := "Code analysis was blocked by safety filters. Please ensure your code doesn't contain sensitive content."
	if len(report.Suggestions) != 1 || report.Suggestions[0] != want {
		t.Fatalf("expected safety-specific suggestion, got %v", report.Suggestions)
	}
}
