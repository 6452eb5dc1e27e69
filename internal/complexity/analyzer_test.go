package complexity

import "testing"

func TestAnalyze_SingleLineHelloWorld(t *testing.T) {
	result := Analyze("python", "print('Hello, World!')")

	if result.LinesOfCode != 1 {
		t.Fatalf("expected 1 line of code, got %d", result.LinesOfCode)
	}
	if result.OverallScore < 90 || result.OverallScore > 100 {
		t.Fatalf("expected overall score in [90,100], got %d", result.OverallScore)
	}
	if result.CyclomaticComplexity != 1 {
		t.Fatalf("expected base cyclomatic complexity 1, got %d", result.CyclomaticComplexity)
	}
}

func TestAnalyze_NestedLoopsReportQuadraticTime(t *testing.T) {
	src := "for i in range(n):\n    for j in range(n):\n        print(i, j)\n"
	result := Analyze("python", src)

	if result.TimeComplexity != "O(n²)" {
		t.Fatalf("expected O(n²), got %q", result.TimeComplexity)
	}
}

func TestAnalyze_TripleNestedLoopsReportCubicOrHigher(t *testing.T) {
	src := "for(i=0;i<n;i++){for(j=0;j<n;j++){for(k=0;k<n;k++){sum++;}}}"
	result := Analyze("c", src)

	if result.TimeComplexity != "O(n³) or higher" {
		t.Fatalf("expected O(n³) or higher, got %q", result.TimeComplexity)
	}
}

func TestAnalyze_NoLoopsWithMultipleReturnsIsRecursiveHeuristic(t *testing.T) {
	src := "def f(n):\n    if n <= 1:\n        return 1\n    return n * f(n-1)\n"
	result := Analyze("python", src)

	if result.TimeComplexity != "O(log n) to O(n) – recursive" {
		t.Fatalf("expected recursive heuristic, got %q", result.TimeComplexity)
	}
}

func TestAnalyze_DataStructureTokensReportLinearSpace(t *testing.T) {
	result := Analyze("python", "items = []\nresult = {}\ndata = list()\n")

	if result.SpaceComplexity != "O(n) – multiple" {
		t.Fatalf("expected O(n) – multiple, got %q", result.SpaceComplexity)
	}
}

func TestAnalyze_SingleDataStructureTokenReportsLinearSpace(t *testing.T) {
	result := Analyze("python", "items = []\n")

	if result.SpaceComplexity != "O(n)" {
		t.Fatalf("expected O(n), got %q", result.SpaceComplexity)
	}
}

func TestAnalyze_CyclomaticComplexityCountsControlFlowTokens(t *testing.T) {
	src := "if (x > 0 && y > 0) {\n  doSomething();\n} else if (x < 0 || y < 0) {\n  doOther();\n}\n"
	result := Analyze("javascript", src)

	// base 1 + "if (" (matches both the leading if and "else if (") x2 +
	// "else if" + "&&" + "||" = 6. Substring counting, not tokenization,
	// per spec §4.E.
	if result.CyclomaticComplexity != 6 {
		t.Fatalf("expected cyclomatic complexity 6, got %d", result.CyclomaticComplexity)
	}
}

func TestOverallScore_ClampedToRange(t *testing.T) {
	cases := []struct {
		name                       string
		avg, max, loc, loopCount   int
	}{
		{"degenerate worst case", 50, 50, 1000, 10},
		{"best case", 1, 1, 1, 0},
		{"zero everything", 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := overallScore(tc.avg, tc.max, tc.loc, tc.loopCount)
			if score < 0 || score > 100 {
				t.Fatalf("score %d out of [0,100] range", score)
			}
		})
	}
}

func TestAnalyze_EmptySourceHasZeroLinesOfCode(t *testing.T) {
	result := Analyze("go", "")
	if result.LinesOfCode != 0 {
		t.Fatalf("expected 0 lines of code for empty source, got %d", result.LinesOfCode)
	}
}
