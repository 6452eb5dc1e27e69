// Package complexity implements a pure, static per-language complexity and
// quality-score estimator over submitted source text. It performs no I/O
// and never executes the code it inspects.
package complexity

import (
	"strings"
)

// Result is the subset of quality_metrics this package computes (spec §4.E).
// The remaining fields (summary, issues, recommendations, security_analysis)
// come from the AI analysis client and are left untouched by callers.
type Result struct {
	CyclomaticComplexity int
	TimeComplexity       string
	SpaceComplexity      string
	OverallScore         int
	LinesOfCode          int
}

// controlFlowTokens is the per-language keyword table that drives the
// script-level cyclomatic-complexity fallback (spec §4.E table). Matching
// is case-insensitive substring counting, not tokenization: a short
// identifier that happens to contain "for" inflates the count exactly as
// the spec describes as an accepted, intentionally coarse quirk.
var controlFlowTokens = map[string][]string{
	"python": {
		"if ", "elif ", "for ", "while ", "except ", "and ", "or ", "break", "continue",
	},
	"javascript": {
		"if(", "if (", "else if", "elseif", "for(", "for (", "while(", "while (",
		"switch", "case ", "catch", "&&", "||", "break", "continue",
	},
	"java": {
		"if(", "if (", "else if", "for(", "for (", "while(", "while (",
		"switch", "case ", "catch", "&&", "||", "break", "continue",
	},
	"cpp": {
		"if(", "if (", "else if", "for(", "for (", "while(", "while (",
		"switch", "case ", "catch", "&&", "||", "break", "continue",
	},
	"c": {
		"if(", "if (", "else if", "for(", "for (", "while(", "while (",
		"switch", "case ", "catch", "&&", "||", "break", "continue",
	},
	"go": {
		"if ", "for ", "switch", "case ", "select", "&&", "||", "break", "continue",
	},
}

// dataStructureTokens drive the space-complexity heuristic, language-agnostic
// per spec §4.E ("counts data-structure tokens").
var dataStructureTokens = []string{"array", "list", "[]", "object", "dict", "{}"}

// Analyze computes the static quality metrics for source under language.
// Unknown languages fall back to the C control-flow token table rather
// than failing, since the caller has already validated
// the language against the supported set upstream.
func Analyze(language, source string) Result {
	loc := linesOfCode(source)
	lower := strings.ToLower(source)

	cyclomatic := cyclomaticComplexity(language, lower)
	timeComplexity, loopCount, returnCount := timeComplexityOf(lower)
	spaceComplexity := spaceComplexityOf(lower, returnCount > 1)

	score := overallScore(cyclomatic, cyclomatic, loc, loopCount)

	return Result{
		CyclomaticComplexity: cyclomatic,
		TimeComplexity:       timeComplexity,
		SpaceComplexity:      spaceComplexity,
		OverallScore:         score,
		LinesOfCode:          loc,
	}
}

func linesOfCode(source string) int {
	if strings.TrimSpace(source) == "" {
		return 0
	}
	return len(strings.Split(source, "\n"))
}

// cyclomaticComplexity implements the spec's script-level fallback: base 1
// plus one per occurrence of each control-flow token for the language.
func cyclomaticComplexity(language, lowerSource string) int {
	tokens, ok := controlFlowTokens[language]
	if !ok {
		tokens = controlFlowTokens["c"]
	}
	total := 1
	for _, tok := range tokens {
		total += strings.Count(lowerSource, strings.ToLower(tok))
	}
	return total
}

// timeComplexityOf applies the coarse loop-count heuristic (spec §4.E).
func timeComplexityOf(lowerSource string) (string, int, int) {
	loops := strings.Count(lowerSource, "for") + strings.Count(lowerSource, "while")
	returns := strings.Count(lowerSource, "return")

	switch {
	case loops >= 3:
		return "O(n³) or higher", loops, returns
	case loops == 2:
		return "O(n²)", loops, returns
	case loops == 1:
		return "O(n)", loops, returns
	case returns > 1:
		return "O(log n) to O(n) – recursive", loops, returns
	default:
		return "O(1)", loops, returns
	}
}

// spaceComplexityOf applies the data-structure-token heuristic (spec §4.E).
func spaceComplexityOf(lowerSource string, recursive bool) string {
	count := 0
	for _, tok := range dataStructureTokens {
		count += strings.Count(lowerSource, tok)
	}
	switch {
	case count > 2:
		return "O(n) – multiple"
	case count > 0:
		return "O(n)"
	case recursive:
		return "O(log n) to O(n) – recursive stack"
	default:
		return "O(1)"
	}
}

// overallScore implements the clamped scoring formula (spec §4.E), starting
// at 100 and applying the documented deductions/bonuses. avgComplexity and
// maxComplexity are equal here since the script-level fallback produces a
// single complexity value, not a per-function distribution.
func overallScore(avgComplexity, maxComplexity, loc, loopCount int) int {
	score := 100

	switch {
	case avgComplexity > 10:
		score -= 30
	case avgComplexity > 5:
		score -= 15
	case avgComplexity > 3:
		score -= 5
	}

	switch {
	case maxComplexity > 15:
		score -= 25
	case maxComplexity > 10:
		score -= 15
	case maxComplexity > 5:
		score -= 5
	}

	switch {
	case loc > 200:
		score -= 15
	case loc > 100:
		score -= 10
	case loc > 50:
		score -= 5
	}

	switch {
	case loopCount >= 3:
		score -= 20
	case loopCount == 2:
		score -= 10
	case loopCount == 1:
		score -= 5
	}

	// No function-level analyzer is implemented (script-level fallback
	// only, per spec §4.E), so the "functions>0 and avg<=3" bonus reduces
	// to just the complexity condition for any non-empty source.
	if loc > 0 && avgComplexity <= 3 {
		score += 5
	}
	if loc > 0 && loc <= 50 {
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
