package analysis

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the single instruction the remote model receives:
// language, full source, and the exact JSON shape it must answer with.
func buildPrompt(language, source string) string {
	var sb strings.Builder

	sb.WriteString("You are a static code reviewer. Analyze the following ")
	sb.WriteString(language)
	sb.WriteString(" program and respond with exactly one JSON object, no prose before or after it.\n\n")

	sb.WriteString("Required JSON shape:\n")
	sb.WriteString(`{
  "errors": [{"line": int, "message": string, "severity": "error"|"warning"|"info"}],
  "suggestions": [string],
  "optimizations": [string],
  "output": string,
  "quality_metrics": {
    "cyclomatic_complexity": int,
    "time_complexity": string,
    "space_complexity": string,
    "overall_score": int,
    "lines_of_code": int,
    "summary": string,
    "complexity_issues": [string],
    "security_issues": [string],
    "recommendations": [string],
    "security_analysis": string
  }
}
`)

	sb.WriteString("\n`output` is your prediction of what the program prints when run; do not execute it yourself, just reason about it.\n\n")
	sb.WriteString(fmt.Sprintf("```%s\n%s\n```\n", language, source))

	return sb.String()
}
