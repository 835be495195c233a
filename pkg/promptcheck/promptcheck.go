// Package promptcheck scores a prompt against three rules for prompts that
// drive a tool-using agent: it is phrased as an action, it asks for
// execution rather than an explanation, and it names what to act on.
package promptcheck

import (
	"fmt"
	"strings"
)

// MaxScore is the number of rules.
const MaxScore = 3

var (
	actionVerbs = []string{
		"fix", "change", "replace", "write", "create", "run", "list", "find", "get",
		"update", "delete", "add", "move", "rename", "start", "stop", "build",
	}
	explanationPhrases = []string{
		"how would i", "how do i", "what is the command to", "explain how to",
		"can you tell me how to",
	}
	toolKeywords = []string{
		"file", "directory", "folder", "script", "command", "service", "container",
		"docker", "git", "codebase", "repository",
	}
)

const (
	evaluationGood = "✅ This looks like an efficient and actionable prompt."
	evaluationFair = "⚠️ This prompt could be more direct. See suggestions for improvement."
	evaluationPoor = "❌ This prompt is likely inefficient. It may require clarification."

	suggestAction = "Suggestion: Frame your request as a direct command. " +
		"Try starting with an action verb like 'fix', 'create', 'run', etc."
	suggestExecute = "Suggestion: Instead of asking 'how to' do something, ask the agent to 'do' it directly. " +
		"For example, instead of 'How do I list files?', say 'List all files in the current directory.'"
	suggestTool = "Suggestion: Try to mention the type of entity you want to interact with " +
		"(e.g., 'file', 'command', 'repository') to help the agent choose the right tool."
	noIssues = "No major issues found. This prompt is direct and likely to be effective."
)

// Analysis is the result of Analyze.
type Analysis struct {
	Prompt      string   `json:"prompt"`
	Evaluation  string   `json:"evaluation"`
	Score       string   `json:"score"`
	Points      int      `json:"-"`
	Suggestions []string `json:"suggestions"`
}

// Analyze scores prompt. Keywords match as case-insensitive substrings.
func Analyze(prompt string) *Analysis {
	lower := strings.ToLower(prompt)
	a := &Analysis{Prompt: prompt, Suggestions: []string{}}

	if containsAny(lower, actionVerbs) {
		a.Points++
	} else {
		a.Suggestions = append(a.Suggestions, suggestAction)
	}

	if containsAny(lower, explanationPhrases) {
		a.Suggestions = append(a.Suggestions, suggestExecute)
	} else {
		a.Points++
	}

	if containsAny(lower, toolKeywords) {
		a.Points++
	} else {
		a.Suggestions = append(a.Suggestions, suggestTool)
	}

	switch {
	case a.Points == MaxScore:
		a.Evaluation = evaluationGood
		a.Suggestions = append(a.Suggestions, noIssues)
	case a.Points >= 1:
		a.Evaluation = evaluationFair
	default:
		a.Evaluation = evaluationPoor
	}
	a.Score = fmt.Sprintf("%d/%d", a.Points, MaxScore)
	return a
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
