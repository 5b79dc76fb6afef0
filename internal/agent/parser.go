package agent

import (
	"regexp"
	"strings"
)

// step is one parsed model response: either a tool invocation or the
// final answer.
type step struct {
	thought     string
	action      string
	actionInput string
	finalAnswer string
	isFinal     bool
}

var (
	// Reasoning models wrap deliberation in think tags; strip them
	// before parsing the structured part.
	thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

	actionRe      = regexp.MustCompile(`(?m)^\s*Action\s*:\s*(.+)$`)
	actionInputRe = regexp.MustCompile(`(?m)^\s*Action Input\s*:\s*(.*)$`)
	thoughtRe     = regexp.MustCompile(`(?m)^\s*Thought\s*:\s*(.+)$`)
)

// parseStep extracts the next step from a raw model response.
// ok is false when the response follows neither the Action nor the
// Final Answer convention; the loop then feeds a corrective observation
// back to the model instead of failing.
func parseStep(raw string) (step, bool) {
	text := strings.TrimSpace(thinkRe.ReplaceAllString(raw, ""))

	var s step
	if m := thoughtRe.FindStringSubmatch(text); m != nil {
		s.thought = strings.TrimSpace(m[1])
	}

	// A final answer wins even when the model also emitted an action;
	// models that answer and act in one breath are done acting.
	if idx := strings.Index(text, "Final Answer:"); idx >= 0 {
		s.isFinal = true
		s.finalAnswer = strings.TrimSpace(text[idx+len("Final Answer:"):])
		return s, true
	}

	am := actionRe.FindStringSubmatch(text)
	if am == nil {
		return s, false
	}
	s.action = sanitizeAction(am[1])

	if im := actionInputRe.FindStringSubmatch(text); im != nil {
		s.actionInput = strings.TrimSpace(im[1])
	}
	return s, true
}

// sanitizeAction cleans up common model formatting slips around tool
// names: surrounding quotes, trailing parentheses, backticks.
func sanitizeAction(raw string) string {
	a := strings.TrimSpace(raw)
	a = strings.Trim(a, "`\"'")
	a = strings.TrimSuffix(a, "()")
	return strings.TrimSpace(a)
}
