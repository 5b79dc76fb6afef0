package agent

import (
	"fmt"
	"strings"

	"gitagent/internal/tools"
)

const promptTemplate = `You are a Git expert assistant. Answer questions using the available tools.

Available tools:
%s

IMPORTANT FORMATTING RULES:
- Tool names must be EXACT: %s
- Do NOT add parentheses () to tool names
- Do NOT add quotes around tool names
- Follow the format exactly as shown below

Use this EXACT format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action (as a simple string)

Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

EXAMPLE:
Question: What is my git status?
Thought: I need to check the current git status
Action: get_git_status
Action Input:
Observation: Git status: On branch main, nothing to commit, working tree clean
Thought: I now know the final answer
Final Answer: Your git repository is on branch main with a clean working tree.

Begin!

Question: %s
Thought: %s`

// buildPrompt renders the ReAct prompt for one model call.
func buildPrompt(reg *tools.Registry, question, scratchpad string) string {
	var desc strings.Builder
	for _, t := range reg.List() {
		fmt.Fprintf(&desc, "- %s: %s\n", t.Name, t.Description)
	}

	names := strings.Join(reg.Names(), ", ")
	return fmt.Sprintf(promptTemplate, desc.String(), names, names, question, scratchpad)
}
