package research

import (
	"fmt"
	"strings"

	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
)

// promptBuilder builds all prompt text for the Deep Research Engine's LLM
// Gateway calls. Stateless, thread-safe — every method takes its inputs as
// parameters, matching prompt.PromptBuilder's one-method-per-prompt-kind
// shape.
type promptBuilder struct{}

func (promptBuilder) decomposition(question string, sources []integration.SourceMetadata) []llmgw.Message {
	return []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "You break a research question into a small number of concrete, independently-answerable sub-tasks. Each sub-task must be answerable by searching the listed sources."},
		{Role: llmgw.RoleUser, Content: fmt.Sprintf(
			"Research question: %s\n\nAvailable sources:\n%s\n\nPropose the initial set of sub-tasks.",
			question, describeSources(sources))},
	}
}

func (promptBuilder) sourceSelection(taskQuery string, sources []integration.SourceMetadata) []llmgw.Message {
	return []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "You choose the 2 to 5 most relevant sources for a single research task from a catalog, and say why each was chosen."},
		{Role: llmgw.RoleUser, Content: fmt.Sprintf(
			"Task query: %s\n\nSource catalog:\n%s\n\nSelect sources, most relevant first.",
			taskQuery, describeSources(sources))},
	}
}

func (promptBuilder) relevance(rootQuestion, taskQuery string, items []integration.ResultItem) []llmgw.Message {
	return []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "You score how well a set of search results answers a research task, 0 (irrelevant) to 10 (directly answers it)."},
		{Role: llmgw.RoleUser, Content: fmt.Sprintf(
			"Original research question: %s\nTask query: %s\n\nCandidate results:\n%s",
			rootQuestion, taskQuery, describeItems(items))},
	}
}

func (promptBuilder) reformulation(taskQuery, reasoning string) []llmgw.Message {
	return []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "The previous search attempt for this task fell short. Reword the query — different phrasing or keywords — to search again, without changing the underlying sub-question."},
		{Role: llmgw.RoleUser, Content: fmt.Sprintf(
			"Previous query: %s\nWhy it fell short: %s\n\nPropose a reworded query.",
			taskQuery, reasoning)},
	}
}

func (promptBuilder) followUp(rootQuestion string, task *Task) []llmgw.Message {
	return []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "Given a completed research task and its findings, propose up to 3 follow-up sub-questions worth investigating next, each with a one-sentence rationale."},
		{Role: llmgw.RoleUser, Content: fmt.Sprintf(
			"Original research question: %s\nCompleted task: %s\n\nFindings:\n%s",
			rootQuestion, task.Query, describeItems(task.Results))},
	}
}

func (promptBuilder) entityExtraction(items []integration.ResultItem) []llmgw.Message {
	return []llmgw.Message{
		{Role: llmgw.RoleSystem, Content: "Extract named entities (people, organizations, locations) from these search results, and any pairs of entities that co-occur within the same result."},
		{Role: llmgw.RoleUser, Content: describeItems(items)},
	}
}

func describeSources(sources []integration.SourceMetadata) string {
	var b strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&b, "- %s (%s): %s\n", s.ID, s.Category, s.Description)
	}
	return b.String()
}

func describeItems(items []integration.ResultItem) string {
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s — %s\n   %s\n", i+1, it.Title, it.URL, it.Description)
	}
	return b.String()
}
