package synth

import (
	"fmt"
	"strings"

	"github.com/codeready-toolchain/research-core/pkg/research"
)

// promptBuilder assembles the Synthesizer's single Gateway call from a
// ResearchRun's task records, one method per report section, matching
// prompt.PromptBuilder's BuildExecutiveSummarySystemPrompt/
// BuildExecutiveSummaryUserPrompt one-method-per-prompt-kind shape.
type promptBuilder struct{}

func (promptBuilder) systemPrompt() string {
	return "You are writing the final report for a completed research run. " +
		"Produce markdown with five sections, in order: Executive Summary, " +
		"Key Findings, Detailed Analysis, Entity Network, and Sources & Methodology. " +
		"Only cite evidence explicitly provided below — never invent a source, url, or finding. " +
		"Where the evidence does not support a claim, write \"no evidence found\" rather than guessing."
}

func (b promptBuilder) userPrompt(run *research.Run) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Research question: %s\n\n", run.RootQuestion)
	if run.Sensitive {
		sb.WriteString("This run was flagged sensitive; the relevance threshold was lowered accordingly.\n\n")
	}

	sb.WriteString(b.executiveSummarySection(run))
	sb.WriteString(b.keyFindingsSection(run))
	sb.WriteString(b.detailedAnalysisSection(run))
	sb.WriteString(b.entityNetworkSection(run))
	sb.WriteString(b.sourcesMethodologySection(run))
	return sb.String()
}

func (promptBuilder) executiveSummarySection(run *research.Run) string {
	successes, failures := 0, 0
	for _, t := range run.Tasks {
		if t.Status == research.StatusSuccess {
			successes++
		} else if t.Status == research.StatusFailed {
			failures++
		}
	}
	return fmt.Sprintf(
		"For the executive summary: %d of %d tasks succeeded, %d failed, run terminated with reason %q. "+
			"Write 3-5 sentences summarizing what was learned.\n\n",
		successes, len(run.Tasks), failures, run.TerminatedReason)
}

func (promptBuilder) keyFindingsSection(run *research.Run) string {
	var sb strings.Builder
	sb.WriteString("For key findings, cite at least one result by title and url per bullet. Evidence:\n")
	for _, item := range run.GlobalEvidence.All() {
		fmt.Fprintf(&sb, "- %s | %s | %s\n", item.Title, item.URL, item.Description)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (promptBuilder) detailedAnalysisSection(run *research.Run) string {
	var sb strings.Builder
	sb.WriteString("For detailed analysis, write one or more paragraphs per successful task:\n")
	for _, t := range run.Tasks {
		if t.Status != research.StatusSuccess {
			continue
		}
		score := 0
		if t.RelevanceScore != nil {
			score = *t.RelevanceScore
		}
		fmt.Fprintf(&sb, "\nTask %d: %s (relevance score %d/10, %d results)\n", t.ID, t.Query, score, len(t.Results))
		for _, item := range t.Results {
			fmt.Fprintf(&sb, "  - %s | %s\n", item.Title, item.URL)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (promptBuilder) entityNetworkSection(run *research.Run) string {
	top := run.EntityNetwork.TopEntities(15)
	if len(top) == 0 {
		return "For entity network: no entities were extracted; say so plainly.\n\n"
	}
	return fmt.Sprintf("For the entity network summary, the top entities by co-occurrence weight are: %s.\n\n",
		strings.Join(top, ", "))
}

func (promptBuilder) sourcesMethodologySection(run *research.Run) string {
	var sb strings.Builder
	sb.WriteString("For sources & methodology, describe the task tree (parent/child relationships), retries, and failures:\n")
	for _, t := range run.Tasks {
		parent := "root"
		if t.ParentID != nil {
			parent = fmt.Sprintf("task %d", *t.ParentID)
		}
		status := string(t.Status)
		reason := t.ReasonForFailure
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(&sb, "- task %d (parent: %s): status=%s attempts=%d failure_reason=%s\n",
			t.ID, parent, status, t.Attempt, reason)
	}
	sourcesUsed := run.GlobalEvidence.SourcesUsed()
	names := make([]string, 0, len(sourcesUsed))
	for s := range sourcesUsed {
		names = append(names, s)
	}
	fmt.Fprintf(&sb, "\nSources consulted: %s\n", strings.Join(names, ", "))
	return sb.String()
}
