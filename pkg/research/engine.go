package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/codeready-toolchain/research-core/pkg/dedup"
	"github.com/codeready-toolchain/research-core/pkg/execlog"
	"github.com/codeready-toolchain/research-core/pkg/executor"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/registry"
	"github.com/codeready-toolchain/research-core/pkg/schema"
)

// Engine runs the Deep Research Engine lifecycle of spec §4.3: sensitivity
// classification, decomposition, the task scheduling loop, and handoff to
// the Synthesizer. It owns no per-run state itself — everything mutable
// lives on the Run value Engine.Run returns, touched only by the
// orchestrator goroutine running inside that call (spec §5, "Shared-
// resource policy").
type Engine struct {
	gateway  *llmgw.Gateway
	registry *registry.Registry
	executor *executor.Executor
	logger   *execlog.Logger
	provider string
	prompts  promptBuilder
}

// NewEngine wires the pieces the Deep Research Engine depends on. provider
// is the LLM Gateway provider key used for every structured call the
// engine makes (decomposition, source selection, relevance validation,
// reformulation, follow-up generation, entity extraction).
func NewEngine(gateway *llmgw.Gateway, reg *registry.Registry, exec *executor.Executor, logger *execlog.Logger, provider string) *Engine {
	return &Engine{gateway: gateway, registry: reg, executor: exec, logger: logger, provider: provider}
}

// Run executes one complete research run for question under constraints,
// returning the populated Run once the scheduling loop terminates. The
// caller is responsible for handing the result to the Synthesizer.
func (e *Engine) Run(ctx context.Context, runID, question string, constraints Constraints) (*Run, error) {
	sensitive, markers := ClassifySensitivity(question)
	if sensitive {
		constraints.RelevanceThreshold = SensitiveRelevanceThreshold
	}

	run := &Run{
		RunID:          runID,
		RootQuestion:   question,
		Constraints:    constraints,
		GlobalEvidence: NewEvidenceIndex(),
		EntityNetwork:  NewEntityNetwork(),
		StartedAt:      time.Now(),
		Sensitive:      sensitive,
	}
	run.DeadlineAt = run.StartedAt.Add(constraints.MaxTime)

	runCtx, cancel := context.WithDeadline(ctx, run.DeadlineAt)
	defer cancel()

	e.log(run.RunID, "", execlog.EventRunStarted, "", map[string]any{"question": question})
	e.log(run.RunID, "", execlog.EventSensitivityClassified, "", map[string]any{"sensitive": sensitive, "markers": markers})

	if err := e.decompose(runCtx, run); err != nil {
		e.log(run.RunID, "", execlog.EventError, fmt.Sprintf("decomposition: %v", err), nil)
		return run, fmt.Errorf("research: decomposition: %w", err)
	}

	run.TerminatedReason = e.scheduleLoop(runCtx, run)
	e.log(run.RunID, "", execlog.EventTerminated, string(run.TerminatedReason), nil)
	e.log(run.RunID, "", execlog.EventRunCompleted, "", map[string]any{
		"tasks": len(run.Tasks), "evidence_items": run.GlobalEvidence.Len(),
	})

	return run, nil
}

// decompose runs spec §4.3 step 2: an ordered list of initial tasks,
// capped at max_tasks/2 to leave room for follow-ups.
func (e *Engine) decompose(ctx context.Context, run *Run) error {
	sources := e.registry.ListSources()
	messages := e.prompts.decomposition(run.RootQuestion, sources)

	resp, err := e.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: e.provider, Messages: messages, SchemaName: schema.Decomposition,
	})
	if err != nil {
		return err
	}
	var parsed schema.DecompositionResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return fmt.Errorf("parsing decomposition response: %w", err)
	}

	limit := run.Constraints.MaxTasks / 2
	if limit < 1 {
		limit = 1
	}
	for i, t := range parsed.Tasks {
		if i >= limit {
			break
		}
		run.addTask(t.Objective, nil)
	}
	return nil
}

// scheduleLoop is spec §4.3 step 3: dequeue batches of up to
// max_concurrent_tasks PENDING tasks, execute them concurrently, then run
// follow-up generation and entity extraction once per successful task in
// the batch — all state merges happen here, on this single goroutine.
func (e *Engine) scheduleLoop(ctx context.Context, run *Run) TerminatedReason {
	for {
		if ctx.Err() != nil {
			return TerminatedCancelled
		}
		if time.Now().After(run.DeadlineAt) {
			return TerminatedDeadlineExceeded
		}

		pending := run.pendingTasks()
		if len(pending) == 0 {
			if !run.allTerminal() {
				// A batch task is still RUNNING/RETRYING. wg.Wait() below
				// already joins every batch before this point is reached in
				// practice; loop around rather than declare completion early.
				continue
			}
			if len(run.Tasks) >= run.Constraints.MaxTasks {
				return TerminatedTaskBudgetExhausted
			}
			return TerminatedExhausted
		}

		batchSize := run.Constraints.MaxConcurrentTasks
		if batchSize > len(pending) {
			batchSize = len(pending)
		}
		batch := pending[:batchSize]

		for _, t := range batch {
			t.Status = StatusRunning
		}

		var wg sync.WaitGroup
		for _, t := range batch {
			wg.Add(1)
			go func(t *Task) {
				defer wg.Done()
				e.executeTask(ctx, run, t)
			}(t)
		}
		wg.Wait()

		for _, t := range batch {
			if t.Status != StatusSuccess {
				continue
			}
			e.mergeEvidence(run, t)
			e.generateFollowUps(ctx, run, t)
			e.extractEntities(ctx, run, t)
		}
	}
}

// executeTask runs spec §4.3's "Task execution" steps 1-7 to completion,
// looping internally on RETRYING until the task reaches SUCCESS or FAILED.
// Only fields on t itself are mutated — no run-level state — so concurrent
// siblings in the same batch never contend.
func (e *Engine) executeTask(ctx context.Context, run *Run, t *Task) {
	for {
		if t.StartedAt.IsZero() {
			t.StartedAt = time.Now()
		}
		t.Status = StatusRunning
		e.log(run.RunID, taskID(t), execlog.EventTaskStarted, t.Query, map[string]any{"attempt": t.Attempt})

		if ctx.Err() != nil {
			e.fail(run, t, "deadline_exceeded")
			return
		}

		sourceIDs, reasons, err := e.selectSources(ctx, t.Query)
		if err != nil {
			e.fail(run, t, fmt.Sprintf("source_selection: %v", err))
			return
		}
		e.log(run.RunID, taskID(t), execlog.EventSourceSelected, "", map[string]any{"sources": sourceIDs, "reasons": reasons})

		agg := e.executor.Run(ctx, run.RunID, taskID(t), e.buildCohort(sourceIDs), t.Query, executor.Options{})
		for _, rej := range agg.Rejections {
			e.log(run.RunID, taskID(t), execlog.EventIntegrationRejected, rej.Reason, map[string]any{"source_id": rej.SourceID, "phase": rej.Phase})
		}

		var collected []integration.ResultItem
		for _, qr := range agg.Results {
			e.log(run.RunID, taskID(t), execlog.EventSearchExecuted, "", map[string]any{
				"source_id": qr.SourceID, "success": qr.Success, "count": len(qr.Items),
			})
			if qr.Success {
				collected = append(collected, qr.Items...)
			}
		}

		deduped := dedup.New().Process(collected, map[string]bool{})
		t.Results = deduped.Retained
		e.log(run.RunID, taskID(t), execlog.EventResultDeduped, "", map[string]any{
			"kept": len(deduped.Retained), "dropped": len(deduped.Dropped),
		})

		score, reasoning, err := e.validateRelevance(ctx, run.RootQuestion, t)
		if err != nil {
			e.fail(run, t, fmt.Sprintf("relevance_validation: %v", err))
			return
		}
		t.RelevanceScore = &score
		e.log(run.RunID, taskID(t), execlog.EventRelevanceChecked, reasoning, map[string]any{
			"score": score, "sampled_sources": sampledSourceCounts(t.Results),
		})

		var outcome AttemptOutcome
		var reason string
		switch {
		case len(t.Results) < run.Constraints.MinResultsPerTask:
			outcome, reason = AttemptInsufficient, "insufficient_results"
		case score < run.Constraints.RelevanceThreshold:
			outcome, reason = AttemptOffTopic, "off_topic"
		default:
			t.state.RecordSuccess()
			t.Status = StatusSuccess
			t.CompletedAt = time.Now()
			e.log(run.RunID, taskID(t), execlog.EventTaskCompleted, "", map[string]any{"score": score, "results": len(t.Results)})
			return
		}

		t.state.Attempt = t.Attempt
		t.state.MaxAttempts = run.Constraints.MaxRetriesPerTask
		t.state.RecordFailure(reason, outcome)

		if t.state.ExhaustedAttempts() || t.state.ShouldAbortOnTimeouts() {
			e.fail(run, t, reason)
			return
		}

		newQuery, err := e.reformulate(ctx, t.Query, reasoning)
		if err != nil {
			e.fail(run, t, fmt.Sprintf("reformulation: %v", err))
			return
		}
		t.Query = newQuery
		t.Attempt++
		t.Status = StatusRetrying
		e.log(run.RunID, taskID(t), execlog.EventTaskRetried, reason, map[string]any{"query": newQuery, "attempt": t.Attempt})
	}
}

func (e *Engine) fail(run *Run, t *Task, reason string) {
	t.Status = StatusFailed
	t.ReasonForFailure = reason
	t.CompletedAt = time.Now()
	e.log(run.RunID, taskID(t), execlog.EventTaskAbandoned, reason, nil)
}

func (e *Engine) mergeEvidence(run *Run, t *Task) {
	admitted := run.GlobalEvidence.Add(t.ID, t.Results)
	e.log(run.RunID, taskID(t), execlog.EventResultDeduped, "merged into global evidence index", map[string]any{
		"admitted": len(admitted), "submitted": len(t.Results),
	})
}

func (e *Engine) selectSources(ctx context.Context, taskQuery string) ([]string, map[string]string, error) {
	sources := e.registry.ListSources()
	resp, err := e.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: e.provider, Messages: e.prompts.sourceSelection(taskQuery, sources), SchemaName: schema.SourceSelection,
	})
	if err != nil {
		return nil, nil, err
	}
	var parsed schema.SourceSelectionResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parsing source selection response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Sources))
	reasons := make(map[string]string, len(parsed.Sources))
	for _, s := range parsed.Sources {
		if !e.registry.Has(s.SourceID) {
			continue
		}
		ids = append(ids, s.SourceID)
		reasons[s.SourceID] = s.Reason
	}
	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("no known sources among %d selected", len(parsed.Sources))
	}
	return ids, reasons, nil
}

func (e *Engine) buildCohort(ids []string) []executor.Member {
	members := make([]executor.Member, 0, len(ids))
	for _, id := range ids {
		id := id
		members = append(members, executor.Member{
			SourceID: id,
			New:      func() (integration.Adapter, error) { return e.registry.New(id) },
		})
	}
	return members
}

func (e *Engine) validateRelevance(ctx context.Context, rootQuestion string, t *Task) (int, string, error) {
	sample := t.Results
	if len(sample) > 10 {
		sample = sample[:10]
	}
	resp, err := e.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: e.provider, Messages: e.prompts.relevance(rootQuestion, t.Query, sample), SchemaName: schema.RelevanceCheck,
	})
	if err != nil {
		return 0, "", err
	}
	var parsed schema.RelevanceResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return 0, "", fmt.Errorf("parsing relevance response: %w", err)
	}
	return parsed.Score, parsed.Reasoning, nil
}

func (e *Engine) reformulate(ctx context.Context, taskQuery, reasoning string) (string, error) {
	resp, err := e.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: e.provider, Messages: e.prompts.reformulation(taskQuery, reasoning), SchemaName: schema.Reformulation,
	})
	if err != nil {
		return "", err
	}
	var parsed schema.ReformulationResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return "", fmt.Errorf("parsing reformulation response: %w", err)
	}
	return parsed.Query, nil
}

// generateFollowUps is spec §4.3's "Follow-up generation": on SUCCESS,
// propose up to 3 new sub-questions, appended as PENDING tasks capped by
// the run's remaining max_tasks budget.
func (e *Engine) generateFollowUps(ctx context.Context, run *Run, t *Task) {
	remaining := run.Constraints.MaxTasks - len(run.Tasks)
	if remaining <= 0 {
		return
	}
	resp, err := e.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: e.provider, Messages: e.prompts.followUp(run.RootQuestion, t), SchemaName: schema.FollowUpGeneration,
	})
	if err != nil {
		e.log(run.RunID, taskID(t), execlog.EventError, fmt.Sprintf("follow_up_generation: %v", err), nil)
		return
	}
	var parsed schema.FollowUpResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		e.log(run.RunID, taskID(t), execlog.EventError, fmt.Sprintf("parsing follow-up response: %v", err), nil)
		return
	}

	limit := 3
	if len(parsed.FollowUps) < limit {
		limit = len(parsed.FollowUps)
	}
	parentID := t.ID
	for i := 0; i < limit && remaining > 0; i++ {
		nt := run.addTask(parsed.FollowUps[i].Objective, &parentID)
		e.log(run.RunID, taskID(nt), execlog.EventFollowUpGenerated, "", map[string]any{"parent_id": t.ID})
		remaining--
	}
}

// extractEntities is the "Entity & network extraction" step, run
// opportunistically after a successful task completion.
func (e *Engine) extractEntities(ctx context.Context, run *Run, t *Task) {
	if len(t.Results) == 0 {
		return
	}
	resp, err := e.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
		Provider: e.provider, Messages: e.prompts.entityExtraction(t.Results), SchemaName: schema.EntityExtraction,
	})
	if err != nil {
		e.log(run.RunID, taskID(t), execlog.EventError, fmt.Sprintf("entity_extraction: %v", err), nil)
		return
	}
	var parsed schema.EntityExtractionResult
	if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
		return
	}
	for _, entity := range parsed.Entities {
		t.Entities[entity.Name]++
	}
	for _, co := range parsed.CoOccurrences {
		run.EntityNetwork.AddCoOccurrence(co.EntityA, co.EntityB)
	}
	e.log(run.RunID, taskID(t), execlog.EventEntityExtracted, "", map[string]any{"count": len(parsed.Entities)})
}

func (e *Engine) log(runID, taskIDStr string, t execlog.EventType, msg string, data map[string]any) {
	if e.logger == nil {
		return
	}
	_ = e.logger.Log(execlog.Event{RunID: runID, TaskID: taskIDStr, Type: t, Message: msg, Data: data})
}

func taskID(t *Task) string {
	return strconv.Itoa(t.ID)
}

// sampledSourceCounts breaks down the same up-to-10-item sample
// validateRelevance scores by source_id, so a combined-across-sources
// score (spec §9, Open Questions) still leaves a per-source trail in the
// log for any future per-source rework.
func sampledSourceCounts(results []integration.ResultItem) map[string]int {
	sample := results
	if len(sample) > 10 {
		sample = sample[:10]
	}
	counts := make(map[string]int)
	for _, r := range sample {
		counts[r.SourceID]++
	}
	return counts
}
