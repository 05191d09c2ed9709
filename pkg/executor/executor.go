package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codeready-toolchain/research-core/pkg/execlog"
	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Executor orchestrates a cohort of integrations for a single query string
// through the three sequential phases of spec §4.2: relevance gate, query
// generation, search execution. Phases 1-2 fan out one goroutine per cohort
// member (already bounded by cohort size, per SPEC_FULL §3.4); Phase 3 is
// bounded by an errgroup.SetLimit(C) semaphore, generalizing the teacher's
// flat sync.WaitGroup fan-out (pkg/queue/executor.go's executeStage) into
// the width-bounded model this spec requires.
//
// An Executor value is stateless between Run calls — Run returns its own
// Rejections in the Aggregate rather than accumulating them on the
// receiver — so one Executor is safe to share across concurrent Run calls.
type Executor struct {
	logger *execlog.Logger
}

// New returns an Executor that logs phase decisions to logger. logger may be
// nil, in which case no execution-log events are emitted.
func New(logger *execlog.Logger) *Executor {
	return &Executor{logger: logger}
}

type qgPair struct {
	sourceID string
	adapter  integration.Adapter
	params   integration.QueryParams
}

// Run executes the three phases over cohort for the given question and
// returns one QueryResult per member that reached Phase 3, plus bookkeeping
// on what was dropped and whether any critical source failed.
func (e *Executor) Run(ctx context.Context, runID, taskID string, cohort []Member, question string, opts Options) Aggregate {
	opts = opts.withDefaults()
	var rejections []Rejection
	var rmu sync.Mutex
	reject := func(r Rejection) {
		rmu.Lock()
		rejections = append(rejections, r)
		rmu.Unlock()
	}

	survivors := e.phaseRelevance(ctx, runID, taskID, cohort, question, opts, reject)
	pairs := e.phaseQueryGen(ctx, runID, taskID, survivors, question, opts, reject)
	results, failedCritical := e.phaseSearch(ctx, runID, taskID, pairs, opts, opts.Limit)

	return Aggregate{
		Results:        results,
		Rejections:     rejections,
		Degraded:       len(failedCritical) > 0,
		FailedCritical: failedCritical,
	}
}

// phaseRelevance is Phase 1: is_relevant runs concurrently per member, with
// a phase-wide timeout T_rel; timed-out or false-returning members are
// dropped.
func (e *Executor) phaseRelevance(ctx context.Context, runID, taskID string, cohort []Member, question string, opts Options, reject func(Rejection)) []Member {
	phaseCtx, cancel := context.WithTimeout(ctx, opts.RelevanceTimeout)
	defer cancel()

	type result struct {
		member   Member
		relevant bool
	}
	resultsCh := make(chan result, len(cohort))
	var wg sync.WaitGroup

	for _, m := range cohort {
		wg.Add(1)
		go func(m Member) {
			defer wg.Done()
			adapter, err := m.New()
			if err != nil {
				reject(Rejection{SourceID: m.SourceID, Phase: "relevance", Reason: err.Error()})
				resultsCh <- result{member: m, relevant: false}
				return
			}
			done := make(chan bool, 1)
			go func() { done <- adapter.IsRelevant(phaseCtx, question) }()
			select {
			case relevant := <-done:
				resultsCh <- result{member: m, relevant: relevant}
			case <-phaseCtx.Done():
				reject(Rejection{SourceID: m.SourceID, Phase: "relevance", Reason: "timeout"})
				resultsCh <- result{member: m, relevant: false}
			}
		}(m)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var survivors []Member
	for r := range resultsCh {
		if r.relevant {
			survivors = append(survivors, r.member)
		} else if e.logger != nil {
			e.logEvent(runID, taskID, execlog.EventFilterDecision, "dropped by relevance pre-filter", map[string]any{"source_id": r.member.SourceID})
		}
	}
	return survivors
}

// phaseQueryGen is Phase 2: generate_query runs concurrently per surviving
// member with per-call timeout T_qg. NotApplicable, errors, and timeouts
// drop the member with an integration_rejected log entry.
func (e *Executor) phaseQueryGen(ctx context.Context, runID, taskID string, cohort []Member, question string, opts Options, reject func(Rejection)) []qgPair {
	type result struct {
		pair qgPair
		ok   bool
	}
	resultsCh := make(chan result, len(cohort))
	var wg sync.WaitGroup

	for _, m := range cohort {
		wg.Add(1)
		go func(m Member) {
			defer wg.Done()
			adapter, err := m.New()
			if err != nil {
				e.rejectQG(runID, taskID, m.SourceID, err.Error(), reject)
				resultsCh <- result{}
				return
			}
			callCtx, cancel := context.WithTimeout(ctx, opts.QueryGenTimeout)
			defer cancel()

			params, err := adapter.GenerateQuery(callCtx, question)
			if err != nil {
				reason := err.Error()
				if na, ok := integration.IsNotApplicable(err); ok {
					reason = na.Reason
				}
				e.rejectQG(runID, taskID, m.SourceID, reason, reject)
				resultsCh <- result{}
				return
			}
			resultsCh <- result{pair: qgPair{sourceID: m.SourceID, adapter: adapter, params: params}, ok: true}
		}(m)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var pairs []qgPair
	for r := range resultsCh {
		if r.ok {
			pairs = append(pairs, r.pair)
		}
	}
	return pairs
}

func (e *Executor) rejectQG(runID, taskID, sourceID, reason string, reject func(Rejection)) {
	reject(Rejection{SourceID: sourceID, Phase: "query_gen", Reason: reason})
	if e.logger != nil {
		e.logEvent(runID, taskID, execlog.EventIntegrationRejected, reason, map[string]any{
			"source_id": sourceID, "phase": "query_gen",
		})
	}
}

// phaseSearch is Phase 3: execute_search is handed every surviving
// (adapter, params) pair, bounded by an errgroup semaphore of width C.
// Failures never propagate as Go errors — they are captured into
// QueryResult.Success=false, one per pair, always.
func (e *Executor) phaseSearch(ctx context.Context, runID, taskID string, pairs []qgPair, opts Options, limit int) (map[string]integration.QueryResult, []string) {
	results := make(map[string]integration.QueryResult, len(pairs))
	var mu sync.Mutex
	var failedCritical []string

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(opts.Concurrency)

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, opts.SearchTimeout)
			defer cancel()

			var result integration.QueryResult
			select {
			case <-ctx.Done():
				result = integration.QueryResult{
					SourceID: p.sourceID,
					Success:  false,
					Error:    integration.NewError(p.sourceID, integration.KindCancelled, ctx.Err()),
				}
			default:
				result = p.adapter.ExecuteSearch(callCtx, p.params, limit)
				result.SourceID = p.sourceID
			}

			mu.Lock()
			results[p.sourceID] = result
			if !result.Success && opts.CriticalSources[p.sourceID] {
				failedCritical = append(failedCritical, p.sourceID)
				if e.logger != nil {
					reason := ""
					if result.Error != nil {
						reason = string(result.Error.Kind)
					}
					e.logEvent(runID, taskID, execlog.EventCriticalSourceFailure, reason, map[string]any{"source_id": p.sourceID})
				}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results, failedCritical
}

func (e *Executor) logEvent(runID, taskID string, t execlog.EventType, msg string, data map[string]any) {
	_ = e.logger.Log(execlog.Event{RunID: runID, TaskID: taskID, Type: t, Message: msg, Data: data})
}
