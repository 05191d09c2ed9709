// Package research implements the Deep Research Engine: a bounded
// iterative agent that decomposes a question into tasks, selects sources
// per task, retries with reformulated queries, validates relevance,
// extracts entities, spawns follow-up tasks, and synthesizes a report
// (spec §4.3).
package research

import (
	"time"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Status is a ResearchTask's state machine (spec §3).
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusRunning  Status = "RUNNING"
	StatusRetrying Status = "RETRYING"
	StatusSuccess  Status = "SUCCESS"
	StatusFailed   Status = "FAILED"
	StatusAborted  Status = "ABORTED"
)

// terminal reports whether a task in this status may never transition
// again (spec §3 invariant: "terminal states SUCCESS and FAILED are not
// revisited").
func (s Status) terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusAborted
}

// Task is one ResearchTask (spec §3).
type Task struct {
	ID              int
	Query           string
	ParentID        *int
	Status          Status
	Attempt         int
	Results         []integration.ResultItem
	RelevanceScore  *int
	Entities        map[string]int // entity -> mention count
	StartedAt       time.Time
	CompletedAt     time.Time
	ReasonForFailure string

	// bookkeeping used by taskstate.go's retry/failure tracking; not part
	// of the spec's public ResearchTask shape but threaded per-task so
	// consecutive-timeout detection is scoped to the task, not the run.
	state TaskState
}

// EntityNetwork is map entity -> set[entity] with co-occurrence weights
// (spec §3).
type EntityNetwork struct {
	// weights[a][b] is how many times a and b co-occurred within the same
	// ResultItem. Symmetric: weights[a][b] == weights[b][a].
	weights map[string]map[string]int
}

// NewEntityNetwork returns an empty EntityNetwork.
func NewEntityNetwork() *EntityNetwork {
	return &EntityNetwork{weights: make(map[string]map[string]int)}
}

// AddCoOccurrence records a and b appearing together once.
func (n *EntityNetwork) AddCoOccurrence(a, b string) {
	if a == "" || b == "" || a == b {
		return
	}
	n.bump(a, b)
	n.bump(b, a)
}

func (n *EntityNetwork) bump(a, b string) {
	if n.weights[a] == nil {
		n.weights[a] = make(map[string]int)
	}
	n.weights[a][b]++
}

// TopEntities returns up to n entity names ranked by total co-occurrence
// weight, for the Synthesizer's "entity network summary" (spec §4.5).
func (n *EntityNetwork) TopEntities(limit int) []string {
	type scored struct {
		name  string
		score int
	}
	var all []scored
	for entity, edges := range n.weights {
		total := 0
		for _, w := range edges {
			total += w
		}
		all = append(all, scored{entity, total})
	}
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].score > all[j-1].score; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.name
	}
	return out
}

// Constraints bounds a Run. Mirrors config.ResearchConstraints after
// defaulting (spec §4.3).
type Constraints struct {
	MaxTasks             int
	MaxRetriesPerTask    int
	MaxTime              time.Duration
	MinResultsPerTask    int
	MaxConcurrentTasks   int
	RelevanceThreshold   int
	MinSourceUtilization float64
}

// DefaultConstraints returns the spec §4.3 defaults: max_tasks=10,
// max_retries_per_task=2, max_time=60min, min_results_per_task=3,
// max_concurrent_tasks=4, relevance_threshold=3, min_source_utilization=0.5.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxTasks:             10,
		MaxRetriesPerTask:    2,
		MaxTime:              60 * time.Minute,
		MinResultsPerTask:    3,
		MaxConcurrentTasks:   4,
		RelevanceThreshold:   DefaultRelevanceThreshold,
		MinSourceUtilization: 0.5,
	}
}

// TerminatedReason records why a Run stopped (spec §4.3, "Termination
// conditions").
type TerminatedReason string

const (
	TerminatedTaskBudgetExhausted TerminatedReason = "task_budget_exhausted"
	TerminatedDeadlineExceeded    TerminatedReason = "deadline_exceeded"
	TerminatedExhausted           TerminatedReason = "no_remaining_work"
	TerminatedCancelled           TerminatedReason = "cancelled"
)

// Run is one ResearchRun (spec §3). All mutation happens on the
// orchestrator goroutine inside Engine.Run; task-execution workers return
// results which the orchestrator merges (spec §5, "Shared-resource
// policy").
type Run struct {
	RunID           string
	RootQuestion    string
	Constraints     Constraints
	Tasks           []*Task
	GlobalEvidence  *EvidenceIndex
	EntityNetwork   *EntityNetwork
	StartedAt       time.Time
	DeadlineAt      time.Time
	TerminatedReason TerminatedReason
	Sensitive       bool

	nextTaskID int
}

// newTaskID returns the next monotonic task id, owned exclusively by the
// Run (spec §5, "task.id is assigned in creation order").
func (r *Run) newTaskID() int {
	id := r.nextTaskID
	r.nextTaskID++
	return id
}

// addTask appends task to Tasks, assigning it a fresh id and PENDING
// status.
func (r *Run) addTask(query string, parentID *int) *Task {
	t := &Task{
		ID:       r.newTaskID(),
		Query:    query,
		ParentID: parentID,
		Status:   StatusPending,
		Entities: make(map[string]int),
	}
	r.Tasks = append(r.Tasks, t)
	return t
}

// pendingTasks returns every task currently PENDING, preserving creation
// order.
func (r *Run) pendingTasks() []*Task {
	var out []*Task
	for _, t := range r.Tasks {
		if t.Status == StatusPending {
			out = append(out, t)
		}
	}
	return out
}

// allTerminal reports whether every task in the run has reached SUCCESS,
// FAILED, or ABORTED — the condition scheduleLoop requires before it may
// declare the run out of work (spec §3 invariant: terminal states are not
// revisited, so nothing can still produce new PENDING tasks once this holds).
func (r *Run) allTerminal() bool {
	for _, t := range r.Tasks {
		if !t.Status.terminal() {
			return false
		}
	}
	return true
}
