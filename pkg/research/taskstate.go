package research

// MaxConsecutiveTimeouts is the threshold for abandoning a task after
// repeated timeout-classified attempts, generalized from
// agent.MaxConsecutiveTimeouts (there: consecutive LLM-interaction
// timeouts; here: consecutive task-attempt timeouts).
const MaxConsecutiveTimeouts = 2

// AttemptOutcome classifies why a task attempt did not succeed outright,
// driving the retry/reformulate/fail decision in spec §4.3 step 7.
type AttemptOutcome int

const (
	AttemptInsufficient AttemptOutcome = iota // fewer results than min_results_per_task
	AttemptOffTopic
	AttemptTimeout
)

// TaskState tracks retry bookkeeping across a single Task's attempts.
// Generalized from agent.IterationState: "LLM interaction failed" becomes
// "task attempt did not produce an accepted result."
type TaskState struct {
	Attempt                    int
	MaxAttempts                int
	LastAttemptFailed          bool
	LastFailureReason          string
	ConsecutiveTimeoutFailures int
}

// ShouldAbortOnTimeouts reports whether this task has hit enough
// consecutive timeouts to abandon retrying regardless of remaining
// attempt budget.
func (s *TaskState) ShouldAbortOnTimeouts() bool {
	return s.ConsecutiveTimeoutFailures >= MaxConsecutiveTimeouts
}

// ExhaustedAttempts reports whether the attempt budget is used up: Attempt
// is the 0-based count of attempts already taken (spec.md §3, "attempt:
// 0-based; ≤ max_retries_per_task"), so retrying is only allowed while
// Attempt is still below MaxAttempts (= max_retries_per_task).
func (s *TaskState) ExhaustedAttempts() bool {
	return s.Attempt >= s.MaxAttempts
}

// RecordSuccess resets failure tracking after an attempt is accepted.
func (s *TaskState) RecordSuccess() {
	s.LastAttemptFailed = false
	s.LastFailureReason = ""
	s.ConsecutiveTimeoutFailures = 0
}

// RecordFailure records an attempt that did not meet the acceptance bar.
func (s *TaskState) RecordFailure(reason string, outcome AttemptOutcome) {
	s.LastAttemptFailed = true
	s.LastFailureReason = reason
	if outcome == AttemptTimeout {
		s.ConsecutiveTimeoutFailures++
	} else {
		s.ConsecutiveTimeoutFailures = 0
	}
}
