package schema

// Call-site names used to register and look up schemas. Keeping these as
// constants avoids silent typos between the registration call in init()
// and the lookup call in pkg/llmgw.
const (
	RelevanceCheck      = "relevance_check"
	QueryGeneration     = "query_generation"
	Decomposition       = "decomposition"
	FollowUpGeneration  = "follow_up_generation"
	EntityExtraction    = "entity_extraction"
	MonitorQueryGen     = "monitor_query_generation"
	SensitivityCheck    = "sensitivity_classification"
	SourceSelection     = "source_selection"
	Reformulation       = "query_reformulation"
)

// RelevanceResult is returned by the relevance-validation call made for
// each candidate search result against a task's objective.
type RelevanceResult struct {
	Score     int    `json:"score" jsonschema:"minimum=0,maximum=10,description=Relevance score from 0 (irrelevant) to 10 (directly answers the objective)"`
	Reasoning string `json:"reasoning" jsonschema:"description=One or two sentence justification for the score"`
}

// QueryGenResult is returned when an integration adapter's generate_query
// step is driven by the LLM instead of a deterministic template.
type QueryGenResult struct {
	Query      string   `json:"query" jsonschema:"description=The search query string to submit to the upstream source"`
	Parameters []string `json:"parameters,omitempty" jsonschema:"description=Optional source-specific filter parameters"`
}

// DecompositionResult is returned by the task-decomposition step that
// breaks a research objective into a bounded set of concrete tasks.
type DecompositionResult struct {
	Tasks []DecomposedTask `json:"tasks" jsonschema:"minItems=1,description=Ordered list of concrete research tasks"`
}

// DecomposedTask is one entry in a DecompositionResult.
type DecomposedTask struct {
	Objective       string   `json:"objective" jsonschema:"description=What this task must determine"`
	SuggestedSources []string `json:"suggested_sources,omitempty" jsonschema:"description=Source ids likely to answer this objective"`
}

// FollowUpResult is returned by the follow-up generation step run after a
// task completes, proposing new tasks based on what was learned.
type FollowUpResult struct {
	FollowUps []DecomposedTask `json:"follow_ups" jsonschema:"description=Zero or more new tasks suggested by this task's findings"`
}

// EntityExtractionResult is returned by the entity/co-occurrence
// extraction step run over accumulated findings.
type EntityExtractionResult struct {
	Entities     []ExtractedEntity      `json:"entities"`
	CoOccurrences []EntityCoOccurrence  `json:"co_occurrences,omitempty"`
}

// ExtractedEntity is one named entity surfaced from a finding.
type ExtractedEntity struct {
	Name string `json:"name"`
	Type string `json:"type" jsonschema:"enum=person,enum=organization,enum=location,enum=other"`
}

// EntityCoOccurrence records two entities appearing together in the same source.
type EntityCoOccurrence struct {
	EntityA string `json:"entity_a"`
	EntityB string `json:"entity_b"`
	SourceURL string `json:"source_url"`
}

// MonitorQueryResult is returned by a monitor's query-generation step when
// the Boolean expression needs source-specific query translation.
type MonitorQueryResult struct {
	Query string `json:"query"`
}

// SensitivityResult is returned by the sensitivity-classification step run
// once at the start of a research run to decide the applicable relevance
// threshold and which sources are in play.
type SensitivityResult struct {
	Sensitive bool   `json:"sensitive"`
	Reasoning string `json:"reasoning"`
}

// SourceSelectionResult is returned by the per-task source-selection step
// that picks the 2-5 most relevant integrations for a task's query
// (spec §4.3, "Task execution" step 2).
type SourceSelectionResult struct {
	Sources []SelectedSource `json:"sources" jsonschema:"minItems=1,description=The chosen source ids, most relevant first"`
}

// SelectedSource pairs a chosen source id with the model's stated reason.
type SelectedSource struct {
	SourceID string `json:"source_id"`
	Reason   string `json:"reason"`
}

// ReformulationResult is returned when a task's attempt was insufficient or
// off-topic and needs a reworded query for the next attempt (spec §4.3
// step 7).
type ReformulationResult struct {
	Query string `json:"query" jsonschema:"description=A reworded version of the sub-question, informed by why the previous attempt fell short"`
}

// Default is the process-wide schema registry, populated in init().
// Callers in pkg/llmgw reference call sites by the constants above rather
// than constructing their own Registry.
var Default = NewRegistry()

func init() {
	must(Default.Register(RelevanceCheck, &RelevanceResult{}))
	must(Default.Register(QueryGeneration, &QueryGenResult{}))
	must(Default.Register(Decomposition, &DecompositionResult{}))
	must(Default.Register(FollowUpGeneration, &FollowUpResult{}))
	must(Default.Register(EntityExtraction, &EntityExtractionResult{}))
	must(Default.Register(MonitorQueryGen, &MonitorQueryResult{}))
	must(Default.Register(SensitivityCheck, &SensitivityResult{}))
	must(Default.Register(SourceSelection, &SourceSelectionResult{}))
	must(Default.Register(Reformulation, &ReformulationResult{}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
