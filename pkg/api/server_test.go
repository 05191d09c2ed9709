package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/internal/stubs"
	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/executor"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/monitor"
	"github.com/codeready-toolchain/research-core/pkg/registry"
	"github.com/codeready-toolchain/research-core/pkg/research"
	"github.com/codeready-toolchain/research-core/pkg/schema"
	"github.com/codeready-toolchain/research-core/pkg/store"
	"github.com/codeready-toolchain/research-core/pkg/synth"
)

// scriptedTransport answers every structured/free-form call needed to
// exercise a full research run plus synthesis, by sniffing a distinctive
// field name in the schema instruction.
type scriptedTransport struct{}

func (scriptedTransport) Complete(ctx context.Context, cfg *config.LLMProviderConfig, messages []llmgw.Message) (string, error) {
	schemaHint := ""
	if len(messages) > 0 {
		schemaHint = messages[0].Content
	}
	switch {
	case strings.Contains(schemaHint, `"tasks"`):
		return `{"tasks":[{"objective":"find primary sources"}]}`, nil
	case strings.Contains(schemaHint, `"sources"`):
		return `{"sources":[{"source_id":"alpha","reason":"likely relevant"}]}`, nil
	case strings.Contains(schemaHint, `"follow_ups"`):
		return `{"follow_ups":[]}`, nil
	case strings.Contains(schemaHint, `"entities"`):
		return `{"entities":[],"co_occurrences":[]}`, nil
	case strings.Contains(schemaHint, `"score"`):
		return `{"score":8,"reasoning":"good match"}`, nil
	case strings.Contains(schemaHint, `"query"`):
		return `{"query":"reworded query"}`, nil
	}
	return "# Research Report\n\nSynthesized from available evidence.", nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	reg := registry.New()
	alpha := stubs.Alpha()
	require.NoError(t, reg.Register(alpha.ID, func() integration.Adapter { return alpha }))

	providers := config.NewLLMProviderRegistry(map[string]*config.LLMProviderConfig{
		"default": {Type: config.LLMProviderTypeOpenAI, Model: "gpt-5"},
	})
	gw := llmgw.New(scriptedTransport{}, providers, schema.Default)
	exec := executor.New(nil)

	engine := research.NewEngine(gw, reg, exec, nil, "default")
	synthesizer := synth.New(gw, "default")

	dir := t.TempDir()
	layout := store.New(dir)

	monitorReg := registry.New()
	require.NoError(t, monitorReg.Register(alpha.ID, func() integration.Adapter { return alpha }))
	cycle := monitor.NewCycle(monitorReg, exec, gw, "default", nil, layout, nil)
	scheduler := monitor.NewScheduler(cycle, nil)

	monitors := map[string]*monitor.Config{
		"watch-alpha": {
			Name: "watch-alpha", Keywords: []string{"x"}, Sources: []string{"alpha"},
			Schedule: "manual", RelevanceThreshold: 5, Enabled: true,
		},
	}

	constraints := research.DefaultConstraints()
	constraints.MaxTasks = 2
	constraints.MaxConcurrentTasks = 1
	constraints.MaxRetriesPerTask = 0
	constraints.MinResultsPerTask = 1

	gin.SetMode(gin.TestMode)
	return NewServer(engine, synthesizer, scheduler, monitors, reg, layout, constraints)
}

func TestRunResearchEndToEnd(t *testing.T) {
	s := testServer(t)

	body, _ := json.Marshal(runResearchRequest{Question: "what programs are at site X"})
	req := httptest.NewRequest(http.MethodPost, "/research", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp runResearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 5, resp.EvidenceCount)
	assert.Contains(t, resp.Report, "Research Report")
}

func TestRunMonitorUnknownName(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/monitors/does-not-exist/run", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunMonitorKnownName(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/monitors/watch-alpha/run", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListSources(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Sources []integration.SourceMetadata `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Sources, 1)
	assert.Equal(t, "alpha", body.Sources[0].ID)
}
