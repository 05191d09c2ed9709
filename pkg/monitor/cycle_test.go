package monitor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/research-core/internal/stubs"
	"github.com/codeready-toolchain/research-core/pkg/alert"
	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/executor"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/registry"
	"github.com/codeready-toolchain/research-core/pkg/schema"
	"github.com/codeready-toolchain/research-core/pkg/store"
)

// relevanceTransport always scores items 7, regardless of keyword set.
type relevanceTransport struct{}

func (relevanceTransport) Complete(ctx context.Context, cfg *config.LLMProviderConfig, messages []llmgw.Message) (string, error) {
	return `{"score":7,"reasoning":"matches keyword set"}`, nil
}

// capturingChannel records every Alert it receives.
type capturingChannel struct {
	received []alert.Alert
}

func (c *capturingChannel) Send(ctx context.Context, a alert.Alert) error {
	c.received = append(c.received, a)
	return nil
}

func testCycle(t *testing.T, layout store.Layout, slack alert.Channel, adapters ...*stubs.Adapter) *Cycle {
	t.Helper()
	reg := registry.New()
	for _, a := range adapters {
		a := a
		require.NoError(t, reg.Register(a.ID, func() integration.Adapter { return a }))
	}
	providers := config.NewLLMProviderRegistry(map[string]*config.LLMProviderConfig{
		"default": {Type: config.LLMProviderTypeOpenAI, Model: "gpt-5"},
	})
	gw := llmgw.New(relevanceTransport{}, providers, schema.Default)
	exec := executor.New(nil)
	return NewCycle(reg, exec, gw, "default", nil, layout, slack)
}

func writeMonitorDirs(t *testing.T, layout store.Layout) {
	t.Helper()
	require.NoError(t, os.MkdirAll(layout.MonitorStateDir(), 0o750))
}

func TestCycleRunDeliversSurvivingItemsAndPersistsState(t *testing.T) {
	dir := t.TempDir()
	layout := store.New(dir)
	writeMonitorDirs(t, layout)

	capture := &capturingChannel{}
	cycle := testCycle(t, layout, capture, stubs.Alpha())

	cfg := &Config{
		Name:               "watch-alpha",
		Keywords:           []string{"site X"},
		Sources:            []string{"alpha"},
		Schedule:           "manual",
		RelevanceThreshold: 5,
		Enabled:            true,
	}

	require.NoError(t, cycle.Run(context.Background(), cfg))

	require.Len(t, capture.received, 1)
	assert.Equal(t, "watch-alpha", capture.received[0].MonitorName)
	assert.Len(t, capture.received[0].Items, 5)

	state, err := LoadState(layout.MonitorStatePath(cfg.Name))
	require.NoError(t, err)
	assert.False(t, state.LastRunAt.IsZero())
	assert.Len(t, state.SeenFingerprints, 5)
}

func TestCycleRunSkipsAlreadySeenFingerprintsOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	layout := store.New(dir)
	writeMonitorDirs(t, layout)

	capture := &capturingChannel{}
	cycle := testCycle(t, layout, capture, stubs.Alpha())

	cfg := &Config{
		Name:               "watch-alpha",
		Keywords:           []string{"site X"},
		Sources:            []string{"alpha"},
		Schedule:           "manual",
		RelevanceThreshold: 5,
		Enabled:            true,
	}

	require.NoError(t, cycle.Run(context.Background(), cfg))
	require.NoError(t, cycle.Run(context.Background(), cfg))

	require.Len(t, capture.received, 1, "second run's items were all already seen, so no new alert fires")
}

func TestCycleRunSkipsDisabledMonitor(t *testing.T) {
	dir := t.TempDir()
	layout := store.New(dir)
	writeMonitorDirs(t, layout)

	capture := &capturingChannel{}
	cycle := testCycle(t, layout, capture, stubs.Alpha())

	cfg := &Config{Name: "off", Sources: []string{"alpha"}, Schedule: "manual", Enabled: false}
	require.NoError(t, cycle.Run(context.Background(), cfg))

	assert.Empty(t, capture.received)
	_, err := os.Stat(filepath.Join(layout.MonitorStateDir(), "off.state"))
	assert.True(t, os.IsNotExist(err))
}

func TestCycleRunNoAlertWhenNothingSurvives(t *testing.T) {
	dir := t.TempDir()
	layout := store.New(dir)
	writeMonitorDirs(t, layout)

	capture := &capturingChannel{}
	cycle := testCycle(t, layout, capture, stubs.Beta())

	cfg := &Config{
		Name:               "watch-beta",
		Keywords:           []string{"nothing"},
		Sources:            []string{"beta"},
		Schedule:           "manual",
		RelevanceThreshold: 5,
		Enabled:            true,
	}

	require.NoError(t, cycle.Run(context.Background(), cfg))
	assert.Empty(t, capture.received)

	state, err := LoadState(layout.MonitorStatePath(cfg.Name))
	require.NoError(t, err)
	assert.False(t, state.LastRunAt.IsZero(), "last_run_at still updates even with no surviving items")
}

func TestCycleRunGroupsAlertBySource(t *testing.T) {
	dir := t.TempDir()
	layout := store.New(dir)
	writeMonitorDirs(t, layout)

	capture := &capturingChannel{}
	cycle := testCycle(t, layout, capture, stubs.Alpha())

	cfg := &Config{
		Name:               "watch-alpha",
		Keywords:           []string{"site X"},
		Sources:            []string{"alpha"},
		Schedule:           "manual",
		RelevanceThreshold: 5,
		Enabled:            true,
	}
	require.NoError(t, cycle.Run(context.Background(), cfg))

	order, grouped := capture.received[0].BySource()
	require.Equal(t, []string{"alpha"}, order)
	assert.Len(t, grouped["alpha"], 5)
	assert.True(t, strings.HasPrefix(grouped["alpha"][0].Title, "alpha result"))
}
