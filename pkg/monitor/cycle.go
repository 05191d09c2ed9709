package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/codeready-toolchain/research-core/pkg/alert"
	"github.com/codeready-toolchain/research-core/pkg/dedup"
	"github.com/codeready-toolchain/research-core/pkg/execlog"
	"github.com/codeready-toolchain/research-core/pkg/executor"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/registry"
	"github.com/codeready-toolchain/research-core/pkg/schema"
	"github.com/codeready-toolchain/research-core/pkg/store"
)

// Cycle runs one invocation of a configured monitor end to end (spec
// §4.4). It owns no per-monitor state of its own — Config and State are
// loaded and persisted fresh on every Run call.
type Cycle struct {
	registry *registry.Registry
	executor *executor.Executor
	gateway  *llmgw.Gateway
	provider string
	logger   *execlog.Logger
	layout   store.Layout
	slack    alert.Channel // process-wide shared Slack channel, may be nil
}

// NewCycle wires a Cycle's dependencies. slack may be nil when no
// process-wide Slack channel is configured.
func NewCycle(reg *registry.Registry, exec *executor.Executor, gateway *llmgw.Gateway, provider string, logger *execlog.Logger, layout store.Layout, slack alert.Channel) *Cycle {
	return &Cycle{registry: reg, executor: exec, gateway: gateway, provider: provider, logger: logger, layout: layout, slack: slack}
}

// Run executes spec §4.4 steps 1-8 for cfg.
func (c *Cycle) Run(ctx context.Context, cfg *Config) error {
	if !cfg.Enabled {
		return nil
	}

	statePath := c.layout.MonitorStatePath(cfg.Name)
	state, err := LoadState(statePath)
	if err != nil {
		return err
	}

	cohort := c.buildCohort(cfg.Sources)

	var pool []integration.ResultItem
	for i, keyword := range cfg.Keywords {
		taskID := "keyword:" + strconv.Itoa(i)
		agg := c.executor.Run(ctx, "monitor:"+cfg.Name, taskID, cohort, keyword, executor.Options{})
		for _, rej := range agg.Rejections {
			c.log(cfg.Name, execlog.EventIntegrationRejected, rej.Reason, map[string]any{"source_id": rej.SourceID, "phase": rej.Phase, "keyword": keyword})
		}
		for _, qr := range agg.Results {
			c.log(cfg.Name, execlog.EventSearchExecuted, "", map[string]any{
				"source_id": qr.SourceID, "success": qr.Success, "count": len(qr.Items), "keyword": keyword,
			})
			if qr.Success {
				pool = append(pool, qr.Items...)
			}
		}
	}

	deduped := dedup.New().Process(pool, state.SeenFingerprints)
	for _, drop := range deduped.Dropped {
		c.log(cfg.Name, execlog.EventFilterDecision, drop.Reason, map[string]any{"title": drop.Item.Title, "similarity": drop.Similarity})
	}

	surviving, err := c.scoreRelevance(ctx, cfg, deduped.Retained)
	if err != nil {
		c.log(cfg.Name, execlog.EventError, fmt.Sprintf("relevance scoring: %v", err), nil)
		return err
	}

	if len(surviving) > 0 {
		c.deliver(ctx, cfg, surviving)
	}
	c.log(cfg.Name, execlog.EventTaskCompleted, "", map[string]any{"surviving": len(surviving), "candidates": len(pool)})

	for _, fp := range deduped.AllFingerprints {
		state.SeenFingerprints[fp] = true
	}
	state.LastRunAt = time.Now()
	return SaveState(statePath, state)
}

func (c *Cycle) buildCohort(sourceIDs []string) []executor.Member {
	members := make([]executor.Member, 0, len(sourceIDs))
	for _, id := range sourceIDs {
		id := id
		members = append(members, executor.Member{
			SourceID: id,
			New:      func() (integration.Adapter, error) { return c.registry.New(id) },
		})
	}
	return members
}

// scoreRelevance is spec §4.4 step 5: score every surviving item 0-10
// against the monitor's keyword set, dropping anything below threshold.
func (c *Cycle) scoreRelevance(ctx context.Context, cfg *Config, items []integration.ResultItem) ([]integration.ResultItem, error) {
	var surviving []integration.ResultItem
	for _, item := range items {
		messages := []llmgw.Message{
			{Role: llmgw.RoleSystem, Content: "Score how relevant this item is to the given keyword set, 0 (irrelevant) to 10 (exact match)."},
			{Role: llmgw.RoleUser, Content: fmt.Sprintf("Keywords: %v\n\nItem: %s\n%s\n%s", cfg.Keywords, item.Title, item.URL, item.Description)},
		}
		resp, err := c.gateway.GenerateStructured(ctx, llmgw.StructuredRequest{
			Provider: c.provider, Messages: messages, SchemaName: schema.RelevanceCheck,
		})
		if err != nil {
			return nil, err
		}
		var parsed schema.RelevanceResult
		if err := json.Unmarshal(resp.Raw, &parsed); err != nil {
			return nil, fmt.Errorf("parsing relevance response: %w", err)
		}
		if parsed.Score >= cfg.RelevanceThreshold {
			surviving = append(surviving, item)
		}
	}
	return surviving, nil
}

func (c *Cycle) deliver(ctx context.Context, cfg *Config, items []integration.ResultItem) {
	a := alert.Alert{MonitorName: cfg.Name, Keywords: cfg.Keywords, Items: items, Timestamp: time.Now()}

	channels := []alert.Channel{c.slack, alert.NewWebhookChannel(cfg.AlertChannels.Webhook)}
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		if err := ch.Send(ctx, a); err != nil {
			c.log(cfg.Name, execlog.EventError, fmt.Sprintf("alert delivery: %v", err), nil)
		}
	}
}

func (c *Cycle) log(monitorName string, t execlog.EventType, msg string, data map[string]any) {
	if c.logger == nil {
		return
	}
	_ = c.logger.Log(execlog.Event{RunID: "monitor:" + monitorName, Type: t, Message: msg, Data: data})
}
