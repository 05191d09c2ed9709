// Package alert implements the delivery channels a Boolean Monitor sends a
// triggered alert to (spec §4.4 step 6): one message per run, grouped by
// source, sent after relevance scoring and dedup have run.
package alert

import (
	"context"
	"time"

	"github.com/codeready-toolchain/research-core/pkg/integration"
)

// Alert is one monitor run's worth of surviving items, ready to render.
type Alert struct {
	MonitorName string
	Keywords    []string
	Items       []integration.ResultItem
	Timestamp   time.Time
}

// BySource groups Items by SourceID, preserving first-seen source order —
// "grouped by source" per spec §4.4 step 6.
func (a Alert) BySource() (order []string, grouped map[string][]integration.ResultItem) {
	grouped = make(map[string][]integration.ResultItem)
	for _, item := range a.Items {
		if _, ok := grouped[item.SourceID]; !ok {
			order = append(order, item.SourceID)
		}
		grouped[item.SourceID] = append(grouped[item.SourceID], item)
	}
	return order, grouped
}

// Channel is a delivery target for an Alert. Channel-specific rendering is
// the channel's concern (spec §6).
type Channel interface {
	Send(ctx context.Context, a Alert) error
}
