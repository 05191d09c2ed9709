package alert

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// SlackChannel delivers alerts to a Slack channel. Nil-safe construction
// mirrors pkg/slack.NewService: a monitor with no Slack credentials
// configured gets a nil *SlackChannel, and Send on a nil receiver is a
// no-op rather than a panic, so callers never need a non-nil check before
// wiring it into a Channel slice.
type SlackChannel struct {
	client    *slack.Client
	channelID string
}

// NewSlackChannel returns a SlackChannel, or nil if token or channelID is
// empty.
func NewSlackChannel(token, channelID string) *SlackChannel {
	if token == "" || channelID == "" {
		return nil
	}
	return &SlackChannel{client: slack.New(token), channelID: channelID}
}

// Send posts one message summarizing the alert, grouped by source.
func (c *SlackChannel) Send(ctx context.Context, a Alert) error {
	if c == nil {
		return nil
	}

	order, grouped := a.BySource()
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* matched %d new item(s) for keywords: %s\n", a.MonitorName, len(a.Items), strings.Join(a.Keywords, ", "))
	for _, sourceID := range order {
		fmt.Fprintf(&b, "\n*%s*\n", sourceID)
		for _, item := range grouped[sourceID] {
			fmt.Fprintf(&b, "• <%s|%s>\n", item.URL, item.Title)
		}
	}

	_, _, err := c.client.PostMessageContext(ctx, c.channelID, slack.MsgOptionText(b.String(), false))
	if err != nil {
		return fmt.Errorf("alert: slack post to %s: %w", c.channelID, err)
	}
	return nil
}
