package execlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventCritical(t *testing.T) {
	assert.True(t, Event{Type: EventRunStarted}.Critical())
	assert.True(t, Event{Type: EventError}.Critical())
	assert.False(t, Event{Type: EventTaskStarted}.Critical())
	assert.False(t, Event{Type: EventQueryGenerated}.Critical())
}
