package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MitsuruMe/momomoving-fe/internal/guard"
)

func TestLatestEventKeepsNewestDecision(t *testing.T) {
	events := newLatestEvent()

	assert.False(t, events.put(sessionEvent{Decision: guard.Render.String()}))
	assert.True(t, events.put(sessionEvent{Decision: guard.Fallback.String()}))
	assert.True(t, events.put(sessionEvent{Decision: guard.Redirect.String()}))

	ev := <-events
	assert.Equal(t, guard.Redirect.String(), ev.Decision)

	select {
	case extra := <-events:
		t.Fatalf("unexpected event %q", extra.Decision)
	default:
	}
}

func TestLatestEventAfterRead(t *testing.T) {
	events := newLatestEvent()

	events.put(sessionEvent{Decision: guard.Render.String()})
	assert.Equal(t, guard.Render.String(), (<-events).Decision)

	assert.False(t, events.put(sessionEvent{Decision: guard.Redirect.String()}))
	assert.Equal(t, guard.Redirect.String(), (<-events).Decision)
}
