package organizer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsk_DefaultOnEmptyReply(t *testing.T) {
	c := NewConsole(strings.NewReader("\nvalue\n"), &bytes.Buffer{})

	reply, ok := c.Ask("? ", "fallback")
	assert.True(t, ok)
	assert.Equal(t, "fallback", reply)

	reply, ok = c.Ask("? ", "fallback")
	assert.True(t, ok)
	assert.Equal(t, "value", reply)
}

func TestAsk_ClosedInput(t *testing.T) {
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{})

	reply, ok := c.Ask("? ", "fallback")
	assert.False(t, ok)
	assert.Equal(t, "fallback", reply)

	// Stays closed on repeat asks.
	_, ok = c.Ask("? ", "fallback")
	assert.False(t, ok)
}

func TestAsk_LastLineWithoutNewline(t *testing.T) {
	c := NewConsole(strings.NewReader("value"), &bytes.Buffer{})

	reply, ok := c.Ask("? ", "fallback")
	assert.True(t, ok)
	assert.Equal(t, "value", reply)
}

func TestConfirm(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewConsole(strings.NewReader("y\nNO\nyes\n\n\n"), out)
	assert.True(t, c.Confirm("proceed?", false))
	assert.False(t, c.Confirm("proceed?", true))
	assert.True(t, c.Confirm("proceed?", false))
	assert.True(t, c.Confirm("proceed?", true))
	assert.False(t, c.Confirm("proceed?", false))
	assert.Contains(t, out.String(), "proceed? (y/n, default n): ")
}

func TestConfirm_ClosedInputDeclines(t *testing.T) {
	c := NewConsole(strings.NewReader(""), &bytes.Buffer{})
	assert.False(t, c.Confirm("proceed?", true))
	assert.False(t, c.Confirm("proceed?", false))
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateIdle.canAdvance(StateFetched))
	assert.True(t, StateFetched.canAdvance(StateClassified))
	assert.True(t, StateClassified.canAdvance(StatePendingReview))
	assert.True(t, StatePendingReview.canAdvance(StatePendingReview))
	assert.True(t, StatePendingReview.canAdvance(StateReconciled))
	assert.True(t, StateReconciled.canAdvance(StateLabelsApplied))

	assert.False(t, StateIdle.canAdvance(StateClassified))
	assert.False(t, StateReconciled.canAdvance(StatePendingReview))
	assert.False(t, StateLabelsApplied.canAdvance(StateFetched))

	assert.Equal(t, "PENDING_REVIEW", StatePendingReview.String())
	assert.Equal(t, "LABELS_APPLIED", StateLabelsApplied.String())
}
