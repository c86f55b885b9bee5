package governance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSensitive(t *testing.T) {
	g := NewGate(0)
	assert.True(t, g.IsSensitive("delete_loan"))
	assert.True(t, g.IsSensitive("delete_task"))
	assert.True(t, g.IsSensitive("create_event"))
	assert.False(t, g.IsSensitive("list_loans"))
	assert.False(t, g.IsSensitive("search"))
}

func TestRequestFillsTemplate(t *testing.T) {
	g := NewGate(0)
	p := g.Request("chat1", "create_event", `{"title":"Dentist","start_time":"2026-09-03 15:00"}`, "calendar")
	require.NotNil(t, p)
	assert.Equal(t, "Create event: Dentist at 2026-09-03 15:00", p.Description)
	assert.Equal(t, "calendar", p.Worker)
	assert.Len(t, p.ID, 8)
}

func TestRequestFallbackListing(t *testing.T) {
	g := NewGate(0)
	// Missing start_time forces the generic key/value fallback.
	p := g.Request("chat1", "create_event", `{"title":"Dentist"}`, "calendar")
	assert.Equal(t, "Create Event | title: Dentist", p.Description)
}

func TestLastRequestWins(t *testing.T) {
	g := NewGate(0)
	g.Request("chat1", "delete_loan", `{"loan_id":"aa11"}`, "finance")
	second := g.Request("chat1", "delete_note", `{"title":"old"}`, "memory")

	pending := g.Pending("chat1")
	require.NotNil(t, pending)
	assert.Equal(t, second.ID, pending.ID)
	assert.Equal(t, "delete_note", pending.Action)
}

func TestConfirmTwice(t *testing.T) {
	g := NewGate(0)
	g.Request("chat1", "settle_loan", `{"loan_id":"aa11"}`, "finance")

	first := g.Confirm("chat1")
	require.NotNil(t, first)
	assert.Equal(t, "settle_loan", first.Action)

	assert.Nil(t, g.Confirm("chat1"), "second confirm must treat the action as absent")
}

func TestConfirmExpiresAfterTTL(t *testing.T) {
	g := NewGate(5 * time.Minute)
	now := time.Now()
	g.now = func() time.Time { return now }

	g.Request("chat1", "delete_event", `{"event_id":"ev1"}`, "calendar")

	// 6 minutes later the entry must be unreachable.
	g.now = func() time.Time { return now.Add(6 * time.Minute) }
	assert.Nil(t, g.Pending("chat1"))
	assert.Nil(t, g.Confirm("chat1"))
}

func TestConfirmJustBeforeTTL(t *testing.T) {
	g := NewGate(5 * time.Minute)
	now := time.Now()
	g.now = func() time.Time { return now }

	g.Request("chat1", "delete_event", `{"event_id":"ev1"}`, "calendar")

	g.now = func() time.Time { return now.Add(4 * time.Minute) }
	require.NotNil(t, g.Confirm("chat1"))
}

func TestCancel(t *testing.T) {
	g := NewGate(0)
	assert.False(t, g.Cancel("chat1"))

	g.Request("chat1", "delete_automation", `{"name":"laundry"}`, "automations")
	assert.True(t, g.Cancel("chat1"))
	assert.Nil(t, g.Confirm("chat1"))
}

func TestPendingIsolatedPerChat(t *testing.T) {
	g := NewGate(0)
	g.Request("chat1", "delete_loan", `{}`, "finance")

	assert.Nil(t, g.Pending("chat2"))
	require.NotNil(t, g.Pending("chat1"))
}
