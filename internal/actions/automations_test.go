package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationsScopedToChat(t *testing.T) {
	r, st := testRegistry(t, Automations)
	ctxA := WithChatID(context.Background(), "chat-a")
	ctxB := WithChatID(context.Background(), "chat-b")

	res := r.Invoke(ctxA, "create_automation", `{"name":"morning-brief","task":"summarize my day","interval_seconds":3600}`)
	require.True(t, res.Success, res.Error)

	res = r.Invoke(ctxA, "list_automations", `{}`)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "morning-brief")

	// Another chat never sees it.
	res = r.Invoke(ctxB, "list_automations", `{}`)
	require.True(t, res.Success)
	assert.Equal(t, "No automations configured.", res.Message)

	res = r.Invoke(ctxB, "delete_automation", `{"name":"morning-brief"}`)
	assert.False(t, res.Success)

	due, err := st.DueAutomations()
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestAutomationToggleAndRun(t *testing.T) {
	r, st := testRegistry(t, Automations)
	ctx := WithChatID(context.Background(), "chat-a")

	res := r.Invoke(ctx, "create_automation", `{"name":"water-plants","task":"remind me to water the plants","interval_seconds":86400}`)
	require.True(t, res.Success, res.Error)
	autoID, _ := res.Data["automation_id"].(string)
	require.NotEmpty(t, autoID)

	res = r.Invoke(ctx, "toggle_automation", `{"name":"water-plants","enabled":false}`)
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "paused")

	due, err := st.DueAutomations()
	require.NoError(t, err)
	assert.Empty(t, due)

	// run_automation re-enables and queues it for the next poll.
	require.NoError(t, st.MarkAutomationRun(autoID))
	res = r.Invoke(ctx, "run_automation", `{"name":"water-plants"}`)
	require.True(t, res.Success)

	due, err = st.DueAutomations()
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, autoID, due[0].ID)
}

func TestCreateAutomationRejectsShortInterval(t *testing.T) {
	r, _ := testRegistry(t, Automations)
	ctx := WithChatID(context.Background(), "chat-a")

	res := r.Invoke(ctx, "create_automation", `{"name":"spam","task":"x","interval_seconds":5}`)
	assert.False(t, res.Success)
}
