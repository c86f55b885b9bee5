package agent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/majordomo/internal/actions"
	"github.com/arjun/majordomo/internal/governance"
	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
	"github.com/arjun/majordomo/internal/store"
)

type fakeMessenger struct {
	chatIDs []string
	texts   []string
}

func (m *fakeMessenger) Send(chatID, text string) error {
	m.chatIDs = append(m.chatIDs, chatID)
	m.texts = append(m.texts, text)
	return nil
}

func TestSchedulerRunsDueAutomation(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	auto, err := st.CreateAutomation("chat-9", "Morning digest", "summarize the news", 3600)
	require.NoError(t, err)

	planner := reasoning.NewScript(plannerTurn(
		`{"goal":"digest","steps":[{"id":"s1","worker":"general","task":"summarize the news"}]}`,
	))
	general := &Worker{
		Kind:          plan.WorkerGeneral,
		Registry:      actions.NewRegistry(),
		MaxIterations: 1,
		Service:       reasoning.NewScript(reasoning.Answer("All quiet today.")),
	}
	o := testOrchestrator(t, planner, testWorkerSet(general), governance.NewGate(time.Minute), reasoning.NewScript())
	o.Store = st

	gw := &fakeMessenger{}
	sched := &Scheduler{Orchestrator: o, Store: st, Gateway: gw}

	sched.pollAndExecute(context.Background())

	require.Len(t, gw.texts, 1)
	assert.Equal(t, "chat-9", gw.chatIDs[0])
	assert.Contains(t, gw.texts[0], "Morning digest")
	assert.Contains(t, gw.texts[0], "All quiet today.")

	// The run is marked, so the next poll within the interval finds
	// nothing.
	due, err := st.DueAutomations()
	require.NoError(t, err)
	assert.Empty(t, due)

	// Resetting the run makes it due again, which is how an on-demand
	// trigger re-enters the schedule.
	require.NoError(t, st.ResetAutomationRun(auto.ID))
	due, err = st.DueAutomations()
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, auto.ID, due[0].ID)
}

func TestSchedulerSkipsWhenNothingDue(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	gw := &fakeMessenger{}
	sched := &Scheduler{
		Orchestrator: testOrchestrator(t, reasoning.NewScript(), testWorkerSet(), nil, reasoning.NewScript()),
		Store:        st,
		Gateway:      gw,
	}

	sched.pollAndExecute(context.Background())
	assert.Empty(t, gw.texts)
}
