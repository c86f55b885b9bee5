package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/majordomo/internal/reasoning"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoanLifecycle(t *testing.T) {
	st := testStore(t)

	loan, err := st.AddLoan("Sam", 20, "i_owe", "lunch")
	require.NoError(t, err)
	_, err = st.AddLoan("Priya", 150, "they_owe", "")
	require.NoError(t, err)

	_, err = st.AddLoan("Bad", 1, "sideways", "")
	assert.Error(t, err, "unknown direction must be rejected")

	all, err := st.ListLoans("all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := st.ListLoans("i_owe")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Sam", mine[0].Person)

	iOwe, theyOwe, count, err := st.LoanSummary()
	require.NoError(t, err)
	assert.Equal(t, 20.0, iOwe)
	assert.Equal(t, 150.0, theyOwe)
	assert.Equal(t, 2, count)

	require.NoError(t, st.UpdateLoan(loan.ID, 35))
	require.NoError(t, st.SettleLoan(loan.ID))
	assert.Error(t, st.SettleLoan(loan.ID), "settling twice must fail")

	remaining, err := st.ListLoans("all")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Priya", remaining[0].Person)

	assert.Error(t, st.DeleteLoan("nope"))
	require.NoError(t, st.DeleteLoan(remaining[0].ID))
}

func TestNoteLifecycle(t *testing.T) {
	st := testStore(t)

	_, err := st.CreateNote("Grocery List", "milk\neggs", "shopping")
	require.NoError(t, err)

	// Exact title.
	n, err := st.GetNote("Grocery List")
	require.NoError(t, err)
	assert.Equal(t, "milk\neggs", n.Content)

	// Partial, case-insensitive.
	n, err = st.GetNote("grocery")
	require.NoError(t, err)
	assert.Equal(t, "Grocery List", n.Title)

	_, err = st.GetNote("holiday plan")
	assert.Error(t, err)

	n, err = st.UpdateNote("grocery", "bread", true)
	require.NoError(t, err)
	assert.Equal(t, "milk\neggs\nbread", n.Content)

	n, err = st.UpdateNote("grocery", "start over", false)
	require.NoError(t, err)
	assert.Equal(t, "start over", n.Content)

	found, err := st.SearchNotes("over")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, st.DeleteNote("Grocery List"))
	listed, err := st.ListNotes()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestEvents(t *testing.T) {
	st := testStore(t)

	tomorrow := time.Now().Add(24 * time.Hour)
	nextMonth := time.Now().Add(31 * 24 * time.Hour)

	_, err := st.CreateEvent("Dentist", tomorrow, 30, "checkup", false)
	require.NoError(t, err)
	_, err = st.CreateEvent("Renew passport", nextMonth, 60, "", true)
	require.NoError(t, err)

	week, err := st.UpcomingEvents(7, 10)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, "Dentist", week[0].Title)

	all, err := st.UpcomingEvents(60, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	todayEv, err := st.CreateEvent("Standup", time.Now().Add(time.Minute), 15, "", false)
	require.NoError(t, err)
	today, err := st.TodaySchedule()
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "Standup", today[0].Title)

	require.NoError(t, st.DeleteEvent(todayEv.ID))
	assert.Error(t, st.DeleteEvent(todayEv.ID))
}

func TestAutomations(t *testing.T) {
	st := testStore(t)

	_, err := st.CreateAutomation("chat1", "brief", "morning brief", 30)
	assert.Error(t, err, "interval below the minimum must be rejected")

	a, err := st.CreateAutomation("chat1", "brief", "morning brief", 3600)
	require.NoError(t, err)

	// Never ran: due immediately.
	due, err := st.DueAutomations()
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, st.MarkAutomationRun(a.ID))
	due, err = st.DueAutomations()
	require.NoError(t, err)
	assert.Empty(t, due, "just-run automation is not due")

	// A reset makes it due again on the next poll.
	require.NoError(t, st.ResetAutomationRun(a.ID))
	due, err = st.DueAutomations()
	require.NoError(t, err)
	assert.Len(t, due, 1)

	// Disabled automations are never due.
	require.NoError(t, st.ToggleAutomation(a.ID, false))
	due, err = st.DueAutomations()
	require.NoError(t, err)
	assert.Empty(t, due)

	found, err := st.FindAutomation("chat1", "BRIEF")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
	_, err = st.FindAutomation("chat2", "brief")
	assert.Error(t, err, "automations are scoped per chat")

	require.NoError(t, st.DeleteAutomation(a.ID))
	assert.Error(t, st.DeleteAutomation(a.ID))
}

func TestMemoriesAndRecall(t *testing.T) {
	st := testStore(t)

	_, err := st.AddMemory("prefers meetings after 14:00", "preference", 0.9, "assistant")
	require.NoError(t, err)
	_, err = st.AddMemory("sister's birthday is in March", "fact", 0.7, "assistant")
	require.NoError(t, err)

	found, err := st.SearchMemories("meetings", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "preference", found[0].Category)

	recall, err := st.RecallContext("schedule my meetings next week", 500)
	require.NoError(t, err)
	assert.Contains(t, recall, "prefers meetings after 14:00")
	assert.NotContains(t, recall, "birthday")

	empty, err := st.RecallContext("zzz qqq", 500)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConversationHistory(t *testing.T) {
	st := testStore(t)

	require.NoError(t, st.AddMessage("chat1", "user", "hello"))
	require.NoError(t, st.AddMessage("chat1", "assistant", "hi there"))
	require.NoError(t, st.AddMessage("chat1", "user", "remind me tomorrow"))
	require.NoError(t, st.AddMessage("chat2", "user", "other chat"))

	history, err := st.RecentHistory("chat1", 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, reasoning.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Text)
	assert.Equal(t, reasoning.RoleAssistant, history[1].Role)
	assert.Equal(t, "remind me tomorrow", history[2].Text)

	bounded, err := st.RecentHistory("chat1", 2)
	require.NoError(t, err)
	require.Len(t, bounded, 2)
	assert.Equal(t, "hi there", bounded[0].Text, "limit keeps the most recent turns")
}

func TestTaskLifecycle(t *testing.T) {
	st := testStore(t)

	task, err := st.CreateTask("Buy groceries", "high", "2026-09-02", "home")
	require.NoError(t, err)
	_, err = st.CreateTask("File expenses", "", "", "work")
	require.NoError(t, err)

	_, err = st.CreateTask("Bad", "urgent-ish", "", "")
	assert.Error(t, err, "unknown priority must be rejected")

	// Resolve by id, id prefix and fuzzy title.
	byID, err := st.FindTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy groceries", byID.Title)

	byPrefix, err := st.FindTask(task.ID[:4])
	require.NoError(t, err)
	assert.Equal(t, task.ID, byPrefix.ID)

	byTitle, err := st.FindTask("groceries")
	require.NoError(t, err)
	assert.Equal(t, task.ID, byTitle.ID)

	_, err = st.FindTask("submarine maintenance")
	assert.Error(t, err)

	defaulted, err := st.FindTask("File expenses")
	require.NoError(t, err)
	assert.Equal(t, "medium", defaulted.Priority)

	done, err := st.CompleteTask("groceries")
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.False(t, done.CompletedAt.IsZero())

	pending, err := st.ListTasks("pending", "", "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "File expenses", pending[0].Title)

	all, err := st.ListTasks("all", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	work, err := st.ListTasks("all", "", "work")
	require.NoError(t, err)
	require.Len(t, work, 1)

	updated, err := st.UpdateTask("File expenses", "", "high", "2026-09-05", "")
	require.NoError(t, err)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, "2026-09-05", updated.DueDate)
	assert.Equal(t, "File expenses", updated.Title, "empty fields stay unchanged")

	deleted, err := st.DeleteTask("File expenses")
	require.NoError(t, err)
	assert.Equal(t, "File expenses", deleted.Title)
	_, err = st.DeleteTask("File expenses")
	assert.Error(t, err)
}
