package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/majordomo/internal/actions"
	"github.com/arjun/majordomo/internal/governance"
	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
	"github.com/arjun/majordomo/internal/scratchpad"
)

// recordingAction counts invocations and echoes the input back.
type recordingAction struct {
	name   string
	calls  int
	inputs []string
	result actions.Result
}

func (a *recordingAction) Name() string               { return a.name }
func (a *recordingAction) Description() string        { return "test action " + a.name }
func (a *recordingAction) Parameters() map[string]any { return actions.Object(map[string]any{}) }
func (a *recordingAction) Execute(ctx context.Context, input string) actions.Result {
	a.calls++
	a.inputs = append(a.inputs, input)
	return a.result
}

func testWorker(svc reasoning.Service, maxIter int, acts ...actions.Action) *Worker {
	return &Worker{
		Kind:          plan.WorkerMemory,
		Instruction:   workerInstructions[plan.WorkerMemory],
		Registry:      actions.NewRegistry(acts...),
		MaxIterations: maxIter,
		Service:       svc,
	}
}

func memStep(task string) *plan.Step {
	return &plan.Step{ID: "s1", Worker: plan.WorkerMemory, Task: task}
}

func TestWorkerFinalAnswer(t *testing.T) {
	svc := reasoning.NewScript(reasoning.Answer("You have three notes."))
	w := testWorker(svc, 3)

	res := w.Execute(context.Background(), "chat-1", memStep("list my notes"), scratchpad.StepContext{})

	assert.True(t, res.Success)
	assert.Equal(t, "You have three notes.", res.Output)
	assert.Equal(t, 1, res.IterationsUsed)
	assert.Empty(t, res.ActionsInvoked)
}

func TestWorkerActionRoundTrip(t *testing.T) {
	act := &recordingAction{name: "list_notes", result: actions.OK("2 notes found")}
	svc := reasoning.NewScript(
		reasoning.Request(reasoning.ActionRequest{ID: "c1", Name: "list_notes", Arguments: `{}`}),
		reasoning.Answer("You have 2 notes."),
	)
	w := testWorker(svc, 3, act)

	res := w.Execute(context.Background(), "chat-1", memStep("list my notes"), scratchpad.StepContext{})

	require.True(t, res.Success)
	assert.Equal(t, "You have 2 notes.", res.Output)
	assert.Equal(t, 2, res.IterationsUsed)
	assert.Equal(t, []string{"list_notes"}, res.ActionsInvoked)
	assert.Equal(t, 1, act.calls)

	// The second service call must carry the action result back into
	// the conversation.
	require.Len(t, svc.Calls, 2)
	second := svc.Calls[1]
	last := second[len(second)-1]
	assert.Equal(t, reasoning.RoleActionResult, last.Role)
	assert.Equal(t, "list_notes", last.ActionName)
	assert.Contains(t, last.Text, "2 notes found")
}

func TestWorkerIterationLimit(t *testing.T) {
	act := &recordingAction{name: "search_notes", result: actions.OK("nothing yet")}
	svc := reasoning.NewScript(
		reasoning.Request(reasoning.ActionRequest{ID: "c1", Name: "search_notes", Arguments: `{"query":"a"}`}),
		reasoning.Request(reasoning.ActionRequest{ID: "c2", Name: "search_notes", Arguments: `{"query":"b"}`}),
	)
	w := testWorker(svc, 2, act)

	res := w.Execute(context.Background(), "chat-1", memStep("find that note"), scratchpad.StepContext{})

	assert.False(t, res.Success)
	assert.Equal(t, IterationLimitError, res.Error)
	assert.Equal(t, 2, res.IterationsUsed)
	assert.Equal(t, 2, act.calls)
}

func TestWorkerSensitiveActionDefers(t *testing.T) {
	act := &recordingAction{name: "delete_note", result: actions.OK("deleted")}
	svc := reasoning.NewScript(
		reasoning.Request(reasoning.ActionRequest{ID: "c1", Name: "delete_note", Arguments: `{"title":"groceries"}`}),
	)
	gate := governance.NewGate(time.Minute)
	w := testWorker(svc, 3, act)
	w.Gate = gate

	res := w.Execute(context.Background(), "chat-1", memStep("delete the groceries note"), scratchpad.StepContext{})

	assert.True(t, res.Success)
	assert.True(t, res.RequiresConfirmation)
	assert.NotEmpty(t, res.ConfirmationDescription)
	assert.Equal(t, res.ConfirmationDescription, res.Output)

	// The action itself must not run until the user approves.
	assert.Equal(t, 0, act.calls)

	pending := gate.Pending("chat-1")
	require.NotNil(t, pending)
	assert.Equal(t, "delete_note", pending.Action)
	assert.Equal(t, string(plan.WorkerMemory), pending.Worker)
}

func TestWorkerSensitiveActionDefersWholeBatch(t *testing.T) {
	list := &recordingAction{name: "list_notes", result: actions.OK("2 notes found")}
	del := &recordingAction{name: "delete_note", result: actions.OK("deleted")}
	svc := reasoning.NewScript(
		reasoning.Request(
			reasoning.ActionRequest{ID: "c1", Name: "list_notes", Arguments: `{}`},
			reasoning.ActionRequest{ID: "c2", Name: "delete_note", Arguments: `{"title":"groceries"}`},
		),
	)
	gate := governance.NewGate(time.Minute)
	w := testWorker(svc, 3, list, del)
	w.Gate = gate

	res := w.Execute(context.Background(), "chat-1", memStep("tidy my notes"), scratchpad.StepContext{})

	assert.True(t, res.RequiresConfirmation)
	assert.Empty(t, res.ActionsInvoked)

	// A sensitive action anywhere in the batch blocks the whole
	// batch: the non-sensitive sibling must not have run either.
	assert.Equal(t, 0, list.calls)
	assert.Equal(t, 0, del.calls)
	require.NotNil(t, gate.Pending("chat-1"))
}

func TestWorkerTruncatedResponse(t *testing.T) {
	svc := reasoning.NewScript(reasoning.Fail(reasoning.ErrTruncated))
	w := testWorker(svc, 3)

	res := w.Execute(context.Background(), "chat-1", memStep("summarize"), scratchpad.StepContext{})

	assert.False(t, res.Success)
	assert.Equal(t, "response was cut off", res.Error)
}

func TestWorkerServiceError(t *testing.T) {
	svc := reasoning.NewScript(reasoning.Fail(errors.New("connection refused")))
	w := testWorker(svc, 3)

	res := w.Execute(context.Background(), "chat-1", memStep("anything"), scratchpad.StepContext{})

	assert.False(t, res.Success)
	assert.Equal(t, "connection refused", res.Error)
	assert.Equal(t, 1, res.IterationsUsed)
}

func TestWorkerPolicyDeny(t *testing.T) {
	act := &recordingAction{name: "fetch_page", result: actions.OK("page text")}
	svc := reasoning.NewScript(
		reasoning.Request(reasoning.ActionRequest{ID: "c1", Name: "fetch_page", Arguments: `{"url":"http://blocked.example"}`}),
		reasoning.Answer("I wasn't allowed to fetch that page."),
	)
	policy := governance.NewDefaultPolicyEngine()
	policy.DenyAction("fetch_page")
	w := testWorker(svc, 3, act)
	w.Policy = policy

	res := w.Execute(context.Background(), "chat-1", memStep("fetch the page"), scratchpad.StepContext{})

	require.True(t, res.Success)
	assert.Equal(t, 0, act.calls)
	assert.Empty(t, res.ActionsInvoked)

	// The denial flows back as an action result so the model can
	// explain itself.
	second := svc.Calls[1]
	last := second[len(second)-1]
	assert.Equal(t, reasoning.RoleActionResult, last.Role)
	assert.Contains(t, last.Text, "denied")
}

func TestWorkerUnknownActionName(t *testing.T) {
	svc := reasoning.NewScript(
		reasoning.Request(reasoning.ActionRequest{ID: "c1", Name: "no_such_action", Arguments: `{}`}),
		reasoning.Answer("Sorry, I can't do that."),
	)
	w := testWorker(svc, 3)

	res := w.Execute(context.Background(), "chat-1", memStep("do something odd"), scratchpad.StepContext{})

	require.True(t, res.Success)
	assert.Empty(t, res.ActionsInvoked)
	second := svc.Calls[1]
	last := second[len(second)-1]
	assert.Contains(t, last.Text, "unknown action")
}

func TestCapFor(t *testing.T) {
	assert.Equal(t, 8, CapFor(plan.WorkerWeb))
	assert.Equal(t, 1, CapFor(plan.WorkerGeneral))
	assert.Equal(t, 1, CapFor(plan.WorkerKind("nonsense")))
}
