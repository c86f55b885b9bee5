package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
)

func completedStep(id, task, output string) *plan.Step {
	return &plan.Step{
		ID:     id,
		Worker: plan.WorkerGeneral,
		Task:   task,
		Status: plan.StatusCompleted,
		Result: &plan.WorkerResult{Success: true, Output: output},
	}
}

func TestSynthesizeSingleStepPassthrough(t *testing.T) {
	p, err := plan.New("greet", []*plan.Step{completedStep("s1", "say hi", "Hi there!")})
	require.NoError(t, err)

	// No service call happens for the single-step case.
	s := &Synthesizer{Service: reasoning.NewScript()}
	text, confirm := s.Synthesize(context.Background(), "chat-1", p)

	assert.Equal(t, "Hi there!", text)
	assert.False(t, confirm)
}

func TestSynthesizeConfirmationPrompt(t *testing.T) {
	p, err := plan.New("tidy up", []*plan.Step{{
		ID:     "s1",
		Worker: plan.WorkerMemory,
		Task:   "delete the note",
		Status: plan.StatusCompleted,
		Result: &plan.WorkerResult{
			Success:                 true,
			RequiresConfirmation:    true,
			ConfirmationDescription: "Delete note \"groceries\"",
		},
	}})
	require.NoError(t, err)

	s := &Synthesizer{Service: reasoning.NewScript()}
	text, confirm := s.Synthesize(context.Background(), "chat-1", p)

	assert.True(t, confirm)
	assert.Equal(t, "Delete note \"groceries\"\n\nShould I go ahead?", text)
}

func TestSynthesizeMergesMultiStepOutcomes(t *testing.T) {
	failed := &plan.Step{
		ID:     "s2",
		Worker: plan.WorkerWeb,
		Task:   "fetch prices",
		Status: plan.StatusFailed,
		Result: &plan.WorkerResult{Error: "site unreachable"},
	}
	blocked := &plan.Step{
		ID:        "s3",
		Worker:    plan.WorkerGeneral,
		Task:      "compare",
		DependsOn: []string{"s2"},
	}
	p, err := plan.New("shop around", []*plan.Step{
		completedStep("s1", "check the budget", "Budget is 200."),
		failed,
		blocked,
	})
	require.NoError(t, err)

	svc := reasoning.NewScript(reasoning.Answer("Your budget is 200, but I couldn't fetch prices."))
	s := &Synthesizer{Service: svc}
	text, confirm := s.Synthesize(context.Background(), "chat-1", p)

	assert.False(t, confirm)
	assert.Equal(t, "Your budget is 200, but I couldn't fetch prices.", text)

	// The merge prompt reports each outcome, failures included, plus
	// the steps that never got to run.
	require.Len(t, svc.Calls, 1)
	report := svc.Calls[0][len(svc.Calls[0])-1].Text
	assert.Contains(t, report, "Budget is 200.")
	assert.Contains(t, report, "FAILED (site unreachable)")
	assert.Contains(t, report, "1 step(s) never ran")
}

func TestSynthesizeFallbackConcatenatesOutputs(t *testing.T) {
	p, err := plan.New("digest", []*plan.Step{
		completedStep("s1", "headline one", "First thing happened."),
		completedStep("s2", "headline two", "Second thing happened."),
	})
	require.NoError(t, err)

	s := &Synthesizer{Service: reasoning.NewScript(reasoning.Fail(errors.New("model unavailable")))}
	text, confirm := s.Synthesize(context.Background(), "chat-1", p)

	assert.False(t, confirm)
	assert.Equal(t, "First thing happened.\n\nSecond thing happened.", text)
}

func TestSynthesizeNothingExecuted(t *testing.T) {
	p, err := plan.New("stalled", []*plan.Step{
		{ID: "s1", Worker: plan.WorkerGeneral, Task: "never ran"},
	})
	require.NoError(t, err)

	s := &Synthesizer{Service: reasoning.NewScript()}
	text, confirm := s.Synthesize(context.Background(), "chat-1", p)

	assert.False(t, confirm)
	assert.Equal(t, "I couldn't complete that request.", text)
}

func TestSynthesizeAllFailedUsesGenericMessage(t *testing.T) {
	p, err := plan.New("doomed", []*plan.Step{{
		ID:     "s1",
		Worker: plan.WorkerWeb,
		Task:   "fetch",
		Status: plan.StatusFailed,
		Result: &plan.WorkerResult{Error: "timeout"},
	}})
	require.NoError(t, err)

	// Service fails too, and there is no successful output to fall
	// back on.
	s := &Synthesizer{Service: reasoning.NewScript(reasoning.Fail(errors.New("model unavailable")))}
	text, _ := s.Synthesize(context.Background(), "chat-1", p)

	assert.Equal(t, "I couldn't complete that request.", text)
}
