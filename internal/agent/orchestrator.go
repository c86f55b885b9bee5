package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/arjun/majordomo/internal/governance"
	"github.com/arjun/majordomo/internal/observability"
	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
	"github.com/arjun/majordomo/internal/scratchpad"
	"github.com/arjun/majordomo/internal/store"
)

// Reply is what the orchestrator hands back to the gateway for one
// inbound message.
type Reply struct {
	Text               string
	NeedsConfirmation  bool
	ConfirmationAction string
}

// Orchestrator owns plan state end to end: it builds the plan, runs
// it wave by wave, and is the only writer of step status. Workers only
// ever return their own result.
type Orchestrator struct {
	Service reasoning.Service
	Workers *WorkerSet
	Pad     *scratchpad.Scratchpad
	Gate    *governance.Gate
	Store   *store.Store
	Logger  *observability.Logger
	Synth   *Synthesizer

	// HistoryLimit bounds how many recent conversation turns feed the
	// planner. Zero means the default of 10.
	HistoryLimit int
}

// Process handles one inbound user message end to end and returns the
// assistant's reply. A new message cancels any stale pending
// confirmation first: nothing executes from before a topic change.
func (o *Orchestrator) Process(ctx context.Context, chatID, text string) (Reply, error) {
	if o.Gate != nil && o.Gate.Cancel(chatID) {
		o.Logger.LogConfirmation(chatID, "", "cancelled_by_new_message")
	}
	if o.Store != nil {
		if err := o.Store.AddMessage(chatID, "user", text); err != nil {
			return Reply{}, fmt.Errorf("record inbound message: %w", err)
		}
	}

	defer observability.SetStatus(observability.RoleIdle, "")

	observability.SetStatus(observability.RolePlanner, text)
	p, err := o.BuildPlan(ctx, chatID, text)
	if err != nil {
		// Planning failure is not fatal: fall back to one direct
		// general step.
		o.Logger.Log(observability.Event{
			Type:   observability.EventTypePlan,
			ChatID: chatID,
			Data:   map[string]string{"fallback": err.Error()},
		})
		p, err = plan.New(text, []*plan.Step{{ID: "s1", Worker: plan.WorkerGeneral, Task: text}})
		if err != nil {
			return Reply{}, err
		}
	}
	o.Logger.LogPlan(chatID, p.Goal, len(p.Steps))

	o.Pad.SetPlan(p)
	o.execute(ctx, chatID, p)

	response, needsConfirm := o.Synth.Synthesize(ctx, chatID, p)
	o.Pad.ClearPlan()

	if o.Store != nil {
		if err := o.Store.AddMessage(chatID, "assistant", response); err != nil {
			return Reply{}, fmt.Errorf("record reply: %w", err)
		}
	}

	reply := Reply{Text: response, NeedsConfirmation: needsConfirm}
	if needsConfirm && o.Gate != nil {
		if pending := o.Gate.Pending(chatID); pending != nil {
			reply.ConfirmationAction = pending.Action
		}
	}
	return reply, nil
}

// Confirm resolves the pending sensitive action for a chat. Approval
// executes it through the owning worker's registry; rejection just
// clears it. Confirming with nothing pending reports expiry instead
// of erroring.
func (o *Orchestrator) Confirm(ctx context.Context, chatID string, approved bool) string {
	if !approved {
		if o.Gate.Cancel(chatID) {
			o.Logger.LogConfirmation(chatID, "", "cancelled")
			return "Okay, cancelled."
		}
		return "There was nothing waiting for your approval."
	}

	pending := o.Gate.Confirm(chatID)
	if pending == nil {
		return "That action has expired. Please ask again."
	}
	o.Logger.LogConfirmation(chatID, pending.Action, "approved")

	w := o.Workers.Worker(plan.WorkerKind(pending.Worker))
	if w == nil || w.Registry == nil {
		return "I could not find the worker that requested this action."
	}
	result := w.invoke(ctx, chatID, "", reasoning.ActionRequest{
		Name:      pending.Action,
		Arguments: pending.Arguments,
	})
	if !result.Success {
		return fmt.Sprintf("That didn't work: %s", result.Error)
	}
	return result.Message
}

// planDraft mirrors the create_plan function schema.
type planDraft struct {
	Goal  string `json:"goal"`
	Steps []struct {
		ID        string   `json:"id"`
		Worker    string   `json:"worker"`
		Task      string   `json:"task"`
		DependsOn []string `json:"depends_on"`
	} `json:"steps"`
}

// BuildPlan asks the reasoning service to decompose the request into a
// validated plan. The create_plan function call is forced so the
// planner cannot answer with prose.
func (o *Orchestrator) BuildPlan(ctx context.Context, chatID, text string) (*plan.Plan, error) {
	conv := []reasoning.Message{
		{Role: reasoning.RoleSystem, Text: o.plannerContext(chatID, text)},
	}
	if o.Store != nil {
		limit := o.HistoryLimit
		if limit <= 0 {
			limit = 10
		}
		if history, err := o.Store.RecentHistory(chatID, limit); err == nil {
			conv = append(conv, history...)
		}
	}
	conv = append(conv, reasoning.Message{Role: reasoning.RoleUser, Text: text})

	comp, err := o.Service.Complete(ctx, conv, []reasoning.ActionDecl{createPlanDecl}, reasoning.Options{
		ForceAction: "create_plan",
	})
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	if len(comp.Actions) == 0 {
		return nil, fmt.Errorf("planner returned no plan")
	}

	var draft planDraft
	if err := json.Unmarshal([]byte(comp.Actions[0].Arguments), &draft); err != nil {
		return nil, fmt.Errorf("planner produced invalid plan arguments: %w", err)
	}
	if len(draft.Steps) == 0 {
		return nil, fmt.Errorf("planner produced an empty plan")
	}

	goal := draft.Goal
	if goal == "" {
		goal = text
	}
	steps := make([]*plan.Step, 0, len(draft.Steps))
	for _, s := range draft.Steps {
		steps = append(steps, &plan.Step{
			ID:        s.ID,
			Worker:    plan.WorkerKind(s.Worker),
			Task:      s.Task,
			DependsOn: s.DependsOn,
		})
	}
	return plan.New(goal, steps)
}

func (o *Orchestrator) plannerContext(chatID, text string) string {
	instruction := plannerInstruction
	instruction += "\n\nWorker kinds:\n"
	for _, kind := range plan.KnownWorkerKinds {
		instruction += fmt.Sprintf("- %s\n", kind)
	}
	instruction += fmt.Sprintf("\nCurrent time: %s\n", time.Now().Format("Monday, 2 Jan 2006 15:04"))

	if o.Store != nil {
		if recall, err := o.Store.RecallContext(text, 1000); err == nil && recall != "" {
			instruction += "\nWhat you remember about the user:\n" + recall + "\n"
		}
	}
	return instruction
}

var createPlanDecl = reasoning.ActionDecl{
	Name:        "create_plan",
	Description: "Submit the plan of steps that fulfills the user's request.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"goal": map[string]any{
				"type":        "string",
				"description": "One-line restatement of the user's goal",
			},
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":     map[string]any{"type": "string"},
						"worker": map[string]any{"type": "string", "enum": workerKindNames()},
						"task":   map[string]any{"type": "string"},
						"depends_on": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []string{"id", "worker", "task"},
				},
			},
		},
		"required": []string{"steps"},
	},
}

func workerKindNames() []string {
	names := make([]string, 0, len(plan.KnownWorkerKinds))
	for _, k := range plan.KnownWorkerKinds {
		names = append(names, string(k))
	}
	return names
}

// execute runs the plan wave by wave. All ready steps of a wave run
// concurrently; the next wave only starts once every step of the
// current one resolved. The orchestrator alone mutates step state, so
// workers need no locking on the plan.
func (o *Orchestrator) execute(ctx context.Context, chatID string, p *plan.Plan) {
	for {
		ready := p.ReadySteps()
		if len(ready) == 0 {
			if p.PendingCount() == 0 {
				p.IsComplete = true
			} else {
				// Dependents of a failed step never become ready.
				o.Logger.Log(observability.Event{
					Type:   observability.EventTypePlan,
					ChatID: chatID,
					Data:   map[string]any{"stuck": true, "pending": p.PendingCount()},
				})
			}
			return
		}

		now := time.Now()
		for _, step := range ready {
			step.Status = plan.StatusRunning
			step.StartedAt = now
			o.Logger.LogStep(chatID, step.ID, string(step.Worker), string(step.Status))
		}

		results := make([]plan.WorkerResult, len(ready))
		var wg sync.WaitGroup
		for i, step := range ready {
			wg.Add(1)
			go func(i int, step *plan.Step) {
				defer wg.Done()
				results[i] = o.runStep(ctx, chatID, step)
			}(i, step)
		}
		wg.Wait()

		confirmationRequested := false
		for i, step := range ready {
			result := results[i]
			step.Result = &result
			step.CompletedAt = time.Now()
			if result.Success {
				step.Status = plan.StatusCompleted
			} else {
				step.Status = plan.StatusFailed
			}
			o.Logger.LogStep(chatID, step.ID, string(step.Worker), string(step.Status))
			o.Pad.RecordStepResult(step, result)
			if result.RequiresConfirmation {
				step.RequiresConfirmation = true
				confirmationRequested = true
			}
		}

		// A pending confirmation pauses the plan: later waves would
		// race the user's approval.
		if confirmationRequested {
			return
		}
	}
}

func (o *Orchestrator) runStep(ctx context.Context, chatID string, step *plan.Step) plan.WorkerResult {
	w := o.Workers.Worker(step.Worker)
	if w == nil {
		return plan.WorkerResult{Error: fmt.Sprintf("no worker for kind %q", step.Worker)}
	}
	observability.SetStatus(observability.RoleWorker, step.Task)
	sc := o.Pad.ContextForStep(step)
	return w.Execute(ctx, chatID, step, sc)
}
