package agent

import (
	"context"
	"errors"

	"github.com/arjun/majordomo/internal/actions"
	"github.com/arjun/majordomo/internal/governance"
	"github.com/arjun/majordomo/internal/observability"
	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
	"github.com/arjun/majordomo/internal/scratchpad"
)

// IterationLimitError is the distinguished error string a worker
// reports when it exhausts its cap without a final answer, so callers
// can tell it apart from a generic failure.
const IterationLimitError = "iteration_limit"

// Worker runs one step through a bounded reasoning loop: ask the
// service, execute whatever actions it requested, feed the results
// back, and stop at a final answer, the iteration cap, or the first
// sensitive action.
type Worker struct {
	Kind          plan.WorkerKind
	Instruction   string
	Registry      *actions.Registry
	MaxIterations int
	Service       reasoning.Service
	Gate          *governance.Gate
	Policy        governance.PolicyEngine
	Logger        *observability.Logger
}

// Execute runs the task to a WorkerResult. It never returns an error:
// every failure mode is encoded in the result so the orchestrator can
// record it against the step.
func (w *Worker) Execute(ctx context.Context, chatID string, step *plan.Step, sc scratchpad.StepContext) plan.WorkerResult {
	ctx = actions.WithChatID(ctx, chatID)

	conv := []reasoning.Message{
		{Role: reasoning.RoleSystem, Text: w.Instruction + renderStepContext(sc)},
		{Role: reasoning.RoleUser, Text: step.Task},
	}
	decls := declsFor(w.Registry)

	var invoked []string
	for i := 0; i < w.MaxIterations; i++ {
		comp, err := w.Service.Complete(ctx, conv, decls, reasoning.Options{})
		if err != nil {
			if errors.Is(err, reasoning.ErrTruncated) {
				return plan.WorkerResult{
					Error:          "response was cut off",
					IterationsUsed: i + 1,
					ActionsInvoked: invoked,
				}
			}
			return plan.WorkerResult{
				Error:          err.Error(),
				IterationsUsed: i + 1,
				ActionsInvoked: invoked,
			}
		}

		if len(comp.Actions) == 0 {
			return plan.WorkerResult{
				Success:        true,
				Output:         comp.FinalText,
				IterationsUsed: i + 1,
				ActionsInvoked: invoked,
			}
		}

		assistant := reasoning.Message{Role: reasoning.RoleAssistant, Text: comp.FinalText, Actions: comp.Actions}
		conv = append(conv, assistant)

		// The gate check covers the whole batch before anything runs:
		// a sensitive action anywhere in it defers the batch, so no
		// sibling action executes ahead of the user's approval.
		if w.Gate != nil {
			for _, req := range comp.Actions {
				if !w.Gate.IsSensitive(req.Name) {
					continue
				}
				pending := w.Gate.Request(chatID, req.Name, req.Arguments, string(w.Kind))
				if w.Logger != nil {
					w.Logger.LogConfirmation(chatID, req.Name, "requested")
				}
				return plan.WorkerResult{
					Success:                 true,
					Output:                  pending.Description,
					IterationsUsed:          i + 1,
					ActionsInvoked:          invoked,
					RequiresConfirmation:    true,
					ConfirmationDescription: pending.Description,
				}
			}
		}

		// Only this iteration's requested actions execute; results
		// already in the conversation are never replayed.
		for _, req := range comp.Actions {
			result := w.invoke(ctx, chatID, step.ID, req)
			if result.Success {
				invoked = append(invoked, req.Name)
			}
			conv = append(conv, reasoning.Message{
				Role:       reasoning.RoleActionResult,
				Text:       result.JSON(),
				ActionID:   req.ID,
				ActionName: req.Name,
			})
		}
	}

	return plan.WorkerResult{
		Error:          IterationLimitError,
		IterationsUsed: w.MaxIterations,
		ActionsInvoked: invoked,
	}
}

func (w *Worker) invoke(ctx context.Context, chatID, stepID string, req reasoning.ActionRequest) actions.Result {
	if w.Policy != nil {
		verdict, err := w.Policy.Evaluate(ctx, governance.Request{
			Action:    req.Name,
			Arguments: req.Arguments,
			ChatID:    chatID,
		})
		if err != nil {
			return actions.Errorf("policy evaluation failed: %v", err)
		}
		if verdict.Effect == governance.EffectDeny {
			if w.Logger != nil {
				w.Logger.LogPolicyCheck(chatID, req.Name, string(verdict.Effect), verdict.Reason)
			}
			return actions.Errorf("denied: %s", verdict.Reason)
		}
	}

	if w.Logger != nil {
		w.Logger.LogActionCall(chatID, stepID, req.Name, req.Arguments)
	}
	result := w.Registry.Invoke(ctx, req.Name, req.Arguments)
	if w.Logger != nil {
		msg := result.Message
		if !result.Success {
			msg = result.Error
		}
		w.Logger.LogActionResult(chatID, stepID, req.Name, result.Success, msg)
	}
	return result
}

func declsFor(r *actions.Registry) []reasoning.ActionDecl {
	if r == nil {
		return nil
	}
	list := r.List()
	decls := make([]reasoning.ActionDecl, 0, len(list))
	for _, a := range list {
		decls = append(decls, reasoning.ActionDecl{
			Name:        a.Name(),
			Description: a.Description(),
			Parameters:  a.Parameters(),
		})
	}
	return decls
}

// Deterministic kinds get small caps; research kinds get room to
// iterate.
var iterationCaps = map[plan.WorkerKind]int{
	plan.WorkerFinance:     5,
	plan.WorkerCalendar:    5,
	plan.WorkerMemory:      3,
	plan.WorkerTasks:       5,
	plan.WorkerWeb:         8,
	plan.WorkerPrint:       2,
	plan.WorkerAutomations: 5,
	plan.WorkerGeneral:     1,
}

// CapFor returns the iteration cap for a worker kind.
func CapFor(kind plan.WorkerKind) int {
	if cap, ok := iterationCaps[kind]; ok {
		return cap
	}
	return 1
}
