package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/arjun/majordomo/internal/observability"
	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
)

// Synthesizer turns an executed plan into the single reply the user
// sees.
type Synthesizer struct {
	Service reasoning.Service
	Logger  *observability.Logger
}

// Synthesize returns the reply text and whether it is a confirmation
// prompt awaiting the user's approval.
//
// A single successful step passes through verbatim; that is the common
// case and skips a reasoning call. Multi-step plans are merged by the
// service, falling back to concatenating the successful outputs when
// the service fails.
func (s *Synthesizer) Synthesize(ctx context.Context, chatID string, p *plan.Plan) (string, bool) {
	for _, step := range p.Steps {
		if step.Result != nil && step.Result.RequiresConfirmation {
			return step.Result.ConfirmationDescription + "\n\nShould I go ahead?", true
		}
	}

	if len(p.Steps) == 1 {
		step := p.Steps[0]
		if step.Result != nil && step.Result.Success {
			return step.Result.Output, false
		}
	}

	executed := executedSteps(p)
	if len(executed) == 0 {
		return "I couldn't complete that request.", false
	}

	conv := []reasoning.Message{
		{Role: reasoning.RoleSystem, Text: synthesizerInstruction},
		{Role: reasoning.RoleUser, Text: outcomeReport(p, executed)},
	}
	comp, err := s.Service.Complete(ctx, conv, nil, reasoning.Options{})
	if err == nil && comp.FinalText != "" {
		return comp.FinalText, false
	}
	if err != nil && s.Logger != nil {
		s.Logger.Log(observability.Event{
			Type:   observability.EventTypeReasoning,
			ChatID: chatID,
			Data:   map[string]string{"synthesizer_fallback": err.Error()},
		})
	}

	// Fallback: hand over the successful outputs as-is.
	var parts []string
	for _, step := range executed {
		if step.Result.Success && step.Result.Output != "" {
			parts = append(parts, step.Result.Output)
		}
	}
	if len(parts) == 0 {
		return "I couldn't complete that request.", false
	}
	return strings.Join(parts, "\n\n"), false
}

func executedSteps(p *plan.Plan) []*plan.Step {
	var out []*plan.Step
	for _, step := range p.Steps {
		if step.Result != nil {
			out = append(out, step)
		}
	}
	return out
}

func outcomeReport(p *plan.Plan, executed []*plan.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n\nStep outcomes:\n", p.Goal)
	for _, step := range executed {
		if step.Result.Success {
			fmt.Fprintf(&b, "- %s: %s\n", step.Task, step.Result.Output)
		} else {
			fmt.Fprintf(&b, "- %s: FAILED (%s)\n", step.Task, step.Result.Error)
		}
	}
	if p.PendingCount() > 0 {
		fmt.Fprintf(&b, "\n%d step(s) never ran because a dependency failed.\n", p.PendingCount())
	}
	return b.String()
}
