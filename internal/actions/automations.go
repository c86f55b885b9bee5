package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/arjun/majordomo/internal/store"
)

// Automations returns the recurring-task action set. The actions only
// manage automation records scoped to the chat on the context; the
// background scheduler is what actually executes due tasks.
func Automations(st *store.Store) []Action {
	return []Action{
		NewAction("create_automation",
			"Create a recurring task that runs on a fixed interval.",
			Object(map[string]any{
				"name":             map[string]any{"type": "string", "description": "Short name, e.g. morning-brief"},
				"task":             map[string]any{"type": "string", "description": "Instruction to execute each run"},
				"interval_seconds": map[string]any{"type": "integer", "description": "Seconds between runs, minimum 60"},
			}, "name", "task", "interval_seconds"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Name            string `json:"name"`
					Task            string `json:"task"`
					IntervalSeconds int    `json:"interval_seconds"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				a, err := st.CreateAutomation(ChatIDFrom(ctx), args.Name, args.Task, args.IntervalSeconds)
				if err != nil {
					return Errorf("failed to create automation: %v", err)
				}
				return OKData(fmt.Sprintf("✓ Automation %q created, runs every %s.",
					a.Name, (time.Duration(a.IntervalSeconds) * time.Second).String()),
					map[string]any{"automation_id": a.ID})
			}),

		NewAction("list_automations",
			"List all automations with their status.",
			Object(map[string]any{}),
			func(ctx context.Context, input string) Result {
				all, err := st.ListAutomations(ChatIDFrom(ctx))
				if err != nil {
					return Errorf("failed to list automations: %v", err)
				}
				if len(all) == 0 {
					return OK("No automations configured.")
				}
				var b strings.Builder
				for _, a := range all {
					state := "enabled"
					if !a.Enabled {
						state = "paused"
					}
					fmt.Fprintf(&b, "- [%s] %s (%s, every %s): %s\n",
						a.ID, a.Name, state, (time.Duration(a.IntervalSeconds) * time.Second).String(), a.Task)
				}
				return OKData(strings.TrimRight(b.String(), "\n"), map[string]any{"count": len(all)})
			}),

		NewAction("toggle_automation",
			"Pause or resume an automation by name.",
			Object(map[string]any{
				"name":    map[string]any{"type": "string"},
				"enabled": map[string]any{"type": "boolean"},
			}, "name", "enabled"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Name    string `json:"name"`
					Enabled bool   `json:"enabled"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				a, err := st.FindAutomation(ChatIDFrom(ctx), args.Name)
				if err != nil {
					return Errorf("%v", err)
				}
				if err := st.ToggleAutomation(a.ID, args.Enabled); err != nil {
					return Errorf("%v", err)
				}
				if args.Enabled {
					return OK("✓ Automation %q resumed.", a.Name)
				}
				return OK("✓ Automation %q paused.", a.Name)
			}),

		NewAction("run_automation",
			"Trigger an automation to run on the scheduler's next poll.",
			Object(map[string]any{
				"name": map[string]any{"type": "string"},
			}, "name"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Name string `json:"name"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				a, err := st.FindAutomation(ChatIDFrom(ctx), args.Name)
				if err != nil {
					return Errorf("%v", err)
				}
				if err := st.ResetAutomationRun(a.ID); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Automation %q queued, it will run within the next scheduler cycle.", a.Name)
			}),

		NewAction("delete_automation",
			"Delete an automation by name.",
			Object(map[string]any{
				"name": map[string]any{"type": "string"},
			}, "name"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Name string `json:"name"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				a, err := st.FindAutomation(ChatIDFrom(ctx), args.Name)
				if err != nil {
					return Errorf("%v", err)
				}
				if err := st.DeleteAutomation(a.ID); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Automation %q deleted.", a.Name)
			}),
	}
}
