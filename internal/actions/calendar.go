package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/arjun/majordomo/internal/store"
)

// Calendar returns the event and reminder action set. Creation and
// deletion actions are sensitive: the confirmation gate intercepts
// them before they ever reach this code.
func Calendar(st *store.Store) []Action {
	return []Action{
		NewAction("create_event",
			"Create a calendar event.",
			Object(map[string]any{
				"title":        map[string]any{"type": "string"},
				"start_time":   map[string]any{"type": "string", "description": "Event start, e.g. 2026-09-03 15:00"},
				"duration_min": map[string]any{"type": "integer", "description": "Duration in minutes, default 60"},
				"description":  map[string]any{"type": "string"},
			}, "title", "start_time"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title       string `json:"title"`
					StartTime   string `json:"start_time"`
					DurationMin int    `json:"duration_min"`
					Description string `json:"description"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				start, err := parseWhen(args.StartTime)
				if err != nil {
					return Errorf("could not parse start time %q: %v", args.StartTime, err)
				}
				ev, err := st.CreateEvent(args.Title, start, args.DurationMin, args.Description, false)
				if err != nil {
					return Errorf("failed to create event: %v", err)
				}
				return OKData(fmt.Sprintf("✓ Event created: %s at %s", ev.Title, ev.Start.Format("Mon Jan 2 15:04")),
					map[string]any{"event_id": ev.ID})
			}),

		NewAction("create_reminder",
			"Set a reminder that notifies the user at the given time.",
			Object(map[string]any{
				"title": map[string]any{"type": "string", "description": "What to remind about"},
				"when":  map[string]any{"type": "string", "description": "When to remind, e.g. 2026-09-03 15:00"},
			}, "title", "when"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title string `json:"title"`
					When  string `json:"when"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				when, err := parseWhen(args.When)
				if err != nil {
					return Errorf("could not parse time %q: %v", args.When, err)
				}
				ev, err := st.CreateEvent(args.Title, when, 15, "", true)
				if err != nil {
					return Errorf("failed to create reminder: %v", err)
				}
				return OKData(fmt.Sprintf("✓ Reminder set: %s at %s", ev.Title, ev.Start.Format("Mon Jan 2 15:04")),
					map[string]any{"event_id": ev.ID})
			}),

		NewAction("get_upcoming_events",
			"List events over the coming days.",
			Object(map[string]any{
				"days":        map[string]any{"type": "integer", "description": "Lookahead window in days, default 7"},
				"max_results": map[string]any{"type": "integer", "description": "Maximum events to return, default 10"},
			}),
			func(ctx context.Context, input string) Result {
				var args struct {
					Days       int `json:"days"`
					MaxResults int `json:"max_results"`
				}
				_ = json.Unmarshal([]byte(input), &args)
				events, err := st.UpcomingEvents(args.Days, args.MaxResults)
				if err != nil {
					return Errorf("failed to list events: %v", err)
				}
				if len(events) == 0 {
					return OK("No upcoming events.")
				}
				return OKData(formatEvents(events), map[string]any{"count": len(events)})
			}),

		NewAction("get_today_schedule",
			"List today's events.",
			Object(map[string]any{}),
			func(ctx context.Context, input string) Result {
				events, err := st.TodaySchedule()
				if err != nil {
					return Errorf("failed to read schedule: %v", err)
				}
				if len(events) == 0 {
					return OK("Nothing scheduled today.")
				}
				return OKData(formatEvents(events), map[string]any{"count": len(events)})
			}),

		NewAction("delete_event",
			"Delete a calendar event by id.",
			Object(map[string]any{
				"event_id": map[string]any{"type": "string"},
			}, "event_id"),
			func(ctx context.Context, input string) Result {
				var args struct {
					EventID string `json:"event_id"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if err := st.DeleteEvent(args.EventID); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Event %s deleted.", args.EventID)
			}),
	}
}

// parseWhen accepts RFC3339 and the loose formats models tend to emit.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return dateparse.ParseLocal(s)
}

func formatEvents(events []store.Event) string {
	var b strings.Builder
	for _, e := range events {
		kind := ""
		if e.Reminder {
			kind = " (reminder)"
		}
		fmt.Fprintf(&b, "- [%s] %s at %s%s\n", e.ID, e.Title, e.Start.Format("Mon Jan 2 15:04"), kind)
	}
	return strings.TrimRight(b.String(), "\n")
}
