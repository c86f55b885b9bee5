package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arjun/majordomo/internal/store"
)

// Tasks returns the to-do action set. Tasks are referenced by id, id
// prefix or (fuzzy) title, so the model can say "complete groceries"
// without first listing ids.
func Tasks(st *store.Store) []Action {
	return []Action{
		NewAction("add_task",
			"Add a new task to the to-do list.",
			Object(map[string]any{
				"title":    map[string]any{"type": "string", "description": "Task title"},
				"priority": map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}, "description": "Default medium"},
				"due_date": map[string]any{"type": "string", "description": "Due date, YYYY-MM-DD"},
				"project":  map[string]any{"type": "string", "description": "Project the task belongs to"},
			}, "title"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title    string `json:"title"`
					Priority string `json:"priority"`
					DueDate  string `json:"due_date"`
					Project  string `json:"project"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				t, err := st.CreateTask(args.Title, args.Priority, args.DueDate, args.Project)
				if err != nil {
					return Errorf("failed to add task: %v", err)
				}
				return OKData(fmt.Sprintf("✓ Task added: %s", t.Title), map[string]any{"task_id": t.ID})
			}),

		NewAction("complete_task",
			"Mark a task as completed. Accepts the task id or its title.",
			Object(map[string]any{
				"task": map[string]any{"type": "string", "description": "Task id or title"},
			}, "task"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Task string `json:"task"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				t, err := st.CompleteTask(args.Task)
				if err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Task completed: %s", t.Title)
			}),

		NewAction("delete_task",
			"Delete a task entirely. Accepts the task id or its title.",
			Object(map[string]any{
				"task": map[string]any{"type": "string", "description": "Task id or title"},
			}, "task"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Task string `json:"task"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				t, err := st.DeleteTask(args.Task)
				if err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Task deleted: %s", t.Title)
			}),

		NewAction("list_tasks",
			"List tasks, optionally filtered by status, priority or project.",
			Object(map[string]any{
				"status":   map[string]any{"type": "string", "enum": []string{"pending", "completed", "all"}, "description": "Default pending"},
				"priority": map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
				"project":  map[string]any{"type": "string"},
			}),
			func(ctx context.Context, input string) Result {
				var args struct {
					Status   string `json:"status"`
					Priority string `json:"priority"`
					Project  string `json:"project"`
				}
				_ = json.Unmarshal([]byte(input), &args)
				if args.Status == "" {
					args.Status = "pending"
				}
				tasks, err := st.ListTasks(args.Status, args.Priority, args.Project)
				if err != nil {
					return Errorf("failed to list tasks: %v", err)
				}
				if len(tasks) == 0 {
					return OK("No tasks found.")
				}
				var b strings.Builder
				for _, t := range tasks {
					mark := "[ ]"
					if t.Status == "completed" {
						mark = "[x]"
					}
					fmt.Fprintf(&b, "%s [%s] %s (%s", mark, t.ID, t.Title, t.Priority)
					if t.DueDate != "" {
						fmt.Fprintf(&b, ", due %s", t.DueDate)
					}
					if t.Project != "" {
						fmt.Fprintf(&b, ", %s", t.Project)
					}
					b.WriteString(")\n")
				}
				return OKData(strings.TrimRight(b.String(), "\n"), map[string]any{"count": len(tasks)})
			}),

		NewAction("update_task",
			"Change a task's title, priority, due date or project.",
			Object(map[string]any{
				"task":     map[string]any{"type": "string", "description": "Task id or title"},
				"title":    map[string]any{"type": "string", "description": "New title"},
				"priority": map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
				"due_date": map[string]any{"type": "string", "description": "New due date, YYYY-MM-DD"},
				"project":  map[string]any{"type": "string"},
			}, "task"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Task     string `json:"task"`
					Title    string `json:"title"`
					Priority string `json:"priority"`
					DueDate  string `json:"due_date"`
					Project  string `json:"project"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				t, err := st.UpdateTask(args.Task, args.Title, args.Priority, args.DueDate, args.Project)
				if err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Task updated: %s", t.Title)
			}),

		NewAction("get_task",
			"Read one task's details. Accepts the task id or its title.",
			Object(map[string]any{
				"task": map[string]any{"type": "string", "description": "Task id or title"},
			}, "task"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Task string `json:"task"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				t, err := st.FindTask(args.Task)
				if err != nil {
					return Errorf("%v", err)
				}
				out := fmt.Sprintf("%s (%s, %s)", t.Title, t.Status, t.Priority)
				if t.DueDate != "" {
					out += "\nDue: " + t.DueDate
				}
				if t.Project != "" {
					out += "\nProject: " + t.Project
				}
				return OKData(out, map[string]any{"task_id": t.ID})
			}),
	}
}
