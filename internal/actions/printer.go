package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Printer returns the physical-output action set. Jobs are written as
// plain-text card files into a spool directory that the print daemon
// on the host watches.
func Printer(spoolDir string) []Action {
	return []Action{
		NewAction("print_text",
			"Print a short piece of text on the receipt printer.",
			Object(map[string]any{
				"text": map[string]any{"type": "string", "description": "Text to print, keep it short"},
			}, "text"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Text string `json:"text"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if strings.TrimSpace(args.Text) == "" {
					return Errorf("nothing to print")
				}
				name, err := spoolJob(spoolDir, "text", args.Text)
				if err != nil {
					return Errorf("failed to queue print job: %v", err)
				}
				return OKData("✓ Sent to printer.", map[string]any{"job": name})
			}),

		NewAction("print_task",
			"Print a task card with a title and optional checklist items.",
			Object(map[string]any{
				"title": map[string]any{"type": "string"},
				"items": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Checklist lines printed under the title",
				},
			}, "title"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title string   `json:"title"`
					Items []string `json:"items"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				var b strings.Builder
				fmt.Fprintf(&b, "=== %s ===\n", strings.ToUpper(args.Title))
				fmt.Fprintf(&b, "%s\n\n", time.Now().Format("Mon Jan 2 15:04"))
				for _, item := range args.Items {
					fmt.Fprintf(&b, "[ ] %s\n", item)
				}
				name, err := spoolJob(spoolDir, "task", b.String())
				if err != nil {
					return Errorf("failed to queue print job: %v", err)
				}
				return OKData(fmt.Sprintf("✓ Task card %q sent to printer.", args.Title),
					map[string]any{"job": name})
			}),
	}
}

func spoolJob(dir, kind, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%d.txt", kind, time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		return "", err
	}
	return name, nil
}
