package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arjun/majordomo/internal/store"
)

// Memory returns the note-taking and long-term memory action set.
func Memory(st *store.Store) []Action {
	return []Action{
		NewAction("create_note",
			"Create a note with a title and content.",
			Object(map[string]any{
				"title":   map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
				"tags":    map[string]any{"type": "string", "description": "Comma separated tags"},
			}, "title", "content"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title   string `json:"title"`
					Content string `json:"content"`
					Tags    string `json:"tags"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				n, err := st.CreateNote(args.Title, args.Content, args.Tags)
				if err != nil {
					return Errorf("failed to create note: %v", err)
				}
				return OKData(fmt.Sprintf("✓ Note created: %s", n.Title), map[string]any{"note_id": n.ID})
			}),

		NewAction("read_note",
			"Read a note by title. Partial titles are matched case-insensitively.",
			Object(map[string]any{
				"title": map[string]any{"type": "string"},
			}, "title"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title string `json:"title"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				n, err := st.GetNote(args.Title)
				if err != nil {
					return Errorf("%v", err)
				}
				return OKData(fmt.Sprintf("%s\n\n%s", n.Title, n.Content), map[string]any{"note_id": n.ID})
			}),

		NewAction("update_note",
			"Update a note's content. Set append to true to add to the end instead of replacing.",
			Object(map[string]any{
				"title":   map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
				"append":  map[string]any{"type": "boolean"},
			}, "title", "content"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title   string `json:"title"`
					Content string `json:"content"`
					Append  bool   `json:"append"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				n, err := st.UpdateNote(args.Title, args.Content, args.Append)
				if err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Note updated: %s", n.Title)
			}),

		NewAction("delete_note",
			"Delete a note by title.",
			Object(map[string]any{
				"title": map[string]any{"type": "string"},
			}, "title"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Title string `json:"title"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if err := st.DeleteNote(args.Title); err != nil {
					return Errorf("%v", err)
				}
				return OK("✓ Note deleted: %s", args.Title)
			}),

		NewAction("list_notes",
			"List all note titles.",
			Object(map[string]any{}),
			func(ctx context.Context, input string) Result {
				notes, err := st.ListNotes()
				if err != nil {
					return Errorf("failed to list notes: %v", err)
				}
				if len(notes) == 0 {
					return OK("No notes yet.")
				}
				var b strings.Builder
				for _, n := range notes {
					fmt.Fprintf(&b, "- %s\n", n.Title)
				}
				return OKData(strings.TrimRight(b.String(), "\n"), map[string]any{"count": len(notes)})
			}),

		NewAction("search_notes",
			"Search notes by keyword in title or content.",
			Object(map[string]any{
				"query": map[string]any{"type": "string"},
			}, "query"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Query string `json:"query"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				notes, err := st.SearchNotes(args.Query)
				if err != nil {
					return Errorf("search failed: %v", err)
				}
				if len(notes) == 0 {
					return OK("No notes matching %q.", args.Query)
				}
				var b strings.Builder
				for _, n := range notes {
					snippet := n.Content
					if len(snippet) > 120 {
						snippet = snippet[:120] + "..."
					}
					fmt.Fprintf(&b, "- %s: %s\n", n.Title, snippet)
				}
				return OKData(strings.TrimRight(b.String(), "\n"), map[string]any{"count": len(notes)})
			}),

		NewAction("remember",
			"Store a fact about the user for later recall.",
			Object(map[string]any{
				"content":    map[string]any{"type": "string", "description": "The fact to remember"},
				"category":   map[string]any{"type": "string", "description": "preference, fact, habit or context"},
				"importance": map[string]any{"type": "integer", "description": "1 to 5, default 3"},
			}, "content"),
			func(ctx context.Context, input string) Result {
				var args struct {
					Content    string `json:"content"`
					Category   string `json:"category"`
					Importance int    `json:"importance"`
				}
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return Errorf("invalid input: %v", err)
				}
				if args.Category == "" {
					args.Category = "fact"
				}
				if args.Importance == 0 {
					args.Importance = 3
				}
				m, err := st.AddMemory(args.Content, args.Category, float64(args.Importance), "assistant")
				if err != nil {
					return Errorf("failed to store memory: %v", err)
				}
				return OKData("✓ Remembered.", map[string]any{"memory_id": m.ID})
			}),
	}
}
