package governance

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultConfirmationTTL is how long an unconfirmed sensitive action
// stays valid.
const DefaultConfirmationTTL = 5 * time.Minute

// sensitiveActions maps the actions that must not execute without an
// explicit user confirmation to a description template. Placeholders
// like {title} are filled from the action arguments.
var sensitiveActions = map[string]string{
	"create_event":      "Create event: {title} at {start_time}",
	"create_reminder":   "Set reminder: {title} at {when}",
	"delete_event":      "Delete calendar event",
	"settle_loan":       "Mark loan as settled",
	"delete_loan":       "Delete loan record",
	"delete_note":       "Delete note '{title}'",
	"delete_task":       "Delete task '{task}'",
	"delete_automation": "Delete automation",
}

// Pending is a sensitive action waiting for explicit approval. At most
// one exists per chat; a newer request replaces the older one.
type Pending struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Arguments   string    `json:"arguments"`
	Worker      string    `json:"worker"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Gate defers sensitive actions until the user approves them. Expiry
// is checked lazily on read; there is no background timer.
type Gate struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]*Pending // chat id -> pending action
	now     func() time.Time
}

func NewGate(ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &Gate{
		ttl:     ttl,
		pending: make(map[string]*Pending),
		now:     time.Now,
	}
}

// IsSensitive reports whether an action needs confirmation before it
// may execute.
func (g *Gate) IsSensitive(action string) bool {
	_, ok := sensitiveActions[action]
	return ok
}

// Request stores a pending confirmation for the chat, replacing any
// prior one (last request wins), and returns it.
func (g *Gate) Request(chatID, action, argsJSON, worker string) *Pending {
	now := g.now()
	p := &Pending{
		ID:          strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		Action:      action,
		Arguments:   argsJSON,
		Worker:      worker,
		Description: describe(action, argsJSON),
		CreatedAt:   now,
		ExpiresAt:   now.Add(g.ttl),
	}

	g.mu.Lock()
	g.pending[chatID] = p
	g.mu.Unlock()
	return p
}

// Pending returns the chat's unexpired pending action, purging an
// expired one.
func (g *Gate) Pending(chatID string) *Pending {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pendingLocked(chatID)
}

func (g *Gate) pendingLocked(chatID string) *Pending {
	p := g.pending[chatID]
	if p == nil {
		return nil
	}
	if g.now().After(p.ExpiresAt) {
		delete(g.pending, chatID)
		return nil
	}
	return p
}

// Confirm returns and clears the pending action, or nil when nothing
// valid is pending (expired entries count as absent).
func (g *Gate) Confirm(chatID string) *Pending {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.pendingLocked(chatID)
	if p != nil {
		delete(g.pending, chatID)
	}
	return p
}

// Cancel drops the pending action, reporting whether one existed.
func (g *Gate) Cancel(chatID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[chatID]
	delete(g.pending, chatID)
	return ok
}

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// describe renders a human-readable description for a pending action.
// Template placeholders are filled from the arguments; when a field is
// missing the description falls back to a generic key/value listing.
func describe(action, argsJSON string) string {
	template, ok := sensitiveActions[action]
	if !ok {
		template = action
	}

	var args map[string]any
	_ = json.Unmarshal([]byte(argsJSON), &args)

	complete := true
	out := placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		key := ph[1 : len(ph)-1]
		v, ok := args[key]
		if !ok || v == nil {
			complete = false
			return ph
		}
		return fmt.Sprintf("%v", v)
	})
	if complete {
		return out
	}

	// Generic fallback: "Action Name | key: value | ..."
	parts := []string{titleCase(action)}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := args[k]
		if v == nil || v == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return strings.Join(parts, " | ")
}

func titleCase(action string) string {
	words := strings.Split(action, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
