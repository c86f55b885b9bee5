// Package scratchpad is the durable working memory shared across plan
// steps and conversation turns: the active plan, recent step results,
// session notes and derived user context.
package scratchpad

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arjun/majordomo/internal/plan"
)

const (
	maxStepHistory  = 50
	maxSessionNotes = 20
)

// StepRecord is the durable trace of one executed step.
type StepRecord struct {
	StepID    string            `json:"step_id"`
	Worker    plan.WorkerKind   `json:"worker"`
	Task      string            `json:"task"`
	Result    plan.WorkerResult `json:"result"`
	Timestamp time.Time         `json:"timestamp"`
}

// Note is a free-form observation the agent keeps for itself.
type Note struct {
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// StepContext is what a worker gets to see before running a step:
// the plan goal, the results of the step's own dependencies (sibling
// results are not leaked), recent notes and user context.
type StepContext struct {
	Goal            string
	PreviousResults []StepRecord
	RecentNotes     []Note
	UserContext     map[string]any
}

// document is the single persisted state record, rewritten atomically
// on every mutation.
type document struct {
	ActivePlan  *plan.Plan     `json:"active_plan,omitempty"`
	StepHistory []StepRecord   `json:"step_history"`
	Notes       []Note         `json:"session_notes"`
	UserContext map[string]any `json:"user_context"`
	LastUpdated time.Time      `json:"last_updated"`
}

type Scratchpad struct {
	mu   sync.Mutex
	path string

	activePlan  *plan.Plan
	planRecords []StepRecord // records for the active plan only
	stepHistory []StepRecord
	notes       []Note
	userContext map[string]any
}

// Open loads persisted state from dir/state.json. A plan persisted by
// a previous process lifetime is deliberately not resumed; notes, user
// context and step history survive restarts.
func Open(dir string) (*Scratchpad, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	sp := &Scratchpad{
		path:        filepath.Join(dir, "state.json"),
		userContext: make(map[string]any),
	}

	data, err := os.ReadFile(sp.path)
	if err != nil {
		if os.IsNotExist(err) {
			return sp, nil
		}
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt state file starts the pad fresh rather than
		// blocking startup.
		return sp, nil
	}
	sp.stepHistory = doc.StepHistory
	sp.notes = doc.Notes
	if doc.UserContext != nil {
		sp.userContext = doc.UserContext
	}
	return sp, nil
}

func (sp *Scratchpad) SetPlan(p *plan.Plan) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.activePlan = p
	sp.planRecords = nil
	sp.persistLocked()
}

func (sp *Scratchpad) ClearPlan() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.activePlan = nil
	sp.planRecords = nil
	sp.persistLocked()
}

func (sp *Scratchpad) ActivePlan() *plan.Plan {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.activePlan
}

// RecordStepResult appends a step's result to the active plan's
// records and to the bounded durable history.
func (sp *Scratchpad) RecordStepResult(step *plan.Step, result plan.WorkerResult) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	rec := StepRecord{
		StepID:    step.ID,
		Worker:    step.Worker,
		Task:      step.Task,
		Result:    result,
		Timestamp: time.Now(),
	}
	sp.planRecords = append(sp.planRecords, rec)
	sp.stepHistory = append(sp.stepHistory, rec)
	if len(sp.stepHistory) > maxStepHistory {
		sp.stepHistory = sp.stepHistory[len(sp.stepHistory)-maxStepHistory:]
	}
	sp.persistLocked()
}

// ContextForStep exposes only the results of the step's declared
// dependencies, never sibling or unrelated step output.
func (sp *Scratchpad) ContextForStep(step *plan.Step) StepContext {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	ctx := StepContext{
		UserContext: copyMap(sp.userContext),
	}
	if sp.activePlan != nil {
		ctx.Goal = sp.activePlan.Goal
	}

	deps := make(map[string]bool, len(step.DependsOn))
	for _, d := range step.DependsOn {
		deps[d] = true
	}
	for _, rec := range sp.planRecords {
		if deps[rec.StepID] {
			ctx.PreviousResults = append(ctx.PreviousResults, rec)
		}
	}

	n := len(sp.notes)
	start := n - 5
	if start < 0 {
		start = 0
	}
	ctx.RecentNotes = append(ctx.RecentNotes, sp.notes[start:n]...)
	return ctx
}

// PlanResults returns every record of the active plan, in execution
// order, for synthesis.
func (sp *Scratchpad) PlanResults() []StepRecord {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	out := make([]StepRecord, len(sp.planRecords))
	copy(out, sp.planRecords)
	return out
}

// StepHistory returns the durable bounded history of executed steps.
func (sp *Scratchpad) StepHistory() []StepRecord {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	out := make([]StepRecord, len(sp.stepHistory))
	copy(out, sp.stepHistory)
	return out
}

func (sp *Scratchpad) AddNote(text, category string) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if category == "" {
		category = "observation"
	}
	sp.notes = append(sp.notes, Note{Text: text, Category: category, Timestamp: time.Now()})
	if len(sp.notes) > maxSessionNotes {
		sp.notes = sp.notes[len(sp.notes)-maxSessionNotes:]
	}
	sp.persistLocked()
}

func (sp *Scratchpad) SetUserContext(key string, value any) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.userContext[key] = value
	sp.persistLocked()
}

func (sp *Scratchpad) UserContext(key string) (any, bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	v, ok := sp.userContext[key]
	return v, ok
}

// Reset wipes everything, including durable state.
func (sp *Scratchpad) Reset() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.activePlan = nil
	sp.planRecords = nil
	sp.stepHistory = nil
	sp.notes = nil
	sp.userContext = make(map[string]any)
	sp.persistLocked()
}

// persistLocked rewrites the whole state document atomically: write
// to a temp file in the same directory, then rename over the old one.
// Persistence failure is not fatal to the caller's operation.
func (sp *Scratchpad) persistLocked() {
	doc := document{
		ActivePlan:  sp.activePlan,
		StepHistory: sp.stepHistory,
		Notes:       sp.notes,
		UserContext: sp.userContext,
		LastUpdated: time.Now(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	tmp := sp.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return
	}
	_ = os.Rename(tmp, sp.path)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
