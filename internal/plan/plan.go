package plan

import (
	"fmt"
	"time"
)

// Status tracks the lifecycle of a single step. Transitions are
// monotonic: Pending -> Running -> Completed or Failed. A step whose
// dependency fails stays Pending until the plan is declared stuck.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// WorkerKind identifies which specialized worker owns a step.
type WorkerKind string

const (
	WorkerFinance     WorkerKind = "finance"
	WorkerCalendar    WorkerKind = "calendar"
	WorkerMemory      WorkerKind = "memory"
	WorkerTasks       WorkerKind = "tasks"
	WorkerWeb         WorkerKind = "web"
	WorkerPrint       WorkerKind = "print"
	WorkerAutomations WorkerKind = "automations"
	WorkerGeneral     WorkerKind = "general"
)

// KnownWorkerKinds lists every kind a planner may assign a step to.
var KnownWorkerKinds = []WorkerKind{
	WorkerFinance,
	WorkerCalendar,
	WorkerMemory,
	WorkerTasks,
	WorkerWeb,
	WorkerPrint,
	WorkerAutomations,
	WorkerGeneral,
}

func isKnownKind(k WorkerKind) bool {
	for _, known := range KnownWorkerKinds {
		if k == known {
			return true
		}
	}
	return false
}

// WorkerResult is what a worker hands back to the orchestrator after
// running a step. It is created once and never mutated afterwards.
type WorkerResult struct {
	Success        bool           `json:"success"`
	Output         string         `json:"output"`
	Data           map[string]any `json:"data,omitempty"`
	Error          string         `json:"error,omitempty"`
	IterationsUsed int            `json:"iterations_used"`
	ActionsInvoked []string       `json:"actions_invoked,omitempty"`

	// Set when the worker hit a sensitive action and deferred it to
	// the confirmation gate instead of executing it.
	RequiresConfirmation    bool   `json:"requires_confirmation,omitempty"`
	ConfirmationDescription string `json:"confirmation_description,omitempty"`
}

// Step is one unit of delegated work inside a plan. The orchestrator
// owns status and timestamps; the assigned worker only produces the
// result.
type Step struct {
	ID                   string        `json:"id"`
	Worker               WorkerKind    `json:"worker"`
	Task                 string        `json:"task"`
	DependsOn            []string      `json:"depends_on,omitempty"`
	RequiresConfirmation bool          `json:"requires_confirmation,omitempty"`
	Status               Status        `json:"status"`
	Result               *WorkerResult `json:"result,omitempty"`
	StartedAt            time.Time     `json:"started_at,omitempty"`
	CompletedAt          time.Time     `json:"completed_at,omitempty"`
}

// Plan is a DAG of steps produced to satisfy one user request.
type Plan struct {
	Goal       string    `json:"goal"`
	Steps      []*Step   `json:"steps"`
	CreatedAt  time.Time `json:"created_at"`
	IsComplete bool      `json:"is_complete"`
}

// New validates and builds a plan. A duplicate step id, a depends_on
// reference to a step outside the plan, or an unknown worker kind is
// a construction error, not runtime state.
func New(goal string, steps []*Step) (*Plan, error) {
	ids := make(map[string]bool, len(steps))
	for _, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("step with empty id")
		}
		if ids[s.ID] {
			return nil, fmt.Errorf("duplicate step id %q", s.ID)
		}
		if !isKnownKind(s.Worker) {
			return nil, fmt.Errorf("step %s: unknown worker kind %q", s.ID, s.Worker)
		}
		ids[s.ID] = true
	}
	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if !ids[dep] {
				return nil, fmt.Errorf("step %s: depends on unknown step %q", s.ID, dep)
			}
			if dep == s.ID {
				return nil, fmt.Errorf("step %s: depends on itself", s.ID)
			}
		}
		if s.Status == "" {
			s.Status = StatusPending
		}
	}
	return &Plan{
		Goal:      goal,
		Steps:     steps,
		CreatedAt: time.Now(),
	}, nil
}

// Step returns the step with the given id, or nil.
func (p *Plan) Step(id string) *Step {
	for _, s := range p.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ReadySteps returns every pending step whose dependencies have all
// completed. A failed dependency never satisfies this, so descendants
// of a failed step stay pending until the plan is declared stuck.
func (p *Plan) ReadySteps() []*Step {
	completed := make(map[string]bool)
	for _, s := range p.Steps {
		if s.Status == StatusCompleted {
			completed[s.ID] = true
		}
	}

	var ready []*Step
	for _, s := range p.Steps {
		if s.Status != StatusPending {
			continue
		}
		ok := true
		for _, dep := range s.DependsOn {
			if !completed[dep] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, s)
		}
	}
	return ready
}

// PendingCount reports how many steps have not started yet.
func (p *Plan) PendingCount() int {
	n := 0
	for _, s := range p.Steps {
		if s.Status == StatusPending {
			n++
		}
	}
	return n
}

// Stuck reports whether pending steps remain but none can ever become
// ready, which happens when a dependency failed.
func (p *Plan) Stuck() bool {
	return len(p.ReadySteps()) == 0 && p.PendingCount() > 0
}

// FailedSteps returns the steps that ended in failure.
func (p *Plan) FailedSteps() []*Step {
	var failed []*Step
	for _, s := range p.Steps {
		if s.Status == StatusFailed {
			failed = append(failed, s)
		}
	}
	return failed
}
