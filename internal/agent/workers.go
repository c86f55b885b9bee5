package agent

import (
	"github.com/arjun/majordomo/internal/actions"
	"github.com/arjun/majordomo/internal/governance"
	"github.com/arjun/majordomo/internal/observability"
	"github.com/arjun/majordomo/internal/plan"
	"github.com/arjun/majordomo/internal/reasoning"
	"github.com/arjun/majordomo/internal/store"
)

// WorkerSet holds one configured worker per kind. It is built once at
// startup; registries are fixed for the process lifetime.
type WorkerSet struct {
	byKind  map[plan.WorkerKind]*Worker
	browser *actions.BrowserAction
}

// NewWorkerSet wires every worker kind to its action registry,
// instruction and iteration cap.
func NewWorkerSet(svc reasoning.Service, st *store.Store, gate *governance.Gate, policy governance.PolicyEngine, logger *observability.Logger, spoolDir string) (*WorkerSet, error) {
	search, err := actions.NewSearch()
	if err != nil {
		return nil, err
	}
	browser := actions.NewBrowser()

	registries := map[plan.WorkerKind]*actions.Registry{
		plan.WorkerFinance:     actions.NewRegistry(actions.Finance(st)...),
		plan.WorkerCalendar:    actions.NewRegistry(actions.Calendar(st)...),
		plan.WorkerMemory:      actions.NewRegistry(actions.Memory(st)...),
		plan.WorkerTasks:       actions.NewRegistry(actions.Tasks(st)...),
		plan.WorkerWeb:         actions.NewRegistry(search, actions.NewScraper(), browser),
		plan.WorkerPrint:       actions.NewRegistry(actions.Printer(spoolDir)...),
		plan.WorkerAutomations: actions.NewRegistry(actions.Automations(st)...),
		plan.WorkerGeneral:     actions.NewRegistry(),
	}

	ws := &WorkerSet{
		byKind:  make(map[plan.WorkerKind]*Worker, len(plan.KnownWorkerKinds)),
		browser: browser,
	}
	for _, kind := range plan.KnownWorkerKinds {
		ws.byKind[kind] = &Worker{
			Kind:          kind,
			Instruction:   workerInstructions[kind],
			Registry:      registries[kind],
			MaxIterations: CapFor(kind),
			Service:       svc,
			Gate:          gate,
			Policy:        policy,
			Logger:        logger,
		}
	}
	return ws, nil
}

// Worker returns the worker for a kind, or nil for an unknown kind.
func (ws *WorkerSet) Worker(kind plan.WorkerKind) *Worker {
	return ws.byKind[kind]
}

// Close releases resources held by long-lived actions.
func (ws *WorkerSet) Close() {
	if ws.browser != nil {
		ws.browser.Close()
	}
}
