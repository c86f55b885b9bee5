// Package actions defines the concrete operations workers may invoke
// and the per-worker registries that hold them.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
)

// Result is the structured outcome of one action invocation. It is the
// only shape that flows back into a worker's conversation.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func OK(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func OKData(message string, data map[string]any) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Errorf(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// JSON renders the result for the reasoning conversation.
func (r Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"error":"unencodable result"}`
	}
	return string(b)
}

// Action is one callable capability. Parameters returns the JSON
// Schema for the action's input; Execute receives the raw JSON
// argument string produced by the reasoning service.
type Action interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, input string) Result
}

// simpleAction binds one action name to its handler. Domain action
// sets are built from these at construction time instead of routing
// through shared name->handler maps.
type simpleAction struct {
	name        string
	description string
	params      map[string]any
	run         func(ctx context.Context, input string) Result
}

func NewAction(name, description string, params map[string]any, run func(ctx context.Context, input string) Result) Action {
	return &simpleAction{name: name, description: description, params: params, run: run}
}

func (a *simpleAction) Name() string               { return a.name }
func (a *simpleAction) Description() string        { return a.description }
func (a *simpleAction) Parameters() map[string]any { return a.params }
func (a *simpleAction) Execute(ctx context.Context, input string) Result {
	return a.run(ctx, input)
}

// Object builds a JSON Schema object declaration for action inputs.
func Object(props map[string]any, required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// Registry is a worker's fixed capability set: an ordered list of
// actions built once at construction. Order is preserved so the
// declared action set is deterministic across runs.
type Registry struct {
	ordered []Action
	byName  map[string]Action
}

func NewRegistry(acts ...Action) *Registry {
	r := &Registry{byName: make(map[string]Action, len(acts))}
	for _, a := range acts {
		if _, dup := r.byName[a.Name()]; dup {
			continue
		}
		r.ordered = append(r.ordered, a)
		r.byName[a.Name()] = a
	}
	return r
}

// List returns the actions in registration order.
func (r *Registry) List() []Action {
	return r.ordered
}

func (r *Registry) Get(name string) Action {
	return r.byName[name]
}

// Invoke executes the named action, returning a failure result for
// names outside this registry.
func (r *Registry) Invoke(ctx context.Context, name, input string) Result {
	a := r.byName[name]
	if a == nil {
		return Errorf("unknown action: %s", name)
	}
	return a.Execute(ctx, input)
}
