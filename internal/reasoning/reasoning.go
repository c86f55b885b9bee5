// Package reasoning abstracts the external natural-language decision
// service: given a conversation and a set of declared actions it either
// requests action invocations or produces a final answer.
package reasoning

import (
	"context"
	"errors"
)

// ErrTruncated is returned when the service cut its response off at a
// token limit. Callers must surface this distinctly instead of treating
// it as a normal empty answer.
var ErrTruncated = errors.New("reasoning response was cut off")

// Role identifies who produced a conversation message.
type Role string

const (
	RoleSystem       Role = "system"
	RoleUser         Role = "user"
	RoleAssistant    Role = "assistant"
	RoleActionResult Role = "action_result"
)

// ActionDecl declares one callable action to the reasoning service.
// Parameters is a JSON Schema object, matching the function-calling
// convention of the underlying provider.
type ActionDecl struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ActionRequest is one action invocation the service asked for.
// Arguments is the raw JSON argument string as returned by the model.
type ActionRequest struct {
	ID        string
	Name      string
	Arguments string
}

// Message is one turn of a conversation. Assistant turns may carry the
// action requests they made; action-result turns echo the request id
// and name they answer.
type Message struct {
	Role    Role
	Text    string
	Actions []ActionRequest // assistant turns only

	ActionID   string // action_result turns only
	ActionName string
}

// Completion is the service's decision: either one or more requested
// actions, or a final answer (Actions empty).
type Completion struct {
	FinalText string
	Actions   []ActionRequest
}

// Options tune a single Complete call.
type Options struct {
	// ForceAction requires the service to call the named action
	// instead of answering with text. Used by the planner.
	ForceAction string
	// MaxTokens caps the response size. Zero means provider default.
	MaxTokens int
}

// Service is the reasoning client used by the planner, the workers and
// the synthesizer.
type Service interface {
	Complete(ctx context.Context, conv []Message, actions []ActionDecl, opts Options) (*Completion, error)
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, conv []Message, actions []ActionDecl, opts Options) (*Completion, error)

func (f ServiceFunc) Complete(ctx context.Context, conv []Message, actions []ActionDecl, opts Options) (*Completion, error) {
	return f(ctx, conv, actions, opts)
}
