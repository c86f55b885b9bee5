package reasoning

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/arjun/majordomo/internal/observability"
)

// LLM adapts a langchaingo chat model to the Service interface.
type LLM struct {
	Model     llms.Model
	ModelName string
	Logger    *observability.Logger
}

func NewLLM(model llms.Model, modelName string, logger *observability.Logger) *LLM {
	return &LLM{Model: model, ModelName: modelName, Logger: logger}
}

var _ Service = (*LLM)(nil)

func (l *LLM) Complete(ctx context.Context, conv []Message, actions []ActionDecl, opts Options) (*Completion, error) {
	messages := toContent(conv)

	var callOpts []llms.CallOption
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if len(actions) > 0 {
		var tools []llms.Tool
		for _, a := range actions {
			tools = append(tools, llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        a.Name,
					Description: a.Description,
					Parameters:  a.Parameters,
				},
			})
		}
		callOpts = append(callOpts, llms.WithTools(tools))
		if opts.ForceAction != "" {
			callOpts = append(callOpts, llms.WithToolChoice(map[string]any{
				"type":     "function",
				"function": map[string]any{"name": opts.ForceAction},
			}))
		}
	}

	resp, err := l.Model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, fmt.Errorf("reasoning call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("reasoning service returned no choices")
	}

	choice := resp.Choices[0]
	l.trackUsage(choice.GenerationInfo)

	if choice.StopReason == "length" {
		return nil, ErrTruncated
	}

	out := &Completion{FinalText: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		out.Actions = append(out.Actions, ActionRequest{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}
	return out, nil
}

func (l *LLM) trackUsage(info map[string]any) {
	if l.Logger == nil || info == nil {
		return
	}
	prompt := intFromInfo(info, "PromptTokens")
	completion := intFromInfo(info, "CompletionTokens")
	if prompt == 0 && completion == 0 {
		return
	}
	l.Logger.LogCost("", "", prompt, completion, l.ModelName)
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func toContent(conv []Message) []llms.MessageContent {
	var messages []llms.MessageContent
	for _, m := range conv {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, m.Text))
		case RoleUser:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, m.Text))
		case RoleAssistant:
			var parts []llms.ContentPart
			if m.Text != "" {
				parts = append(parts, llms.TextContent{Text: m.Text})
			}
			for _, a := range m.Actions {
				parts = append(parts, llms.ToolCall{
					ID:   a.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      a.Name,
						Arguments: a.Arguments,
					},
				})
			}
			messages = append(messages, llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: parts,
			})
		case RoleActionResult:
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: m.ActionID,
						Name:       m.ActionName,
						Content:    m.Text,
					},
				},
			})
		}
	}
	return messages
}
