package actions

import (
	"context"
	"encoding/json"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

type searchAction struct {
	client *duckduckgo.Tool
}

// NewSearch returns the web search action backed by DuckDuckGo.
func NewSearch() (Action, error) {
	ddg, err := duckduckgo.New(10, duckduckgo.DefaultUserAgent)
	if err != nil {
		return nil, err
	}
	return &searchAction{client: ddg}, nil
}

func (s *searchAction) Name() string { return "search" }

func (s *searchAction) Description() string {
	return "Search the web using DuckDuckGo for real-time information."
}

func (s *searchAction) Parameters() map[string]any {
	return Object(map[string]any{
		"query": map[string]any{
			"type":        "string",
			"description": "The search query to look up",
		},
	}, "query")
}

func (s *searchAction) Execute(ctx context.Context, input string) Result {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		return Errorf("invalid input: %v", err)
	}
	res, err := s.client.Call(ctx, args.Query)
	if err != nil {
		return Errorf("search failed: %v", err)
	}
	return OK("%s", res)
}
