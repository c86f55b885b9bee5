package reasoning

import (
	"context"
	"fmt"
	"sync"
)

// ScriptTurn is one canned response (or error) for the Script service.
type ScriptTurn struct {
	Completion *Completion
	Err        error
}

// Script is a Service that replays a fixed sequence of completions.
// Tests use it instead of a network-backed model.
type Script struct {
	mu    sync.Mutex
	turns []ScriptTurn

	// Calls records every conversation the script was asked to
	// complete, in order.
	Calls [][]Message
}

func NewScript(turns ...ScriptTurn) *Script {
	return &Script{turns: turns}
}

var _ Service = (*Script)(nil)

// Answer is a convenience turn carrying a final text answer.
func Answer(text string) ScriptTurn {
	return ScriptTurn{Completion: &Completion{FinalText: text}}
}

// Request is a convenience turn carrying requested actions.
func Request(actions ...ActionRequest) ScriptTurn {
	return ScriptTurn{Completion: &Completion{Actions: actions}}
}

// Fail is a convenience turn carrying an error.
func Fail(err error) ScriptTurn {
	return ScriptTurn{Err: err}
}

func (s *Script) Complete(ctx context.Context, conv []Message, actions []ActionDecl, opts Options) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]Message, len(conv))
	copy(copied, conv)
	s.Calls = append(s.Calls, copied)

	if len(s.turns) == 0 {
		return nil, fmt.Errorf("script exhausted after %d calls", len(s.Calls))
	}
	turn := s.turns[0]
	s.turns = s.turns[1:]
	if turn.Err != nil {
		return nil, turn.Err
	}
	return turn.Completion, nil
}
