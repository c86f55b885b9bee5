package gateway

import (
	"context"

	"github.com/arjun/majordomo/internal/agent"
)

// Assistant is the conversational surface a gateway drives. The
// orchestrator implements it.
type Assistant interface {
	Process(ctx context.Context, chatID, text string) (agent.Reply, error)
	Confirm(ctx context.Context, chatID string, approved bool) string
}

// Messenger defines the interface for communication gateways.
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}
