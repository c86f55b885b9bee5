package actions

import "context"

type chatIDKey struct{}

// WithChatID attaches the originating chat to the context so actions
// that scope records per chat can resolve it.
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, chatIDKey{}, chatID)
}

// ChatIDFrom returns the chat attached by WithChatID, or "".
func ChatIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(chatIDKey{}).(string)
	return id
}
