package store

import (
	"github.com/arjun/majordomo/internal/reasoning"
)

func (s *Store) AddMessage(chatID, role, content string) error {
	_, err := s.DB.Exec(`INSERT INTO messages (chat_id, role, content) VALUES (?, ?, ?)`,
		chatID, role, content)
	return err
}

// RecentHistory returns the last limit turns for a chat in
// chronological order, ready to splice into a reasoning conversation.
func (s *Store) RecentHistory(chatID string, limit int) ([]reasoning.Message, error) {
	rows, err := s.DB.Query(
		`SELECT role, content FROM messages WHERE chat_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []reasoning.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}

		msgRole := reasoning.RoleUser
		if role == "assistant" {
			msgRole = reasoning.RoleAssistant
		}
		history = append(history, reasoning.Message{Role: msgRole, Text: content})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}
