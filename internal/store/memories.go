package store

import (
	"fmt"
	"strings"
	"time"
)

func (s *Store) AddMemory(content, category string, importance float64, source string) (*Memory, error) {
	if category == "" {
		category = "general"
	}
	if importance <= 0 {
		importance = 0.5
	}
	m := &Memory{
		ID:         newID(),
		Content:    content,
		Category:   category,
		Importance: importance,
		Source:     source,
		CreatedAt:  time.Now(),
	}
	_, err := s.DB.Exec(
		`INSERT INTO memories (id, content, category, importance, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Content, m.Category, m.Importance, m.Source, m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// SearchMemories does a keyword match over stored memories, most
// important and most recent first.
func (s *Store) SearchMemories(query string, limit int) ([]Memory, error) {
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.DB.Query(
		`SELECT id, content, category, importance, source, created_at FROM memories
		 WHERE lower(content) LIKE ? ORDER BY importance DESC, created_at DESC LIMIT ?`,
		pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		var m Memory
		if err := rows.Scan(&m.ID, &m.Content, &m.Category, &m.Importance, &m.Source, &m.CreatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// RecallContext builds a bounded text excerpt of relevant memories for
// injection into a reasoning conversation. Returns "" when nothing
// relevant is stored.
func (s *Store) RecallContext(query string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = 1200
	}

	var matched []Memory
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) < 4 {
			continue
		}
		found, err := s.SearchMemories(word, 3)
		if err != nil {
			return "", err
		}
		for _, m := range found {
			if !seen[m.ID] {
				seen[m.ID] = true
				matched = append(matched, m)
			}
		}
	}

	var b strings.Builder
	for _, m := range matched {
		line := fmt.Sprintf("- [%s] %s\n", m.Category, m.Content)
		if b.Len()+len(line) > maxChars {
			break
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
