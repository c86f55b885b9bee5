package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func (s *Store) CreateNote(title, content, tags string) (*Note, error) {
	now := time.Now()
	note := &Note{
		ID:        newID(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.DB.Exec(
		`INSERT INTO notes (id, title, content, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.Title, note.Content, note.Tags, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote finds a note by title, falling back to a case-insensitive
// substring match when no exact title exists.
func (s *Store) GetNote(title string) (*Note, error) {
	note, err := s.scanNote(s.DB.QueryRow(
		`SELECT id, title, content, tags, created_at, updated_at FROM notes WHERE title = ?`, title))
	if err == nil {
		return note, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	note, err = s.scanNote(s.DB.QueryRow(
		`SELECT id, title, content, tags, created_at, updated_at FROM notes
		 WHERE lower(title) LIKE ? ORDER BY updated_at DESC LIMIT 1`,
		"%"+strings.ToLower(title)+"%"))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("note %q not found", title)
	}
	return note, err
}

func (s *Store) scanNote(row *sql.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Tags, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote replaces or appends to a note's content.
func (s *Store) UpdateNote(title, content string, appendContent bool) (*Note, error) {
	note, err := s.GetNote(title)
	if err != nil {
		return nil, err
	}
	if appendContent {
		note.Content = note.Content + "\n" + content
	} else {
		note.Content = content
	}
	note.UpdatedAt = time.Now()
	_, err = s.DB.Exec(`UPDATE notes SET content = ?, updated_at = ? WHERE id = ?`,
		note.Content, note.UpdatedAt, note.ID)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Store) DeleteNote(title string) error {
	note, err := s.GetNote(title)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(`DELETE FROM notes WHERE id = ?`, note.ID)
	return err
}

func (s *Store) ListNotes() ([]Note, error) {
	return s.queryNotes(`SELECT id, title, content, tags, created_at, updated_at FROM notes ORDER BY updated_at DESC`)
}

func (s *Store) SearchNotes(query string) ([]Note, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	return s.queryNotes(
		`SELECT id, title, content, tags, created_at, updated_at FROM notes
		 WHERE lower(title) LIKE ? OR lower(content) LIKE ? OR lower(tags) LIKE ?
		 ORDER BY updated_at DESC`,
		pattern, pattern, pattern)
}

func (s *Store) queryNotes(query string, args ...any) ([]Note, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Tags, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
