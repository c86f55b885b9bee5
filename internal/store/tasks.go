package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

var taskPriorities = map[string]bool{"low": true, "medium": true, "high": true}

func (s *Store) CreateTask(title, priority, dueDate, project string) (*Task, error) {
	if priority == "" {
		priority = "medium"
	}
	if !taskPriorities[priority] {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}
	t := &Task{
		ID:        newID(),
		Title:     title,
		Status:    "pending",
		Priority:  priority,
		DueDate:   dueDate,
		Project:   project,
		CreatedAt: time.Now(),
	}
	_, err := s.DB.Exec(
		`INSERT INTO tasks (id, title, status, priority, due_date, project, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Status, t.Priority, t.DueDate, t.Project, t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindTask resolves a task by id, id prefix or title. Title lookup
// tries an exact match first, then a case-insensitive substring match,
// so "groceries" finds "Buy groceries".
func (s *Store) FindTask(ref string) (*Task, error) {
	const cols = `id, title, status, priority, due_date, project, created_at, completed_at`

	t, err := s.scanTask(s.DB.QueryRow(
		`SELECT `+cols+` FROM tasks WHERE id = ? OR id LIKE ?`, ref, ref+"%"))
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	t, err = s.scanTask(s.DB.QueryRow(
		`SELECT `+cols+` FROM tasks WHERE lower(title) = ?`, strings.ToLower(ref)))
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	t, err = s.scanTask(s.DB.QueryRow(
		`SELECT `+cols+` FROM tasks WHERE lower(title) LIKE ? ORDER BY created_at DESC LIMIT 1`,
		"%"+strings.ToLower(ref)+"%"))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %q not found", ref)
	}
	return t, err
}

func (s *Store) CompleteTask(ref string) (*Task, error) {
	t, err := s.FindTask(ref)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if _, err := s.DB.Exec(
		`UPDATE tasks SET status = 'completed', completed_at = ? WHERE id = ?`, now, t.ID); err != nil {
		return nil, err
	}
	t.Status = "completed"
	t.CompletedAt = now
	return t, nil
}

func (s *Store) UpdateTask(ref, title, priority, dueDate, project string) (*Task, error) {
	t, err := s.FindTask(ref)
	if err != nil {
		return nil, err
	}
	if priority != "" && !taskPriorities[priority] {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}
	if title != "" {
		t.Title = title
	}
	if priority != "" {
		t.Priority = priority
	}
	if dueDate != "" {
		t.DueDate = dueDate
	}
	if project != "" {
		t.Project = project
	}
	_, err = s.DB.Exec(
		`UPDATE tasks SET title = ?, priority = ?, due_date = ?, project = ? WHERE id = ?`,
		t.Title, t.Priority, t.DueDate, t.Project, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) DeleteTask(ref string) (*Task, error) {
	t, err := s.FindTask(ref)
	if err != nil {
		return nil, err
	}
	if _, err := s.DB.Exec(`DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTasks filters by status ("pending", "completed" or "" / "all"),
// priority and project, pending-first then newest-first.
func (s *Store) ListTasks(status, priority, project string) ([]Task, error) {
	query := `SELECT id, title, status, priority, due_date, project, created_at, completed_at FROM tasks WHERE 1=1`
	var args []any
	if status != "" && status != "all" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if priority != "" {
		query += ` AND priority = ?`
		args = append(args, priority)
	}
	if project != "" {
		query += ` AND project = ?`
		args = append(args, project)
	}
	query += ` ORDER BY status DESC, created_at DESC`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var completed sql.NullTime
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &t.DueDate, &t.Project, &t.CreatedAt, &completed); err != nil {
			return nil, err
		}
		if completed.Valid {
			t.CompletedAt = completed.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) scanTask(row *sql.Row) (*Task, error) {
	var t Task
	var completed sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &t.DueDate, &t.Project, &t.CreatedAt, &completed)
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		t.CompletedAt = completed.Time
	}
	return &t, nil
}
