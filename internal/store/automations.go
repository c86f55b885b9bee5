package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const minAutomationInterval = 60

func (s *Store) CreateAutomation(chatID, name, task string, intervalSeconds int) (*Automation, error) {
	if intervalSeconds < minAutomationInterval {
		return nil, fmt.Errorf("minimum automation interval is %d seconds", minAutomationInterval)
	}
	a := &Automation{
		ID:              newID(),
		ChatID:          chatID,
		Name:            name,
		Task:            task,
		IntervalSeconds: intervalSeconds,
		Enabled:         true,
		CreatedAt:       time.Now(),
	}
	_, err := s.DB.Exec(
		`INSERT INTO automations (id, chat_id, name, task, interval_seconds, enabled, last_run, created_at)
		 VALUES (?, ?, ?, ?, ?, 1, NULL, ?)`,
		a.ID, a.ChatID, a.Name, a.Task, a.IntervalSeconds, a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) ListAutomations(chatID string) ([]Automation, error) {
	return s.queryAutomations(
		`SELECT id, chat_id, name, task, interval_seconds, enabled, last_run, created_at
		 FROM automations WHERE chat_id = ? ORDER BY created_at`, chatID)
}

// FindAutomation matches an automation by name for a chat, tolerating
// partial, case-insensitive names ("reprint laundry" -> "laundry").
func (s *Store) FindAutomation(chatID, name string) (*Automation, error) {
	all, err := s.ListAutomations(chatID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	for i := range all {
		if strings.ToLower(all[i].Name) == needle {
			return &all[i], nil
		}
	}
	for i := range all {
		if strings.Contains(strings.ToLower(all[i].Name), needle) ||
			strings.Contains(needle, strings.ToLower(all[i].Name)) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("automation %q not found", name)
}

func (s *Store) DeleteAutomation(id string) error {
	res, err := s.DB.Exec(`DELETE FROM automations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("automation %s not found", id)
	}
	return nil
}

func (s *Store) ToggleAutomation(id string, enabled bool) error {
	res, err := s.DB.Exec(`UPDATE automations SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("automation %s not found", id)
	}
	return nil
}

// DueAutomations returns enabled automations whose interval has
// elapsed since their last run (or that never ran).
func (s *Store) DueAutomations() ([]Automation, error) {
	all, err := s.queryAutomations(
		`SELECT id, chat_id, name, task, interval_seconds, enabled, last_run, created_at
		 FROM automations WHERE enabled = 1 ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var due []Automation
	for _, a := range all {
		if a.LastRun.IsZero() || now.Sub(a.LastRun) >= time.Duration(a.IntervalSeconds)*time.Second {
			due = append(due, a)
		}
	}
	return due, nil
}

func (s *Store) MarkAutomationRun(id string) error {
	_, err := s.DB.Exec(`UPDATE automations SET last_run = ? WHERE id = ?`, time.Now(), id)
	return err
}

// ResetAutomationRun clears the last-run timestamp so the scheduler
// picks the automation up on its next poll.
func (s *Store) ResetAutomationRun(id string) error {
	res, err := s.DB.Exec(`UPDATE automations SET last_run = NULL, enabled = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("automation %s not found", id)
	}
	return nil
}

func (s *Store) queryAutomations(query string, args ...any) ([]Automation, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []Automation
	for rows.Next() {
		var a Automation
		var lastRun sql.NullTime
		if err := rows.Scan(&a.ID, &a.ChatID, &a.Name, &a.Task, &a.IntervalSeconds, &a.Enabled, &lastRun, &a.CreatedAt); err != nil {
			return nil, err
		}
		if lastRun.Valid {
			a.LastRun = lastRun.Time
		}
		automations = append(automations, a)
	}
	return automations, rows.Err()
}
