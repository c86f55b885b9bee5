package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateEvent(title string, start time.Time, durationMin int, description string, reminder bool) (*Event, error) {
	if durationMin <= 0 {
		durationMin = 60
	}
	ev := &Event{
		ID:          newID(),
		Title:       title,
		Start:       start,
		DurationMin: durationMin,
		Description: description,
		Reminder:    reminder,
	}
	_, err := s.DB.Exec(
		`INSERT INTO events (id, title, start, duration_min, description, reminder) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Start, ev.DurationMin, ev.Description, ev.Reminder)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// UpcomingEvents returns events starting within the next given days.
func (s *Store) UpcomingEvents(days, max int) ([]Event, error) {
	if days <= 0 {
		days = 7
	}
	if max <= 0 {
		max = 10
	}
	now := time.Now()
	until := now.AddDate(0, 0, days)
	return s.queryEvents(
		`SELECT id, title, start, duration_min, description, reminder FROM events
		 WHERE start >= ? AND start < ? ORDER BY start LIMIT ?`,
		now, until, max)
}

// TodaySchedule returns events starting today, past or future.
func (s *Store) TodaySchedule() ([]Event, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return s.queryEvents(
		`SELECT id, title, start, duration_min, description, reminder FROM events
		 WHERE start >= ? AND start < ? ORDER BY start`,
		dayStart, dayEnd)
}

func (s *Store) DeleteEvent(id string) error {
	res, err := s.DB.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

func (s *Store) queryEvents(query string, args ...any) ([]Event, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Start, &e.DurationMin, &e.Description, &e.Reminder); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
