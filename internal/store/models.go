package store

import "time"

// Loan is one recorded debt. Direction is "i_owe" when the user owes
// the person, "they_owe" when the person owes the user.
type Loan struct {
	ID        string    `json:"id"`
	Person    string    `json:"person"`
	Amount    float64   `json:"amount"`
	Direction string    `json:"direction"`
	Note      string    `json:"note,omitempty"`
	Settled   bool      `json:"settled"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a saved piece of writing, addressable by title.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a calendar entry. Reminder events are surfaced to the user
// through the gateway when they come due.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	DurationMin int       `json:"duration_min"`
	Description string    `json:"description,omitempty"`
	Reminder    bool      `json:"reminder"`
}

// Automation is a named recurring task executed by the scheduler and
// routed through the orchestrator like a normal request.
type Automation struct {
	ID              string    `json:"id"`
	ChatID          string    `json:"chat_id"`
	Name            string    `json:"name"`
	Task            string    `json:"task"`
	IntervalSeconds int       `json:"interval_seconds"`
	Enabled         bool      `json:"enabled"`
	LastRun         time.Time `json:"last_run"`
	CreatedAt       time.Time `json:"created_at"`
}

// Task is one to-do item. Completed tasks keep their record so "what
// did I finish" stays answerable.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"` // "pending" or "completed"
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date,omitempty"`
	Project     string    `json:"project,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Memory is one long-term fact kept for recall context.
type Memory struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Importance float64   `json:"importance"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
