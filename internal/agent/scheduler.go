package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/arjun/majordomo/internal/store"
)

// Messenger is the outbound side of a gateway, used to push scheduled
// output to the user without an inbound message.
type Messenger interface {
	Send(chatID string, text string) error
}

// Scheduler polls for due automations and runs each one through the
// orchestrator as if the user had asked for it.
type Scheduler struct {
	Orchestrator *Orchestrator
	Store        *store.Store
	Gateway      Messenger
	Interval     time.Duration
}

func (s *Scheduler) Start(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("Automation scheduler started...")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollAndExecute(ctx)
		}
	}
}

func (s *Scheduler) pollAndExecute(ctx context.Context) {
	due, err := s.Store.DueAutomations()
	if err != nil {
		log.Printf("Error polling automations: %v", err)
		return
	}

	for _, a := range due {
		log.Printf("Running automation %q for chat %s", a.Name, a.ChatID)

		// Mark first so a long-running task is not picked up again by
		// the next poll.
		if err := s.Store.MarkAutomationRun(a.ID); err != nil {
			log.Printf("Error marking automation %s: %v", a.ID, err)
			continue
		}

		task := fmt.Sprintf("[Scheduled automation %q] %s", a.Name, a.Task)
		reply, err := s.Orchestrator.Process(ctx, a.ChatID, task)
		if err != nil {
			log.Printf("Error running automation %s: %v", a.ID, err)
			continue
		}

		if s.Gateway != nil {
			if err := s.Gateway.Send(a.ChatID, "⏰ "+a.Name+"\n\n"+reply.Text); err != nil {
				log.Printf("Error delivering automation output %s: %v", a.ID, err)
			}
		}
	}
}
