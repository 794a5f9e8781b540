package service

import (
	"context"
	"log"
)

// ReminderWorker runs the review reminder batch off the request path.
// Logins enqueue a trigger; the single background goroutine drains it.
type ReminderWorker struct {
	reviews ReviewService
	trigger chan struct{}
	logger  *log.Logger
}

func NewReminderWorker(reviews ReviewService, logger *log.Logger) *ReminderWorker {
	return &ReminderWorker{
		reviews: reviews,
		trigger: make(chan struct{}, 1),
		logger:  logger,
	}
}

// Enqueue requests a reminder run. Never blocks; a trigger already waiting
// covers this request too.
func (w *ReminderWorker) Enqueue() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run processes triggers until the context is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
			if err := w.reviews.SendReminder(); err != nil {
				w.logger.Printf("review reminder run failed: %v", err)
			}
		}
	}
}
