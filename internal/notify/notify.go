package notify

import (
	"context"
	"log"
	"time"
)

// Message describes a task assignment worth telling someone about.
type Message struct {
	ProcessID string
	TaskID    int
	TaskName  string
	Role      string
	DueDate   *time.Time
}

// Sink delivers notifications. Delivery is best-effort and
// fire-and-forget: implementations must not return errors that would
// block task generation.
type Sink interface {
	Notify(ctx context.Context, m Message)
}

// LogSink writes notifications to a logger. It stands in for the real
// email/SMS delivery owned by the notification service.
type LogSink struct {
	l *log.Logger
}

func NewLogSink(l *log.Logger) *LogSink {
	if l == nil {
		l = log.Default()
	}
	return &LogSink{l: l}
}

func (s *LogSink) Notify(ctx context.Context, m Message) {
	due := "none"
	if m.DueDate != nil {
		due = m.DueDate.Format("2006-01-02 15:04")
	}
	s.l.Printf("[notify] task %q (id %d, process %s) assigned to role %q, due %s",
		m.TaskName, m.TaskID, m.ProcessID, m.Role, due)
}

// Discard drops every notification; handy in tests.
type Discard struct{}

func (Discard) Notify(ctx context.Context, m Message) {}
