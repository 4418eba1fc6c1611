package model

import "time"

// TriggerType discriminates the trigger variants.
type TriggerType string

const (
	TriggerTime   TriggerType = "time"
	TriggerEvent  TriggerType = "event"
	TriggerManual TriggerType = "manual"
)

// Recurrence is the cadence of a time trigger.
type Recurrence string

const (
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Event names a condition an event trigger waits on.
type Event string

const (
	// EventTaskCompleted fires as soon as the source task completes.
	EventTaskCompleted Event = "task_completed"
	// EventCompletedAndCondition additionally requires the threshold
	// predicate to hold against the source task's latest submission.
	EventCompletedAndCondition Event = "task_completed_and_condition_satisfied"
)

// TimeTrigger re-arms a task on a recurrence boundary. TimeOfDay
// ("HH:MM", optional) holds monthly materialization back until that
// local time on the trigger day.
type TimeTrigger struct {
	Recurrence Recurrence `json:"recurrence" yaml:"recurrence"`
	DayOfMonth int        `json:"dayOfMonth,omitempty" yaml:"day_of_month,omitempty"`
	TimeOfDay  string     `json:"timeOfDay,omitempty" yaml:"time_of_day,omitempty"`
}

// EventTrigger arms a task when something happens to another task.
type EventTrigger struct {
	Event        Event `json:"event" yaml:"event"`
	SourceTaskID int   `json:"sourceTaskId" yaml:"source_task_id"`
}

// Trigger is a tagged union: exactly one variant pointer is non-nil for
// time and event triggers; manual triggers carry no payload.
type Trigger struct {
	Type  TriggerType   `json:"type" yaml:"type"`
	Time  *TimeTrigger  `json:"time,omitempty" yaml:"time,omitempty"`
	Event *EventTrigger `json:"event,omitempty" yaml:"event,omitempty"`
}

func NewTimeTrigger(r Recurrence, dayOfMonth int) Trigger {
	return Trigger{Type: TriggerTime, Time: &TimeTrigger{Recurrence: r, DayOfMonth: dayOfMonth}}
}

func NewEventTrigger(e Event, sourceTaskID int) Trigger {
	return Trigger{Type: TriggerEvent, Event: &EventTrigger{Event: e, SourceTaskID: sourceTaskID}}
}

func NewManualTrigger() Trigger {
	return Trigger{Type: TriggerManual}
}

// DueRuleType discriminates due-date rules.
type DueRuleType string

const (
	DueFixedDays           DueRuleType = "fixed_days"
	DueEndOfMonthMinusDays DueRuleType = "end_of_month_minus_days"
)

// DueRule computes a task's due date relative to the period it covers.
type DueRule struct {
	Type DueRuleType `json:"type" yaml:"type"`
	Days int         `json:"days" yaml:"days"`
}

// dueHour/dueMinute: generated plan deadlines land at 13:45 local time,
// before the afternoon shift handover.
const (
	dueHour   = 13
	dueMinute = 45
)

// DueAt resolves the rule against the first day of the period the task
// covers. Unknown rule types yield the zero time.
func (r DueRule) DueAt(periodStart time.Time) time.Time {
	switch r.Type {
	case DueFixedDays:
		d := periodStart.AddDate(0, 0, r.Days)
		return time.Date(d.Year(), d.Month(), d.Day(), dueHour, dueMinute, 0, 0, periodStart.Location())
	case DueEndOfMonthMinusDays:
		// Day zero of the next month is the last day of this month.
		last := time.Date(periodStart.Year(), periodStart.Month()+1, 0, dueHour, dueMinute, 0, 0, periodStart.Location())
		return last.AddDate(0, 0, -r.Days)
	default:
		return time.Time{}
	}
}
