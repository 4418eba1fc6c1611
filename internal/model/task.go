package model

import (
	"slices"
	"time"
)

// Status tracks where a task sits in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusReopened  Status = "reopened"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Kind categorizes a task within the planning cascade.
type Kind string

const (
	KindMonthlyPlan Kind = "monthly_plan"
	KindWeeklyPlan  Kind = "weekly_plan"
	KindDailyPlan   Kind = "daily_plan"
	KindDailyReport Kind = "daily_report"
	KindActionPlan  Kind = "action_plan"
)

// PeriodKey disambiguates recurring task instances from one another.
// Month is "YYYY-MM"; Week and Day are 1-based, zero when not applicable.
type PeriodKey struct {
	Month string `json:"month,omitempty" yaml:"month,omitempty"`
	Week  int    `json:"week,omitempty" yaml:"week,omitempty"`
	Day   int    `json:"day,omitempty" yaml:"day,omitempty"`
}

// IsZero reports whether no period component is set.
func (p PeriodKey) IsZero() bool {
	return p.Month == "" && p.Week == 0 && p.Day == 0
}

// Task is a unit of work inside a Process. IDs are unique within the
// owning process and allocated by Process.AllocateTaskID.
type Task struct {
	ID             int        `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Kind           Kind       `json:"kind" yaml:"kind"`
	Status         Status     `json:"status" yaml:"status"`
	AssignedRole   string     `json:"assignedRole,omitempty" yaml:"assigned_role,omitempty"`
	AssignedUserID string     `json:"assignedUserId,omitempty" yaml:"assigned_user_id,omitempty"`
	Dependencies   []int      `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Trigger        Trigger    `json:"trigger" yaml:"trigger"`
	DueDateRule    *DueRule   `json:"dueDateRule,omitempty" yaml:"due_date_rule,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	FormID         string     `json:"formId,omitempty" yaml:"form_id,omitempty"`
	FormData       *FormData  `json:"formData,omitempty" yaml:"form_data,omitempty"`
	LastUpdated    time.Time  `json:"lastUpdated" yaml:"last_updated"`
	IsTemplate     bool       `json:"isTemplate,omitempty" yaml:"is_template,omitempty"`
	TemplateID     int        `json:"templateId,omitempty" yaml:"template_id,omitempty"`
	Period         PeriodKey  `json:"period,omitempty" yaml:"period,omitempty"`
}

// DependsOn reports whether id is one of the task's prerequisites.
func (t *Task) DependsOn(id int) bool {
	return slices.Contains(t.Dependencies, id)
}

// Touch stamps the last-updated timestamp. Every status or data
// mutation goes through here.
func (t *Task) Touch(now time.Time) {
	t.LastUpdated = now
}

// SetStatus transitions the task and stamps LastUpdated.
func (t *Task) SetStatus(s Status, now time.Time) {
	t.Status = s
	t.Touch(now)
}
