package engine

import (
	"context"

	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/model"
)

// Resolver answers whether a task's prerequisites are satisfied. It is
// a pure query over the process document plus (for conditional event
// triggers) the latest form submission of the source task.
type Resolver struct {
	Submissions form.SubmissionStore
	Condition   Condition
}

func NewResolver(subs form.SubmissionStore, cond Condition) *Resolver {
	return &Resolver{Submissions: subs, Condition: cond}
}

// IsEligible reports whether a task can begin. Unresolved dependency
// IDs yield false rather than an error: the graph is user data and a
// dangling reference just means "not yet".
func (r *Resolver) IsEligible(ctx context.Context, p *model.Process, t *model.Task) bool {
	for _, depID := range t.Dependencies {
		dep := p.FindTask(depID)
		if dep == nil || dep.Status != model.StatusCompleted {
			return false
		}
	}

	if t.Trigger.Type == model.TriggerEvent && t.Trigger.Event != nil &&
		t.Trigger.Event.Event == model.EventCompletedAndCondition {
		return r.conditionHolds(ctx, p, t.Trigger.Event.SourceTaskID)
	}
	return true
}

func (r *Resolver) conditionHolds(ctx context.Context, p *model.Process, sourceID int) bool {
	source := p.FindTask(sourceID)
	if source == nil || source.Status != model.StatusCompleted {
		return false
	}
	fd := source.FormData
	if r.Submissions != nil {
		latest, err := r.Submissions.LatestForTask(ctx, sourceID)
		if err == nil && latest != nil {
			fd = latest
		}
	}
	return r.Condition.BelowThreshold(fd)
}
