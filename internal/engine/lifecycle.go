package engine

import (
	"context"
	"fmt"

	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/model"
)

// Lifecycle owns task status transitions. The guarded transitions are
//
//	pending -> in_process -> completed
//	pending/in_process -> rejected
//	completed/rejected -> reopened -> pending
//
// Every transition stamps LastUpdated from the injected clock.
type Lifecycle struct {
	Schemas     form.SchemaStore
	Submissions form.SubmissionStore
	Generator   *Generator
	Clock       Clock
}

func NewLifecycle(schemas form.SchemaStore, subs form.SubmissionStore, gen *Generator, clock Clock) *Lifecycle {
	if clock == nil {
		clock = RealClock{}
	}
	return &Lifecycle{Schemas: schemas, Submissions: subs, Generator: gen, Clock: clock}
}

// Submit attaches validated form data to a task and advances it.
// Daily plans park at in_process awaiting approval; every other
// form-bearing task completes immediately and runs the cascade.
func (l *Lifecycle) Submit(ctx context.Context, p *model.Process, taskID int, fd *model.FormData, submittedBy string) (Result, error) {
	t := p.FindTask(taskID)
	if t == nil {
		return Result{}, fmt.Errorf("%w: id %d in process %s", ErrTaskNotFound, taskID, p.ID)
	}
	if t.Status == model.StatusCompleted || t.Status == model.StatusCancelled {
		return Result{}, fmt.Errorf("%w: task %d is %s and cannot accept a submission", form.ErrValidation, taskID, t.Status)
	}

	schema, err := l.Schemas.Get(ctx, t.FormID)
	if err != nil {
		return Result{}, fmt.Errorf("submit task %d: %w", taskID, err)
	}
	if err := form.ValidateSubmission(fd, schema); err != nil {
		return Result{}, err
	}

	now := l.Clock.Now()
	t.FormData = fd.Clone()
	if l.Submissions != nil {
		_, err = l.Submissions.Add(ctx, form.Submission{
			ProcessID:   p.ID,
			TaskID:      t.ID,
			FormID:      t.FormID,
			FormData:    fd,
			SubmittedBy: submittedBy,
			SubmittedAt: now,
		})
		if err != nil {
			return Result{}, fmt.Errorf("record submission for task %d: %w", taskID, err)
		}
	}

	if t.Kind == model.KindDailyPlan {
		// Held for plant-head approval; the cascade runs on Approve.
		t.SetStatus(model.StatusInProcess, now)
		return Result{}, nil
	}

	t.SetStatus(model.StatusCompleted, now)
	if l.Generator != nil {
		return l.Generator.OnTaskCompleted(ctx, p, t.ID)
	}
	return Result{}, nil
}

// Approve moves an in_process task to completed and runs the cascade.
// Completing a form-bearing task requires committed form data.
func (l *Lifecycle) Approve(ctx context.Context, p *model.Process, taskID int) (Result, error) {
	t := p.FindTask(taskID)
	if t == nil {
		return Result{}, fmt.Errorf("%w: id %d in process %s", ErrTaskNotFound, taskID, p.ID)
	}
	if t.Status != model.StatusInProcess {
		return Result{}, fmt.Errorf("%w: task %d is %s, not in_process", ErrInvariant, taskID, t.Status)
	}
	if t.FormID != "" && t.FormData == nil {
		return Result{}, fmt.Errorf("%w: task %d has no form data", ErrInvariant, taskID)
	}

	t.SetStatus(model.StatusCompleted, l.Clock.Now())
	if l.Generator != nil {
		return l.Generator.OnTaskCompleted(ctx, p, t.ID)
	}
	return Result{}, nil
}

// Reject sends a pending or in_process task back with a rejection.
func (l *Lifecycle) Reject(ctx context.Context, p *model.Process, taskID int) error {
	t := p.FindTask(taskID)
	if t == nil {
		return fmt.Errorf("%w: id %d in process %s", ErrTaskNotFound, taskID, p.ID)
	}
	if t.Status != model.StatusPending && t.Status != model.StatusInProcess {
		return fmt.Errorf("%w: task %d is %s and cannot be rejected", ErrInvariant, taskID, t.Status)
	}
	t.SetStatus(model.StatusRejected, l.Clock.Now())
	return nil
}

// Reopen puts a completed or rejected task back in play. The task
// passes through reopened and lands on pending, ready for resubmission.
func (l *Lifecycle) Reopen(ctx context.Context, p *model.Process, taskID int) error {
	t := p.FindTask(taskID)
	if t == nil {
		return fmt.Errorf("%w: id %d in process %s", ErrTaskNotFound, taskID, p.ID)
	}
	if t.Status != model.StatusCompleted && t.Status != model.StatusRejected {
		return fmt.Errorf("%w: task %d is %s and cannot be reopened", ErrInvariant, taskID, t.Status)
	}
	now := l.Clock.Now()
	t.SetStatus(model.StatusReopened, now)
	t.SetStatus(model.StatusPending, now)
	return nil
}

// Cancel removes a task from play without deleting it.
func (l *Lifecycle) Cancel(ctx context.Context, p *model.Process, taskID int) error {
	t := p.FindTask(taskID)
	if t == nil {
		return fmt.Errorf("%w: id %d in process %s", ErrTaskNotFound, taskID, p.ID)
	}
	if t.Status == model.StatusCompleted {
		return fmt.Errorf("%w: task %d is already completed", ErrInvariant, taskID)
	}
	t.SetStatus(model.StatusCancelled, l.Clock.Now())
	return nil
}
