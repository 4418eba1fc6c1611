package engine

import (
	"context"
	"testing"
	"time"

	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/model"
)

func gatingProcess() *model.Process {
	return &model.Process{
		ID: "p1",
		Tasks: []model.Task{
			{ID: 1, Status: model.StatusCompleted},
			{ID: 2, Status: model.StatusCompleted},
			{ID: 3, Status: model.StatusPending, Dependencies: []int{1, 2}},
		},
	}
}

func TestIsEligible_DependencyGating(t *testing.T) {
	r := NewResolver(nil, NewCondition(85))
	ctx := context.Background()

	p := gatingProcess()
	if !r.IsEligible(ctx, p, p.FindTask(3)) {
		t.Fatalf("expected task to be eligible when both dependencies completed")
	}

	p.FindTask(2).Status = model.StatusPending
	if r.IsEligible(ctx, p, p.FindTask(3)) {
		t.Fatalf("expected task ineligible after a dependency flipped back to pending")
	}
}

func TestIsEligible_EmptyDependencies(t *testing.T) {
	r := NewResolver(nil, NewCondition(85))
	p := &model.Process{ID: "p1", Tasks: []model.Task{{ID: 1, Status: model.StatusPending}}}

	if !r.IsEligible(context.Background(), p, p.FindTask(1)) {
		t.Fatalf("expected empty dependency set to be immediately eligible")
	}
}

func TestIsEligible_MissingDependencyFailsClosed(t *testing.T) {
	r := NewResolver(nil, NewCondition(85))
	p := &model.Process{ID: "p1", Tasks: []model.Task{
		{ID: 1, Status: model.StatusPending, Dependencies: []int{99}},
	}}

	if r.IsEligible(context.Background(), p, p.FindTask(1)) {
		t.Fatalf("expected dangling dependency id to yield ineligible")
	}
}

func TestIsEligible_ConditionalTrigger(t *testing.T) {
	ctx := context.Background()
	subs := form.NewMemorySubmissionStore()
	r := NewResolver(subs, NewCondition(85))

	p := &model.Process{
		ID: "p1",
		Tasks: []model.Task{
			{ID: 10, Status: model.StatusCompleted, Kind: model.KindDailyReport},
			{
				ID:           11,
				Status:       model.StatusPending,
				Kind:         model.KindActionPlan,
				Dependencies: []int{10},
				Trigger:      model.NewEventTrigger(model.EventCompletedAndCondition, 10),
			},
		},
	}

	// No submission yet: fail closed.
	if r.IsEligible(ctx, p, p.FindTask(11)) {
		t.Fatalf("expected action plan ineligible without report data")
	}

	fd := &model.FormData{Rows: []model.Row{reportRow("200", "150")}}
	if _, err := subs.Add(ctx, form.Submission{TaskID: 10, FormData: fd, SubmittedAt: time.Now()}); err != nil {
		t.Fatalf("add submission: %v", err)
	}
	if !r.IsEligible(ctx, p, p.FindTask(11)) {
		t.Fatalf("expected action plan eligible once the report shows 75%% achievement")
	}

	// A newer, healthy submission withdraws eligibility.
	good := &model.FormData{Rows: []model.Row{reportRow("200", "195")}}
	if _, err := subs.Add(ctx, form.Submission{TaskID: 10, FormData: good, SubmittedAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("add submission: %v", err)
	}
	if r.IsEligible(ctx, p, p.FindTask(11)) {
		t.Fatalf("expected action plan ineligible after a passing resubmission")
	}
}
