package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/model"
	"github.com/SujalNimbalkar/task-management/internal/notify"
)

func testLifecycle(clock Clock) (*Lifecycle, *form.MemorySubmissionStore) {
	schemas := form.NewMemorySchemaStore(form.SeedSchemas()...)
	subs := form.NewMemorySubmissionStore()
	gen := NewGenerator(schemas, subs, notify.Discard{}, clock, NewCondition(85), 6, nil)
	return NewLifecycle(schemas, subs, gen, clock), subs
}

func dailyPlanSubmission() *model.FormData {
	fd := model.NewFormData()
	fd.Set("date", "2025-06-02")
	fd.Rows = []model.Row{{Fields: map[string]string{
		"dept_name": "Assembly", "operator_name": "Ravi", "work": "Fit housings",
		"h1_plan": "40", "h2_plan": "40", "ot_plan": "0", "target_qty": "80",
	}}}
	return fd
}

func TestSubmit_DailyPlanParksAtInProcess(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local))
	lc, subs := testLifecycle(clock)

	p := &model.Process{ID: "prod-planning", Tasks: []model.Task{{
		ID:     2001,
		Kind:   model.KindDailyPlan,
		Status: model.StatusPending,
		FormID: form.FormDailyProduction,
		Period: model.PeriodKey{Month: "2025-06", Week: 1, Day: 1},
	}}}

	res, err := lc.Submit(ctx, p, 2001, dailyPlanSubmission(), "op-ravi")
	require.NoError(t, err)
	assert.Empty(t, res.Created, "cascade must wait for approval")

	task := p.FindTask(2001)
	assert.Equal(t, model.StatusInProcess, task.Status)
	require.NotNil(t, task.FormData)
	assert.Equal(t, clock.Now(), task.LastUpdated)

	latest, err := subs.LatestForTask(ctx, 2001)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "80", latest.Rows[0].Field("target_qty"))
}

func TestApprove_RunsCascade(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local))
	lc, _ := testLifecycle(clock)

	p := &model.Process{ID: "prod-planning", Tasks: []model.Task{{
		ID:     2001,
		Kind:   model.KindDailyPlan,
		Status: model.StatusPending,
		FormID: form.FormDailyProduction,
		Period: model.PeriodKey{Month: "2025-06", Week: 1, Day: 1},
	}}}

	_, err := lc.Submit(ctx, p, 2001, dailyPlanSubmission(), "op-ravi")
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	res, err := lc.Approve(ctx, p, 2001)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, p.FindTask(2001).Status)
	require.Len(t, res.Created, 1)
	report := p.FindTask(res.Created[0])
	assert.Equal(t, model.KindDailyReport, report.Kind)
}

func TestApprove_RequiresInProcess(t *testing.T) {
	ctx := context.Background()
	lc, _ := testLifecycle(NewFakeClock(time.Now()))

	p := &model.Process{ID: "p1", Tasks: []model.Task{{
		ID:     1,
		Kind:   model.KindDailyPlan,
		Status: model.StatusPending,
		FormID: form.FormDailyProduction,
	}}}
	_, err := lc.Approve(ctx, p, 1)
	require.ErrorIs(t, err, ErrInvariant)
}

func TestApprove_RequiresFormData(t *testing.T) {
	ctx := context.Background()
	lc, _ := testLifecycle(NewFakeClock(time.Now()))

	p := &model.Process{ID: "p1", Tasks: []model.Task{{
		ID:     1,
		Kind:   model.KindDailyPlan,
		Status: model.StatusInProcess,
		FormID: form.FormDailyProduction,
	}}}
	_, err := lc.Approve(ctx, p, 1)
	require.ErrorIs(t, err, ErrInvariant)
}

func TestSubmit_MonthlyPlanCompletesAndCascades(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(time.Date(2025, 6, 28, 10, 0, 0, 0, time.Local))
	lc, _ := testLifecycle(clock)

	p := &model.Process{ID: "prod-planning", Tasks: []model.Task{{
		ID:     1001,
		Kind:   model.KindMonthlyPlan,
		Status: model.StatusPending,
		FormID: form.FormProductionPlan,
		Period: model.PeriodKey{Month: "2025-06"},
	}}}

	fd := model.NewFormData()
	fd.Set("month_start_date", "2025-06-01")
	fd.Rows = []model.Row{{Fields: map[string]string{
		"item_name": "X", "customer_name": "Acme", "monthly_qty": "100",
	}}}

	res, err := lc.Submit(ctx, p, 1001, fd, "pm-lead")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, p.FindTask(1001).Status)
	assert.Len(t, res.Created, 5)
}

func TestSubmit_RejectsCompletedTask(t *testing.T) {
	ctx := context.Background()
	lc, _ := testLifecycle(NewFakeClock(time.Now()))

	p := &model.Process{ID: "p1", Tasks: []model.Task{{
		ID:     1,
		Kind:   model.KindDailyPlan,
		Status: model.StatusCompleted,
		FormID: form.FormDailyProduction,
	}}}
	_, err := lc.Submit(ctx, p, 1, dailyPlanSubmission(), "op")
	require.ErrorIs(t, err, form.ErrValidation)
}

func TestSubmit_InvalidFormDataRejected(t *testing.T) {
	ctx := context.Background()
	lc, _ := testLifecycle(NewFakeClock(time.Now()))

	p := &model.Process{ID: "p1", Tasks: []model.Task{{
		ID:     1,
		Kind:   model.KindMonthlyPlan,
		Status: model.StatusPending,
		FormID: form.FormProductionPlan,
	}}}

	fd := model.NewFormData()
	// month_start_date missing; monthly_qty not a number.
	fd.Rows = []model.Row{{Fields: map[string]string{
		"item_name": "X", "monthly_qty": "lots",
	}}}
	_, err := lc.Submit(ctx, p, 1, fd, "pm")
	require.ErrorIs(t, err, form.ErrValidation)
	assert.Equal(t, model.StatusPending, p.FindTask(1).Status)
}

func TestRejectAndReopen(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local))
	lc, _ := testLifecycle(clock)

	p := &model.Process{ID: "p1", Tasks: []model.Task{{
		ID:     1,
		Kind:   model.KindDailyPlan,
		Status: model.StatusInProcess,
		FormID: form.FormDailyProduction,
	}}}

	require.NoError(t, lc.Reject(ctx, p, 1))
	assert.Equal(t, model.StatusRejected, p.FindTask(1).Status)

	// Rejecting twice is an error.
	require.ErrorIs(t, lc.Reject(ctx, p, 1), ErrInvariant)

	require.NoError(t, lc.Reopen(ctx, p, 1))
	assert.Equal(t, model.StatusPending, p.FindTask(1).Status)

	// Pending tasks cannot be reopened.
	require.ErrorIs(t, lc.Reopen(ctx, p, 1), ErrInvariant)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	lc, _ := testLifecycle(NewFakeClock(time.Now()))

	p := &model.Process{ID: "p1", Tasks: []model.Task{
		{ID: 1, Status: model.StatusPending},
		{ID: 2, Status: model.StatusCompleted},
	}}
	require.NoError(t, lc.Cancel(ctx, p, 1))
	assert.Equal(t, model.StatusCancelled, p.FindTask(1).Status)
	require.ErrorIs(t, lc.Cancel(ctx, p, 2), ErrInvariant)
}

func TestLifecycle_UnknownTask(t *testing.T) {
	ctx := context.Background()
	lc, _ := testLifecycle(NewFakeClock(time.Now()))
	p := &model.Process{ID: "p1"}

	_, err := lc.Submit(ctx, p, 99, model.NewFormData(), "op")
	require.ErrorIs(t, err, ErrTaskNotFound)
	_, err = lc.Approve(ctx, p, 99)
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.ErrorIs(t, lc.Reject(ctx, p, 99), ErrTaskNotFound)
	require.ErrorIs(t, lc.Reopen(ctx, p, 99), ErrTaskNotFound)
	require.ErrorIs(t, lc.Cancel(ctx, p, 99), ErrTaskNotFound)
}
