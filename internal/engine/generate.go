package engine

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/model"
	"github.com/SujalNimbalkar/task-management/internal/notify"
)

// Generator derives new task instances from completed plan tasks,
// maintaining the monthly -> weekly -> daily -> report -> action-plan
// cascade. Generation is idempotent: re-running for an already
// materialized (parent, period) pair updates in place and never
// duplicates.
type Generator struct {
	Schemas     form.SchemaStore
	Submissions form.SubmissionStore
	Notifier    notify.Sink
	Clock       Clock
	Condition   Condition
	// WorkingDays caps daily plans per week (default 6).
	WorkingDays int
	Logger      *log.Logger
}

func NewGenerator(schemas form.SchemaStore, subs form.SubmissionStore, sink notify.Sink, clock Clock, cond Condition, workingDays int, logger *log.Logger) *Generator {
	if sink == nil {
		sink = notify.Discard{}
	}
	if clock == nil {
		clock = RealClock{}
	}
	if workingDays <= 0 {
		workingDays = 6
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		Schemas:     schemas,
		Submissions: subs,
		Notifier:    sink,
		Clock:       clock,
		Condition:   cond,
		WorkingDays: workingDays,
		Logger:      logger,
	}
}

// Result reports what one generation pass did to a process.
type Result struct {
	Created []int
	Updated []int
	Rearmed []int
	// ActionPlanSkipped is set when a report completed but the
	// threshold predicate did not hold.
	ActionPlanSkipped bool
}

// OnTaskCompleted runs the cascade for a just-completed task and then
// re-arms any dependents whose prerequisites are now satisfied. The
// process is mutated in memory; the caller owns the save.
func (g *Generator) OnTaskCompleted(ctx context.Context, p *model.Process, completedID int) (Result, error) {
	var res Result

	if err := ValidateGraph(p); err != nil {
		return res, err
	}
	completed := p.FindTask(completedID)
	if completed == nil {
		return res, fmt.Errorf("%w: id %d in process %s", ErrTaskNotFound, completedID, p.ID)
	}
	if completed.Status != model.StatusCompleted {
		return res, nil
	}

	var err error
	switch completed.Kind {
	case model.KindMonthlyPlan:
		err = g.generateWeekly(ctx, p, completed, &res)
	case model.KindWeeklyPlan:
		err = g.generateDaily(ctx, p, completed, &res)
	case model.KindDailyPlan:
		err = g.generateReport(ctx, p, completed, &res)
	case model.KindDailyReport:
		err = g.generateActionPlan(ctx, p, completed, &res)
	}
	if err != nil {
		return res, err
	}

	g.rearmDependents(ctx, p, completed, &res)
	return res, nil
}

// generateWeekly partitions the planned month into calendar weeks and
// upserts one weekly plan per week, pre-filled from the monthly rows.
func (g *Generator) generateWeekly(ctx context.Context, p *model.Process, monthly *model.Task, res *Result) error {
	monthStart, err := g.monthStartOf(monthly)
	if err != nil {
		return err
	}
	schema, err := g.Schemas.Get(ctx, form.FormProductionPlan)
	if err != nil {
		return fmt.Errorf("weekly generation for task %d: %w", monthly.ID, err)
	}

	now := g.Clock.Now()
	monthKey := MonthKey(monthStart)
	for _, week := range WeeksInMonth(monthStart, g.WorkingDays) {
		period := model.PeriodKey{Month: monthKey, Week: week.Number}
		name := fmt.Sprintf("Weekly Production Plan - Week %d (%s)", week.Number, week.DateRange())

		fd, _ := Propagate(monthly.FormData, schema, PropagateOptions{
			ExcludeHeader: []string{"week_number", "week_dates"},
			SetHeader: map[string]string{
				"week_number": strconv.Itoa(week.Number),
				"week_dates":  week.DateRange(),
			},
		})

		existing := p.FindInstance(model.KindWeeklyPlan, monthly.ID, period)
		if existing == nil {
			t := p.AddTask(model.Task{
				ID:           p.AllocateTaskID(),
				Name:         name,
				Kind:         model.KindWeeklyPlan,
				Status:       model.StatusPending,
				AssignedRole: monthly.AssignedRole,
				Dependencies: []int{monthly.ID},
				Trigger:      model.NewEventTrigger(model.EventTaskCompleted, monthly.ID),
				FormID:       form.FormProductionPlan,
				FormData:     fd,
				Period:       period,
			})
			t.Touch(now)
			res.Created = append(res.Created, t.ID)
			g.notifyTask(ctx, p, t)
		} else {
			existing.Name = name
			if existing.FormData == nil {
				existing.FormData = fd
			}
			existing.SetStatus(model.StatusPending, now)
			res.Updated = append(res.Updated, existing.ID)
		}
	}
	return nil
}

// generateDaily upserts one daily plan per working day of the
// completed weekly plan's week.
func (g *Generator) generateDaily(ctx context.Context, p *model.Process, weekly *model.Task, res *Result) error {
	monthStart, err := g.monthStartOf(weekly)
	if err != nil {
		return err
	}
	weekNumber := weekly.Period.Week
	if weekNumber == 0 {
		if n, err := strconv.Atoi(weekly.FormData.Get("week_number")); err == nil {
			weekNumber = n
		} else {
			weekNumber = 1
		}
	}

	days := g.WorkingDays
	if week, ok := WeekByNumber(WeeksInMonth(monthStart, g.WorkingDays), weekNumber); ok {
		days = week.WorkingDays
	}

	now := g.Clock.Now()
	monthKey := MonthKey(monthStart)
	for day := 1; day <= days; day++ {
		period := model.PeriodKey{Month: monthKey, Week: weekNumber, Day: day}
		name := fmt.Sprintf("Daily Production Plan - Week %d Day %d", weekNumber, day)

		existing := p.FindInstance(model.KindDailyPlan, weekly.ID, period)
		if existing == nil {
			t := p.AddTask(model.Task{
				ID:           p.AllocateTaskID(),
				Name:         name,
				Kind:         model.KindDailyPlan,
				Status:       model.StatusPending,
				AssignedRole: weekly.AssignedRole,
				Dependencies: []int{weekly.ID},
				Trigger:      model.NewEventTrigger(model.EventTaskCompleted, weekly.ID),
				FormID:       form.FormDailyProduction,
				Period:       period,
			})
			t.Touch(now)
			res.Created = append(res.Created, t.ID)
			g.notifyTask(ctx, p, t)
		} else {
			existing.Name = name
			existing.SetStatus(model.StatusPending, now)
			res.Updated = append(res.Updated, existing.ID)
		}
	}
	return nil
}

// generateReport upserts the daily report for an approved daily plan,
// with plan fields locked read-only and report fields left empty.
func (g *Generator) generateReport(ctx context.Context, p *model.Process, plan *model.Task, res *Result) error {
	schema, err := g.Schemas.Get(ctx, form.FormDailyProduction)
	if err != nil {
		return fmt.Errorf("report generation for task %d: %w", plan.ID, err)
	}

	now := g.Clock.Now()
	period := plan.Period
	name := fmt.Sprintf("Daily Production Report - Week %d Day %d", period.Week, period.Day)
	fd, _ := Propagate(plan.FormData, schema, PropagateOptions{})

	existing := p.FindInstance(model.KindDailyReport, plan.ID, period)
	if existing == nil {
		t := p.AddTask(model.Task{
			ID:           p.AllocateTaskID(),
			Name:         name,
			Kind:         model.KindDailyReport,
			Status:       model.StatusPending,
			AssignedRole: plan.AssignedRole,
			Dependencies: []int{plan.ID},
			Trigger:      model.NewEventTrigger(model.EventTaskCompleted, plan.ID),
			FormID:       form.FormDailyProduction,
			FormData:     fd,
			Period:       period,
		})
		t.Touch(now)
		res.Created = append(res.Created, t.ID)
		g.notifyTask(ctx, p, t)
	} else {
		existing.Name = name
		// Pre-fill only while untouched; never clobber a report in
		// progress.
		if existing.FormData == nil || len(existing.FormData.Rows) == 0 {
			existing.FormData = fd
		}
		existing.SetStatus(model.StatusPending, now)
		res.Updated = append(res.Updated, existing.ID)
	}
	return nil
}

// generateActionPlan conditionally spawns an action plan when the
// completed report shows achievement below threshold. Only rows below
// the threshold carry over, with their achievement pre-computed.
func (g *Generator) generateActionPlan(ctx context.Context, p *model.Process, report *model.Task, res *Result) error {
	fd := report.FormData
	if g.Submissions != nil {
		if latest, err := g.Submissions.LatestForTask(ctx, report.ID); err == nil && latest != nil {
			fd = latest
		}
	}
	if !g.Condition.BelowThreshold(fd) {
		res.ActionPlanSkipped = true
		return nil
	}

	schema, err := g.Schemas.Get(ctx, form.FormActionPlan)
	if err != nil {
		return fmt.Errorf("action plan generation for task %d: %w", report.ID, err)
	}

	now := g.Clock.Now()
	period := report.Period
	name := fmt.Sprintf("Action Plan - Week %d Day %d", period.Week, period.Day)

	planData, _ := Propagate(fd, schema, PropagateOptions{
		KeepRow: g.Condition.RowBelowThreshold,
		ComputeFields: func(src model.Row) map[string]string {
			out := map[string]string{
				"department":       src.Field("dept_name"),
				"work_description": src.Field("work"),
			}
			if pct, ok := g.Condition.Achievement(src); ok {
				out["achievement_percentage"] = strconv.FormatFloat(pct, 'f', 1, 64)
			}
			return out
		},
	})

	existing := p.FindInstance(model.KindActionPlan, report.ID, period)
	if existing == nil {
		t := p.AddTask(model.Task{
			ID:           p.AllocateTaskID(),
			Name:         name,
			Kind:         model.KindActionPlan,
			Status:       model.StatusPending,
			AssignedRole: report.AssignedRole,
			Dependencies: []int{report.ID},
			Trigger:      model.NewEventTrigger(model.EventCompletedAndCondition, report.ID),
			FormID:       form.FormActionPlan,
			FormData:     planData,
			Period:       period,
		})
		t.Touch(now)
		res.Created = append(res.Created, t.ID)
		g.notifyTask(ctx, p, t)
	} else {
		existing.Name = name
		if existing.FormData == nil || len(existing.FormData.Rows) == 0 {
			existing.FormData = planData
		}
		existing.SetStatus(model.StatusPending, now)
		res.Updated = append(res.Updated, existing.ID)
	}
	return nil
}

// MaterializeMonthly creates the next month's plan instance from a
// monthly template. The instance carries the period marker that makes
// re-invocation a no-op. Returns nil when the instance already exists.
func (g *Generator) MaterializeMonthly(ctx context.Context, p *model.Process, template *model.Task, forMonth time.Time) *model.Task {
	start := MonthStart(forMonth)
	period := model.PeriodKey{Month: MonthKey(start)}
	if p.FindInstance(model.KindMonthlyPlan, template.ID, period) != nil {
		return nil
	}

	now := g.Clock.Now()
	fd := model.NewFormData()
	fd.Set("month_start_date", start.Format(ymdLayout))

	t := p.AddTask(model.Task{
		ID:             p.AllocateTaskID(),
		Name:           fmt.Sprintf("Monthly Production Plan - %s %d", start.Month(), start.Year()),
		Kind:           model.KindMonthlyPlan,
		Status:         model.StatusPending,
		AssignedRole:   template.AssignedRole,
		AssignedUserID: template.AssignedUserID,
		Trigger:        template.Trigger,
		DueDateRule:    template.DueDateRule,
		FormID:         template.FormID,
		FormData:       fd,
		TemplateID:     template.ID,
		Period:         period,
	})
	if template.DueDateRule != nil {
		due := template.DueDateRule.DueAt(start)
		t.DueDate = &due
	}
	t.Touch(now)
	template.Touch(now)
	g.notifyTask(ctx, p, t)
	return t
}

// RefreshWeeklyData re-pushes an edited monthly plan's rows into its
// already-existing weekly children. Weekly quantities reset to empty,
// matching a fresh propagation.
func (g *Generator) RefreshWeeklyData(ctx context.Context, p *model.Process, monthly *model.Task) (int, error) {
	if monthly.FormData == nil || len(monthly.FormData.Rows) == 0 {
		return 0, nil
	}
	schema, err := g.Schemas.Get(ctx, form.FormProductionPlan)
	if err != nil {
		return 0, fmt.Errorf("refresh weekly data for task %d: %w", monthly.ID, err)
	}

	monthStart, err := g.monthStartOf(monthly)
	if err != nil {
		return 0, err
	}
	weeks := WeeksInMonth(monthStart, g.WorkingDays)

	refreshed := 0
	for i := range p.Tasks {
		weekly := &p.Tasks[i]
		if weekly.IsTemplate || weekly.Kind != model.KindWeeklyPlan || !weekly.DependsOn(monthly.ID) {
			continue
		}
		dates := weekly.FormData.Get("week_dates")
		if week, ok := WeekByNumber(weeks, weekly.Period.Week); ok {
			dates = week.DateRange()
		}
		fd, ok := Propagate(monthly.FormData, schema, PropagateOptions{
			ExcludeHeader: []string{"week_number", "week_dates"},
			SetHeader: map[string]string{
				"week_number": strconv.Itoa(weekly.Period.Week),
				"week_dates":  dates,
			},
		})
		if !ok {
			continue
		}
		weekly.FormData = fd
		refreshed++
	}
	return refreshed, nil
}

// rearmDependents flips tasks whose prerequisites just became
// satisfied back to pending. Tasks already pending or completed are
// left alone.
func (g *Generator) rearmDependents(ctx context.Context, p *model.Process, completed *model.Task, res *Result) {
	resolver := NewResolver(g.Submissions, g.Condition)
	now := g.Clock.Now()
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.IsTemplate || !t.DependsOn(completed.ID) {
			continue
		}
		if t.Status == model.StatusCompleted || t.Status == model.StatusPending {
			continue
		}
		if resolver.IsEligible(ctx, p, t) {
			t.SetStatus(model.StatusPending, now)
			res.Rearmed = append(res.Rearmed, t.ID)
		}
	}
}

func (g *Generator) monthStartOf(t *model.Task) (time.Time, error) {
	if s := t.FormData.Get("month_start_date"); s != "" {
		return ParseMonthStart(s, time.Local)
	}
	if t.Period.Month != "" {
		return ParseMonthStart(t.Period.Month+"-01", time.Local)
	}
	return time.Time{}, fmt.Errorf("%w: task %d has no month start date", ErrInvariant, t.ID)
}

func (g *Generator) notifyTask(ctx context.Context, p *model.Process, t *model.Task) {
	g.Notifier.Notify(ctx, notify.Message{
		ProcessID: p.ID,
		TaskID:    t.ID,
		TaskName:  t.Name,
		Role:      t.AssignedRole,
		DueDate:   t.DueDate,
	})
}
