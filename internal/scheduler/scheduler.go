package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/SujalNimbalkar/task-management/internal/engine"
	"github.com/SujalNimbalkar/task-management/internal/model"
	"github.com/SujalNimbalkar/task-management/internal/process"
)

// Options wires the recurrence scheduler. Everything is injected; the
// service holds no package-level state.
type Options struct {
	Store     process.Store
	Generator *engine.Generator
	Clock     engine.Clock
	Logger    *log.Logger

	TickInterval time.Duration
	// MonthlyTriggerDay overrides each template's own day-of-month
	// when > 0.
	MonthlyTriggerDay int
	// RepropagateWindow is how recently a monthly plan must have been
	// touched for its weekly children to get refreshed data.
	RepropagateWindow time.Duration
	Location          *time.Location
}

// Service periodically scans every process, re-arms recurring tasks
// whose window has elapsed, materializes monthly plan instances on
// schedule, and re-propagates recently edited monthly data.
type Service struct {
	store             process.Store
	gen               *engine.Generator
	clock             engine.Clock
	logger            *log.Logger
	tickInterval      time.Duration
	monthlyTriggerDay int
	repropagateWindow time.Duration
	loc               *time.Location

	ticking atomic.Bool
}

func New(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = engine.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Hour
	}
	if opts.RepropagateWindow <= 0 {
		opts.RepropagateWindow = 5 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{
		store:             opts.Store,
		gen:               opts.Generator,
		clock:             opts.Clock,
		logger:            opts.Logger,
		tickInterval:      opts.TickInterval,
		monthlyTriggerDay: opts.MonthlyTriggerDay,
		repropagateWindow: opts.RepropagateWindow,
		loc:               opts.Location,
	}
}

// Run ticks until the context is cancelled. The first tick fires
// immediately.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Tick(ctx); err != nil {
		s.logger.Printf("[scheduler] tick failed: %v", err)
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Printf("[scheduler] tick failed: %v", err)
			}
		}
	}
}

// Tick runs one scan over all processes. Ticks are single-flight:
// a tick that would overlap a running one is skipped. A failure in one
// process is logged and does not abort the others.
func (s *Service) Tick(ctx context.Context) error {
	if !s.ticking.CompareAndSwap(false, true) {
		s.logger.Printf("[scheduler] previous tick still running, skipping")
		return nil
	}
	defer s.ticking.Store(false)

	started := s.clock.Now()
	processes, err := s.store.LoadProcesses(ctx)
	if err != nil {
		return fmt.Errorf("load processes: %w", err)
	}

	for i := range processes {
		p := &processes[i]
		changed, err := s.tickProcess(ctx, p)
		if err != nil {
			s.logger.Printf("[scheduler] process %s: %v", p.ID, err)
			continue
		}
		if !changed {
			continue
		}
		if err := s.store.Save(ctx, *p); err != nil {
			s.logger.Printf("[scheduler] save process %s: %v", p.ID, err)
		}
	}

	s.logger.Printf("[scheduler] tick over %d processes took %s", len(processes), s.clock.Now().Sub(started))
	return nil
}

func (s *Service) tickProcess(ctx context.Context, p *model.Process) (bool, error) {
	if err := engine.ValidateGraph(p); err != nil {
		return false, err
	}

	now := s.clock.Now().In(s.loc)
	changed := false

	// Recently edited monthly plans push fresh data into their weekly
	// children, covering out-of-band edits after initial generation.
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.IsTemplate || t.Kind != model.KindMonthlyPlan || t.Status != model.StatusCompleted {
			continue
		}
		if now.Sub(t.LastUpdated) > s.repropagateWindow {
			continue
		}
		n, err := s.gen.RefreshWeeklyData(ctx, p, t)
		if err != nil {
			return changed, err
		}
		if n > 0 {
			s.logger.Printf("[scheduler] process %s: refreshed %d weekly plans from monthly task %d", p.ID, n, t.ID)
			changed = true
		}
	}

	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.Trigger.Type != model.TriggerTime || t.Trigger.Time == nil {
			continue
		}
		switch t.Trigger.Time.Recurrence {
		case model.RecurDaily:
			if !engine.SameDay(t.LastUpdated.In(s.loc), now) {
				t.SetStatus(model.StatusPending, now)
				changed = true
			}
		case model.RecurWeekly:
			if !engine.SameWeek(t.LastUpdated.In(s.loc), now) {
				t.SetStatus(model.StatusPending, now)
				changed = true
			}
		case model.RecurMonthly:
			if !t.IsTemplate {
				continue
			}
			day := t.Trigger.Time.DayOfMonth
			if s.monthlyTriggerDay > 0 {
				day = s.monthlyTriggerDay
			}
			if day == 0 || now.Day() != day {
				continue
			}
			if !timeOfDayReached(t.Trigger.Time.TimeOfDay, now) {
				continue
			}
			// Plan the coming month; children stay lazy until the
			// monthly plan is completed.
			forMonth := engine.MonthStart(now).AddDate(0, 1, 0)
			if created := s.gen.MaterializeMonthly(ctx, p, t, forMonth); created != nil {
				s.logger.Printf("[scheduler] process %s: created %q (id %d)", p.ID, created.Name, created.ID)
				changed = true
			}
		}
	}

	// Flag missed deadlines so boards and exports can surface them.
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.IsTemplate || t.DueDate == nil {
			continue
		}
		if t.Status != model.StatusPending && t.Status != model.StatusInProcess {
			continue
		}
		if now.After(*t.DueDate) {
			t.SetStatus(model.StatusOverdue, now)
			changed = true
		}
	}

	return changed, nil
}

// timeOfDayReached parses an optional "HH:MM" gate. Empty or malformed
// values do not hold the trigger back.
func timeOfDayReached(tod string, now time.Time) bool {
	if tod == "" {
		return true
	}
	at, err := time.Parse("15:04", tod)
	if err != nil {
		return true
	}
	gate := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	return !now.Before(gate)
}
