package engine

import (
	"testing"
	"time"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

func TestWeeksInMonth_ThirtyOneDays(t *testing.T) {
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	weeks := WeeksInMonth(july, 6)

	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks for a 31-day month, got %d", len(weeks))
	}
	want := []struct{ start, end int }{
		{1, 7}, {8, 14}, {15, 21}, {22, 28}, {29, 31},
	}
	for i, w := range want {
		if weeks[i].StartDay != w.start || weeks[i].EndDay != w.end {
			t.Fatalf("week %d: expected %d-%d, got %d-%d", i+1, w.start, w.end, weeks[i].StartDay, weeks[i].EndDay)
		}
	}
	if weeks[0].WorkingDays != 6 {
		t.Fatalf("expected full week capped at 6 working days, got %d", weeks[0].WorkingDays)
	}
	if weeks[4].WorkingDays != 3 {
		t.Fatalf("expected 3 working days in the 29-31 tail, got %d", weeks[4].WorkingDays)
	}
}

func TestWeeksInMonth_TwentyEightDays(t *testing.T) {
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)
	weeks := WeeksInMonth(feb, 6)

	if len(weeks) != 4 {
		t.Fatalf("expected exactly 4 weeks for a 28-day month, got %d", len(weeks))
	}
	for i, w := range weeks {
		if w.EndDay-w.StartDay != 6 {
			t.Fatalf("week %d is not a full 7-day block: %d-%d", i+1, w.StartDay, w.EndDay)
		}
	}
}

func TestWeeksInMonth_ThirtyDays(t *testing.T) {
	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	weeks := WeeksInMonth(june, 6)

	if len(weeks) != 5 {
		t.Fatalf("expected ceil(30/7)=5 weeks, got %d", len(weeks))
	}
	last := weeks[4]
	if last.StartDay != 29 || last.EndDay != 30 || last.WorkingDays != 2 {
		t.Fatalf("unexpected final week: %+v", last)
	}
}

func TestSameWeek_MondayAnchored(t *testing.T) {
	// 2025-07-07 is a Monday, 2025-07-13 the following Sunday.
	monday := time.Date(2025, 7, 7, 9, 0, 0, 0, time.Local)
	sunday := time.Date(2025, 7, 13, 23, 0, 0, 0, time.Local)
	nextMonday := time.Date(2025, 7, 14, 0, 30, 0, 0, time.Local)

	if !SameWeek(monday, sunday) {
		t.Fatalf("expected Monday and the following Sunday to share a week")
	}
	if SameWeek(sunday, nextMonday) {
		t.Fatalf("expected Sunday and the next Monday to be in different weeks")
	}
}

func TestDueRule_EndOfMonthMinusDays(t *testing.T) {
	rule := model.DueRule{Type: model.DueEndOfMonthMinusDays, Days: 3}
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	due := rule.DueAt(start)

	if due.Day() != 28 || due.Month() != time.July {
		t.Fatalf("expected due on July 28, got %s", due)
	}
	if due.Hour() != 13 || due.Minute() != 45 {
		t.Fatalf("expected 13:45 deadline, got %02d:%02d", due.Hour(), due.Minute())
	}
}
