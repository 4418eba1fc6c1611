package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.TickMinutes != 60 {
		t.Errorf("TickMinutes = %d, want 60", cfg.Scheduler.TickMinutes)
	}
	if cfg.Engine.AchievementThreshold != 85 {
		t.Errorf("AchievementThreshold = %v, want 85", cfg.Engine.AchievementThreshold)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
}

func TestLoadPartialFileFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	contents := `scheduler:
  tick_minutes: 15
  monthly_trigger_day: 28
engine:
  achievement_threshold: 90
timezone: Asia/Kolkata
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.TickMinutes != 15 {
		t.Errorf("TickMinutes = %d, want 15", cfg.Scheduler.TickMinutes)
	}
	if cfg.Scheduler.MonthlyTriggerDay != 28 {
		t.Errorf("MonthlyTriggerDay = %d, want 28", cfg.Scheduler.MonthlyTriggerDay)
	}
	if cfg.Engine.AchievementThreshold != 90 {
		t.Errorf("AchievementThreshold = %v, want 90", cfg.Engine.AchievementThreshold)
	}
	// Unset fields fall back to defaults.
	if cfg.Engine.WorkingDaysPerWeek != 6 {
		t.Errorf("WorkingDaysPerWeek = %d, want default 6", cfg.Engine.WorkingDaysPerWeek)
	}
	if cfg.Scheduler.RepropagateMinutes != 5 {
		t.Errorf("RepropagateMinutes = %d, want default 5", cfg.Scheduler.RepropagateMinutes)
	}

	if got := cfg.TickInterval(); got != 15*time.Minute {
		t.Errorf("TickInterval = %v, want 15m", got)
	}
	if loc := cfg.Location(); loc.String() != "Asia/Kolkata" {
		t.Errorf("Location = %v, want Asia/Kolkata", loc)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	if err := os.WriteFile(path, []byte("scheduler: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed yaml")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SCHEDULER_TICK_MINUTES", "30")
	t.Setenv("ACHIEVEMENT_THRESHOLD", "80.5")
	t.Setenv("DATA_DIR", "/var/lib/planner")
	t.Setenv("WORKING_DAYS_PER_WEEK", "not-a-number")

	cfg := FromEnv(Default())
	if cfg.Scheduler.TickMinutes != 30 {
		t.Errorf("TickMinutes = %d, want 30", cfg.Scheduler.TickMinutes)
	}
	if cfg.Engine.AchievementThreshold != 80.5 {
		t.Errorf("AchievementThreshold = %v, want 80.5", cfg.Engine.AchievementThreshold)
	}
	if cfg.DataDir != "/var/lib/planner" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Engine.WorkingDaysPerWeek != 6 {
		t.Errorf("unparsable override changed WorkingDaysPerWeek to %d", cfg.Engine.WorkingDaysPerWeek)
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Not/AZone"
	if got := cfg.Location(); got != time.Local {
		t.Errorf("Location = %v, want time.Local", got)
	}
}
