package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scheduler Scheduler `yaml:"scheduler" json:"scheduler"`
	Engine    Engine    `yaml:"engine" json:"engine"`
	DataDir   string    `yaml:"data_dir" json:"data_dir"`
	Timezone  string    `yaml:"timezone" json:"timezone"`
}

type Scheduler struct {
	// TickMinutes is the cadence of the recurrence scan.
	TickMinutes int `yaml:"tick_minutes" json:"tick_minutes"`
	// MonthlyTriggerDay overrides the template's day-of-month when > 0.
	MonthlyTriggerDay int `yaml:"monthly_trigger_day" json:"monthly_trigger_day"`
	// RepropagateMinutes is the trailing window in which an edited
	// monthly plan gets re-pushed into its weekly children.
	RepropagateMinutes int `yaml:"repropagate_minutes" json:"repropagate_minutes"`
}

type Engine struct {
	// AchievementThreshold is the percentage below which a production
	// report spawns an action plan.
	AchievementThreshold float64 `yaml:"achievement_threshold" json:"achievement_threshold"`
	// WorkingDaysPerWeek caps how many daily plans a week produces.
	WorkingDaysPerWeek int `yaml:"working_days_per_week" json:"working_days_per_week"`
}

func Default() Config {
	return Config{
		Scheduler: Scheduler{
			TickMinutes:        60,
			MonthlyTriggerDay:  0,
			RepropagateMinutes: 5,
		},
		Engine: Engine{
			AchievementThreshold: 85,
			WorkingDaysPerWeek:   6,
		},
		DataDir:  "data",
		Timezone: "Local",
	}
}

// Load reads a yaml config file, filling gaps from Default. A missing
// file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	d := Default()
	if c.Scheduler.TickMinutes <= 0 {
		c.Scheduler.TickMinutes = d.Scheduler.TickMinutes
	}
	if c.Scheduler.RepropagateMinutes <= 0 {
		c.Scheduler.RepropagateMinutes = d.Scheduler.RepropagateMinutes
	}
	if c.Engine.AchievementThreshold <= 0 {
		c.Engine.AchievementThreshold = d.Engine.AchievementThreshold
	}
	if c.Engine.WorkingDaysPerWeek <= 0 {
		c.Engine.WorkingDaysPerWeek = d.Engine.WorkingDaysPerWeek
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
}

// TickInterval returns the scan cadence as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Scheduler.TickMinutes) * time.Minute
}

// RepropagateWindow returns the monthly-edit trailing window.
func (c Config) RepropagateWindow() time.Duration {
	return time.Duration(c.Scheduler.RepropagateMinutes) * time.Minute
}

// Location resolves the configured timezone, falling back to local time.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
