package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment overrides on top of cfg.
// Unset or unparsable variables leave the value unchanged.
func FromEnv(cfg Config) Config {
	if v := getEnvInt("SCHEDULER_TICK_MINUTES"); v > 0 {
		cfg.Scheduler.TickMinutes = v
	}
	if v := getEnvInt("MONTHLY_TRIGGER_DAY"); v > 0 {
		cfg.Scheduler.MonthlyTriggerDay = v
	}
	if v := getEnvInt("REPROPAGATE_MINUTES"); v > 0 {
		cfg.Scheduler.RepropagateMinutes = v
	}
	if v := getEnvFloat("ACHIEVEMENT_THRESHOLD"); v > 0 {
		cfg.Engine.AchievementThreshold = v
	}
	if v := getEnvInt("WORKING_DAYS_PER_WEEK"); v > 0 {
		cfg.Engine.WorkingDaysPerWeek = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}
