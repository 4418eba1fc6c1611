package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/SujalNimbalkar/task-management/internal/config"
	"github.com/SujalNimbalkar/task-management/internal/engine"
	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/notify"
	"github.com/SujalNimbalkar/task-management/internal/process"
	"github.com/SujalNimbalkar/task-management/internal/scheduler"
)

func main() {
	// Optional .env for local runs; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "scheduler_config.yml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = config.FromEnv(cfg)

	logger := log.Default()

	store, err := process.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("open process store: %v", err)
	}
	subs, err := form.NewFileSubmissionStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("open submission store: %v", err)
	}
	schemas := form.NewMemorySchemaStore(form.SeedSchemas()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedPath := filepath.Join(cfg.DataDir, "seed.yml")
	if _, err := os.Stat(seedPath); err == nil {
		seeded, err := process.LoadSeed(seedPath)
		if err != nil {
			log.Fatalf("load seed: %v", err)
		}
		added, err := process.Seed(ctx, store, seeded)
		if err != nil {
			log.Fatalf("seed processes: %v", err)
		}
		if added > 0 {
			logger.Printf("seeded %d processes from %s", added, seedPath)
		}
	}

	gen := engine.NewGenerator(
		schemas,
		subs,
		notify.NewLogSink(logger),
		engine.RealClock{},
		engine.NewCondition(cfg.Engine.AchievementThreshold),
		cfg.Engine.WorkingDaysPerWeek,
		logger,
	)

	svc := scheduler.New(scheduler.Options{
		Store:             store,
		Generator:         gen,
		Clock:             engine.RealClock{},
		Logger:            logger,
		TickInterval:      cfg.TickInterval(),
		MonthlyTriggerDay: cfg.Scheduler.MonthlyTriggerDay,
		RepropagateWindow: cfg.RepropagateWindow(),
		Location:          cfg.Location(),
	})

	logger.Printf("recurrence scheduler running (tick every %s)", cfg.TickInterval())
	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("scheduler stopped: %v", err)
	}
}
