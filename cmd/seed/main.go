package main

import (
	"context"
	"os"
	"time"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/db"
	"github.com/clinic-voice/backend/internal/repositories"
	"github.com/clinic-voice/backend/internal/services"
	"go.uber.org/zap"
)

// Seed loads the default doctor and a few demo patients. Safe to re-run.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, os.DirFS(cfg.MigrationsDir), log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	seeder := services.NewSeeder(
		repositories.NewPatientRepo(pool),
		repositories.NewDoctorRepo(pool),
		repositories.NewMedicalRecordRepo(pool),
		log,
	)

	doctor, err := seeder.EnsureDoctor(ctx, cfg.DefaultDoctorName, "General Practice")
	if err != nil {
		log.Fatal("failed to seed default doctor", zap.Error(err))
	}

	if err := seeder.SeedPatients(ctx, doctor, services.DemoPatients); err != nil {
		log.Fatal("failed to seed patients", zap.Error(err))
	}

	log.Info("seed complete", zap.String("doctor", doctor.Name))
}
