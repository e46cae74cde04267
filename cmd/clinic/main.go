package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwalitptl/clinic-core/internal/config"
	"github.com/jwalitptl/clinic-core/internal/console"
	"github.com/jwalitptl/clinic-core/internal/repository/sqlite"
	authService "github.com/jwalitptl/clinic-core/internal/service/auth"
	billingService "github.com/jwalitptl/clinic-core/internal/service/billing"
	doctorService "github.com/jwalitptl/clinic-core/internal/service/doctor"
	medicalService "github.com/jwalitptl/clinic-core/internal/service/medical"
	patientService "github.com/jwalitptl/clinic-core/internal/service/patient"
	schedulingService "github.com/jwalitptl/clinic-core/internal/service/scheduling"
	"github.com/jwalitptl/clinic-core/pkg/logger"
	"github.com/jwalitptl/clinic-core/pkg/metrics"
	"github.com/jwalitptl/clinic-core/pkg/security"
	"github.com/jwalitptl/clinic-core/pkg/validator"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(nil).Fatal(err, "failed to load configuration")
	}

	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
	})

	m := metrics.New("clinic")

	store, err := sqlite.Open(cfg.Database.Path, m)
	if err != nil {
		log.Fatal(err, "failed to open store")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Provision(ctx); err != nil {
		log.Fatal(err, "failed to provision schema")
	}

	digester := security.NewSHA256Digester()
	usingDefault, err := store.SeedDefaultAdmin(ctx, digester.Digest(sqlite.DefaultAdminPassword))
	if err != nil {
		log.Fatal(err, "failed to seed default account")
	}
	if usingDefault {
		log.Warn("default administrator credential is in use, change it after login",
			"username", sqlite.DefaultAdminUsername)
	}

	accountRepo := sqlite.NewAccountRepository(store)
	patientRepo := sqlite.NewPatientRepository(store)
	doctorRepo := sqlite.NewDoctorRepository(store)
	appointmentRepo := sqlite.NewAppointmentRepository(store)
	billRepo := sqlite.NewBillRepository(store)
	recordRepo := sqlite.NewMedicalRecordRepository(store)

	v := validator.New()

	authSvc := authService.NewService(accountRepo, digester, v, log, m, cfg.Auth.SessionTimeout)
	patientSvc := patientService.NewService(patientRepo, v, log)
	doctorSvc := doctorService.NewService(doctorRepo, v, log)
	schedulingSvc := schedulingService.NewService(appointmentRepo, doctorRepo, patientRepo,
		v, log, m, cfg.Schedule.DefaultDurationMinutes)
	billingSvc := billingService.NewService(billRepo, patientRepo, v, log, m)
	medicalSvc := medicalService.NewService(recordRepo, patientRepo, doctorRepo, v, log)

	shell := console.NewShell(authSvc, schedulingSvc, billingSvc,
		patientSvc, doctorSvc, medicalSvc, os.Stdin, os.Stdout)

	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error(err, "shell exited")
		os.Exit(1)
	}
	log.Info("shutting down")
}
