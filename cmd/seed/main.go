package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
	"github.com/hackgods/clinic-dashboard-api/internal/config"
	"github.com/hackgods/clinic-dashboard-api/internal/db"
	"github.com/hackgods/clinic-dashboard-api/internal/logging"
)

type seedOptions struct {
	doctors        int
	patients       int
	bookingsPerDay int
	days           int
}

func main() {
	opts := seedOptions{}

	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the clinic store with fake doctors, patients and bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.IntVar(&opts.doctors, "doctors", 10, "number of doctors")
	flags.IntVar(&opts.patients, "patients", 50, "number of patients")
	flags.IntVar(&opts.bookingsPerDay, "bookings-per-day", 8, "bookings generated for each day")
	flags.IntVar(&opts.days, "days", 7, "days before and after today to cover")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runSeed(ctx context.Context, opts seedOptions) error {
	if opts.doctors < 1 || opts.patients < 1 {
		return fmt.Errorf("need at least one doctor and one patient")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel)
	logger.Info().Str("store", cfg.StoreDriver).Msg("seed starting")

	store, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	gofakeit.Seed(time.Now().UnixNano())

	calendar := clinic.NewCalendar(cfg.Location)
	now := calendar.Current()

	doctors := fakeDoctors(opts.doctors, now)
	for i := range doctors {
		if err := store.Store.InsertDoctor(ctx, &doctors[i]); err != nil {
			return fmt.Errorf("seed doctors: %w", err)
		}
	}
	logger.Info().Int("count", len(doctors)).Msg("doctors seeded")

	patients := fakePatients(opts.patients, calendar.Today())
	if err := store.Store.InsertPatients(ctx, patients); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	logger.Info().Int("count", len(patients)).Msg("patients seeded")

	total := 0
	for offset := -opts.days; offset <= opts.days; offset++ {
		day := clinic.DayOf(now.AddDate(0, 0, offset), cfg.Location)
		bookings := fakeBookings(opts.bookingsPerDay, day, doctors, patients, now)
		if err := store.Store.InsertBookings(ctx, bookings); err != nil {
			return fmt.Errorf("seed bookings for %s: %w", day.ISO(), err)
		}
		total += len(bookings)
	}
	logger.Info().Int("count", total).Int("days", 2*opts.days+1).Msg("bookings seeded")

	logger.Info().Msg("seed complete")
	return nil
}
