package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/app"
	"github.com/Freeeeeet/slot_finder/internal/config"
	"github.com/Freeeeeet/slot_finder/internal/controller/render"
	"github.com/Freeeeeet/slot_finder/internal/model"
	"github.com/Freeeeeet/slot_finder/internal/repository"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: load config:", err)
		os.Exit(1)
	}

	// Логи в stderr, stdout занят результатом
	logger := app.NewLogger(cfg.Environment, cfg.LogLevel, "stderr")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// run читает расписания и события, считает слоты и пишет JSON в stdout.
// Флаги переопределяют пути из конфигурации.
func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, logger *zap.Logger) error {
	flags := flag.NewFlagSet("slots", flag.ContinueOnError)
	input := flags.String("input", cfg.InputFile, "JSON file with schedules")
	events := flags.String("events", "", "JSON file with events (overrides EVENTS_SOURCE)")
	ics := flags.String("ics", "", "iCalendar file with events (overrides EVENTS_SOURCE)")
	strict := flags.Bool("strict", cfg.StrictBatch, "fail on any malformed schedule")
	image := flags.String("image", "", "write PNG with slots of the first schedule")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	switch {
	case *events != "":
		cfg.EventsSource = config.EventsSourceFile
		cfg.EventsFile = *events
	case *ics != "":
		cfg.EventsSource = config.EventsSourceICS
		cfg.ICSFile = *ics
	}

	schedules, err := repository.NewFileScheduleRepository(*input).LoadSchedules(ctx)
	if err != nil {
		return err
	}

	source, closeSource, err := app.NewEventSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	slotsService := service.NewAvailabilityService(source, cfg.AvailabilityOptions(), cfg.Workers, logger)

	results, err := slotsService.Evaluate(ctx, schedules)
	if err != nil {
		return err
	}

	if *strict {
		if err := service.BatchError(results); err != nil {
			return err
		}
	}

	if *image != "" {
		if err := writeImage(*image, results); err != nil {
			return err
		}
		logger.Info("Image written", zap.String("path", *image))
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func writeImage(path string, results []model.ScheduleResult) error {
	if len(results) == 0 || results[0].Err != nil {
		return errors.New("first schedule has no slots to render")
	}

	data, err := render.GenerateAvailabilityImage(results[0].Slots)
	if err != nil {
		return fmt.Errorf("render image: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
