package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_finder/internal/app"
	"github.com/Freeeeeet/slot_finder/internal/config"
	"github.com/Freeeeeet/slot_finder/internal/controller"
	"github.com/Freeeeeet/slot_finder/internal/controller/api"
	"github.com/Freeeeeet/slot_finder/internal/controller/state"
	"github.com/Freeeeeet/slot_finder/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("Starting slot finder",
		zap.String("environment", cfg.Environment),
		zap.String("events_source", cfg.EventsSource),
		zap.Duration("slot_interval", cfg.SlotInterval),
		zap.String("conflict_mode", string(cfg.ConflictMode)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := app.NewEventSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create events source", zap.Error(err))
	}
	defer closeSource()

	slotsService := service.NewAvailabilityService(source, cfg.AvailabilityOptions(), cfg.Workers, logger)

	// Сервис поднимается и без событий: снимок загрузится при первом запросе
	if _, err := slotsService.Refresh(ctx); err != nil {
		logger.Warn("⚠️ Initial events load failed", zap.Error(err))
	}

	scheduler := app.NewScheduler(slotsService, cfg.EventsRefreshInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := api.NewRouter(
		api.NewHandler(slotsService, cfg.StrictBatch, logger),
		api.RouterConfig{
			RateLimitRPS: cfg.RateLimitRPS,
			Release:      cfg.Environment == "production",
		},
		logger,
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("✅ HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	if cfg.BotEnabled() {
		go runBot(ctx, cfg, slotsService, logger)
	} else {
		logger.Info("TELEGRAM_TOKEN is empty, bot disabled")
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("👋 Stopped")
}

func runBot(ctx context.Context, cfg *config.Config, slotsService *service.AvailabilityService, logger *zap.Logger) {
	stateManager := state.NewManager(state.DefaultTTL)
	cmdHandlers := controller.NewBotHandlers(slotsService, stateManager, logger)

	botInstance, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(cmdHandlers.HandleTextMessage))
	if err != nil {
		logger.Error("Failed to create bot", zap.Error(err))
		return
	}

	botController := controller.NewBotController(botInstance, cmdHandlers, stateManager, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("⚠️ Bot commands menu not set", zap.Error(err))
	}

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}
}
