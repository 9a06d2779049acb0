package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jmrodev/telegram-bot/internal/app"
	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/controller"
	"github.com/jmrodev/telegram-bot/internal/gcal"
	"github.com/jmrodev/telegram-bot/internal/notify"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting clinic bot",
		zap.String("environment", cfg.Environment),
		zap.Int("doctors", len(cfg.Doctors)),
		zap.String("timezone", cfg.Timezone.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cal, err := gcal.NewClient(ctx, cfg.CredentialsFile, cfg.Timezone, logger)
	if err != nil {
		logger.Fatal("Failed to init calendar client", zap.Error(err))
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	secretary := notify.NewSecretary(b, cfg.SecretaryChatID, logger)
	availability := service.NewAvailabilityService(cal, cfg, logger)
	appointments := service.NewAppointmentService(cal, availability, cfg, secretary, logger)

	botController := controller.NewBotController(b, cfg, appointments, availability, secretary, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	logger.Info("✅ Bot started, waiting for updates")
	botController.Start(ctx)
	logger.Info("Bot stopped")
}
