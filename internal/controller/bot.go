package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/controller/callbacks"
	"github.com/jmrodev/telegram-bot/internal/controller/handlers"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	cfg *config.Config,
	appointments *service.AppointmentService,
	availability *service.AvailabilityService,
	secretary handlers.SecretarySink,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики текстовых сообщений
	msgHandlers := handlers.NewHandlers(
		botInstance,
		cfg,
		appointments,
		availability,
		secretary,
		stateManager,
		logger,
	)

	// Создаём обработчик inline-кнопок
	callbackHandler := callbacks.NewHandler(
		botInstance,
		cfg,
		appointments,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        msgHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancelAction)

	// Обработчик текстовых сообщений (для диалогов с состояниями и меню)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🏠 Menú principal"},
		{Command: "help", Description: "❓ Ayuda"},
		{Command: "cancel", Description: "🚫 Cancelar la acción actual"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
