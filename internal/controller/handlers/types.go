package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// Messenger — срез Telegram API, который используют текстовые
// обработчики. *bot.Bot удовлетворяет интерфейсу; в тестах — фейк.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// SecretarySink — канал пересылки сообщений и документов секретарю
type SecretarySink interface {
	RelayMessage(ctx context.Context, from *models.User, text string) error
	ForwardDocument(ctx context.Context, from *models.User, fromChatID int64, messageID int) error
}

// Handlers содержит все зависимости для обработки сообщений
type Handlers struct {
	tg           Messenger
	cfg          *config.Config
	appointments *service.AppointmentService
	availability *service.AvailabilityService
	secretary    SecretarySink
	stateManager *state.Manager
	logger       *zap.Logger

	// Now подменяется в тестах.
	Now func() time.Time
}

// NewHandlers создаёт новый обработчик сообщений
func NewHandlers(
	tg Messenger,
	cfg *config.Config,
	appointments *service.AppointmentService,
	availability *service.AvailabilityService,
	secretary SecretarySink,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		tg:           tg,
		cfg:          cfg,
		appointments: appointments,
		availability: availability,
		secretary:    secretary,
		stateManager: stateManager,
		logger:       logger,
		Now:          time.Now,
	}
}

// send отправляет сообщение, логируя сбой доставки
func (h *Handlers) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := h.tg.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
