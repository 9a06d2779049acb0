// Package callbacks обрабатывает нажатия inline-кнопок: выбор турно
// для отмены/переноса и подтверждения.
package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// Messenger — срез Telegram API для callback-обработчиков
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Handler содержит зависимости callback-обработчиков
type Handler struct {
	tg           Messenger
	cfg          *config.Config
	appointments *service.AppointmentService
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandler создаёт обработчик inline-кнопок
func NewHandler(
	tg Messenger,
	cfg *config.Config,
	appointments *service.AppointmentService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		tg:           tg,
		cfg:          cfg,
		appointments: appointments,
		stateManager: stateManager,
		logger:       logger,
	}
}

// answer подтверждает callback, чтобы у пациента пропали "часики"
func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	if _, err := h.tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	}); err != nil {
		h.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
}

// edit заменяет текст сообщения с inline-кнопками
func (h *Handler) edit(ctx context.Context, chatID int64, messageID int, text string, markup models.ReplyMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := h.tg.EditMessageText(ctx, params); err != nil {
		h.logger.Error("Failed to edit message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
}

// send отправляет новое сообщение
func (h *Handler) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
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
