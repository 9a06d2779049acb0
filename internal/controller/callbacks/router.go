package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Форматы callback data. Индекс ссылается в Draft.Options текущей сессии.
const (
	CancelSelect = "cancel_turno:" // cancel_turno:<idx> | cancel_turno:abort
	EditSelect   = "edit_select:"  // edit_select:<idx> | edit_select:abort
	EditProceed  = "edit_proceed"
	EditAbort    = "edit_abort"
	EditFinalize = "edit_finalize"
	EditKeep     = "edit_keep"
)

// HandleCallbackQuery распределяет нажатия inline-кнопок по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	callback := update.CallbackQuery
	if callback.Message.Message == nil {
		// Сообщение недоступно (слишком старое), делать нечего
		h.answer(ctx, callback.ID, "")
		return
	}

	data := callback.Data

	h.logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case strings.HasPrefix(data, CancelSelect):
		h.handleCancelSelect(ctx, callback, strings.TrimPrefix(data, CancelSelect))
	case strings.HasPrefix(data, EditSelect):
		h.handleEditSelect(ctx, callback, strings.TrimPrefix(data, EditSelect))
	case data == EditProceed:
		h.handleEditProceed(ctx, callback)
	case data == EditAbort:
		h.handleEditAbort(ctx, callback)
	case data == EditFinalize:
		h.handleEditFinalize(ctx, callback)
	case data == EditKeep:
		h.handleEditKeep(ctx, callback)
	default:
		h.logger.Warn("Unknown callback data", zap.String("data", data))
		h.answer(ctx, callback.ID, "")
	}
}
