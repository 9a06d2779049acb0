package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/controller/callbacks"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// startCancel показывает будущие турно пациента для отмены
func (h *Handlers) startCancel(ctx context.Context, msg *models.Message) {
	chatID := msg.Chat.ID

	appts, err := h.appointments.PatientAppointments(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to list patient appointments",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		h.send(ctx, chatID, service.ErrorMessage(err), keyboards.TurnoMenu())
		return
	}

	if len(appts) == 0 {
		h.send(ctx, chatID, "No encontré turnos vigentes a tu nombre. 🤷", keyboards.TurnoMenu())
		return
	}

	h.stateManager.SetState(chatID, state.StateCancelSelect)
	h.stateManager.Update(chatID, func(d *state.Draft) {
		*d = state.Draft{Options: appts}
	})

	h.send(ctx, chatID, "🗑️ ¿Qué turno querés cancelar?",
		keyboards.Appointments(callbacks.CancelSelect, appts))
}
