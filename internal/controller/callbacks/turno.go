package callbacks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/model"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// selectedOption достаёт вариант по индексу из черновика, проверяя, что
// сессия всё ещё на ожидаемом шаге. Кнопки в старых сообщениях могут
// пережить диалог, к которому относились.
func (h *Handler) selectedOption(chatID int64, expected state.UserState, arg string) (model.Appointment, bool) {
	if !h.stateManager.Is(chatID, expected) {
		return model.Appointment{}, false
	}

	idx, err := strconv.Atoi(arg)
	if err != nil {
		return model.Appointment{}, false
	}

	draft := h.stateManager.Draft(chatID)
	if idx < 0 || idx >= len(draft.Options) {
		return model.Appointment{}, false
	}
	return draft.Options[idx], true
}

// handleCancelSelect — пациент выбрал турно для отмены
func (h *Handler) handleCancelSelect(ctx context.Context, callback *models.CallbackQuery, arg string) {
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	if arg == "abort" {
		h.answer(ctx, callback.ID, "")
		h.stateManager.Clear(chatID)
		h.edit(ctx, chatID, messageID, "🚫 Acción cancelada.", nil)
		return
	}

	appt, ok := h.selectedOption(chatID, state.StateCancelSelect, arg)
	if !ok {
		h.answer(ctx, callback.ID, "⚠️ Esa lista ya no está vigente.")
		return
	}
	h.answer(ctx, callback.ID, "")

	if err := h.appointments.Cancel(ctx, appt.Doctor, appt.EventID); err != nil {
		h.logger.Error("Failed to cancel appointment",
			zap.Int64("chat_id", chatID),
			zap.String("event_id", appt.EventID),
			zap.Error(err))
		h.stateManager.Clear(chatID)
		h.edit(ctx, chatID, messageID, service.ErrorMessage(err), nil)
		return
	}

	h.stateManager.Clear(chatID)
	h.edit(ctx, chatID, messageID, fmt.Sprintf(
		"✅ Turno cancelado:\n\n👨‍⚕️ %s\n📅 %s",
		appt.Doctor.Name, appt.DisplayTime()), nil)
}

// handleEditSelect — пациент выбрал турно для переноса
func (h *Handler) handleEditSelect(ctx context.Context, callback *models.CallbackQuery, arg string) {
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	if arg == "abort" {
		h.answer(ctx, callback.ID, "")
		h.stateManager.Clear(chatID)
		h.edit(ctx, chatID, messageID, "🚫 Acción cancelada.", nil)
		return
	}

	appt, ok := h.selectedOption(chatID, state.StateEditSelect, arg)
	if !ok {
		h.answer(ctx, callback.ID, "⚠️ Esa lista ya no está vigente.")
		return
	}
	h.answer(ctx, callback.ID, "")

	h.stateManager.Update(chatID, func(d *state.Draft) {
		d.Doctor = appt.Doctor
		d.EventID = appt.EventID
		d.OriginalDisplay = appt.DisplayTime()
	})
	h.stateManager.SetState(chatID, state.StateEditConfirm)

	h.edit(ctx, chatID, messageID, fmt.Sprintf(
		"⚠️ Para cambiar el turno con %s del %s, primero se elimina el actual "+
			"y después elegís el nuevo día y horario.\n\n¿Querés continuar?",
		appt.Doctor.Name, appt.DisplayTime()),
		keyboards.EditConfirm(EditProceed, EditAbort))
}

// handleEditProceed — пациент подтвердил, что хочет перенести турно
func (h *Handler) handleEditProceed(ctx context.Context, callback *models.CallbackQuery) {
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	if !h.stateManager.Is(chatID, state.StateEditConfirm) {
		h.answer(ctx, callback.ID, "⚠️ Esa confirmación ya no está vigente.")
		return
	}
	h.answer(ctx, callback.ID, "")

	h.stateManager.SetState(chatID, state.StateEditNewDay)

	h.edit(ctx, chatID, messageID, "Perfecto, busquemos el nuevo horario. 👍", nil)
	h.send(ctx, chatID, "📅 ¿Para qué día querés el nuevo turno?", keyboards.Days())
}

// handleEditAbort — пациент передумал на первом подтверждении
func (h *Handler) handleEditAbort(ctx context.Context, callback *models.CallbackQuery) {
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	h.answer(ctx, callback.ID, "")
	h.stateManager.Clear(chatID)
	h.edit(ctx, chatID, messageID, "👍 Tu turno se mantiene sin cambios.", nil)
}

// handleEditFinalize — финальное подтверждение: выполняем перенос
func (h *Handler) handleEditFinalize(ctx context.Context, callback *models.CallbackQuery) {
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	if !h.stateManager.Is(chatID, state.StateEditFinalConfirm) {
		h.answer(ctx, callback.ID, "⚠️ Esa confirmación ya no está vigente.")
		return
	}
	h.answer(ctx, callback.ID, "")

	draft := h.stateManager.Draft(chatID)
	h.stateManager.Clear(chatID)

	appt, err := h.appointments.Reschedule(ctx, service.RescheduleRequest{
		ChatID:      chatID,
		PatientName: userDisplayName(callback.From),
		Username:    callback.From.Username,
		Doctor:      draft.Doctor,
		OldEventID:  draft.EventID,
		NewDate:     draft.NewDate,
		NewTime:     draft.NewTime,
	})
	if err != nil {
		h.edit(ctx, chatID, messageID, service.ErrorMessage(err), nil)
		return
	}

	h.edit(ctx, chatID, messageID, fmt.Sprintf(
		"✅ ¡Listo! Tu turno fue cambiado:\n\n👨‍⚕️ %s\n📅 %s",
		appt.Doctor.Name, appt.DisplayTime()), nil)
}

// handleEditKeep — пациент передумал на последнем подтверждении
func (h *Handler) handleEditKeep(ctx context.Context, callback *models.CallbackQuery) {
	chatID := callback.Message.Message.Chat.ID
	messageID := callback.Message.Message.ID

	h.answer(ctx, callback.ID, "")
	h.stateManager.Clear(chatID)
	h.edit(ctx, chatID, messageID, "🚫 Cambio cancelado. Tu turno original sigue vigente.", nil)
}

func userDisplayName(from models.User) string {
	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}
	if name == "" {
		name = from.Username
	}
	return name
}
