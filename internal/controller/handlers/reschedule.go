package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/controller/callbacks"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/schedule"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// startEdit показывает будущие турно пациента для переноса
func (h *Handlers) startEdit(ctx context.Context, msg *models.Message) {
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

	h.stateManager.SetState(chatID, state.StateEditSelect)
	h.stateManager.Update(chatID, func(d *state.Draft) {
		*d = state.Draft{Options: appts}
	})

	h.send(ctx, chatID, "✏️ ¿Qué turno querés cambiar?",
		keyboards.Appointments(callbacks.EditSelect, appts))
}

// handleEditNewDayStep — выбор нового дня при переносе
func (h *Handlers) handleEditNewDayStep(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	date, err := schedule.NextWeekdayDate(h.Now().In(h.cfg.Timezone), text)
	if err != nil {
		h.send(ctx, chatID, "Elegí un día de la lista, por favor. 👇", keyboards.Days())
		return
	}

	dayName := schedule.WeekdayName(date.Weekday())

	draft := h.stateManager.Draft(chatID)
	slots := h.availability.AvailableSlots(ctx, draft.Doctor, date)

	if !h.stateManager.Is(chatID, state.StateEditNewDay) {
		return
	}

	if len(slots) == 0 {
		h.send(ctx, chatID, fmt.Sprintf(
			"😕 No quedan horarios libres con %s el %s %s.\n\nElegí otro día:",
			draft.Doctor.Name, dayName, date.Format("02/01")),
			keyboards.Days())
		return
	}

	h.stateManager.Update(chatID, func(d *state.Draft) {
		d.NewDay = dayName
		d.NewDate = date
	})
	h.stateManager.SetState(chatID, state.StateEditNewTime)

	h.send(ctx, chatID, fmt.Sprintf("🕐 Horarios libres el %s %s:", dayName, date.Format("02/01")),
		keyboards.TimeSlots(service.SlotLabels(slots)))
}

// handleEditNewTimeStep — выбор нового часа и финальное подтверждение.
// Сам перенос выполняется только после inline-подтверждения.
func (h *Handlers) handleEditNewTimeStep(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	if _, _, err := schedule.ParseClock(text); err != nil {
		h.send(ctx, chatID, "Elegí un horario de la lista, por favor. 👇", nil)
		return
	}

	h.stateManager.Update(chatID, func(d *state.Draft) { d.NewTime = text })
	h.stateManager.SetState(chatID, state.StateEditFinalConfirm)

	draft := h.stateManager.Draft(chatID)
	summary := fmt.Sprintf(
		"Vas a cambiar tu turno con %s:\n\n"+
			"❌ Actual: %s\n"+
			"✅ Nuevo: %s %s a las %s\n\n"+
			"El turno actual se elimina primero. ¿Confirmás el cambio?",
		draft.Doctor.Name, draft.OriginalDisplay,
		draft.NewDay, draft.NewDate.Format("02/01"), text)

	h.send(ctx, chatID, summary,
		keyboards.FinalConfirm(callbacks.EditFinalize, callbacks.EditKeep))
}
