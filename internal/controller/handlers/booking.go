package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"github.com/jmrodev/telegram-bot/internal/schedule"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// startBooking начинает диалог запроса нового турно
func (h *Handlers) startBooking(ctx context.Context, chatID int64) {
	h.stateManager.SetState(chatID, state.StateBookingDoctor)
	h.stateManager.Update(chatID, func(d *state.Draft) { *d = state.Draft{} })

	h.send(ctx, chatID, "👨‍⚕️ ¿Con qué doctor querés el turno?",
		keyboards.Doctors(h.cfg.DoctorNames()))
}

// handleBookingDoctorStep — выбор врача. Здесь же проверяется инвариант
// "один активный турно на врача".
func (h *Handlers) handleBookingDoctorStep(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	doctor, ok := h.cfg.DoctorByName(text)
	if !ok {
		h.send(ctx, chatID, "Elegí un doctor de la lista, por favor. 👇",
			keyboards.Doctors(h.cfg.DoctorNames()))
		return
	}

	existing, err := h.appointments.ExistingAppointment(ctx, doctor, chatID)
	if err != nil {
		h.logger.Error("Failed to check existing appointment",
			zap.Int64("chat_id", chatID),
			zap.String("doctor", doctor.Name),
			zap.Error(err))
		// Сбой чтения не двигает диалог: остаёмся на выборе врача
		h.send(ctx, chatID, service.ErrorMessage(err), keyboards.Doctors(h.cfg.DoctorNames()))
		return
	}

	// Пока ходили в календарь, диалог могли отменить
	if !h.stateManager.Is(chatID, state.StateBookingDoctor) {
		return
	}

	// Диалог остаётся на выборе врача: пациент может выбрать другого
	if existing != nil {
		h.send(ctx, chatID, fmt.Sprintf(
			"⚠️ Ya tenés un turno con %s el %s.\n\n"+
				"Elegí otro doctor, o cancelá la acción y gestioná ese turno desde el menú.",
			doctor.Name, existing.DisplayTime()),
			keyboards.Doctors(h.cfg.DoctorNames()))
		return
	}

	h.stateManager.Update(chatID, func(d *state.Draft) { d.Doctor = doctor })
	h.stateManager.SetState(chatID, state.StateBookingDay)

	h.send(ctx, chatID, "📅 ¿Qué día te viene bien?", keyboards.Days())
}

// handleBookingDayStep — выбор дня и показ свободных horarios.
// День недели разрешается по часам консультория, а не сервера: возле
// полуночи они могут показывать разные даты.
func (h *Handlers) handleBookingDayStep(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	date, err := schedule.NextWeekdayDate(h.Now().In(h.cfg.Timezone), text)
	if err != nil {
		h.send(ctx, chatID, "Elegí un día de la lista, por favor. 👇", keyboards.Days())
		return
	}

	// Каноническое имя дня: пациент мог написать "miercoles" без акцента
	dayName := schedule.WeekdayName(date.Weekday())

	draft := h.stateManager.Draft(chatID)
	slots := h.availability.AvailableSlots(ctx, draft.Doctor, date)

	if !h.stateManager.Is(chatID, state.StateBookingDay) {
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
		d.Day = dayName
		d.Date = date
	})
	h.stateManager.SetState(chatID, state.StateBookingTime)

	h.send(ctx, chatID, fmt.Sprintf("🕐 Horarios libres el %s %s:", dayName, date.Format("02/01")),
		keyboards.TimeSlots(service.SlotLabels(slots)))
}

// handleBookingTimeStep — выбор часа и собственно запись
func (h *Handlers) handleBookingTimeStep(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	if _, _, err := schedule.ParseClock(text); err != nil {
		h.send(ctx, chatID, "Elegí un horario de la lista, por favor. 👇", nil)
		return
	}

	draft := h.stateManager.Draft(chatID)
	appt, fresh, err := h.appointments.Book(ctx, service.BookingRequest{
		ChatID:      chatID,
		PatientName: patientName(msg.From),
		Username:    msg.From.Username,
		Doctor:      draft.Doctor,
		Date:        draft.Date,
		TimeLabel:   text,
	})

	if errors.Is(err, service.ErrSlotTaken) {
		// Пока шла запись, диалог могли отменить
		if !h.stateManager.Is(chatID, state.StateBookingTime) {
			return
		}
		// Слот заняли, пока пациент выбирал. Показываем свежий список.
		if len(fresh) == 0 {
			h.stateManager.SetState(chatID, state.StateBookingDay)
			h.send(ctx, chatID,
				"⚠️ Ese horario se acaba de ocupar y no quedan más horarios ese día.\n\nElegí otro día:",
				keyboards.Days())
			return
		}
		h.send(ctx, chatID,
			"⚠️ Ese horario se acaba de ocupar. Estos son los que quedan:",
			keyboards.TimeSlots(service.SlotLabels(fresh)))
		return
	}
	if err != nil {
		h.stateManager.Clear(chatID)
		h.send(ctx, chatID, service.ErrorMessage(err), keyboards.MainMenu())
		return
	}

	h.stateManager.Clear(chatID)
	h.send(ctx, chatID, fmt.Sprintf(
		"✅ ¡Turno confirmado!\n\n"+
			"👨‍⚕️ %s\n📅 %s\n\n"+
			"Vas a recibir recordatorios un día antes y una hora antes.",
		appt.Doctor.Name, appt.DisplayTime()),
		keyboards.MainMenu())
}

// patientName — имя пациента для заголовка события
func patientName(from *models.User) string {
	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}
	if name == "" {
		name = from.Username
	}
	return name
}
