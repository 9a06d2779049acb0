package service

import "errors"

// Ошибки сервисного слоя. Каждая известная ошибка имеет своё сообщение
// для пациента; всё остальное сводится к "сервис недоступен" и уходит
// в логи для разбора оператором.
var (
	// ErrAlreadyBooked — у пациента уже есть будущий приём у этого врача.
	ErrAlreadyBooked = errors.New("patient already has an appointment with this doctor")

	// ErrSlotTaken — слот исчез между выбором и подтверждением.
	ErrSlotTaken = errors.New("slot no longer available")

	// ErrBookingFailed — запись в календарь не удалась, черновик сброшен.
	ErrBookingFailed = errors.New("booking transaction failed")

	// ErrCancelFailed — удаление события не удалось (не "не найдено").
	ErrCancelFailed = errors.New("cancellation failed")

	// ErrRescheduleAborted — не удалось удалить старое событие;
	// исходный приём считается нетронутым, ничего больше не делалось.
	ErrRescheduleAborted = errors.New("reschedule aborted, original appointment intact")

	// ErrReschedulePartial — старое событие удалено, новое создать не
	// удалось. У пациента больше нет приёма. Окно неконсистентности
	// задокументировано: эскалация к секретарю, без автоповторов.
	ErrReschedulePartial = errors.New("reschedule partially failed, appointment orphaned")
)

// ErrorMessage возвращает сообщение для пациента по известной ошибке.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyBooked):
		return "⚠️ Ya tienes un turno agendado con ese doctor."
	case errors.Is(err, ErrSlotTaken):
		return "⚠️ Ese horario acaba de ser ocupado. Por favor, elige otro."
	case errors.Is(err, ErrBookingFailed):
		return "❌ Hubo un error al agendar tu turno en el calendario. Por favor, intenta de nuevo o contacta a la secretaría."
	case errors.Is(err, ErrCancelFailed):
		return "❌ Error al cancelar el turno en el calendario. Por favor, contacta a la secretaría."
	case errors.Is(err, ErrRescheduleAborted):
		return "❌ No se pudo cancelar el turno original. Tu turno NO fue modificado. Por favor, intenta de nuevo o contacta a la secretaría."
	case errors.Is(err, ErrReschedulePartial):
		return "‼️ ¡Atención! Se canceló tu turno original, pero NO se pudo agendar el nuevo horario.\n\n" +
			"Por favor, contacta a la secretaría URGENTEMENTE para resolver esto."
	default:
		return "❌ Hubo un problema con el servicio. Por favor, intenta de nuevo más tarde."
	}
}
