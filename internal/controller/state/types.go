package state

import (
	"time"

	"github.com/jmrodev/telegram-bot/internal/config"
	"github.com/jmrodev/telegram-bot/internal/model"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для запроса нового турно
	StateBookingDoctor UserState = "turno_awaiting_doctor"
	StateBookingDay    UserState = "turno_awaiting_day"
	StateBookingTime   UserState = "turno_awaiting_time"

	// Состояния для отмены турно
	StateCancelSelect UserState = "cancel_awaiting_selection"

	// Состояния для переноса турно
	StateEditSelect       UserState = "edit_awaiting_selection"
	StateEditConfirm      UserState = "edit_awaiting_confirm"
	StateEditNewDay       UserState = "edit_awaiting_new_day"
	StateEditNewTime      UserState = "edit_awaiting_new_time"
	StateEditFinalConfirm UserState = "edit_awaiting_final_confirm"

	// Диалог с секретарём
	StateTalkingToSecretary UserState = "talking_to_secretary"
)

// Draft хранит промежуточные данные текущего диалога: выбранного
// врача, дату, исходное событие при переносе и список вариантов,
// показанных пациенту inline-кнопками.
type Draft struct {
	Doctor config.Doctor
	Day    string
	Date   time.Time

	// Перенос: исходное событие и новые параметры
	EventID         string
	OriginalDisplay string
	NewDay          string
	NewDate         time.Time
	NewTime         string

	// Варианты, показанные пациенту при выборе турно для отмены/переноса.
	// Индекс в callback data ссылается сюда.
	Options []model.Appointment
}

// Session — состояние плюс черновик одного пользователя
type Session struct {
	State UserState
	Draft Draft
}
