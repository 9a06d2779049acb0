package keyboards

import (
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/model"
)

// Тексты кнопок меню (испанские, как их видит пациент)
const (
	BtnTurno            = "📅 Turno"
	BtnTurnoSolicitar   = "➕ Solicitar Turno"
	BtnTurnoEliminar    = "🗑️ Cancelar Turno Existente"
	BtnTurnoEditar      = "✏️ Editar Turno Existente"
	BtnTurnoDoctor      = "👨‍⚕️ ¿Con qué doctor?"
	BtnTurnoSecretaria  = "🧑‍💼 Comunicarse con Secretaría"
	BtnVolver           = "🔙 Volver al Menú Principal"
	BtnCancelarAccion   = "🚫 Cancelar Acción Actual"
	BtnConfirmarEditar  = "✅ Sí, continuar"
	BtnAbortarEditar    = "❌ No, conservar turno"
	BtnConfirmarTurno   = "✅ Confirmar cambio"
	BtnCancelarConfirma = "🚫 Cancelar"
)

// Дни, которые предлагаются пациенту при выборе даты
var DayList = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// MainMenu — главное меню бота
func MainMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: BtnTurno}},
			{{Text: BtnTurnoSecretaria}},
		},
		ResizeKeyboard: true,
	}
}

// TurnoMenu — подменю «Turno»
func TurnoMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: BtnTurnoSolicitar}},
			{{Text: BtnTurnoEliminar}, {Text: BtnTurnoEditar}},
			{{Text: BtnTurnoDoctor}, {Text: BtnTurnoSecretaria}},
			{{Text: BtnVolver}},
		},
		ResizeKeyboard: true,
	}
}

// Cancel — клавиатура только с кнопкой отмены текущего действия
func Cancel() *models.ReplyKeyboardMarkup {
	return Reply(BtnCancelarAccion)
}

// Doctors — выбор врача, по одной кнопке на врача
func Doctors(names []string) *models.ReplyKeyboardMarkup {
	return Reply(append(append([]string{}, names...), BtnCancelarAccion)...)
}

// Days — выбор дня недели
func Days() *models.ReplyKeyboardMarkup {
	return Reply(append(append([]string{}, DayList...), BtnCancelarAccion)...)
}

// TimeSlots — выбор свободного часа. Без слотов остаётся только отмена.
func TimeSlots(labels []string) *models.ReplyKeyboardMarkup {
	if len(labels) == 0 {
		return Cancel()
	}
	return Reply(append(append([]string{}, labels...), BtnCancelarAccion)...)
}

// Appointments строит inline-клавиатуру из списка турно пациента.
// В callback data идёт индекс варианта, данные события лежат в черновике.
func Appointments(prefix string, options []model.Appointment) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for i, appt := range options {
		b.Row(Button(appt.ButtonLabel(), callbackIndex(prefix, i)))
	}
	b.Row(Button(BtnCancelarAccion, prefix+"abort"))
	return b.Build()
}

// EditConfirm — подтверждение «убрать старое турно и выбрать новое?»
func EditConfirm(proceedData, abortData string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(ConfirmCancelRow(BtnConfirmarEditar, proceedData, BtnAbortarEditar, abortData)...).
		Build()
}

// FinalConfirm — последнее подтверждение переноса
func FinalConfirm(confirmData, cancelData string) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(ConfirmCancelRow(BtnConfirmarTurno, confirmData, BtnCancelarConfirma, cancelData)...).
		Build()
}

func callbackIndex(prefix string, i int) string {
	return fmt.Sprintf("%s%d", prefix, i)
}
