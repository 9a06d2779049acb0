package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmrodev/telegram-bot/internal/config"
)

// PatientTag возвращает метку пациента, которая встраивается в описание
// события календаря. Календарь не имеет структурированного поля пациента,
// поэтому метка служит поисковым индексом. Формат определён ТОЛЬКО здесь:
// поиск по q= является advisory, совпадение всегда перепроверяется локально
// через HasPatientTag.
func PatientTag(chatID int64) string {
	return fmt.Sprintf("ID Chat: %d", chatID)
}

// HasPatientTag проверяет, что описание события действительно содержит
// метку пациента. Результатам поиска календаря доверять нельзя. Метка
// не должна продолжаться цифрой: "ID Chat: 11" не матчит пациента 111.
func HasPatientTag(description string, chatID int64) bool {
	tag := PatientTag(chatID)
	for idx := 0; ; {
		i := strings.Index(description[idx:], tag)
		if i < 0 {
			return false
		}
		end := idx + i + len(tag)
		if end >= len(description) || description[end] < '0' || description[end] > '9' {
			return true
		}
		idx = end
	}
}

// EventDescription формирует описание создаваемого события с меткой пациента.
func EventDescription(chatID int64, username string) string {
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf("Solicitado vía Bot Telegram.\nUsuario: @%s\n%s", username, PatientTag(chatID))
}

// EventSummary формирует заголовок события.
func EventSummary(patientName, doctorName string) string {
	if patientName == "" {
		patientName = "Paciente"
	}
	return fmt.Sprintf("Turno %s con %s", patientName, doctorName)
}

// Appointment — будущий приём пациента, как он хранится во внешнем календаре.
type Appointment struct {
	EventID  string
	Doctor   config.Doctor
	Start    time.Time
	Summary  string
	HTMLLink string
}

// DisplayTime форматирует дату/время приёма для показа пациенту.
func (a Appointment) DisplayTime() string {
	return a.Start.Format("02/01/2006 15:04")
}

// ButtonLabel — короткая подпись для inline-кнопки выбора приёма.
func (a Appointment) ButtonLabel() string {
	return fmt.Sprintf("%s — %s", a.Doctor.Name, a.Start.Format("02/01 15:04"))
}
