// Package notify — канал эскалации к оператору (секретарю консультория):
// сообщения пациентов, загруженные документы и алерты о неконсистентных
// переносах.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/service"
	"go.uber.org/zap"
)

// Messenger — минимальный срез Telegram API, нужный для эскалаций.
// *bot.Bot удовлетворяет интерфейсу; в тестах подставляется фейк.
type Messenger interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	ForwardMessage(ctx context.Context, params *bot.ForwardMessageParams) (*models.Message, error)
}

// Secretary отправляет эскалации в настроенный чат секретаря.
// При chatID == 0 работает в деградированном режиме: только логи.
type Secretary struct {
	tg     Messenger
	chatID int64
	logger *zap.Logger
}

func NewSecretary(tg Messenger, chatID int64, logger *zap.Logger) *Secretary {
	if chatID == 0 {
		logger.Warn("⚠️  SECRETARY_CHAT_ID not configured, escalations will only be logged")
	}
	return &Secretary{tg: tg, chatID: chatID, logger: logger}
}

// RelayMessage пересылает секретарю текст, который пациент явно
// адресовал персоналу.
func (s *Secretary) RelayMessage(ctx context.Context, from *models.User, text string) error {
	s.logger.Info("Relaying patient message to secretary",
		zap.Int64("chat_id", from.ID),
		zap.String("username", from.Username))

	if s.chatID == 0 {
		return nil
	}

	msg := fmt.Sprintf("💬 Mensaje de paciente %s %s (@%s, ID %d):\n\n%s",
		from.FirstName, from.LastName, from.Username, from.ID, text)
	_, err := s.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   msg,
	})
	if err != nil {
		return fmt.Errorf("relay message to secretary: %w", err)
	}
	return nil
}

// ForwardDocument пересылает секретарю сообщение с документом или фото,
// ожидающим ручной обработки.
func (s *Secretary) ForwardDocument(ctx context.Context, from *models.User, fromChatID int64, messageID int) error {
	s.logger.Info("Forwarding patient document to secretary",
		zap.Int64("chat_id", fromChatID),
		zap.Int("message_id", messageID))

	if s.chatID == 0 {
		return nil
	}

	if _, err := s.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   fmt.Sprintf("📎 Documento de paciente %s (@%s, ID %d) para procesar:", from.FirstName, from.Username, from.ID),
	}); err != nil {
		return fmt.Errorf("announce document to secretary: %w", err)
	}

	_, err := s.tg.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     s.chatID,
		FromChatID: fromChatID,
		MessageID:  messageID,
	})
	if err != nil {
		return fmt.Errorf("forward document to secretary: %w", err)
	}
	return nil
}

// RescheduleOrphaned — алерт об осиротевшем переносе (старое событие
// удалено, новое не создано). Пациент остался без приёма; требуется
// ручная сверка по incident ID.
func (s *Secretary) RescheduleOrphaned(ctx context.Context, alert service.OrphanAlert) {
	s.logger.Error("Escalating orphaned reschedule",
		zap.String("incident_id", alert.IncidentID),
		zap.Int64("chat_id", alert.ChatID),
		zap.String("doctor", alert.Doctor.Name))

	if s.chatID == 0 {
		return
	}

	msg := fmt.Sprintf(
		"🚨 URGENTE: reprogramación inconsistente (incidente %s)\n\n"+
			"Paciente (ID Chat %d) quedó SIN turno con %s.\n"+
			"El turno original (evento %s) fue eliminado, pero no se pudo crear el nuevo turno para %s.\n"+
			"Motivo: %s\n\n"+
			"Por favor, contactar al paciente y reagendar manualmente.",
		alert.IncidentID, alert.ChatID, alert.Doctor.Name,
		alert.OldEventID, alert.NewStart.Format("02/01/2006 15:04"), alert.Reason)

	if _, err := s.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   msg,
	}); err != nil {
		// Алерт не доставлен — лог остаётся единственным следом инцидента
		s.logger.Error("Failed to deliver orphan alert to secretary",
			zap.String("incident_id", alert.IncidentID),
			zap.Error(err))
	}
}
