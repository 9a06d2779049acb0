package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/jmrodev/telegram-bot/internal/controller/keyboards"
	"github.com/jmrodev/telegram-bot/internal/controller/state"
	"go.uber.org/zap"
)

// startSecretary начинает диалог с секретарём
func (h *Handlers) startSecretary(ctx context.Context, chatID int64) {
	h.stateManager.SetState(chatID, state.StateTalkingToSecretary)

	h.send(ctx, chatID,
		"🧑‍💼 Escribí tu mensaje para la secretaría.\n\n"+
			"Podés mandar varios mensajes seguidos; cuando termines, cancelá la acción.",
		keyboards.Cancel())
}

// handleSecretaryMessage пересылает сообщение пациента секретарю.
// Состояние не сбрасывается: пациент может писать несколько сообщений подряд.
func (h *Handlers) handleSecretaryMessage(ctx context.Context, msg *models.Message, text string) {
	chatID := msg.Chat.ID

	if err := h.secretary.RelayMessage(ctx, msg.From, text); err != nil {
		h.logger.Error("Failed to relay message to secretary",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		h.send(ctx, chatID, "⚠️ No pude enviar tu mensaje. Probá de nuevo más tarde.", keyboards.Cancel())
		return
	}

	h.send(ctx, chatID, "✅ Mensaje enviado. Podés seguir escribiendo o cancelar.", keyboards.Cancel())
}
